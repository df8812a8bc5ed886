package api

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	applog "github.com/smykkeguiden/feedsync/pkg/log"
)

// Log component names of the API service.
const (
	componentService      = "api.service"
	componentHTTP         = "api.http"
	componentErrorHandler = "api.error_handler"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
}

func newHTTPError(code int, message string) error {
	return echo.NewHTTPError(code, ErrorResponse{ResultCode: code, Message: message})
}

func newBadRequestError(message string) error {
	return newHTTPError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) error {
	return newHTTPError(http.StatusUnauthorized, message)
}

func newNotFoundError(message string) error {
	return newHTTPError(http.StatusNotFound, message)
}

func newConflictError(message string) error {
	return newHTTPError(http.StatusConflict, message)
}

func newInternalServerError(message string) error {
	return newHTTPError(http.StatusInternalServerError, message)
}

// errorHandler converts every error into the standard ErrorResponse shape
// and logs it with request context.
func errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "an internal server error occurred"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			message = m
		case ErrorResponse:
			message = m.Message
		}
	}

	if code == http.StatusNotFound && message == http.StatusText(http.StatusNotFound) {
		message = "the requested resource was not found"
	}

	fields := applog.Fields{
		"path":        c.Request().URL.Path,
		"method":      c.Request().Method,
		"status_code": code,
		"error":       err,
		"remote_ip":   c.RealIP(),
		"request_id":  c.Response().Header().Get(echo.HeaderXRequestID),
	}
	if code >= http.StatusInternalServerError {
		applog.WithComponentAndFields(componentErrorHandler, fields).Error("request ended in a server error")
	} else if code >= http.StatusBadRequest {
		applog.WithComponentAndFields(componentErrorHandler, fields).Warn("request rejected")
	}

	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, ErrorResponse{ResultCode: code, Message: message})
}

// sanitizeURI strips the app_key query value out of logged URIs.
func sanitizeURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	q := u.Query()
	if q.Has(appKeyQueryParam) {
		q.Set(appKeyQueryParam, "****")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
