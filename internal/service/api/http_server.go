package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	applog "github.com/smykkeguiden/feedsync/pkg/log"
)

// HTTP server timeouts. Trigger requests run a whole sync synchronously, so
// the write timeout must cover the run budget with headroom.
const (
	defaultReadTimeout       = 10 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultWriteTimeout      = 10 * time.Minute
	defaultIdleTimeout       = 90 * time.Second

	defaultRateLimitPerSecond = 5
)

// newHTTPServer creates the echo instance with the middleware chain. Routes
// are registered separately.
func newHTTPServer(debug bool) *echo.Echo {
	e := echo.New()

	e.Debug = debug
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = defaultReadTimeout
	e.Server.ReadHeaderTimeout = defaultReadHeaderTimeout
	e.Server.WriteTimeout = defaultWriteTimeout
	e.Server.IdleTimeout = defaultIdleTimeout

	e.Logger = echoLogger{Logger: applog.StandardLogger()}
	e.HTTPErrorHandler = errorHandler

	// Recover first so a panicking handler or middleware never kills the
	// server, rate limiting before logging keeps a flood out of the logs.
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(defaultRateLimitPerSecond)))
	e.Use(requestLogger())

	return e
}

// requestLogger logs every request through the application logger.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURI:       true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := applog.WithComponentAndFields(componentHTTP, applog.Fields{
				"method":     v.Method,
				"uri":        sanitizeURI(v.URI),
				"status":     v.Status,
				"remote_ip":  v.RemoteIP,
				"latency_ms": v.Latency.Milliseconds(),
				"request_id": v.RequestID,
			})
			if v.Status >= http.StatusInternalServerError {
				entry.Error("request failed")
			} else if v.Status >= http.StatusBadRequest {
				entry.Warn("request rejected")
			} else {
				entry.Info("request handled")
			}
			return nil
		},
	})
}
