package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/smykkeguiden/feedsync/internal/pkg/errors"
	syncsvc "github.com/smykkeguiden/feedsync/internal/service/sync"
)

// SyncRunner triggers synchronization runs. Satisfied by *sync.Service.
type SyncRunner interface {
	TriggerRun(ctx context.Context) (syncsvc.RunReport, error)
	TriggerSite(ctx context.Context, siteID string) (syncsvc.RunReport, error)
}

// BuildInfo identifies the running binary in the version endpoint.
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
}

// handler serves the trigger and system endpoints.
type handler struct {
	runner    SyncRunner
	buildInfo BuildInfo
}

func newHandler(runner SyncRunner, buildInfo BuildInfo) *handler {
	if runner == nil {
		panic("api: sync runner is required")
	}
	return &handler{runner: runner, buildInfo: buildInfo}
}

// triggerSync runs a full synchronization of every enabled site and returns
// the run report. The request blocks until the run finishes; callers that
// a sync was already in flight get 409.
func (h *handler) triggerSync(c echo.Context) error {
	report, err := h.runner.TriggerRun(c.Request().Context())
	if err != nil {
		return mapRunError(err)
	}
	return c.JSON(http.StatusOK, report)
}

// triggerSiteSync runs a synchronization of a single enabled site.
func (h *handler) triggerSiteSync(c echo.Context) error {
	siteID := c.Param("siteID")
	if siteID == "" {
		return newBadRequestError("a site id is required")
	}

	report, err := h.runner.TriggerSite(c.Request().Context(), siteID)
	if err != nil {
		return mapRunError(err)
	}
	return c.JSON(http.StatusOK, report)
}

// mapRunError translates run trigger failures into HTTP errors.
func mapRunError(err error) error {
	switch {
	case apperrors.Is(err, apperrors.Conflict):
		return newConflictError(err.Error())
	case apperrors.Is(err, apperrors.NotFound):
		return newNotFoundError(err.Error())
	case apperrors.Is(err, apperrors.InvalidInput):
		return newBadRequestError(err.Error())
	default:
		return newInternalServerError(err.Error())
	}
}

// healthz answers liveness probes.
func (h *handler) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// version reports the build information baked in at link time.
func (h *handler) version(c echo.Context) error {
	return c.JSON(http.StatusOK, h.buildInfo)
}
