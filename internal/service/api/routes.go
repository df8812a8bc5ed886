package api

import (
	"github.com/labstack/echo/v4"
)

// setupRoutes registers all endpoints. The trigger endpoints are app-key
// protected; the system endpoints are open for probes.
func setupRoutes(e *echo.Echo, h *handler, auth *authenticator) {
	e.GET("/healthz", h.healthz)
	e.GET("/version", h.version)

	v1 := e.Group("/api/v1", auth.requireAppKey)
	v1.POST("/sync", h.triggerSync)
	v1.POST("/sync/:siteID", h.triggerSiteSync)
}
