package router

import (
	"github.com/deppfellow/user-api/internal/handler"
	"github.com/deppfellow/user-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerSystemRoutes registers endpoints that are not part of the API
// itself. The documents and docs UI are not served in production.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	// Health status endpoint (used by Kubernetes/monitors).
	r.GET("/status", h.Health.CheckHealth)

	r.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.Metrics, promhttp.HandlerOpts{})))

	if s.Config.Observability.IsProduction() {
		return
	}

	r.GET("/swagger/:version/swagger.json", h.OpenAPI.ServeJSON)
	r.GET("/swagger/:version/swagger.yaml", h.OpenAPI.ServeYAML)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
