package handler

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/deppfellow/user-api/internal/middleware"
	"github.com/deppfellow/user-api/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthHandler exposes a "system" endpoint that monitors and load
// balancers use to verify the service is alive and the database reachable.
type HealthHandler struct {
	Handler
}

// NewHealthHandler constructs a HealthHandler with access to shared app dependencies.
func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth returns system health status and dependency checks.
//
// It returns:
// - 200 OK if all checks pass
// - 503 Service Unavailable if any check fails
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      make(map[string]interface{}),
	}

	checks := response["checks"].(map[string]interface{})
	isHealthy := true

	healthCfg := h.server.Config.Observability.HealthChecks
	if healthCfg.Enabled && slices.Contains(healthCfg.Checks, "database") {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthCfg.Timeout)
		defer cancel()

		dbStart := time.Now()

		if err := h.pingDatabase(ctx); err != nil {
			checks["database"] = map[string]interface{}{
				"status":        "unhealthy",
				"response_time": time.Since(dbStart).String(),
				"error":         err.Error(),
			}

			isHealthy = false

			logger.Error().
				Err(err).
				Dur("response_time", time.Since(dbStart)).
				Msg("database health check failed")

			h.recordHealthCheckError("database", "database_unhealthy", map[string]interface{}{
				"response_time_ms": time.Since(dbStart).Milliseconds(),
				"error_message":    err.Error(),
			})
		} else {
			checks["database"] = map[string]interface{}{
				"status":        "healthy",
				"response_time": time.Since(dbStart).String(),
			}

			logger.Debug().
				Dur("response_time", time.Since(dbStart)).
				Msg("database health check passed")
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) pingDatabase(ctx context.Context) error {
	if h.server.DB == nil || h.server.DB.Pool == nil {
		return fmt.Errorf("database not configured")
	}
	return h.server.DB.Pool.Ping(ctx)
}

// recordHealthCheckError records a New Relic custom event if enabled.
func (h *HealthHandler) recordHealthCheckError(checkType, errorType string, attrs map[string]interface{}) {
	if h.server.LoggerService == nil || h.server.LoggerService.GetApplication() == nil {
		return
	}

	event := map[string]interface{}{
		"check_type": checkType,
		"operation":  "health_check",
		"error_type": errorType,
	}
	for k, v := range attrs {
		event[k] = v
	}

	h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", event)
}
