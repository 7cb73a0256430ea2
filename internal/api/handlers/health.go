package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"resume-tailor/internal/llm"
	"resume-tailor/internal/logging"
	"resume-tailor/internal/pipeline"
	"resume-tailor/pkg/models"
)

// Version is reported by the health endpoints
const Version = "1.0.0"

var startTime = time.Now()

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	logging.GetGlobalLogger().Debug("Health check requested", map[string]interface{}{"request_id": requestID(c)})

	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	}

	return c.JSON(http.StatusOK, response)
}

// ReadinessHandler reports ready once the generator has credentials and the history backend answers
func ReadinessHandler(llmManager *llm.Manager, svc *pipeline.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		logging.GetGlobalLogger().Debug("Readiness check requested", map[string]interface{}{"request_id": requestID(c)})

		status := http.StatusOK
		response := models.HealthResponse{
			Status:    "ready",
			Timestamp: time.Now(),
			Version:   Version,
			Uptime:    time.Since(startTime),
			Checks: map[string]string{
				"api":     "ok",
				"llm":     "ok",
				"history": "ok",
			},
		}

		if !llmManager.IsHealthy() {
			status = http.StatusServiceUnavailable
			response.Status = "not_ready"
			response.Checks["llm"] = "unavailable"
		}

		if err := svc.Store().Ping(c.Request().Context()); err != nil {
			logging.GetGlobalLogger().Warn("History backend unavailable", map[string]interface{}{
				"request_id": requestID(c),
				"backend":    svc.Store().Backend(),
				"error":      err.Error(),
			})
			status = http.StatusServiceUnavailable
			response.Status = "not_ready"
			response.Checks["history"] = "unavailable"
		}

		return c.JSON(status, response)
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	logging.GetGlobalLogger().Debug("Liveness check requested", map[string]interface{}{"request_id": requestID(c)})

	response := models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    time.Since(startTime),
	}

	return c.JSON(http.StatusOK, response)
}

// StatusHandler provides detailed service status
func StatusHandler(llmManager *llm.Manager, svc *pipeline.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		logging.GetGlobalLogger().Debug("Status check requested", map[string]interface{}{"request_id": requestID(c)})

		llmStatus := "operational"
		if !llmManager.IsHealthy() {
			llmStatus = "unavailable"
		}
		exportStatus := "disabled"
		if svc.ExportEnabled() {
			exportStatus = "enabled"
		}

		response := models.HealthResponse{
			Status:    "operational",
			Timestamp: time.Now(),
			Version:   Version,
			Uptime:    time.Since(startTime),
			Checks: map[string]string{
				"api":          "operational",
				"llm":          llmStatus,
				"llm_provider": llmManager.GetProviderName(),
				"history":      svc.Store().Backend(),
				"export":       exportStatus,
			},
		}

		return c.JSON(http.StatusOK, response)
	}
}
