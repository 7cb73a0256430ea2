package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"resume-tailor/internal/api/handlers"
	"resume-tailor/internal/api/middleware"
	"resume-tailor/internal/config"
	"resume-tailor/internal/llm"
	"resume-tailor/internal/pipeline"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, llmManager *llm.Manager, svc *pipeline.Service) {
	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestValidation(cfg.Server.MaxBodyBytes))
	e.Use(middleware.RequestLogger())
	// Generation and PDF export get the tailoring timeout, everything else the read timeout
	e.Use(middleware.SelectiveTimeoutConfig(cfg.Server.ReadTimeout, cfg.Server.TailorTimeout))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(llmManager, svc))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler(llmManager, svc))

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		jobPosting := v1.Group("/job-posting")
		{
			jobPosting.POST("/fetch", handlers.FetchJobPostingHandler(svc))
			jobPosting.POST("/extract", handlers.ExtractDocumentHandler(svc, "job_posting"))
		}

		resume := v1.Group("/resume")
		{
			resume.POST("/extract", handlers.ExtractDocumentHandler(svc, "resume"))
			resume.POST("/tailor", handlers.TailorResumeHandler(svc))
		}

		v1.POST("/sources/acquire", handlers.AcquireSourceHandler(svc))

		history := v1.Group("/history")
		{
			history.GET("", handlers.ListHistoryHandler(svc))
			history.DELETE("", handlers.ClearHistoryHandler(svc))
			history.GET("/:id/pdf", handlers.ExportHistoryPDFHandler(svc))
		}
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "Resume Tailor",
			"version": handlers.Version,
			"status":  "running",
		})
	})
}
