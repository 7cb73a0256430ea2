package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"resume-tailor/internal/logging"
	"resume-tailor/internal/pipeline"
	"resume-tailor/pkg/models"
	"resume-tailor/pkg/utils"
)

// TailorResumeHandler handles POST /api/v1/resume/tailor. The run is synchronous
// and the result is recorded in history before responding.
func TailorResumeHandler(svc *pipeline.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := requestID(c)
		logger := logging.GetGlobalLogger()
		start := time.Now()

		var req models.TailorRequest
		if err := c.Bind(&req); err != nil {
			return respondError(c, bindError(err))
		}
		if err := requestValidator.Struct(&req); err != nil {
			return respondError(c, utils.NewValidationError(err.Error()))
		}

		logger.Info("Processing resume tailoring request", map[string]interface{}{
			"request_id":     id,
			"resume_length":  len(req.ResumeText),
			"posting_length": len(req.JobPosting),
			"structured":     req.Experience != nil,
		})

		result, err := svc.Tailor(c.Request().Context(), req)
		if err != nil {
			return respondError(c, err)
		}

		logger.Info("Resume tailoring completed", map[string]interface{}{
			"request_id": id,
			"result_id":  result.ID,
			"duration":   utils.FormatDuration(time.Since(start)),
		})

		return c.JSON(http.StatusOK, models.TailorResponse{
			Success:        true,
			TailoredResume: result.HTML,
			Result:         result,
			ProcessingTime: time.Since(start),
			RequestID:      id,
		})
	}
}
