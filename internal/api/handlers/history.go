package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"resume-tailor/internal/logging"
	"resume-tailor/internal/pipeline"
	"resume-tailor/pkg/models"
)

// ListHistoryHandler handles GET /api/v1/history
func ListHistoryHandler(svc *pipeline.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := svc.History(c.Request().Context())
		return c.JSON(http.StatusOK, models.HistoryResponse{
			Success:   true,
			History:   log,
			Count:     len(log),
			RequestID: requestID(c),
		})
	}
}

// ClearHistoryHandler handles DELETE /api/v1/history
func ClearHistoryHandler(svc *pipeline.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := requestID(c)

		log, err := svc.ClearHistory(c.Request().Context())
		if err != nil {
			return respondError(c, err)
		}

		logging.GetGlobalLogger().Info("History cleared by request", map[string]interface{}{"request_id": id})
		return c.JSON(http.StatusOK, models.HistoryResponse{
			Success:   true,
			History:   log,
			Count:     0,
			RequestID: id,
		})
	}
}

// ExportHistoryPDFHandler handles GET /api/v1/history/:id/pdf
func ExportHistoryPDFHandler(svc *pipeline.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		data, filename, err := svc.ExportPDF(c.Request().Context(), c.Param("id"))
		if err != nil {
			return respondError(c, err)
		}

		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
		return c.Blob(http.StatusOK, "application/pdf", data)
	}
}
