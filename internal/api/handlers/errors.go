package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"resume-tailor/internal/api/middleware"
	"resume-tailor/internal/logging"
	"resume-tailor/pkg/models"
	"resume-tailor/pkg/utils"
)

// requestID returns the ID assigned by the request middleware
func requestID(c echo.Context) string {
	if id, ok := c.Get(middleware.RequestIDKey).(string); ok && id != "" {
		return id
	}
	id := utils.GenerateRequestID()
	c.Set(middleware.RequestIDKey, id)
	return id
}

// bindError maps a body read failure. A body cut off by the size cap is a 413.
func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return utils.NewRequestTooLargeError(tooLarge.Limit)
	}
	return utils.NewInvalidInputError("Invalid request body: " + err.Error())
}

// respondError writes err as an ErrorResponse with the status it carries
func respondError(c echo.Context, err error) error {
	id := requestID(c)
	status := utils.HTTPStatus(err)

	fields := map[string]interface{}{
		"request_id": id,
		"path":       c.Path(),
		"status":     status,
		"error":      err.Error(),
	}
	if status >= 500 {
		logging.GetGlobalLogger().Error("Request failed", fields)
	} else {
		logging.GetGlobalLogger().Warn("Request rejected", fields)
	}

	return c.JSON(status, models.ErrorResponse{
		Error:     utils.ErrorCategory(err),
		Message:   err.Error(),
		RequestID: id,
		Timestamp: time.Now(),
	})
}
