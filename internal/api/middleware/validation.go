package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"resume-tailor/pkg/models"
	"resume-tailor/pkg/utils"
)

// RequestIDKey is the echo context key holding the request ID
const RequestIDKey = "request_id"

// RequestValidation assigns a request ID and rejects oversized bodies
func RequestValidation(maxBodyBytes int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = utils.GenerateRequestID()
			}
			c.Set(RequestIDKey, requestID)
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			if maxBodyBytes > 0 && c.Request().Method == http.MethodPost {
				if c.Request().ContentLength > maxBodyBytes {
					return c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
						Error:     "request_too_large",
						Message:   "Request body too large",
						RequestID: requestID,
						Timestamp: time.Now(),
					})
				}
				c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, maxBodyBytes)
			}

			return next(c)
		}
	}
}
