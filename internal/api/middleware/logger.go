package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"resume-tailor/internal/logging"
)

// RequestLogger logs one line per request through the global logger
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			requestID, _ := c.Get(RequestIDKey).(string)
			logging.GetGlobalLogger().Info("HTTP request", map[string]interface{}{
				"request_id": requestID,
				"method":     c.Request().Method,
				"path":       c.Path(),
				"status":     c.Response().Status,
				"latency":    time.Since(start).String(),
				"remote_ip":  c.RealIP(),
			})
			return nil
		}
	}
}
