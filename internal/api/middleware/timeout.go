package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// SelectiveTimeoutConfig gives generation and export routes the long timeout
func SelectiveTimeoutConfig(defaultTimeout, longTimeout time.Duration) echo.MiddlewareFunc {
	short := middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{Timeout: defaultTimeout})
	long := middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{Timeout: longTimeout})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		shortNext := short(next)
		longNext := long(next)
		return func(c echo.Context) error {
			if isLongRunning(c.Request()) {
				return longNext(c)
			}
			return shortNext(c)
		}
	}
}

func isLongRunning(r *http.Request) bool {
	path := r.URL.Path
	return strings.HasSuffix(path, "/resume/tailor") || strings.HasSuffix(path, "/pdf")
}
