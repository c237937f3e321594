package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SuperAdmin gates admin-only routes. It must run after Auth.
func SuperAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			isSuper, _ := c.Get(CtxIsSuperAdmin).(bool)
			if !isSuper {
				return echo.NewHTTPError(http.StatusForbidden, "superadmin required")
			}
			return next(c)
		}
	}
}
