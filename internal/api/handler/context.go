package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ericrr237-labz/IVY/internal/api/middleware"
)

// ctxPrincipal extracts the identity injected by the Auth middleware and
// performs a fast-fail check before any service call: every protected
// operation must resolve to exactly one (user, active org) pair.
func ctxPrincipal(c echo.Context) (userID, orgID string, err error) {
	userID, _ = c.Get(middleware.CtxUserID).(string)
	orgID, _ = c.Get(middleware.CtxActiveOrgID).(string)
	if userID == "" || orgID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, orgID, nil
}
