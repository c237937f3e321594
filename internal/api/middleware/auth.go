package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ericrr237-labz/IVY/internal/core/domain"
	"github.com/ericrr237-labz/IVY/internal/core/ports"
)

// Context keys populated by Auth and read by handlers via ctx helpers.
const (
	CtxUserID       = "user_id"
	CtxActiveOrgID  = "active_org_id"
	CtxIsSuperAdmin = "is_super_admin"
)

// AccessVerifier is the slice of the token service the middleware needs.
type AccessVerifier interface {
	VerifyAccess(token string) (*ports.AccessClaims, error)
}

// Auth validates the bearer token and attaches the normalized principal to
// the request context. Every protected route passes through here; a token
// whose user is gone or whose org membership no longer holds is rejected
// before any handler runs.
func Auth(verifier AccessVerifier, users ports.UserRepository, orgs ports.OrgRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := verifier.VerifyAccess(parts[1])
			if err != nil {
				return err
			}

			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return domain.ErrTokenInvalid
				}
				return err
			}

			// The org claim must still resolve to a current membership.
			member, err := orgs.IsMember(c.Request().Context(), user.ID, claims.OrgID)
			if err != nil {
				return err
			}
			if !member {
				return domain.ErrTokenInvalid
			}

			c.Set(CtxUserID, user.ID)
			c.Set(CtxActiveOrgID, claims.OrgID)
			c.Set(CtxIsSuperAdmin, user.IsSuperAdmin)

			return next(c)
		}
	}
}
