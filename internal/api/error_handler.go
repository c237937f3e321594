package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ericrr237-labz/IVY/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Error is
// a stable machine-readable code; Detail is advisory text clients must not
// parse.
type errorResponse struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their status codes and stable error codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent envelope: {"ok": false, "error": "<code>", "detail": "..."}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, code, detail := resolveError(err, log, c)
		_ = c.JSON(status, errorResponse{Error: code, Detail: detail})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (status int, code, detail string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, statusCode(he.Code), fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors carry deterministic codes.
	switch {
	case errors.Is(err, domain.ErrMissingFields):
		return http.StatusBadRequest, "missing_fields", err.Error()
	case errors.Is(err, domain.ErrEmailExists):
		return http.StatusConflict, "duplicate_email", err.Error()
	case errors.Is(err, domain.ErrMembershipExists):
		return http.StatusConflict, "duplicate_membership", err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", err.Error()
	case errors.Is(err, domain.ErrNoMembership):
		return http.StatusForbidden, "no_membership", err.Error()
	case errors.Is(err, domain.ErrNotAMember):
		return http.StatusForbidden, "not_a_member", err.Error()
	case errors.Is(err, domain.ErrSignupDisabled):
		return http.StatusForbidden, "signup_disabled", err.Error()
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, "token_expired", err.Error()
	case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenRevoked):
		return http.StatusUnauthorized, "token_invalid", err.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		// Never reveal whether an account exists.
		return http.StatusUnauthorized, "invalid_credentials", "invalid credentials"
	case errors.Is(err, domain.ErrRecordNotFound), errors.Is(err, domain.ErrOrgNotFound):
		return http.StatusNotFound, "not_found", err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal_error", "internal server error"
}

// statusCode converts an HTTP status from echo's own errors into a stable
// envelope code.
func statusCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusTooManyRequests:
		return "rate_limited"
	default:
		if status >= 500 {
			return "internal_error"
		}
		return "bad_request"
	}
}
