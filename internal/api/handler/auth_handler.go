package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ericrr237-labz/IVY/internal/api/metrics"
	"github.com/ericrr237-labz/IVY/internal/core/domain"
	"github.com/ericrr237-labz/IVY/internal/core/ports"
)

// AuthHandler exposes the auth gateway over HTTP.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup creates a user with their first org and returns a token pair.
//
// @Summary      Sign up a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      200   {object}  signupResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrMissingFields, err)
	}

	res, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		OrgName:  req.OrgName,
	})
	if err != nil {
		metrics.SignupsTotal.WithLabelValues("failed").Inc()
		return err
	}
	metrics.SignupsTotal.WithLabelValues("ok").Inc()

	return c.JSON(http.StatusOK, signupResponse{
		OK:     true,
		User:   toUserResponse(res.User),
		Org:    orgResponse{ID: res.Org.ID, Name: res.Org.Name},
		Tokens: tokensResponse{Access: res.Tokens.Access, Refresh: res.Tokens.Refresh},
	})
}

// ProvisionUser is the superadmin variant of Signup, not subject to the
// public-signup flag.
//
// @Summary      Provision an account (superadmin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      signupRequest  true  "Account details"
// @Success      200   {object}  signupResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /admin/users [post]
func (h *AuthHandler) ProvisionUser(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrMissingFields, err)
	}

	res, err := h.authService.ProvisionUser(c.Request().Context(), ports.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		OrgName:  req.OrgName,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, signupResponse{
		OK:     true,
		User:   toUserResponse(res.User),
		Org:    orgResponse{ID: res.Org.ID, Name: res.Org.Name},
		Tokens: tokensResponse{Access: res.Tokens.Access, Refresh: res.Tokens.Refresh},
	})
}

// Login authenticates a user and returns a token pair.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials, optionally a preferred org"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrMissingFields, err)
	}

	res, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		OrgID:    req.OrgID,
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("ok").Inc()

	return c.JSON(http.StatusOK, loginResponse{
		OK:          true,
		User:        toUserResponse(res.User),
		ActiveOrgID: res.ActiveOrgID,
		Tokens:      tokensResponse{Access: res.Tokens.Access, Refresh: res.Tokens.Refresh},
	})
}

// Refresh mints a new access token from a refresh token.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  refreshResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrMissingFields, err)
	}

	access, err := h.authService.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("failed").Inc()
		return err
	}
	metrics.TokenRefreshesTotal.WithLabelValues("ok").Inc()

	return c.JSON(http.StatusOK, refreshResponse{
		OK:     true,
		Tokens: tokensResponse{Access: access},
	})
}

// SwitchOrg reissues the access token bound to another org the caller
// belongs to. The refresh token is untouched.
//
// @Summary      Switch the active org
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      switchOrgRequest  true  "Target org"
// @Success      200   {object}  switchOrgResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /auth/switch-org [post]
func (h *AuthHandler) SwitchOrg(c echo.Context) error {
	userID, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req switchOrgRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrMissingFields, err)
	}

	access, err := h.authService.SwitchOrg(c.Request().Context(), userID, req.OrgID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, switchOrgResponse{
		OK:          true,
		ActiveOrgID: req.OrgID,
		Access:      access,
	})
}

// Logout revokes the refresh token. Access tokens in flight keep working
// until they expire.
//
// @Summary      Log out
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token to revoke"
// @Success      200   {object}  okResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrMissingFields, err)
	}

	if err := h.authService.Logout(c.Request().Context(), req.Refresh); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, okResponse{OK: true})
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		IsSuperAdmin: u.IsSuperAdmin,
	}
}
