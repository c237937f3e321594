package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ericrr237-labz/IVY/internal/core/domain"
	"github.com/ericrr237-labz/IVY/internal/core/ports"
)

type stubVerifier struct {
	claims *ports.AccessClaims
	err    error
}

func (s *stubVerifier) VerifyAccess(string) (*ports.AccessClaims, error) {
	return s.claims, s.err
}

type stubUserRepo struct {
	user *domain.User
	err  error
}

func (s *stubUserRepo) Create(context.Context, *domain.User) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUserRepo) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUserRepo) FindByID(context.Context, string) (*domain.User, error) {
	return s.user, s.err
}

type stubOrgRepo struct {
	member bool
	err    error
}

func (s *stubOrgRepo) CreateOrg(context.Context, *domain.Org) (*domain.Org, error) {
	return nil, errors.New("not implemented")
}

func (s *stubOrgRepo) FindOrgByID(context.Context, string) (*domain.Org, error) {
	return nil, errors.New("not implemented")
}

func (s *stubOrgRepo) CreateMembership(context.Context, *domain.Membership) (*domain.Membership, error) {
	return nil, errors.New("not implemented")
}

func (s *stubOrgRepo) ListMembershipsByUser(context.Context, string) ([]domain.Membership, error) {
	return nil, errors.New("not implemented")
}

func (s *stubOrgRepo) IsMember(context.Context, string, string) (bool, error) {
	return s.member, s.err
}

func newAuthContext(t *testing.T, header string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	verifier := &stubVerifier{claims: &ports.AccessClaims{UserID: "u1", OrgID: "o1", TokenID: "jti1"}}
	users := &stubUserRepo{user: &domain.User{ID: "u1", Email: "alice@example.com", IsSuperAdmin: true}}
	orgs := &stubOrgRepo{member: true}

	c, rec := newAuthContext(t, "Bearer token")

	called := false
	handler := Auth(verifier, users, orgs)(func(c echo.Context) error {
		called = true
		if c.Get(CtxUserID) != "u1" {
			t.Fatalf("user id not set")
		}
		if c.Get(CtxActiveOrgID) != "o1" {
			t.Fatalf("active org id not set")
		}
		if c.Get(CtxIsSuperAdmin) != true {
			t.Fatalf("superadmin flag not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	c, _ := newAuthContext(t, "")

	handler := Auth(&stubVerifier{}, &stubUserRepo{}, &stubOrgRepo{})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 http error, got %v", err)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	c, _ := newAuthContext(t, "Token abc")

	handler := Auth(&stubVerifier{}, &stubUserRepo{}, &stubOrgRepo{})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 http error, got %v", err)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	verifier := &stubVerifier{err: domain.ErrTokenInvalid}
	c, _ := newAuthContext(t, "Bearer not-a-token")

	handler := Auth(verifier, &stubUserRepo{}, &stubOrgRepo{})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	verifier := &stubVerifier{err: domain.ErrTokenExpired}
	c, _ := newAuthContext(t, "Bearer expired")

	handler := Auth(verifier, &stubUserRepo{}, &stubOrgRepo{})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestAuthMiddleware_UserGone(t *testing.T) {
	verifier := &stubVerifier{claims: &ports.AccessClaims{UserID: "ghost", OrgID: "o1"}}
	users := &stubUserRepo{err: domain.ErrUserNotFound}
	c, _ := newAuthContext(t, "Bearer token")

	handler := Auth(verifier, users, &stubOrgRepo{})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAuthMiddleware_UserGoneWrappedError(t *testing.T) {
	verifier := &stubVerifier{claims: &ports.AccessClaims{UserID: "ghost", OrgID: "o1"}}
	users := &stubUserRepo{err: fmt.Errorf("find user by id: %w", domain.ErrUserNotFound)}
	c, _ := newAuthContext(t, "Bearer token")

	handler := Auth(verifier, users, &stubOrgRepo{})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAuthMiddleware_StaleMembership(t *testing.T) {
	verifier := &stubVerifier{claims: &ports.AccessClaims{UserID: "u1", OrgID: "o1"}}
	users := &stubUserRepo{user: &domain.User{ID: "u1"}}
	orgs := &stubOrgRepo{member: false}
	c, _ := newAuthContext(t, "Bearer token")

	handler := Auth(verifier, users, orgs)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
