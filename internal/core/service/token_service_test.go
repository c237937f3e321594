package service

import (
	"testing"
	"time"

	"github.com/ericrr237-labz/IVY/internal/core/domain"
)

func TestTokenService_AccessRoundTrip(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour)

	token, err := svc.IssueAccess("u1", "org1")
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}

	claims, err := svc.VerifyAccess(token)
	if err != nil {
		t.Fatalf("VerifyAccess returned error: %v", err)
	}
	if claims.UserID != "u1" || claims.OrgID != "org1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.TokenID == "" {
		t.Fatalf("expected a token id")
	}
}

func TestTokenService_RefreshRoundTrip(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour)

	token, err := svc.IssueRefresh("u1")
	if err != nil {
		t.Fatalf("IssueRefresh returned error: %v", err)
	}

	claims, err := svc.VerifyRefresh(token)
	if err != nil {
		t.Fatalf("VerifyRefresh returned error: %v", err)
	}
	if claims.UserID != "u1" {
		t.Fatalf("unexpected user id: %s", claims.UserID)
	}
	if !claims.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", claims.ExpiresAt)
	}
}

func TestTokenService_DistinctSecrets(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour)

	access, err := svc.IssueAccess("u1", "org1")
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}

	// An access token must never pass refresh verification.
	if _, err := svc.VerifyRefresh(access); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := &TokenService{
		accessSecret:  []byte("access-secret"),
		refreshSecret: []byte("refresh-secret"),
		accessTTL:     -time.Minute,
		refreshTTL:    -time.Minute,
	}

	access, err := svc.IssueAccess("u1", "org1")
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}
	if _, err := svc.VerifyAccess(access); err != domain.ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}

	refresh, err := svc.IssueRefresh("u1")
	if err != nil {
		t.Fatalf("IssueRefresh returned error: %v", err)
	}
	if _, err := svc.VerifyRefresh(refresh); err != domain.ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_ExpiryBoundary(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for a real token to expire")
	}

	// exp has one-second granularity, so a 2s TTL verifies while fresh and
	// is reliably rejected after 3s.
	svc := &TokenService{
		accessSecret:  []byte("access-secret"),
		refreshSecret: []byte("refresh-secret"),
		accessTTL:     2 * time.Second,
		refreshTTL:    2 * time.Second,
	}

	token, err := svc.IssueAccess("u1", "org1")
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}

	if _, err := svc.VerifyAccess(token); err != nil {
		t.Fatalf("token must verify before expiry, got %v", err)
	}

	time.Sleep(3 * time.Second)

	if _, err := svc.VerifyAccess(token); err != domain.ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired after the boundary, got %v", err)
	}
}

func TestTokenService_Tampered(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour)

	token, err := svc.IssueAccess("u1", "org1")
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}

	if _, err := svc.VerifyAccess(token + "x"); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := svc.VerifyAccess("not-a-token"); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
