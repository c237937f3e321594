package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ericrr237-labz/IVY/internal/core/domain"
	"github.com/ericrr237-labz/IVY/internal/core/ports"
)

// TokenService issues and verifies HS256-signed access and refresh tokens.
// The two token kinds use independent secrets so either can be rotated
// without invalidating the other.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssueAccess signs a short-lived token bound to (userID, orgID).
func (s *TokenService) IssueAccess(userID, orgID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"user_id": userID,
		"org_id":  orgID,
		"jti":     uuid.NewString(),
		"iat":     now.Unix(),
		"exp":     now.Add(s.accessTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.accessSecret)
}

// IssueRefresh signs a long-lived token bound to userID only.
func (s *TokenService) IssueRefresh(userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"user_id": userID,
		"jti":     uuid.NewString(),
		"iat":     now.Unix(),
		"exp":     now.Add(s.refreshTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.refreshSecret)
}

// VerifyAccess checks signature and expiry and returns the decoded claims.
func (s *TokenService) VerifyAccess(token string) (*ports.AccessClaims, error) {
	claims, err := s.parse(token, s.accessSecret)
	if err != nil {
		return nil, err
	}
	userID, _ := claims["user_id"].(string)
	orgID, _ := claims["org_id"].(string)
	jti, _ := claims["jti"].(string)
	if userID == "" || orgID == "" {
		return nil, domain.ErrTokenInvalid
	}
	return &ports.AccessClaims{UserID: userID, OrgID: orgID, TokenID: jti}, nil
}

// VerifyRefresh checks signature and expiry and returns the decoded claims.
func (s *TokenService) VerifyRefresh(token string) (*ports.RefreshClaims, error) {
	claims, err := s.parse(token, s.refreshSecret)
	if err != nil {
		return nil, err
	}
	userID, _ := claims["user_id"].(string)
	jti, _ := claims["jti"].(string)
	if userID == "" {
		return nil, domain.ErrTokenInvalid
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, domain.ErrTokenInvalid
	}
	return &ports.RefreshClaims{UserID: userID, TokenID: jti, ExpiresAt: exp.Time}, nil
}

func (s *TokenService) parse(token string, secret []byte) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
