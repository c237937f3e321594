package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ericrr237-labz/IVY/internal/core/domain"
	"github.com/ericrr237-labz/IVY/internal/core/ports"
)

const bcryptCost = 12

// dummyHash is a well-formed bcrypt hash compared against when the email is
// unknown, so a failed lookup costs the same as a failed password match.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// TokenRevoker abstracts the refresh-token denylist (Redis).
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthService implements signup, login, refresh, org switching, and logout.
type AuthService struct {
	users       ports.UserRepository
	orgs        ports.OrgRepository
	tokens      ports.TokenService
	revoked     TokenRevoker
	allowSignup bool
	log         zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	orgs ports.OrgRepository,
	tokens ports.TokenService,
	revoked TokenRevoker,
	allowSignup bool,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		orgs:        orgs,
		tokens:      tokens,
		revoked:     revoked,
		allowSignup: allowSignup,
		log:         log,
	}
}

// Signup creates a user, their first org, and an owner membership, then
// returns a token pair bound to the new org. Rejected outright when public
// signup is administratively disabled.
func (s *AuthService) Signup(ctx context.Context, input ports.SignupInput) (*ports.AuthResult, error) {
	if !s.allowSignup {
		return nil, domain.ErrSignupDisabled
	}
	return s.createAccount(ctx, input)
}

// ProvisionUser is the admin-only signup variant; the public-signup flag does
// not apply.
func (s *AuthService) ProvisionUser(ctx context.Context, input ports.SignupInput) (*ports.AuthResult, error) {
	return s.createAccount(ctx, input)
}

func (s *AuthService) createAccount(ctx context.Context, input ports.SignupInput) (*ports.AuthResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" || input.OrgName == "" {
		return nil, domain.ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	org, err := s.orgs.CreateOrg(ctx, &domain.Org{
		Name:      strings.TrimSpace(input.OrgName),
		OwnerID:   user.ID,
		Plan:      "free",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.orgs.CreateMembership(ctx, &domain.Membership{
		UserID:    user.ID,
		OrgID:     org.ID,
		Role:      domain.RoleOwner,
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	pair, err := s.issuePair(user.ID, org.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("org_id", org.ID).Msg("account created")

	return &ports.AuthResult{
		User:        user,
		Org:         org,
		ActiveOrgID: org.ID,
		Tokens:      pair,
	}, nil
}

// Login verifies credentials and returns a token pair. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*ports.AuthResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, domain.ErrMissingFields
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Burn a comparison so the miss costs the same as a bad password.
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(input.Password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	memberships, err := s.orgs.ListMembershipsByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, domain.ErrNoMembership
	}

	active := selectActiveOrg(memberships, input.OrgID)

	pair, err := s.issuePair(user.ID, active)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("org_id", active).Msg("login")

	return &ports.AuthResult{
		User:        user,
		ActiveOrgID: active,
		Tokens:      pair,
	}, nil
}

// Refresh verifies the refresh token and mints a new access token bound to
// the user's earliest membership's org. Revoked tokens are rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", err
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		// Denylist unreachable: fail open so a Redis outage does not log
		// every user out, but make the event visible.
		s.log.Warn().Err(err).Msg("revocation check failed, accepting token")
	} else if revoked {
		return "", domain.ErrTokenRevoked
	}

	memberships, err := s.orgs.ListMembershipsByUser(ctx, claims.UserID)
	if err != nil {
		return "", err
	}
	if len(memberships) == 0 {
		return "", domain.ErrNoMembership
	}

	return s.tokens.IssueAccess(claims.UserID, memberships[0].OrgID)
}

// SwitchOrg reissues an access token bound to orgID for a user who is already
// a member of it.
func (s *AuthService) SwitchOrg(ctx context.Context, userID, orgID string) (string, error) {
	if orgID == "" {
		return "", domain.ErrMissingFields
	}

	member, err := s.orgs.IsMember(ctx, userID, orgID)
	if err != nil {
		return "", err
	}
	if !member {
		return "", domain.ErrNotAMember
	}

	return s.tokens.IssueAccess(userID, orgID)
}

// Logout denylists the refresh token until its natural expiry. Access tokens
// already in flight keep working until they expire.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return err
	}

	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return err
	}

	s.log.Info().Str("user_id", claims.UserID).Msg("refresh token revoked")
	return nil
}

func (s *AuthService) issuePair(userID, orgID string) (ports.TokenPair, error) {
	access, err := s.tokens.IssueAccess(userID, orgID)
	if err != nil {
		return ports.TokenPair{}, err
	}
	refresh, err := s.tokens.IssueRefresh(userID)
	if err != nil {
		return ports.TokenPair{}, err
	}
	return ports.TokenPair{Access: access, Refresh: refresh}, nil
}

// selectActiveOrg picks the requested org when the user is a member of it,
// otherwise the earliest-created membership's org.
func selectActiveOrg(memberships []domain.Membership, requested string) string {
	if requested != "" {
		for _, m := range memberships {
			if m.OrgID == requested {
				return requested
			}
		}
	}
	return memberships[0].OrgID
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
