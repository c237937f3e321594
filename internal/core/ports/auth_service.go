package ports

import (
	"context"

	"github.com/ericrr237-labz/IVY/internal/core/domain"
)

// SignupInput carries everything needed to provision an account with its
// first org.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	OrgName  string
}

// LoginInput carries login credentials. OrgID optionally requests the active
// org; when absent, or the user is not a member of it, the earliest
// membership wins.
type LoginInput struct {
	Email    string
	Password string
	OrgID    string
}

// TokenPair bundles an access token with the refresh token that can renew it.
type TokenPair struct {
	Access  string
	Refresh string
}

// AuthResult is returned by Signup, ProvisionUser, and Login.
type AuthResult struct {
	User        *domain.User
	Org         *domain.Org // set on signup/provision only
	ActiveOrgID string
	Tokens      TokenPair
}

// AuthService orchestrates signup, login, token refresh, and org switching.
type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*AuthResult, error)
	// ProvisionUser is the admin-only variant of Signup: same account creation
	// flow, but not subject to the public-signup flag.
	ProvisionUser(ctx context.Context, input SignupInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	// Refresh mints a new access token bound to the user's earliest
	// membership's org. The previously active org is not preserved.
	Refresh(ctx context.Context, refreshToken string) (string, error)
	// SwitchOrg reissues an access token bound to orgID. The caller must
	// already be a member of orgID. The refresh token is untouched.
	SwitchOrg(ctx context.Context, userID, orgID string) (string, error)
	// Logout revokes the refresh token until its natural expiry.
	Logout(ctx context.Context, refreshToken string) error
}
