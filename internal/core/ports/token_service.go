package ports

import "time"

// AccessClaims is the verified payload of an access token.
type AccessClaims struct {
	UserID  string
	OrgID   string
	TokenID string
}

// RefreshClaims is the verified payload of a refresh token. ExpiresAt lets a
// revocation entry expire together with the token it blocks.
type RefreshClaims struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}

// TokenService issues and verifies signed bearer tokens. Access and refresh
// tokens are signed with independent secrets so either can be rotated alone.
// Verification checks signature and expiry only; there is no session table.
type TokenService interface {
	IssueAccess(userID, orgID string) (string, error)
	IssueRefresh(userID string) (string, error)
	VerifyAccess(token string) (*AccessClaims, error)
	VerifyRefresh(token string) (*RefreshClaims, error)
}
