package domain

import "errors"

// Sentinel errors shared across services and repositories. The API layer maps
// each to a status code and a stable machine-readable error code.
var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrEmailExists        = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrOrgNotFound        = errors.New("org not found")
	ErrMembershipExists   = errors.New("membership already exists")
	ErrNoMembership       = errors.New("user has no org memberships")
	ErrNotAMember         = errors.New("not a member of that org")
	ErrSignupDisabled     = errors.New("public signup is disabled")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrRecordNotFound     = errors.New("record not found")
)
