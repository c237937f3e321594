package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ericrr237-labz/IVY/internal/core/domain"
	"github.com/ericrr237-labz/IVY/internal/core/ports"
)

type stubUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
	seq     int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[string]*domain.User),
	}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.byEmail[user.Email]; exists {
		return nil, domain.ErrEmailExists
	}
	r.seq++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("u%d", r.seq)
	r.byEmail[created.Email] = cloneUser(created)
	r.byID[created.ID] = cloneUser(created)
	return cloneUser(created), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.byID[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

type stubOrgRepo struct {
	orgs        map[string]*domain.Org
	memberships []domain.Membership
	seq         int
}

func newStubOrgRepo() *stubOrgRepo {
	return &stubOrgRepo{orgs: make(map[string]*domain.Org)}
}

func (r *stubOrgRepo) CreateOrg(_ context.Context, org *domain.Org) (*domain.Org, error) {
	r.seq++
	created := *org
	created.ID = fmt.Sprintf("org%d", r.seq)
	r.orgs[created.ID] = &created
	clone := created
	return &clone, nil
}

func (r *stubOrgRepo) FindOrgByID(_ context.Context, id string) (*domain.Org, error) {
	if o, ok := r.orgs[id]; ok {
		clone := *o
		return &clone, nil
	}
	return nil, domain.ErrOrgNotFound
}

func (r *stubOrgRepo) CreateMembership(_ context.Context, m *domain.Membership) (*domain.Membership, error) {
	for _, existing := range r.memberships {
		if existing.UserID == m.UserID && existing.OrgID == m.OrgID {
			return nil, domain.ErrMembershipExists
		}
	}
	created := *m
	created.ID = fmt.Sprintf("m%d", len(r.memberships)+1)
	r.memberships = append(r.memberships, created)
	clone := created
	return &clone, nil
}

func (r *stubOrgRepo) ListMembershipsByUser(_ context.Context, userID string) ([]domain.Membership, error) {
	var out []domain.Membership
	for _, m := range r.memberships {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubOrgRepo) IsMember(_ context.Context, userID, orgID string) (bool, error) {
	for _, m := range r.memberships {
		if m.UserID == userID && m.OrgID == orgID {
			return true, nil
		}
	}
	return false, nil
}

type stubRevoker struct {
	revoked map[string]bool
	err     error
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]bool)}
}

func (r *stubRevoker) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	if r.err != nil {
		return r.err
	}
	r.revoked[tokenID] = true
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	return r.revoked[tokenID], nil
}

type authFixture struct {
	users   *stubUserRepo
	orgs    *stubOrgRepo
	tokens  *TokenService
	revoker *stubRevoker
	svc     *AuthService
}

func newAuthFixture(allowSignup bool) *authFixture {
	users := newStubUserRepo()
	orgs := newStubOrgRepo()
	tokens := NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour)
	revoker := newStubRevoker()
	svc := NewAuthService(users, orgs, tokens, revoker, allowSignup, zerolog.Nop())
	return &authFixture{users: users, orgs: orgs, tokens: tokens, revoker: revoker, svc: svc}
}

func TestAuthService_Signup_Success(t *testing.T) {
	f := newAuthFixture(true)

	res, err := f.svc.Signup(context.Background(), ports.SignupInput{
		Name:     "Alice",
		Email:    "Alice@X.com ",
		Password: "pw123456",
		OrgName:  "Alice Co",
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if res.User.Email != "alice@x.com" {
		t.Fatalf("expected normalized email, got %q", res.User.Email)
	}
	if res.Org == nil || res.Org.OwnerID != res.User.ID {
		t.Fatalf("expected org owned by new user, got %+v", res.Org)
	}
	if res.ActiveOrgID != res.Org.ID {
		t.Fatalf("active org %q does not match created org %q", res.ActiveOrgID, res.Org.ID)
	}

	memberships, _ := f.orgs.ListMembershipsByUser(context.Background(), res.User.ID)
	if len(memberships) != 1 || memberships[0].Role != domain.RoleOwner {
		t.Fatalf("expected exactly one owner membership, got %+v", memberships)
	}

	claims, err := f.tokens.VerifyAccess(res.Tokens.Access)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims.UserID != res.User.ID || claims.OrgID != res.Org.ID {
		t.Fatalf("access token bound to wrong identity: %+v", claims)
	}
	if _, err := f.tokens.VerifyRefresh(res.Tokens.Refresh); err != nil {
		t.Fatalf("refresh token invalid: %v", err)
	}
}

func TestAuthService_Signup_Disabled(t *testing.T) {
	f := newAuthFixture(false)

	_, err := f.svc.Signup(context.Background(), ports.SignupInput{
		Name: "Bob", Email: "bob@x.com", Password: "pw", OrgName: "Bob Co",
	})
	if err != domain.ErrSignupDisabled {
		t.Fatalf("expected ErrSignupDisabled, got %v", err)
	}
}

func TestAuthService_Signup_MissingFields(t *testing.T) {
	f := newAuthFixture(true)

	if _, err := f.svc.Signup(context.Background(), ports.SignupInput{Email: "a@x.com"}); err != domain.ErrMissingFields {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(true)

	if _, err := f.svc.Signup(context.Background(), ports.SignupInput{
		Name: "Alice", Email: "alice@x.com", Password: "pw123456", OrgName: "Alice Co",
	}); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	_, err := f.svc.Signup(context.Background(), ports.SignupInput{
		Name: "Mallory", Email: "ALICE@x.com", Password: "other", OrgName: "Mallory Co",
	})
	if err != domain.ErrEmailExists {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	// The rejected signup must leave no orphan org or membership rows.
	if len(f.orgs.orgs) != 1 || len(f.orgs.memberships) != 1 {
		t.Fatalf("duplicate signup leaked rows: %d orgs, %d memberships",
			len(f.orgs.orgs), len(f.orgs.memberships))
	}
}

func TestAuthService_ProvisionUser_IgnoresSignupFlag(t *testing.T) {
	f := newAuthFixture(false)

	res, err := f.svc.ProvisionUser(context.Background(), ports.SignupInput{
		Name: "Carol", Email: "carol@x.com", Password: "pw123456", OrgName: "Carol Co",
	})
	if err != nil {
		t.Fatalf("ProvisionUser returned error: %v", err)
	}
	if res.Org == nil {
		t.Fatalf("expected org in result")
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(true)

	signup, err := f.svc.Signup(context.Background(), ports.SignupInput{
		Name: "Alice", Email: "alice@x.com", Password: "pw123456", OrgName: "Alice Co",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	res, err := f.svc.Login(context.Background(), ports.LoginInput{
		Email: "alice@x.com", Password: "pw123456",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.ActiveOrgID != signup.Org.ID {
		t.Fatalf("expected active org %q, got %q", signup.Org.ID, res.ActiveOrgID)
	}

	claims, err := f.tokens.VerifyAccess(res.Tokens.Access)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims.OrgID != signup.Org.ID {
		t.Fatalf("token bound to wrong org: %s", claims.OrgID)
	}
}

func TestAuthService_Login_NonEnumerating(t *testing.T) {
	f := newAuthFixture(true)

	if _, err := f.svc.Signup(context.Background(), ports.SignupInput{
		Name: "Dave", Email: "dave@x.com", Password: "goodpass", OrgName: "Dave Co",
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	_, wrongPass := f.svc.Login(context.Background(), ports.LoginInput{Email: "dave@x.com", Password: "badpass"})
	_, unknown := f.svc.Login(context.Background(), ports.LoginInput{Email: "ghost@x.com", Password: "whatever"})

	if wrongPass != domain.ErrInvalidCredentials {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if unknown != wrongPass {
		t.Fatalf("unknown email must be indistinguishable from wrong password, got %v vs %v", unknown, wrongPass)
	}
}

// wrappingUserRepo decorates the stub the way a store layer would, wrapping
// sentinel errors with context instead of returning them bare.
type wrappingUserRepo struct {
	*stubUserRepo
}

func (r *wrappingUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := r.stubUserRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func TestAuthService_Login_WrappedNotFound(t *testing.T) {
	f := newAuthFixture(true)
	svc := NewAuthService(&wrappingUserRepo{f.users}, f.orgs, f.tokens, f.revoker, true, zerolog.Nop())

	_, err := svc.Login(context.Background(), ports.LoginInput{Email: "ghost@x.com", Password: "whatever"})
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("wrapped not-found must still read as invalid credentials, got %v", err)
	}
}

func TestAuthService_Login_NoMembership(t *testing.T) {
	f := newAuthFixture(true)

	// A user provisioned without any membership cannot log in.
	hash := mustHash(t, "pw123456")
	if _, err := f.users.Create(context.Background(), &domain.User{
		Email: "orphan@x.com", Name: "Orphan", PasswordHash: hash,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	_, err := f.svc.Login(context.Background(), ports.LoginInput{Email: "orphan@x.com", Password: "pw123456"})
	if err != domain.ErrNoMembership {
		t.Fatalf("expected ErrNoMembership, got %v", err)
	}
}

func TestAuthService_Login_OrgFallback(t *testing.T) {
	f := newAuthFixture(true)

	signup, err := f.svc.Signup(context.Background(), ports.SignupInput{
		Name: "Alice", Email: "alice@x.com", Password: "pw123456", OrgName: "Alice Co",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	// Requesting an org the user does not belong to falls back to the first
	// membership, not an error.
	res, err := f.svc.Login(context.Background(), ports.LoginInput{
		Email: "alice@x.com", Password: "pw123456", OrgID: "someone-elses-org",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.ActiveOrgID != signup.Org.ID {
		t.Fatalf("expected fallback to %q, got %q", signup.Org.ID, res.ActiveOrgID)
	}
}

func TestAuthService_Login_RequestedOrg(t *testing.T) {
	f := newAuthFixture(true)

	signup, err := f.svc.Signup(context.Background(), ports.SignupInput{
		Name: "Alice", Email: "alice@x.com", Password: "pw123456", OrgName: "Alice Co",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	second, err := f.orgs.CreateOrg(context.Background(), &domain.Org{Name: "Second Co", OwnerID: signup.User.ID})
	if err != nil {
		t.Fatalf("create org: %v", err)
	}
	if _, err := f.orgs.CreateMembership(context.Background(), &domain.Membership{
		UserID: signup.User.ID, OrgID: second.ID, Role: domain.RoleMember,
	}); err != nil {
		t.Fatalf("create membership: %v", err)
	}

	res, err := f.svc.Login(context.Background(), ports.LoginInput{
		Email: "alice@x.com", Password: "pw123456", OrgID: second.ID,
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.ActiveOrgID != second.ID {
		t.Fatalf("expected requested org %q, got %q", second.ID, res.ActiveOrgID)
	}
}

func TestAuthService_Refresh_Success(t *testing.T) {
	f := newAuthFixture(true)

	signup, err := f.svc.Signup(context.Background(), ports.SignupInput{
		Name: "Alice", Email: "alice@x.com", Password: "pw123456", OrgName: "Alice Co",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	access, err := f.svc.Refresh(context.Background(), signup.Tokens.Refresh)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	claims, err := f.tokens.VerifyAccess(access)
	if err != nil {
		t.Fatalf("refreshed access token invalid: %v", err)
	}
	if claims.UserID != signup.User.ID || claims.OrgID != signup.Org.ID {
		t.Fatalf("unexpected claims after refresh: %+v", claims)
	}
}

func TestAuthService_Refresh_Revoked(t *testing.T) {
	f := newAuthFixture(true)

	signup, err := f.svc.Signup(context.Background(), ports.SignupInput{
		Name: "Alice", Email: "alice@x.com", Password: "pw123456", OrgName: "Alice Co",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if err := f.svc.Logout(context.Background(), signup.Tokens.Refresh); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}

	if _, err := f.svc.Refresh(context.Background(), signup.Tokens.Refresh); err != domain.ErrTokenRevoked {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	f := newAuthFixture(true)

	if _, err := f.svc.Refresh(context.Background(), "garbage"); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAuthService_SwitchOrg(t *testing.T) {
	f := newAuthFixture(true)

	signup, err := f.svc.Signup(context.Background(), ports.SignupInput{
		Name: "Alice", Email: "alice@x.com", Password: "pw123456", OrgName: "Alice Co",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	second, _ := f.orgs.CreateOrg(context.Background(), &domain.Org{Name: "Second Co", OwnerID: signup.User.ID})
	if _, err := f.orgs.CreateMembership(context.Background(), &domain.Membership{
		UserID: signup.User.ID, OrgID: second.ID, Role: domain.RoleAdmin,
	}); err != nil {
		t.Fatalf("create membership: %v", err)
	}

	first, err := f.svc.SwitchOrg(context.Background(), signup.User.ID, second.ID)
	if err != nil {
		t.Fatalf("SwitchOrg returned error: %v", err)
	}
	again, err := f.svc.SwitchOrg(context.Background(), signup.User.ID, second.ID)
	if err != nil {
		t.Fatalf("second SwitchOrg returned error: %v", err)
	}
	if first == again {
		t.Fatalf("expected two distinct tokens")
	}

	for _, token := range []string{first, again} {
		claims, err := f.tokens.VerifyAccess(token)
		if err != nil {
			t.Fatalf("switched token invalid: %v", err)
		}
		if claims.OrgID != second.ID {
			t.Fatalf("expected org %q, got %q", second.ID, claims.OrgID)
		}
	}
}

func TestAuthService_SwitchOrg_NotAMember(t *testing.T) {
	f := newAuthFixture(true)

	signup, err := f.svc.Signup(context.Background(), ports.SignupInput{
		Name: "Alice", Email: "alice@x.com", Password: "pw123456", OrgName: "Alice Co",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if _, err := f.svc.SwitchOrg(context.Background(), signup.User.ID, "not-my-org"); err != domain.ErrNotAMember {
		t.Fatalf("expected ErrNotAMember, got %v", err)
	}
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}
