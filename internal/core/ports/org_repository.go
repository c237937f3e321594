package ports

import (
	"context"

	"github.com/ericrr237-labz/IVY/internal/core/domain"
)

// OrgRepository defines persistence for orgs and memberships.
type OrgRepository interface {
	CreateOrg(ctx context.Context, org *domain.Org) (*domain.Org, error)
	FindOrgByID(ctx context.Context, id string) (*domain.Org, error)

	// CreateMembership inserts a (user, org, role) binding. Returns
	// domain.ErrMembershipExists when the pair is already bound; uniqueness is
	// enforced by the store's compound index, not an application-level check.
	CreateMembership(ctx context.Context, m *domain.Membership) (*domain.Membership, error)

	// ListMembershipsByUser returns the user's memberships ordered by creation
	// time, earliest first. "First membership" semantics elsewhere rely on
	// this ordering being deterministic.
	ListMembershipsByUser(ctx context.Context, userID string) ([]domain.Membership, error)

	IsMember(ctx context.Context, userID, orgID string) (bool, error)
}
