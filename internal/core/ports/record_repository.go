package ports

import (
	"context"
	"time"

	"github.com/ericrr237-labz/IVY/internal/core/domain"
)

// ListRecordsFilter carries all query parameters for listing records.
// OrgID is always enforced by the service layer (tenant isolation).
type ListRecordsFilter struct {
	OrgID    string    // required: every listing is org-scoped
	Key      string    // optional: filter by record key
	DateFrom time.Time // optional: date >= DateFrom
	DateTo   time.Time // optional: date <= DateTo
	Limit    int       // max rows (capped at 1000 by the service)
}

// RecordPatch holds the mutable record fields for partial updates. Stamp
// fields (org, creator) deliberately have no representation here, so a patch
// can never move a record across tenants.
type RecordPatch struct {
	Key            *string
	Value          *float64
	Date           *time.Time
	Category       *string
	Note           *string
	Type           *string
	MarketingSpend *float64
	NewCustomers   *int
}

// RecordRepository defines persistence operations for financial records.
// Every operation filters by org id; a record owned by another org is
// indistinguishable from a missing one.
type RecordRepository interface {
	Insert(ctx context.Context, r *domain.Record) (*domain.Record, error)
	FindByID(ctx context.Context, orgID, id string) (*domain.Record, error)
	// List returns records matching filter, most recent date first.
	List(ctx context.Context, filter ListRecordsFilter) ([]domain.Record, error)
	// Update applies patch to the record identified by (orgID, id) and returns
	// the updated document, or domain.ErrRecordNotFound.
	Update(ctx context.Context, orgID, id string, patch RecordPatch) (*domain.Record, error)
	// Delete removes the record and reports whether anything was deleted.
	Delete(ctx context.Context, orgID, id string) (bool, error)
	// SumValuesByKey totals the value field of the org's records matching key,
	// optionally bounded by [from, to]. Zero-time bounds are open.
	SumValuesByKey(ctx context.Context, orgID, key string, from, to time.Time) (float64, error)
}
