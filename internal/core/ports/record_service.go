package ports

import (
	"context"
	"time"

	"github.com/ericrr237-labz/IVY/internal/core/domain"
)

// CreateRecordInput carries all data needed to create a record. OrgID and
// CreatorID come from the authenticated principal, never from the request
// body.
type CreateRecordInput struct {
	OrgID     string
	CreatorID string

	Key            string
	Value          float64
	Date           time.Time // zero = now
	Category       string
	Note           string
	Type           string
	MarketingSpend float64
	NewCustomers   int
}

// ListRecordsInput carries all parameters for the list endpoint.
type ListRecordsInput struct {
	OrgID    string
	Key      string
	DateFrom time.Time
	DateTo   time.Time
	Limit    int
}

// RecordService defines use-case operations over org-scoped records.
type RecordService interface {
	List(ctx context.Context, input ListRecordsInput) ([]domain.Record, error)
	Get(ctx context.Context, orgID, id string) (*domain.Record, error)
	Create(ctx context.Context, input CreateRecordInput) (*domain.Record, error)
	Update(ctx context.Context, orgID, id string, patch RecordPatch) (*domain.Record, error)
	Delete(ctx context.Context, orgID, id string) (bool, error)
}
