package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ericrr237-labz/IVY/internal/core/domain"
	"github.com/ericrr237-labz/IVY/internal/core/ports"
)

const (
	defaultListLimit = 200
	maxListLimit     = 1000
)

// RecordService implements org-scoped CRUD over financial records. Every
// operation is filtered by the caller's active org; a record owned by another
// org looks exactly like a missing one.
type RecordService struct {
	repo ports.RecordRepository
	log  zerolog.Logger
}

func NewRecordService(repo ports.RecordRepository, log zerolog.Logger) *RecordService {
	return &RecordService{repo: repo, log: log}
}

// List returns records for the org, most recent date first.
func (s *RecordService) List(ctx context.Context, input ports.ListRecordsInput) ([]domain.Record, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	return s.repo.List(ctx, ports.ListRecordsFilter{
		OrgID:    input.OrgID,
		Key:      input.Key,
		DateFrom: input.DateFrom,
		DateTo:   input.DateTo,
		Limit:    limit,
	})
}

// Get retrieves a single record within the org.
func (s *RecordService) Get(ctx context.Context, orgID, id string) (*domain.Record, error) {
	return s.repo.FindByID(ctx, orgID, id)
}

// Create stamps the record with the creating user and org, then inserts it.
func (s *RecordService) Create(ctx context.Context, input ports.CreateRecordInput) (*domain.Record, error) {
	if input.Key == "" {
		return nil, domain.ErrMissingFields
	}

	now := time.Now().UTC()
	date := input.Date
	if date.IsZero() {
		date = now
	}

	record, err := s.repo.Insert(ctx, &domain.Record{
		Key:            input.Key,
		Value:          input.Value,
		Date:           date,
		Category:       input.Category,
		Note:           input.Note,
		Type:           input.Type,
		MarketingSpend: input.MarketingSpend,
		NewCustomers:   input.NewCustomers,
		OrgID:          input.OrgID,
		CreatedBy:      input.CreatorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		s.log.Error().Err(err).Str("org_id", input.OrgID).Msg("failed to create record")
		return nil, err
	}

	return record, nil
}

// Update applies a partial update. The patch type carries no stamp fields, so
// org and creator can never change here.
func (s *RecordService) Update(ctx context.Context, orgID, id string, patch ports.RecordPatch) (*domain.Record, error) {
	return s.repo.Update(ctx, orgID, id, patch)
}

// Delete removes a record within the org and reports whether it existed.
func (s *RecordService) Delete(ctx context.Context, orgID, id string) (bool, error) {
	return s.repo.Delete(ctx, orgID, id)
}
