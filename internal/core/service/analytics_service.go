package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ericrr237-labz/IVY/internal/core/domain"
	"github.com/ericrr237-labz/IVY/internal/core/ports"
)

// AnalyticsService computes dashboard metrics by summing record values per
// key. Every aggregation is filtered by the caller's active org.
type AnalyticsService struct {
	repo ports.RecordRepository
	log  zerolog.Logger
}

func NewAnalyticsService(repo ports.RecordRepository, log zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, log: log}
}

// GrossMargin computes (revenue - cogs) / revenue over the window. Zero
// revenue yields a margin of 0, not a division error.
func (s *AnalyticsService) GrossMargin(ctx context.Context, orgID string, from, to time.Time) (*ports.GrossMarginResult, error) {
	revenue, err := s.repo.SumValuesByKey(ctx, orgID, domain.KeyRevenue, from, to)
	if err != nil {
		return nil, err
	}
	cogs, err := s.repo.SumValuesByKey(ctx, orgID, domain.KeyCOGS, from, to)
	if err != nil {
		return nil, err
	}

	profit := revenue - cogs
	margin := 0.0
	if revenue > 0 {
		margin = profit / revenue
	}

	return &ports.GrossMarginResult{
		Revenue:     revenue,
		COGS:        cogs,
		GrossProfit: profit,
		Margin:      margin,
		Range:       ports.MetricRange{From: from, To: to},
	}, nil
}

// CLTV computes total revenue / new customers over the window.
func (s *AnalyticsService) CLTV(ctx context.Context, orgID string, from, to time.Time) (*ports.CLTVResult, error) {
	revenue, err := s.repo.SumValuesByKey(ctx, orgID, domain.KeyRevenue, from, to)
	if err != nil {
		return nil, err
	}
	customers, err := s.repo.SumValuesByKey(ctx, orgID, domain.KeyNewCustomers, from, to)
	if err != nil {
		return nil, err
	}

	value := 0.0
	if customers > 0 {
		value = revenue / customers
	}

	return &ports.CLTVResult{
		TotalRevenue: revenue,
		NewCustomers: customers,
		Value:        value,
		Range:        ports.MetricRange{From: from, To: to},
	}, nil
}

// CAC computes marketing spend / new customers over the window.
func (s *AnalyticsService) CAC(ctx context.Context, orgID string, from, to time.Time) (*ports.CACResult, error) {
	spend, err := s.repo.SumValuesByKey(ctx, orgID, domain.KeyMarketing, from, to)
	if err != nil {
		return nil, err
	}
	customers, err := s.repo.SumValuesByKey(ctx, orgID, domain.KeyNewCustomers, from, to)
	if err != nil {
		return nil, err
	}

	value := 0.0
	if customers > 0 {
		value = spend / customers
	}

	return &ports.CACResult{
		MarketingSpend: spend,
		NewCustomers:   customers,
		Value:          value,
		Range:          ports.MetricRange{From: from, To: to},
	}, nil
}
