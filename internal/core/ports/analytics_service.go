package ports

import (
	"context"
	"time"
)

// MetricRange is the optional date window an aggregation was computed over.
// Zero-time bounds mean the window was open on that side.
type MetricRange struct {
	From time.Time
	To   time.Time
}

// GrossMarginResult breaks down gross margin = (revenue - cogs) / revenue.
// Margin is 0 when the org has no revenue in the window.
type GrossMarginResult struct {
	Revenue     float64
	COGS        float64
	GrossProfit float64
	Margin      float64
	Range       MetricRange
}

// CLTVResult breaks down customer lifetime value = revenue / new customers.
type CLTVResult struct {
	TotalRevenue float64
	NewCustomers float64
	Value        float64
	Range        MetricRange
}

// CACResult breaks down customer acquisition cost = marketing spend / new
// customers.
type CACResult struct {
	MarketingSpend float64
	NewCustomers   float64
	Value          float64
	Range          MetricRange
}

// AnalyticsService computes financial metrics over an org's records. Every
// aggregation is scoped to the caller's active org; ratios with a zero
// denominator come back as 0 rather than an error.
type AnalyticsService interface {
	GrossMargin(ctx context.Context, orgID string, from, to time.Time) (*GrossMarginResult, error)
	CLTV(ctx context.Context, orgID string, from, to time.Time) (*CLTVResult, error)
	CAC(ctx context.Context, orgID string, from, to time.Time) (*CACResult, error)
}
