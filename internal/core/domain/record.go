package domain

import "time"

// Well-known record keys used by the dashboard metrics. The key field is
// free-form; these constants cover the values the aggregations care about.
const (
	KeyRevenue      = "revenue"
	KeyExpenses     = "expenses"
	KeyCOGS         = "cogs"
	KeyMarketing    = "marketing"
	KeyNewCustomers = "newCustomers"
)

// Record is a single financial fact scoped to an org. OrgID and CreatedBy are
// stamped at creation and can never change afterwards.
type Record struct {
	ID       string    `json:"id"`
	Key      string    `json:"key"`
	Value    float64   `json:"value"`
	Date     time.Time `json:"date"`
	Category string    `json:"category,omitempty"`
	Note     string    `json:"note,omitempty"`
	Type     string    `json:"type,omitempty"`

	// Auxiliary fields for marketing-type records.
	MarketingSpend float64 `json:"marketing_spend,omitempty"`
	NewCustomers   int     `json:"new_customers,omitempty"`

	OrgID     string    `json:"org_id"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
