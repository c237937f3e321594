package handler

import "time"

// --- Request types ---

type createRecordRequest struct {
	Key            string   `json:"key"   validate:"required"`
	Value          *float64 `json:"value" validate:"required"`
	Date           string   `json:"date"`
	Category       string   `json:"category"`
	Note           string   `json:"note"`
	Type           string   `json:"type"`
	MarketingSpend float64  `json:"marketingSpend"`
	NewCustomers   int      `json:"newCustomers"`
}

// patchRecordRequest deliberately has no orgId or createdBy fields: any such
// keys in the body are dropped at decode time, so the stamps cannot change.
type patchRecordRequest struct {
	Key            *string  `json:"key"`
	Value          *float64 `json:"value"`
	Date           *string  `json:"date"`
	Category       *string  `json:"category"`
	Note           *string  `json:"note"`
	Type           *string  `json:"type"`
	MarketingSpend *float64 `json:"marketingSpend"`
	NewCustomers   *int     `json:"newCustomers"`
}

// --- Response types ---

type recordResponse struct {
	ID             string    `json:"id"`
	Key            string    `json:"key"`
	Value          float64   `json:"value"`
	Date           time.Time `json:"date"`
	Category       string    `json:"category,omitempty"`
	Note           string    `json:"note,omitempty"`
	Type           string    `json:"type,omitempty"`
	MarketingSpend float64   `json:"marketingSpend,omitempty"`
	NewCustomers   int       `json:"newCustomers,omitempty"`
	OrgID          string    `json:"orgId"`
	CreatedBy      string    `json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type listRecordsResponse struct {
	OK    bool             `json:"ok"`
	Items []recordResponse `json:"items"`
}

type recordItemResponse struct {
	OK   bool           `json:"ok"`
	Item recordResponse `json:"item"`
}

type deleteRecordResponse struct {
	OK      bool `json:"ok"`
	Deleted bool `json:"deleted"`
}
