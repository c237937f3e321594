package handler

import (
	"time"

	"github.com/ericrr237-labz/IVY/internal/core/ports"
)

// --- Response types ---

type metricRangeResponse struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

type grossMarginBreakdown struct {
	Revenue     float64             `json:"revenue"`
	COGS        float64             `json:"cogs"`
	GrossProfit float64             `json:"grossProfit"`
	Range       metricRangeResponse `json:"range"`
}

type grossMarginResponse struct {
	OK        bool                 `json:"ok"`
	Metric    string               `json:"metric"`
	Value     float64              `json:"value"`
	Breakdown grossMarginBreakdown `json:"breakdown"`
}

type cltvBreakdown struct {
	TotalRevenue      float64             `json:"totalRevenue"`
	TotalNewCustomers float64             `json:"totalNewCustomers"`
	Range             metricRangeResponse `json:"range"`
}

type cltvResponse struct {
	OK        bool          `json:"ok"`
	Metric    string        `json:"metric"`
	Value     float64       `json:"value"`
	Breakdown cltvBreakdown `json:"breakdown"`
}

type cacBreakdown struct {
	MarketingSpend    float64             `json:"marketingSpend"`
	TotalNewCustomers float64             `json:"totalNewCustomers"`
	Range             metricRangeResponse `json:"range"`
}

type cacResponse struct {
	OK        bool         `json:"ok"`
	Metric    string       `json:"metric"`
	Value     float64      `json:"value"`
	Breakdown cacBreakdown `json:"breakdown"`
}

func toRangeResponse(r ports.MetricRange) metricRangeResponse {
	out := metricRangeResponse{}
	if !r.From.IsZero() {
		out.From = r.From.Format(time.RFC3339)
	}
	if !r.To.IsZero() {
		out.To = r.To.Format(time.RFC3339)
	}
	return out
}
