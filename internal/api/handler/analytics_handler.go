package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ericrr237-labz/IVY/internal/core/ports"
)

// AnalyticsHandler exposes org-scoped financial metric aggregations.
type AnalyticsHandler struct {
	service ports.AnalyticsService
}

func NewAnalyticsHandler(service ports.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// GrossMargin handles GET /analytics/gross-margin.
//
// @Summary      Gross margin for the active org
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        from  query     string  false  "Start date (RFC3339 or YYYY-MM-DD)"
// @Param        to    query     string  false  "End date (RFC3339 or YYYY-MM-DD)"
// @Success      200   {object}  grossMarginResponse
// @Failure      401   {object}  errorResponse
// @Router       /analytics/gross-margin [get]
func (h *AnalyticsHandler) GrossMargin(c echo.Context) error {
	_, orgID, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	from, to, err := metricWindow(c)
	if err != nil {
		return err
	}

	res, err := h.service.GrossMargin(c.Request().Context(), orgID, from, to)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, grossMarginResponse{
		OK:     true,
		Metric: "gross_margin",
		Value:  res.Margin,
		Breakdown: grossMarginBreakdown{
			Revenue:     res.Revenue,
			COGS:        res.COGS,
			GrossProfit: res.GrossProfit,
			Range:       toRangeResponse(res.Range),
		},
	})
}

// CLTV handles GET /analytics/cltv.
//
// @Summary      Customer lifetime value for the active org
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        from  query     string  false  "Start date (RFC3339 or YYYY-MM-DD)"
// @Param        to    query     string  false  "End date (RFC3339 or YYYY-MM-DD)"
// @Success      200   {object}  cltvResponse
// @Failure      401   {object}  errorResponse
// @Router       /analytics/cltv [get]
func (h *AnalyticsHandler) CLTV(c echo.Context) error {
	_, orgID, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	from, to, err := metricWindow(c)
	if err != nil {
		return err
	}

	res, err := h.service.CLTV(c.Request().Context(), orgID, from, to)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cltvResponse{
		OK:     true,
		Metric: "cltv",
		Value:  res.Value,
		Breakdown: cltvBreakdown{
			TotalRevenue:      res.TotalRevenue,
			TotalNewCustomers: res.NewCustomers,
			Range:             toRangeResponse(res.Range),
		},
	})
}

// CAC handles GET /analytics/cac.
//
// @Summary      Customer acquisition cost for the active org
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        from  query     string  false  "Start date (RFC3339 or YYYY-MM-DD)"
// @Param        to    query     string  false  "End date (RFC3339 or YYYY-MM-DD)"
// @Success      200   {object}  cacResponse
// @Failure      401   {object}  errorResponse
// @Router       /analytics/cac [get]
func (h *AnalyticsHandler) CAC(c echo.Context) error {
	_, orgID, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	from, to, err := metricWindow(c)
	if err != nil {
		return err
	}

	res, err := h.service.CAC(c.Request().Context(), orgID, from, to)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cacResponse{
		OK:     true,
		Metric: "cac",
		Value:  res.Value,
		Breakdown: cacBreakdown{
			MarketingSpend:    res.MarketingSpend,
			TotalNewCustomers: res.NewCustomers,
			Range:             toRangeResponse(res.Range),
		},
	})
}

// metricWindow parses the optional from/to query parameters.
func metricWindow(c echo.Context) (from, to time.Time, err error) {
	if raw := c.QueryParam("from"); raw != "" {
		from, err = parseDate(raw)
		if err != nil {
			return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
	}
	if raw := c.QueryParam("to"); raw != "" {
		to, err = parseDate(raw)
		if err != nil {
			return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
	}
	return from, to, nil
}
