package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ericrr237-labz/IVY/internal/api/metrics"
	"github.com/ericrr237-labz/IVY/internal/core/domain"
	"github.com/ericrr237-labz/IVY/internal/core/ports"
)

// RecordHandler exposes org-scoped record CRUD.
type RecordHandler struct {
	service ports.RecordService
}

func NewRecordHandler(service ports.RecordService) *RecordHandler {
	return &RecordHandler{service: service}
}

// List handles GET /records with optional key/from/to/limit filters.
//
// @Summary      List records for the active org
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        key    query     string  false  "Record key filter (e.g. revenue)"
// @Param        from   query     string  false  "Start date (RFC3339 or YYYY-MM-DD)"
// @Param        to     query     string  false  "End date (RFC3339 or YYYY-MM-DD)"
// @Param        limit  query     int     false  "Max rows, capped at 1000"
// @Success      200    {object}  listRecordsResponse
// @Failure      401    {object}  errorResponse
// @Router       /records [get]
func (h *RecordHandler) List(c echo.Context) error {
	_, orgID, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	input := ports.ListRecordsInput{
		OrgID: orgID,
		Key:   c.QueryParam("key"),
	}
	if from := c.QueryParam("from"); from != "" {
		t, err := parseDate(from)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
		input.DateFrom = t
	}
	if to := c.QueryParam("to"); to != "" {
		t, err := parseDate(to)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
		input.DateTo = t
	}
	if limit := c.QueryParam("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		input.Limit = n
	}

	records, err := h.service.List(c.Request().Context(), input)
	if err != nil {
		return err
	}

	items := make([]recordResponse, 0, len(records))
	for _, r := range records {
		items = append(items, toRecordResponse(&r))
	}
	return c.JSON(http.StatusOK, listRecordsResponse{OK: true, Items: items})
}

// Create handles POST /records, stamping the record with the caller's
// identity and active org.
//
// @Summary      Create a record
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRecordRequest  true  "Record fields"
// @Success      201   {object}  recordItemResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /records [post]
func (h *RecordHandler) Create(c echo.Context) error {
	userID, orgID, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createRecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrMissingFields, err)
	}

	input := ports.CreateRecordInput{
		OrgID:          orgID,
		CreatorID:      userID,
		Key:            req.Key,
		Value:          *req.Value,
		Category:       req.Category,
		Note:           req.Note,
		Type:           req.Type,
		MarketingSpend: req.MarketingSpend,
		NewCustomers:   req.NewCustomers,
	}
	if req.Date != "" {
		t, err := parseDate(req.Date)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
		}
		input.Date = t
	}

	record, err := h.service.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}
	metrics.RecordWritesTotal.WithLabelValues("create").Inc()

	return c.JSON(http.StatusCreated, recordItemResponse{OK: true, Item: toRecordResponse(record)})
}

// Update handles PATCH /records/:id. Stamp fields have no representation in
// the patch schema, so a body carrying orgId or createdBy changes nothing.
//
// @Summary      Amend a record
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Record id"
// @Param        body  body      patchRecordRequest  true  "Partial fields"
// @Success      200   {object}  recordItemResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /records/{id} [patch]
func (h *RecordHandler) Update(c echo.Context) error {
	_, orgID, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req patchRecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	patch := ports.RecordPatch{
		Key:            req.Key,
		Value:          req.Value,
		Category:       req.Category,
		Note:           req.Note,
		Type:           req.Type,
		MarketingSpend: req.MarketingSpend,
		NewCustomers:   req.NewCustomers,
	}
	if req.Date != nil {
		t, err := parseDate(*req.Date)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
		}
		patch.Date = &t
	}

	record, err := h.service.Update(c.Request().Context(), orgID, c.Param("id"), patch)
	if err != nil {
		return err
	}
	metrics.RecordWritesTotal.WithLabelValues("update").Inc()

	return c.JSON(http.StatusOK, recordItemResponse{OK: true, Item: toRecordResponse(record)})
}

// Delete handles DELETE /records/:id.
//
// @Summary      Delete a record
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Record id"
// @Success      200  {object}  deleteRecordResponse
// @Failure      401  {object}  errorResponse
// @Router       /records/{id} [delete]
func (h *RecordHandler) Delete(c echo.Context) error {
	_, orgID, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	deleted, err := h.service.Delete(c.Request().Context(), orgID, c.Param("id"))
	if err != nil {
		return err
	}
	if deleted {
		metrics.RecordWritesTotal.WithLabelValues("delete").Inc()
	}

	return c.JSON(http.StatusOK, deleteRecordResponse{OK: true, Deleted: deleted})
}

func toRecordResponse(r *domain.Record) recordResponse {
	return recordResponse{
		ID:             r.ID,
		Key:            r.Key,
		Value:          r.Value,
		Date:           r.Date,
		Category:       r.Category,
		Note:           r.Note,
		Type:           r.Type,
		MarketingSpend: r.MarketingSpend,
		NewCustomers:   r.NewCustomers,
		OrgID:          r.OrgID,
		CreatedBy:      r.CreatedBy,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// parseDate accepts RFC3339 timestamps and bare YYYY-MM-DD dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
