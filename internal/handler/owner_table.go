package handler

// Staff-facing table management.  Tables are the bookable unit of a
// restaurant, so every mutation here checks that the target
// restaurant belongs to the caller before touching rows.  Deleting a
// table is a soft deactivate: history must keep pointing at the row,
// only future bookability changes.

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// OwnerTableHandler exposes CRUD over a restaurant's tables plus the
// per-locale zone labels shown to guests.
type OwnerTableHandler struct {
	RestaurantRepo *repository.RestaurantRepo
	TableRepo      *repository.TableRepo
}

// NewOwnerTableHandler constructs an OwnerTableHandler.  Both
// dependencies must be non-nil.
func NewOwnerTableHandler(restaurantRepo *repository.RestaurantRepo, tableRepo *repository.TableRepo) *OwnerTableHandler {
	if restaurantRepo == nil || tableRepo == nil {
		panic("nil repository passed to NewOwnerTableHandler")
	}
	return &OwnerTableHandler{RestaurantRepo: restaurantRepo, TableRepo: tableRepo}
}

// tableReq is the create/update body for a table.
type tableReq struct {
	Capacity  int               `json:"capacity"`
	Zone      string            `json:"zone"`
	ZoneI18n  map[string]string `json:"zone_i18n,omitempty"`
	SortOrder int               `json:"sort_order"`
	IsActive  *bool             `json:"is_active,omitempty"`
}

// tableResp is the staff-facing JSON shape of a table.  Unlike the
// public availability view it always carries the full translation
// map, not a single resolved label.
type tableResp struct {
	ID        uint64            `json:"id"`
	Capacity  int               `json:"capacity"`
	Zone      string            `json:"zone"`
	ZoneI18n  map[string]string `json:"zone_i18n,omitempty"`
	SortOrder int               `json:"sort_order"`
	IsActive  bool              `json:"is_active"`
}

func newTableResp(t *model.Table) tableResp {
	return tableResp{
		ID:        t.ID,
		Capacity:  t.Capacity,
		Zone:      t.Zone,
		ZoneI18n:  t.ZoneI18n,
		SortOrder: t.SortOrder,
		IsActive:  t.IsActive,
	}
}

// validateTableReq checks a create/update body and returns a message
// describing the first problem, or "" when the body is acceptable.
func validateTableReq(req *tableReq) string {
	if req.Capacity < 1 {
		return "capacity must be at least 1"
	}
	req.Zone = strings.TrimSpace(req.Zone)
	if req.SortOrder < 0 {
		return "sort_order must not be negative"
	}
	for locale, label := range req.ZoneI18n {
		if strings.TrimSpace(locale) == "" || strings.TrimSpace(label) == "" {
			return "zone_i18n entries must have non-empty locale and label"
		}
	}
	return ""
}

// ownRestaurant loads the restaurant and verifies ownership, writing
// the error response itself.  It returns false when the request has
// already been answered.
func (h *OwnerTableHandler) ownRestaurant(c echo.Context) (uint64, bool) {
	userID, err := getUserID(c)
	if err != nil {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		return 0, false
	}
	restaurantID, ok := pathID(c, "id")
	if !ok {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
		return 0, false
	}
	ctx := c.Request().Context()
	if _, err := h.RestaurantRepo.GetByIDAndOwner(ctx, restaurantID, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrRestaurantNotFound):
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		case errors.Is(err, repository.ErrForbidden):
			_ = c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		return 0, false
	}
	return restaurantID, true
}

// ListTables handles GET /v1/owner/restaurants/:id/tables.  Inactive
// tables are included so staff can reactivate them.
func (h *OwnerTableHandler) ListTables(c echo.Context) error {
	restaurantID, ok := h.ownRestaurant(c)
	if !ok {
		return nil
	}
	tables, err := h.TableRepo.ListByRestaurant(c.Request().Context(), restaurantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tables"})
	}
	items := make([]tableResp, 0, len(tables))
	for i := range tables {
		items = append(items, newTableResp(&tables[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// CreateTable handles POST /v1/owner/restaurants/:id/tables.
func (h *OwnerTableHandler) CreateTable(c echo.Context) error {
	restaurantID, ok := h.ownRestaurant(c)
	if !ok {
		return nil
	}
	var req tableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := validateTableReq(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx := c.Request().Context()
	t := &model.Table{
		RestaurantID: restaurantID,
		Capacity:     req.Capacity,
		Zone:         req.Zone,
		SortOrder:    req.SortOrder,
		IsActive:     true,
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	if err := h.TableRepo.Create(ctx, t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create table"})
	}
	if len(req.ZoneI18n) > 0 {
		if err := h.TableRepo.SetZoneTranslations(ctx, t.ID, req.ZoneI18n); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store zone translations"})
		}
		t.ZoneI18n = req.ZoneI18n
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": newTableResp(t)})
}

// UpdateTable handles PUT /v1/owner/restaurants/:id/tables/:tableID.
// The zone translation map, when present, replaces the stored set
// wholesale; omitting it leaves translations untouched.
func (h *OwnerTableHandler) UpdateTable(c echo.Context) error {
	restaurantID, ok := h.ownRestaurant(c)
	if !ok {
		return nil
	}
	tableID, ok := pathID(c, "tableID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	var req tableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := validateTableReq(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx := c.Request().Context()
	t, err := h.TableRepo.GetByID(ctx, tableID)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if t.RestaurantID != restaurantID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
	}
	t.Capacity = req.Capacity
	t.Zone = req.Zone
	t.SortOrder = req.SortOrder
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	if err := h.TableRepo.Update(ctx, t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update table"})
	}
	if req.ZoneI18n != nil {
		if err := h.TableRepo.SetZoneTranslations(ctx, t.ID, req.ZoneI18n); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store zone translations"})
		}
		t.ZoneI18n = req.ZoneI18n
	}
	return c.JSON(http.StatusOK, echo.Map{"item": newTableResp(t)})
}

// DeleteTable handles DELETE /v1/owner/restaurants/:id/tables/:tableID.
// The row is deactivated, never removed, so existing reservations
// keep a valid table reference.
func (h *OwnerTableHandler) DeleteTable(c echo.Context) error {
	restaurantID, ok := h.ownRestaurant(c)
	if !ok {
		return nil
	}
	tableID, ok := pathID(c, "tableID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	if err := h.TableRepo.Deactivate(c.Request().Context(), tableID, restaurantID); err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to deactivate table"})
	}
	return c.NoContent(http.StatusNoContent)
}
