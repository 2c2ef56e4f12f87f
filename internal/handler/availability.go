// Package handler exposes HTTP handlers for both guest-facing and
// staff endpoints. This file defines the public availability API: the
// slot list for a date and the annotated table list for a specific
// time. Both are advisory reads; the booking transaction re-validates
// everything before committing, so slightly stale answers here are
// acceptable and the routes can sit behind the response cache.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/booking"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// AvailabilityHandler bundles the read-only repositories the
// availability queries need.
type AvailabilityHandler struct {
	RestaurantRepo  *repository.RestaurantRepo
	TableRepo       *repository.TableRepo
	ReservationRepo *repository.ReservationRepo
}

// NewAvailabilityHandler constructs an AvailabilityHandler. All
// dependencies must be non-nil.
func NewAvailabilityHandler(restaurantRepo *repository.RestaurantRepo, tableRepo *repository.TableRepo, reservationRepo *repository.ReservationRepo) *AvailabilityHandler {
	if restaurantRepo == nil || tableRepo == nil || reservationRepo == nil {
		panic("nil repository passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{
		RestaurantRepo:  restaurantRepo,
		TableRepo:       tableRepo,
		ReservationRepo: reservationRepo,
	}
}

// slotItem is one entry of the slot list response.
type slotItem struct {
	Start     string `json:"start"`
	Available bool   `json:"available"`
}

// tableItem is one entry of the table list response. Zone is resolved
// against the ?locale= query parameter with fallback to the default
// language label.
type tableItem struct {
	ID        uint64 `json:"id"`
	Capacity  int    `json:"capacity"`
	Zone      string `json:"zone,omitempty"`
	SortOrder int    `json:"sort_order"`
	Available bool   `json:"available"`
}

// GetAvailability handles GET /v1/restaurants/:id/availability.
// Without a `time` parameter it returns the ordered slot list for
// `date` and `guests`; with `time` it returns every suitable table
// annotated with availability for that exact slot. Unavailable
// entries are included in both shapes so clients can render them
// disabled.
func (h *AvailabilityHandler) GetAvailability(c echo.Context) error {
	restaurantID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	date, err := booking.ParseDate(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}
	partySize, err := strconv.Atoi(c.QueryParam("guests"))
	if err != nil || partySize < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guests"})
	}

	ctx := c.Request().Context()
	rest, err := h.RestaurantRepo.GetByID(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	sched, err := h.RestaurantRepo.GetSchedule(ctx, rest.ID)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "reservations disabled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !rest.IsActive || !sched.Enabled {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "reservations disabled"})
	}

	tables, err := h.TableRepo.ListActive(ctx, rest.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tables"})
	}
	existing, err := h.ReservationRepo.ListActiveByDate(ctx, rest.ID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}

	if t := c.QueryParam("time"); t != "" {
		start, err := booking.ParseClock(t)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid time, expected HH:MM"})
		}
		locale := strings.ToLower(strings.TrimSpace(c.QueryParam("locale")))
		annotated := booking.AnnotateTables(tables, existing, start, sched.SlotMinutes, partySize)
		items := make([]tableItem, 0, len(annotated))
		for _, a := range annotated {
			items = append(items, tableItem{
				ID:        a.Table.ID,
				Capacity:  a.Table.Capacity,
				Zone:      a.Table.ZoneIn(locale),
				SortOrder: a.Table.SortOrder,
				Available: a.Available,
			})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"date":  date,
			"time":  booking.FormatClock(start),
			"items": items,
		})
	}

	slots := booking.GenerateSlots(sched, tables, existing, partySize)
	items := make([]slotItem, 0, len(slots))
	for _, s := range slots {
		items = append(items, slotItem{Start: s.Start, Available: s.Available})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date":  date,
		"items": items,
	})
}
