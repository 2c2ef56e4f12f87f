package handler

// Staff-facing schedule management.  The schedule is the single knob
// set that shapes the whole read and write path: working hours, slot
// duration, booking mode and the enabled switch.  Changes apply to
// the next request; existing reservations are never rewritten when
// hours or slot duration change.

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/booking"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// OwnerScheduleHandler reads and writes a restaurant's schedule.
type OwnerScheduleHandler struct {
	RestaurantRepo *repository.RestaurantRepo
}

// NewOwnerScheduleHandler constructs an OwnerScheduleHandler.
func NewOwnerScheduleHandler(restaurantRepo *repository.RestaurantRepo) *OwnerScheduleHandler {
	if restaurantRepo == nil {
		panic("nil repository passed to NewOwnerScheduleHandler")
	}
	return &OwnerScheduleHandler{RestaurantRepo: restaurantRepo}
}

// scheduleReq is the PUT body for a schedule.  Times are wall-clock
// HH:MM strings in the restaurant's local time.
type scheduleReq struct {
	OpenTime    string `json:"open_time"`
	CloseTime   string `json:"close_time"`
	SlotMinutes int    `json:"slot_minutes"`
	Mode        string `json:"mode"`
	Enabled     bool   `json:"enabled"`
}

// scheduleResp mirrors scheduleReq for responses.
type scheduleResp struct {
	OpenTime    string `json:"open_time"`
	CloseTime   string `json:"close_time"`
	SlotMinutes int    `json:"slot_minutes"`
	Mode        string `json:"mode"`
	Enabled     bool   `json:"enabled"`
}

func newScheduleResp(s *model.Schedule) scheduleResp {
	return scheduleResp{
		OpenTime:    booking.FormatClock(s.OpenMinute),
		CloseTime:   booking.FormatClock(s.CloseMinute),
		SlotMinutes: s.SlotMinutes,
		Mode:        s.Mode,
		Enabled:     s.Enabled,
	}
}

// ownRestaurant mirrors the table handler's ownership guard.
func (h *OwnerScheduleHandler) ownRestaurant(c echo.Context) (uint64, bool) {
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
	if _, err := h.RestaurantRepo.GetByIDAndOwner(c.Request().Context(), restaurantID, userID); err != nil {
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

// GetSchedule handles GET /v1/owner/restaurants/:id/schedule.
func (h *OwnerScheduleHandler) GetSchedule(c echo.Context) error {
	restaurantID, ok := h.ownRestaurant(c)
	if !ok {
		return nil
	}
	sched, err := h.RestaurantRepo.GetSchedule(c.Request().Context(), restaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not configured"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": newScheduleResp(sched)})
}

// PutSchedule handles PUT /v1/owner/restaurants/:id/schedule.  The
// body fully replaces the stored schedule.  Validation rejects
// inverted or empty windows and slot durations outside the allowed
// set before anything is written.
func (h *OwnerScheduleHandler) PutSchedule(c echo.Context) error {
	restaurantID, ok := h.ownRestaurant(c)
	if !ok {
		return nil
	}
	var req scheduleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	open, err := booking.ParseClock(req.OpenTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid open_time, expected HH:MM"})
	}
	closeMin, err := booking.ParseClock(req.CloseTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid close_time, expected HH:MM"})
	}
	if open >= closeMin {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "open_time must be before close_time"})
	}
	if !model.ValidSlotMinutes(req.SlotMinutes) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot_minutes must be 60, 90 or 120"})
	}
	if req.Mode != model.BookingModeAuto && req.Mode != model.BookingModeManual {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "mode must be AUTO or MANUAL"})
	}
	sched := &model.Schedule{
		RestaurantID: restaurantID,
		OpenMinute:   open,
		CloseMinute:  closeMin,
		SlotMinutes:  req.SlotMinutes,
		Mode:         req.Mode,
		Enabled:      req.Enabled,
	}
	if err := h.RestaurantRepo.UpsertSchedule(c.Request().Context(), sched); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store schedule"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": newScheduleResp(sched)})
}
