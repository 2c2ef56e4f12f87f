package handler

// Staff-facing reservation management.  Staff can list a day's
// reservations for their own restaurant and move individual
// reservations through the lifecycle (confirm, cancel).  Completion
// is never set by hand; the background sweep marks past reservations
// COMPLETED on its own.

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/booking"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	queue_publisher "github.com/iliyamo/restaurant-table-reservation/internal/service"
)

// OwnerReservationHandler groups the repositories needed to list and
// update reservations from the restaurant side.  Ownership of the
// restaurant is checked on every operation; the role middleware only
// guarantees the caller is staff, not that they are staff of this
// particular restaurant.
type OwnerReservationHandler struct {
	RestaurantRepo  *repository.RestaurantRepo
	TableRepo       *repository.TableRepo
	ReservationRepo *repository.ReservationRepo
}

// NewOwnerReservationHandler constructs an OwnerReservationHandler.
// All dependencies must be non-nil.
func NewOwnerReservationHandler(restaurantRepo *repository.RestaurantRepo, tableRepo *repository.TableRepo, reservationRepo *repository.ReservationRepo) *OwnerReservationHandler {
	if restaurantRepo == nil || tableRepo == nil || reservationRepo == nil {
		panic("nil repository passed to NewOwnerReservationHandler")
	}
	return &OwnerReservationHandler{
		RestaurantRepo:  restaurantRepo,
		TableRepo:       tableRepo,
		ReservationRepo: reservationRepo,
	}
}

// ListReservations handles GET /v1/owner/restaurants/:id/reservations.
// It returns every reservation for the given date, regardless of
// status, so staff see cancellations alongside live bookings.  The
// date defaults to today when omitted.
func (h *OwnerReservationHandler) ListReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	restaurantID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if date, err = booking.ParseDate(date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}
	ctx := c.Request().Context()
	if _, err := h.RestaurantRepo.GetByIDAndOwner(ctx, restaurantID, userID); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	list, err := h.ReservationRepo.ListByRestaurantAndDate(ctx, restaurantID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	items := make([]reservationResp, 0, len(list))
	for i := range list {
		items = append(items, newReservationResp(&list[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date":  date,
		"items": items,
		"count": len(items),
	})
}

// updateStatusReq is the PATCH body for a status change.
type updateStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /v1/owner/reservations/:id/status.  The
// transition table is enforced first, then the update runs as a
// compare-and-set on the current status so a concurrent change loses
// cleanly with 409 instead of silently overwriting.
func (h *OwnerReservationHandler) UpdateStatus(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil || !booking.ValidStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	ctx := c.Request().Context()
	res, err := h.ReservationRepo.GetByIDForOwner(ctx, resID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !booking.CanStaffTransition(res.Status, req.Status) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error": "cannot transition from " + res.Status + " to " + req.Status,
		})
	}
	if err := h.ReservationRepo.UpdateStatusIf(ctx, res.ID, res.Status, req.Status); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation changed, reload and retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update reservation"})
	}
	res.Status = req.Status

	if evType := eventForStatus(req.Status); evType != "" {
		h.publishStatusEvent(ctx, evType, res)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": newReservationResp(res)})
}

// eventForStatus maps a new status to the notification event it
// triggers.  Completion is internal bookkeeping and emits nothing.
func eventForStatus(status string) string {
	switch status {
	case model.StatusConfirmed:
		return queue.EventReservationConfirmed
	case model.StatusCancelled:
		return queue.EventReservationCancelled
	default:
		return ""
	}
}

// publishStatusEvent assembles and publishes a lifecycle event in the
// background.  Lookups for display fields are best-effort; a missing
// restaurant row at this point only degrades the notification text.
func (h *OwnerReservationHandler) publishStatusEvent(ctx context.Context, evType string, res *model.Reservation) {
	ev := queue.ReservationEvent{
		Type:          evType,
		ReservationID: res.ID,
		RestaurantID:  res.RestaurantID,
		TableID:       res.TableID,
		Date:          res.Date,
		Start:         booking.FormatClock(res.StartMinute),
		DurationMin:   res.DurationMin,
		PartySize:     res.PartySize,
		Status:        res.Status,
		GuestName:     res.GuestName,
		GuestEmail:    res.GuestEmail,
		GuestLocale:   res.GuestLocale,
		OwnerLocale:   "en",
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if rest, err := h.RestaurantRepo.GetByID(ctx, res.RestaurantID); err == nil {
		ev.RestaurantName = rest.Name
		ev.OwnerLocale = rest.OwnerLocale
	}
	if tbl, err := h.TableRepo.GetByID(ctx, res.TableID); err == nil {
		ev.TableZone = tbl.ZoneIn(res.GuestLocale)
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishReservationEvent(pubCtx, ev)
	}()
}
