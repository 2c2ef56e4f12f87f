package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/booking"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	queue_publisher "github.com/iliyamo/restaurant-table-reservation/internal/service"
)

// maxNotesLen bounds the free-text notes a guest may attach.
const maxNotesLen = 500

// BookingHandler owns the write path of the engine. Creating a
// reservation is the only operation that mutates reservation state at
// request time, and it runs its availability re-check and insert
// inside one transaction so concurrent attempts on the same table
// serialize on the table's row lock.
type BookingHandler struct {
	RestaurantRepo  *repository.RestaurantRepo
	TableRepo       *repository.TableRepo
	ReservationRepo *repository.ReservationRepo
}

// NewBookingHandler constructs a BookingHandler. All dependencies
// must be non-nil.
func NewBookingHandler(restaurantRepo *repository.RestaurantRepo, tableRepo *repository.TableRepo, reservationRepo *repository.ReservationRepo) *BookingHandler {
	if restaurantRepo == nil || tableRepo == nil || reservationRepo == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{
		RestaurantRepo:  restaurantRepo,
		TableRepo:       tableRepo,
		ReservationRepo: reservationRepo,
	}
}

// createBookingReq is the POST body for a booking attempt. TableID is
// optional; when omitted the engine auto-assigns the first free
// suitable table. DurationMin is likewise optional and, when present,
// must match the restaurant's configured slot duration — the stored
// duration is always copied from the schedule at creation time.
type createBookingReq struct {
	TableID     *uint64 `json:"table_id,omitempty"`
	Date        string  `json:"date"`
	StartTime   string  `json:"start_time"`
	DurationMin *int    `json:"duration_min,omitempty"`
	PartySize   int     `json:"party_size"`
	GuestName   string  `json:"guest_name"`
	GuestEmail  string  `json:"guest_email"`
	GuestPhone  *string `json:"guest_phone,omitempty"`
	GuestLocale string  `json:"guest_locale,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// reservationResp is the JSON shape of a reservation in responses.
type reservationResp struct {
	ID          uint64  `json:"id"`
	TableID     uint64  `json:"table_id"`
	Date        string  `json:"date"`
	Start       string  `json:"start"`
	DurationMin int     `json:"duration_min"`
	PartySize   int     `json:"party_size"`
	GuestName   string  `json:"guest_name"`
	GuestEmail  string  `json:"guest_email"`
	GuestPhone  *string `json:"guest_phone,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

func newReservationResp(res *model.Reservation) reservationResp {
	return reservationResp{
		ID:          res.ID,
		TableID:     res.TableID,
		Date:        res.Date,
		Start:       booking.FormatClock(res.StartMinute),
		DurationMin: res.DurationMin,
		PartySize:   res.PartySize,
		GuestName:   res.GuestName,
		GuestEmail:  res.GuestEmail,
		GuestPhone:  res.GuestPhone,
		Notes:       res.Notes,
		Status:      res.Status,
		CreatedAt:   res.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// validateBookingReq normalizes and validates the guest-supplied
// fields of a booking request. It returns the parsed date and start
// minute, or a non-empty message describing the first problem found.
func validateBookingReq(req *createBookingReq) (date string, startMinute int, msg string) {
	date, err := booking.ParseDate(req.Date)
	if err != nil {
		return "", 0, "invalid date, expected YYYY-MM-DD"
	}
	startMinute, err = booking.ParseClock(req.StartTime)
	if err != nil {
		return "", 0, "invalid start_time, expected HH:MM"
	}
	if req.PartySize < 1 {
		return "", 0, "party_size must be at least 1"
	}
	req.GuestName = strings.TrimSpace(req.GuestName)
	if req.GuestName == "" {
		return "", 0, "guest_name is required"
	}
	req.GuestEmail = strings.ToLower(strings.TrimSpace(req.GuestEmail))
	if req.GuestEmail == "" || !strings.Contains(req.GuestEmail, "@") {
		return "", 0, "valid guest_email is required"
	}
	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > maxNotesLen {
		return "", 0, "notes too long"
	}
	if req.GuestLocale == "" {
		req.GuestLocale = "en"
	}
	return date, startMinute, ""
}

// CreateBooking handles POST /v1/restaurants/:id/bookings. The
// precondition checks run in a fixed order, each with its own error
// kind: reservations enabled, well-formed input inside working hours,
// a suitable table (pinned or auto-assigned), and finally the
// transactional conflict re-check. The re-check is mandatory even
// though availability was usually queried moments earlier: the read
// path is advisory and two guests may race for the same slot. Losing
// that race yields 409, which clients treat as "re-query and ask
// again", not as a failure.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	restaurantID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
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
	if err != nil && !errors.Is(err, repository.ErrScheduleNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err != nil || !rest.IsActive || !sched.Enabled {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "reservations disabled"})
	}

	date, startMinute, msg := validateBookingReq(&req)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	duration := sched.SlotMinutes
	if req.DurationMin != nil && *req.DurationMin != duration {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration_min does not match the restaurant's slot duration"})
	}
	if startMinute < sched.OpenMinute || startMinute+duration > sched.CloseMinute {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time is outside working hours"})
	}

	tables, err := h.TableRepo.ListActive(ctx, rest.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tables"})
	}

	// Choose the target table. A pinned table must itself qualify;
	// auto-assignment walks suitable tables in selector order against
	// an advisory snapshot of the day. Either way the choice is
	// re-validated inside the transaction below.
	var target model.Table
	if req.TableID != nil {
		found := false
		for _, t := range tables {
			if t.ID == *req.TableID {
				target = t
				found = true
				break
			}
		}
		if !found {
			other, err := h.TableRepo.GetByID(ctx, *req.TableID)
			if err != nil {
				if errors.Is(err, repository.ErrTableNotFound) {
					return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
			}
			if other.RestaurantID != rest.ID {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
			}
			// Exists here but is inactive.
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "table unsuitable"})
		}
		if target.Capacity < req.PartySize {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "table unsuitable"})
		}
	} else {
		existing, err := h.ReservationRepo.ListActiveByDate(ctx, rest.ID, date)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
		}
		picked, ok := booking.PickTable(tables, existing, startMinute, duration, req.PartySize)
		if !ok {
			return c.JSON(http.StatusConflict, echo.Map{"error": "no availability"})
		}
		target = picked
	}

	// Steps 3-5 of the booking contract run as one atomic unit: lock
	// the table row, re-read its blocking reservations, check the
	// interval, insert. Any concurrent attempt on the same table
	// blocks on the lock and then observes this insert.
	tx, err := h.ReservationRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.ReservationRepo.LockTableTx(ctx, tx, target.ID); err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to lock table"})
	}
	blocking, err := h.ReservationRepo.ListActiveForTableTx(ctx, tx, target.ID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check availability"})
	}
	if booking.HasConflict(target.ID, startMinute, duration, blocking) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "no availability"})
	}

	res := &model.Reservation{
		RestaurantID: rest.ID,
		TableID:      target.ID,
		Date:         date,
		StartMinute:  startMinute,
		DurationMin:  duration,
		PartySize:    req.PartySize,
		GuestName:    req.GuestName,
		GuestEmail:   req.GuestEmail,
		GuestPhone:   req.GuestPhone,
		GuestLocale:  req.GuestLocale,
		Notes:        req.Notes,
		Status:       booking.InitialStatus(sched.Mode),
	}
	if err := h.ReservationRepo.CreateTx(ctx, tx, res); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlot) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "no availability"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	// Notifications are fire-and-forget: the booking is committed and
	// a broker failure only produces a log line, never a rollback.
	ev := queue.ReservationEvent{
		Type:           queue.EventReservationCreated,
		ReservationID:  res.ID,
		RestaurantID:   rest.ID,
		RestaurantName: rest.Name,
		TableID:        target.ID,
		TableZone:      target.ZoneIn(req.GuestLocale),
		Date:           res.Date,
		Start:          booking.FormatClock(res.StartMinute),
		DurationMin:    res.DurationMin,
		PartySize:      res.PartySize,
		Status:         res.Status,
		GuestName:      res.GuestName,
		GuestEmail:     res.GuestEmail,
		GuestLocale:    res.GuestLocale,
		OwnerLocale:    rest.OwnerLocale,
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishReservationEvent(pubCtx, ev)
	}()

	return c.JSON(http.StatusCreated, echo.Map{"item": newReservationResp(res)})
}
