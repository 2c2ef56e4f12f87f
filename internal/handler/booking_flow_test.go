package handler

// Transaction-level tests for the booking write path. The database is
// replaced with sqlmock so every scenario can script the exact row
// state the handler observes, including the divergence between the
// advisory availability snapshot and the authoritative in-transaction
// re-read that decides the booking.

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

var reservationCols = []string{
	"id", "restaurant_id", "table_id", "res_date", "start_minute", "duration_min",
	"party_size", "guest_name", "guest_email", "guest_phone", "guest_locale", "notes", "status",
	"created_at", "updated_at",
}

const bookingBody = `{"date":"2026-12-24","start_time":"19:00","party_size":2,"guest_name":"Dana Reyes","guest_email":"dana@example.com"}`

func newBookingMock(t *testing.T) (*BookingHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	h := NewBookingHandler(
		repository.NewRestaurantRepo(db),
		repository.NewTableRepo(db),
		repository.NewReservationRepo(db),
	)
	return h, mock
}

func postBooking(t *testing.T, h *BookingHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/restaurants/1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/restaurants/:id/bookings")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.CreateBooking(c))
	return rec
}

func stageRestaurant(mock sqlmock.Sqlmock, active bool) {
	now := time.Now()
	mock.ExpectQuery("FROM restaurants WHERE id").WithArgs(1).WillReturnRows(
		sqlmock.NewRows([]string{"id", "owner_id", "name", "owner_locale", "is_active", "created_at", "updated_at"}).
			AddRow(1, 1, "Trattoria Aurora", "en", active, now, now))
}

// stageSchedule opens the restaurant 10:00-22:00 with 90-minute slots.
func stageSchedule(mock sqlmock.Sqlmock, mode string, enabled bool) {
	mock.ExpectQuery("FROM restaurant_schedules WHERE restaurant_id").WithArgs(1).WillReturnRows(
		sqlmock.NewRows([]string{"restaurant_id", "open_minute", "close_minute", "slot_minutes", "mode", "enabled", "updated_at"}).
			AddRow(1, 600, 1320, 90, mode, enabled, time.Now()))
}

// stageTables stages the active-table listing with a single table
// (id 10) of the given capacity, followed by the zone label lookup.
func stageTables(mock sqlmock.Sqlmock, capacity int) {
	now := time.Now()
	mock.ExpectQuery("FROM tables WHERE restaurant_id").WithArgs(1).WillReturnRows(
		sqlmock.NewRows([]string{"id", "restaurant_id", "capacity", "zone", "sort_order", "is_active", "created_at", "updated_at"}).
			AddRow(10, 1, capacity, "terrace", 1, true, now, now))
	mock.ExpectQuery("FROM table_zone_translations").WillReturnRows(
		sqlmock.NewRows([]string{"table_id", "locale", "zone"}))
}

func reservationRow(id uint64, startMinute int, status string) *sqlmock.Rows {
	now := time.Now()
	resDate := time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(reservationCols).AddRow(
		id, 1, 10, resDate, startMinute, 90, 2,
		"Dana Reyes", "dana@example.com", nil, "en", nil, status, now, now)
}

// A disabled schedule short-circuits before input validation: the
// malformed date in the body must yield 403, not 400.
func TestCreateBookingDisabledBeforeValidation(t *testing.T) {
	h, mock := newBookingMock(t)
	stageRestaurant(mock, true)
	stageSchedule(mock, "AUTO", false)

	body := `{"date":"24/12/2026","start_time":"19:00","party_size":2,"guest_name":"Dana Reyes","guest_email":"dana@example.com"}`
	rec := postBooking(t, h, body)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "reservations disabled")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingRestaurantNotFound(t *testing.T) {
	h, mock := newBookingMock(t)
	mock.ExpectQuery("FROM restaurants WHERE id").WithArgs(1).WillReturnError(sql.ErrNoRows)

	rec := postBooking(t, h, bookingBody)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "restaurant not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A pinned table that exists but belongs to another restaurant is
// indistinguishable from a missing one: 404, never 422.
func TestCreateBookingPinnedTableOtherRestaurant(t *testing.T) {
	h, mock := newBookingMock(t)
	stageRestaurant(mock, true)
	stageSchedule(mock, "AUTO", true)
	stageTables(mock, 4)
	now := time.Now()
	mock.ExpectQuery("FROM tables WHERE id").WithArgs(99).WillReturnRows(
		sqlmock.NewRows([]string{"id", "restaurant_id", "capacity", "zone", "sort_order", "is_active", "created_at", "updated_at"}).
			AddRow(99, 2, 4, "patio", 1, true, now, now))
	mock.ExpectQuery("FROM table_zone_translations").WillReturnRows(
		sqlmock.NewRows([]string{"table_id", "locale", "zone"}))

	body := `{"table_id":99,"date":"2026-12-24","start_time":"19:00","party_size":2,"guest_name":"Dana Reyes","guest_email":"dana@example.com"}`
	rec := postBooking(t, h, body)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "table not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingPinnedTableInactive(t *testing.T) {
	h, mock := newBookingMock(t)
	stageRestaurant(mock, true)
	stageSchedule(mock, "AUTO", true)
	stageTables(mock, 4)
	now := time.Now()
	mock.ExpectQuery("FROM tables WHERE id").WithArgs(30).WillReturnRows(
		sqlmock.NewRows([]string{"id", "restaurant_id", "capacity", "zone", "sort_order", "is_active", "created_at", "updated_at"}).
			AddRow(30, 1, 4, "patio", 2, false, now, now))
	mock.ExpectQuery("FROM table_zone_translations").WillReturnRows(
		sqlmock.NewRows([]string{"table_id", "locale", "zone"}))

	body := `{"table_id":30,"date":"2026-12-24","start_time":"19:00","party_size":2,"guest_name":"Dana Reyes","guest_email":"dana@example.com"}`
	rec := postBooking(t, h, body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "table unsuitable")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A pinned table too small for the party is rejected with 422 before
// any transaction is opened.
func TestCreateBookingPinnedTableTooSmall(t *testing.T) {
	h, mock := newBookingMock(t)
	stageRestaurant(mock, true)
	stageSchedule(mock, "AUTO", true)
	stageTables(mock, 4)

	body := `{"table_id":10,"date":"2026-12-24","start_time":"19:00","party_size":6,"guest_name":"Dana Reyes","guest_email":"dana@example.com"}`
	rec := postBooking(t, h, body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "table unsuitable")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The advisory snapshot sees a free slot, but the in-transaction
// re-read behind the row lock finds a reservation another request has
// committed in the meantime. The re-check wins: 409 and rollback,
// never a second row.
func TestCreateBookingRecheckConflict(t *testing.T) {
	h, mock := newBookingMock(t)
	stageRestaurant(mock, true)
	stageSchedule(mock, "AUTO", true)
	stageTables(mock, 4)
	mock.ExpectQuery("FROM reservations WHERE restaurant_id").WithArgs(1, "2026-12-24").
		WillReturnRows(sqlmock.NewRows(reservationCols))
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectQuery("FROM reservations WHERE table_id").WithArgs(10, "2026-12-24").
		WillReturnRows(reservationRow(5, 19*60, "CONFIRMED"))
	mock.ExpectRollback()

	rec := postBooking(t, h, bookingBody)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "no availability")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The uniqueness key on (table_id, res_date, start_minute) is the last
// line of defense; a duplicate-key error surfaces as the same 409 a
// lost re-check does.
func TestCreateBookingDuplicateSlot(t *testing.T) {
	h, mock := newBookingMock(t)
	stageRestaurant(mock, true)
	stageSchedule(mock, "AUTO", true)
	stageTables(mock, 4)
	mock.ExpectQuery("FROM reservations WHERE restaurant_id").WithArgs(1, "2026-12-24").
		WillReturnRows(sqlmock.NewRows(reservationCols))
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectQuery("FROM reservations WHERE table_id").WithArgs(10, "2026-12-24").
		WillReturnRows(sqlmock.NewRows(reservationCols))
	mock.ExpectExec("INSERT INTO reservations").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '10-2026-12-24-1140' for key 'uniq_table_slot'"))
	mock.ExpectRollback()

	rec := postBooking(t, h, bookingBody)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "no availability")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Happy path under AUTO mode: lock, clean re-check, insert, commit,
// and the stored row comes back CONFIRMED in the 201 response.
func TestCreateBookingSuccessAutoConfirms(t *testing.T) {
	h, mock := newBookingMock(t)
	stageRestaurant(mock, true)
	stageSchedule(mock, "AUTO", true)
	stageTables(mock, 4)
	mock.ExpectQuery("FROM reservations WHERE restaurant_id").WithArgs(1, "2026-12-24").
		WillReturnRows(sqlmock.NewRows(reservationCols))
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectQuery("FROM reservations WHERE table_id").WithArgs(10, "2026-12-24").
		WillReturnRows(sqlmock.NewRows(reservationCols))
	mock.ExpectExec("INSERT INTO reservations").
		WithArgs(1, 10, "2026-12-24", 19*60, 90, 2, "Dana Reyes", "dana@example.com", nil, "en", nil, "CONFIRMED").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery("FROM reservations WHERE id").WithArgs(7).
		WillReturnRows(reservationRow(7, 19*60, "CONFIRMED"))
	mock.ExpectCommit()

	rec := postBooking(t, h, bookingBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Item reservationResp `json:"item"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(7), resp.Item.ID)
	assert.Equal(t, uint64(10), resp.Item.TableID)
	assert.Equal(t, "2026-12-24", resp.Item.Date)
	assert.Equal(t, "19:00", resp.Item.Start)
	assert.Equal(t, "CONFIRMED", resp.Item.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Cancelling a reservation frees its slot because the in-transaction
// re-read only selects blocking statuses. The expectation pins the
// status filter, so a cancelled row for the very same slot is never
// even fetched and the booking goes through.
func TestCreateBookingCancelledSlotReopens(t *testing.T) {
	h, mock := newBookingMock(t)
	stageRestaurant(mock, true)
	stageSchedule(mock, "AUTO", true)
	stageTables(mock, 4)
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectQuery(`FROM reservations WHERE table_id = \? AND res_date = \? AND status IN \('PENDING','CONFIRMED'\)`).
		WithArgs(10, "2026-12-24").
		WillReturnRows(sqlmock.NewRows(reservationCols))
	mock.ExpectExec("INSERT INTO reservations").
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectQuery("FROM reservations WHERE id").WithArgs(8).
		WillReturnRows(reservationRow(8, 19*60, "CONFIRMED"))
	mock.ExpectCommit()

	body := `{"table_id":10,"date":"2026-12-24","start_time":"19:00","party_size":2,"guest_name":"Dana Reyes","guest_email":"dana@example.com"}`
	rec := postBooking(t, h, body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func getAvailability(t *testing.T, h *AvailabilityHandler, query string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/restaurants/1/availability?"+query, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/restaurants/:id/availability")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.GetAvailability(c))
	return rec
}

func TestGetAvailabilityRestaurantNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	h := NewAvailabilityHandler(
		repository.NewRestaurantRepo(db),
		repository.NewTableRepo(db),
		repository.NewReservationRepo(db),
	)
	mock.ExpectQuery("FROM restaurants WHERE id").WithArgs(1).WillReturnError(sql.ErrNoRows)

	rec := getAvailability(t, h, "date=2026-12-24&guests=2")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "restaurant not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAvailabilityMissingSchedule(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	h := NewAvailabilityHandler(
		repository.NewRestaurantRepo(db),
		repository.NewTableRepo(db),
		repository.NewReservationRepo(db),
	)
	stageRestaurant(mock, true)
	mock.ExpectQuery("FROM restaurant_schedules WHERE restaurant_id").WithArgs(1).WillReturnError(sql.ErrNoRows)

	rec := getAvailability(t, h, "date=2026-12-24&guests=2")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "reservations disabled")
	assert.NoError(t, mock.ExpectationsWereMet())
}
