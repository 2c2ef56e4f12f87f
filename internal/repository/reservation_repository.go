package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ErrReservationNotFound is returned when a reservation lookup yields no rows.
var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepo provides CRUD operations for reservations. The
// write path is transactional: the booking handler locks the target
// table row, re-reads the day's blocking reservations through the
// ...Tx methods and inserts the new row before committing, so two
// overlapping bookings on the same table can never both commit.
// Dates are stored as DATE columns and times of day as minutes since
// midnight, all in the restaurant's local time.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so handlers can begin transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationColumns = `id, restaurant_id, table_id, res_date, start_minute, duration_min,
       party_size, guest_name, guest_email, guest_phone, guest_locale, notes, status,
       created_at, updated_at`

func scanReservation(row interface{ Scan(...interface{}) error }) (*model.Reservation, error) {
	var res model.Reservation
	var resDate time.Time
	var phone, notes sql.NullString
	err := row.Scan(
		&res.ID, &res.RestaurantID, &res.TableID, &resDate, &res.StartMinute, &res.DurationMin,
		&res.PartySize, &res.GuestName, &res.GuestEmail, &phone, &res.GuestLocale, &notes, &res.Status,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	res.Date = resDate.Format("2006-01-02")
	if phone.Valid {
		p := phone.String
		res.GuestPhone = &p
	}
	if notes.Valid {
		n := notes.String
		res.Notes = &n
	}
	return &res, nil
}

// ListActiveByDate returns the blocking (PENDING or CONFIRMED)
// reservations of a restaurant for one calendar day. This feeds the
// advisory read path: slot generation and table annotation.
func (r *ReservationRepo) ListActiveByDate(ctx context.Context, restaurantID uint64, date string) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + `
               FROM reservations
               WHERE restaurant_id = ? AND res_date = ? AND status IN ('PENDING','CONFIRMED')
               ORDER BY start_minute, table_id`
	return r.queryReservations(ctx, r.db, q, restaurantID, date)
}

// LockTableTx takes a row lock on the table inside the booking
// transaction. Every booking attempt for the same table serializes on
// this lock, which is what makes the later conflict re-check and
// insert atomic with respect to concurrent attempts. Returns
// ErrTableNotFound when the id does not exist.
func (r *ReservationRepo) LockTableTx(ctx context.Context, tx *sql.Tx, tableID uint64) error {
	const q = `SELECT id FROM tables WHERE id = ? FOR UPDATE`
	var id uint64
	if err := tx.QueryRowContext(ctx, q, tableID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTableNotFound
		}
		return err
	}
	return nil
}

// ListActiveForTableTx re-reads the blocking reservations of one table
// for one day within the booking transaction, after LockTableTx. This
// is the authoritative read the conflict re-check runs against.
func (r *ReservationRepo) ListActiveForTableTx(ctx context.Context, tx *sql.Tx, tableID uint64, date string) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + `
               FROM reservations
               WHERE table_id = ? AND res_date = ? AND status IN ('PENDING','CONFIRMED')
               ORDER BY start_minute`
	return r.queryReservations(ctx, tx, q, tableID, date)
}

// CreateTx inserts a new reservation within the scope of an existing
// transaction and populates the generated ID and timestamps on the
// record. The caller must commit or rollback. An insert that hits the
// uniqueness key on (table_id, res_date, start_minute) returns
// ErrDuplicateSlot.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations
                   (restaurant_id, table_id, res_date, start_minute, duration_min,
                    party_size, guest_name, guest_email, guest_phone, guest_locale, notes, status)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		res.RestaurantID, res.TableID, res.Date, res.StartMinute, res.DurationMin,
		res.PartySize, res.GuestName, res.GuestEmail, res.GuestPhone, res.GuestLocale, res.Notes, res.Status)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateSlot
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	const sel = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	stored, err := scanReservation(tx.QueryRowContext(ctx, sel, res.ID))
	if err != nil {
		return err
	}
	*res = *stored
	return nil
}

// GetByID retrieves a single reservation.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// GetByIDForOwner retrieves a reservation while enforcing that the
// caller owns the restaurant it belongs to. Returns
// ErrReservationNotFound when it does not exist and ErrForbidden when
// it belongs to another owner's restaurant.
func (r *ReservationRepo) GetByIDForOwner(ctx context.Context, id, ownerID uint64) (*model.Reservation, error) {
	res, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	const q = `SELECT owner_id FROM restaurants WHERE id = ?`
	var actualOwnerID uint64
	if err := r.db.QueryRowContext(ctx, q, res.RestaurantID).Scan(&actualOwnerID); err != nil {
		return nil, err
	}
	if actualOwnerID != ownerID {
		return nil, ErrForbidden
	}
	return res, nil
}

// UpdateStatusIf moves a reservation from one status to another as a
// single compare-and-set statement. When the row is no longer in the
// expected state (because another staff member or the sweep got there
// first) no row is updated and ErrConflict is returned.
func (r *ReservationRepo) UpdateStatusIf(ctx context.Context, id uint64, from, to string) error {
	const q = `UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, to, id, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

// ListByRestaurantAndDate returns all reservations of a restaurant
// for one day regardless of status, newest first within a start time.
// This backs the staff dashboard list view.
func (r *ReservationRepo) ListByRestaurantAndDate(ctx context.Context, restaurantID uint64, date string) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + `
               FROM reservations
               WHERE restaurant_id = ? AND res_date = ?
               ORDER BY start_minute, created_at DESC`
	return r.queryReservations(ctx, r.db, q, restaurantID, date)
}

// CompletePast marks CONFIRMED reservations whose slot has fully
// passed as COMPLETED and reports how many rows changed. It is run by
// the periodic housekeeping sweep, never by the booking path.
func (r *ReservationRepo) CompletePast(ctx context.Context, now time.Time) (int64, error) {
	date := now.Format("2006-01-02")
	minute := now.Hour()*60 + now.Minute()
	const q = `UPDATE reservations SET status = 'COMPLETED', updated_at = CURRENT_TIMESTAMP
               WHERE status = 'CONFIRMED'
                 AND (res_date < ? OR (res_date = ? AND start_minute + duration_min <= ?))`
	res, err := r.db.ExecContext(ctx, q, date, date, minute)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func (r *ReservationRepo) queryReservations(ctx context.Context, q queryer, query string, args ...interface{}) ([]model.Reservation, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
