package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ErrRestaurantNotFound is returned when a restaurant lookup yields no rows.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// ErrScheduleNotFound is returned when a restaurant has no schedule row yet.
var ErrScheduleNotFound = errors.New("schedule not found")

// RestaurantRepo provides access to restaurants and their reservation
// schedules. The schedule is deliberately read fresh on every request
// rather than cached, so staff edits to working hours or booking mode
// take effect immediately.
type RestaurantRepo struct {
	db *sql.DB
}

// NewRestaurantRepo constructs a RestaurantRepo with the given DB handle.
func NewRestaurantRepo(db *sql.DB) *RestaurantRepo {
	return &RestaurantRepo{db: db}
}

// DB exposes the underlying handle so handlers can begin transactions.
func (r *RestaurantRepo) DB() *sql.DB { return r.db }

// GetByID retrieves a restaurant by its id.
func (r *RestaurantRepo) GetByID(ctx context.Context, id uint64) (*model.Restaurant, error) {
	const q = `SELECT id, owner_id, name, owner_locale, is_active, created_at, updated_at
               FROM restaurants WHERE id = ?`
	var rest model.Restaurant
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&rest.ID, &rest.OwnerID, &rest.Name, &rest.OwnerLocale,
		&rest.IsActive, &rest.CreatedAt, &rest.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return &rest, nil
}

// GetByIDAndOwner retrieves a restaurant while enforcing ownership.
// It returns ErrRestaurantNotFound when no such restaurant exists and
// ErrForbidden when it belongs to a different owner.
func (r *RestaurantRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Restaurant, error) {
	rest, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rest.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return rest, nil
}

// GetSchedule returns the reservation schedule for a restaurant.
func (r *RestaurantRepo) GetSchedule(ctx context.Context, restaurantID uint64) (*model.Schedule, error) {
	const q = `SELECT restaurant_id, open_minute, close_minute, slot_minutes, mode, enabled, updated_at
               FROM restaurant_schedules WHERE restaurant_id = ?`
	var s model.Schedule
	err := r.db.QueryRowContext(ctx, q, restaurantID).Scan(
		&s.RestaurantID, &s.OpenMinute, &s.CloseMinute, &s.SlotMinutes,
		&s.Mode, &s.Enabled, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

// UpsertSchedule writes a restaurant's schedule, creating the row on
// first configuration. Changing the slot duration only affects future
// bookings; existing reservations keep the duration copied at their
// creation time.
func (r *RestaurantRepo) UpsertSchedule(ctx context.Context, s *model.Schedule) error {
	const q = `INSERT INTO restaurant_schedules
                   (restaurant_id, open_minute, close_minute, slot_minutes, mode, enabled)
               VALUES (?, ?, ?, ?, ?, ?)
               ON DUPLICATE KEY UPDATE
                   open_minute = VALUES(open_minute),
                   close_minute = VALUES(close_minute),
                   slot_minutes = VALUES(slot_minutes),
                   mode = VALUES(mode),
                   enabled = VALUES(enabled),
                   updated_at = CURRENT_TIMESTAMP`
	_, err := r.db.ExecContext(ctx, q,
		s.RestaurantID, s.OpenMinute, s.CloseMinute, s.SlotMinutes, s.Mode, s.Enabled)
	return err
}
