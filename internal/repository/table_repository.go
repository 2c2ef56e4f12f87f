package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ErrTableNotFound is returned when a table lookup yields no rows.
var ErrTableNotFound = errors.New("table not found")

// TableRepo provides access to a restaurant's physical tables and
// their per-locale zone labels. The booking engine itself only reads
// active tables; the write methods back the staff CRUD endpoints.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo constructs a TableRepo with the given DB handle.
func NewTableRepo(db *sql.DB) *TableRepo {
	return &TableRepo{db: db}
}

// ListActive retrieves the bookable tables of a restaurant ordered by
// capacity then sort_order, with zone translations attached. The
// ordering matches the auto-assignment heuristic so callers see
// tables in assignment order.
func (r *TableRepo) ListActive(ctx context.Context, restaurantID uint64) ([]model.Table, error) {
	const q = `SELECT id, restaurant_id, capacity, zone, sort_order, is_active, created_at, updated_at
               FROM tables
               WHERE restaurant_id = ? AND is_active = 1
               ORDER BY capacity, sort_order, id`
	tables, err := r.queryTables(ctx, q, restaurantID)
	if err != nil {
		return nil, err
	}
	if err := r.attachTranslations(ctx, tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// ListByRestaurant retrieves all tables of a restaurant, active or
// not, for the staff dashboard.
func (r *TableRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Table, error) {
	const q = `SELECT id, restaurant_id, capacity, zone, sort_order, is_active, created_at, updated_at
               FROM tables
               WHERE restaurant_id = ?
               ORDER BY capacity, sort_order, id`
	tables, err := r.queryTables(ctx, q, restaurantID)
	if err != nil {
		return nil, err
	}
	if err := r.attachTranslations(ctx, tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// GetByID retrieves a single table by its id.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	const q = `SELECT id, restaurant_id, capacity, zone, sort_order, is_active, created_at, updated_at
               FROM tables WHERE id = ?`
	var t model.Table
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.RestaurantID, &t.Capacity, &t.Zone, &t.SortOrder,
		&t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	tt := []model.Table{t}
	if err := r.attachTranslations(ctx, tt); err != nil {
		return nil, err
	}
	return &tt[0], nil
}

// Create inserts a table record. On success the table's ID is populated.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	const q = `INSERT INTO tables (restaurant_id, capacity, zone, sort_order, is_active)
               VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.RestaurantID, t.Capacity, t.Zone, t.SortOrder, t.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// Update rewrites capacity, zone, sort_order and is_active for a table
// belonging to the given restaurant. Returns ErrTableNotFound when the
// table does not exist under that restaurant.
func (r *TableRepo) Update(ctx context.Context, t *model.Table) error {
	const q = `UPDATE tables
               SET capacity = ?, zone = ?, sort_order = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ? AND restaurant_id = ?`
	res, err := r.db.ExecContext(ctx, q, t.Capacity, t.Zone, t.SortOrder, t.IsActive, t.ID, t.RestaurantID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTableNotFound
	}
	return nil
}

// Deactivate soft-removes a table. Rows are never deleted because
// historical reservations keep referencing them.
func (r *TableRepo) Deactivate(ctx context.Context, id, restaurantID uint64) error {
	const q = `UPDATE tables SET is_active = 0, updated_at = CURRENT_TIMESTAMP
               WHERE id = ? AND restaurant_id = ?`
	res, err := r.db.ExecContext(ctx, q, id, restaurantID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTableNotFound
	}
	return nil
}

// SetZoneTranslations replaces the per-locale zone labels for a table.
// An empty map clears all overrides; the default-language zone on the
// table row always remains as fallback.
func (r *TableRepo) SetZoneTranslations(ctx context.Context, tableID uint64, labels map[string]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM table_zone_translations WHERE table_id = ?`, tableID); err != nil {
		return err
	}
	if len(labels) > 0 {
		query := `INSERT INTO table_zone_translations (table_id, locale, zone) VALUES `
		args := make([]interface{}, 0, len(labels)*3)
		first := true
		for locale, zone := range labels {
			if !first {
				query += ","
			}
			first = false
			query += "(?, ?, ?)"
			args = append(args, tableID, strings.ToLower(strings.TrimSpace(locale)), zone)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *TableRepo) queryTables(ctx context.Context, q string, args ...interface{}) ([]model.Table, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make([]model.Table, 0)
	for rows.Next() {
		var t model.Table
		if err := rows.Scan(
			&t.ID, &t.RestaurantID, &t.Capacity, &t.Zone, &t.SortOrder,
			&t.IsActive, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tables, nil
}

// attachTranslations loads zone labels for all tables in one query.
func (r *TableRepo) attachTranslations(ctx context.Context, tables []model.Table) error {
	if len(tables) == 0 {
		return nil
	}
	ids := make([]interface{}, 0, len(tables))
	placeholders := make([]string, 0, len(tables))
	index := make(map[uint64]int, len(tables))
	for i := range tables {
		ids = append(ids, tables[i].ID)
		placeholders = append(placeholders, "?")
		index[tables[i].ID] = i
	}
	q := `SELECT table_id, locale, zone FROM table_zone_translations
          WHERE table_id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := r.db.QueryContext(ctx, q, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var tableID uint64
		var locale, zone string
		if err := rows.Scan(&tableID, &locale, &zone); err != nil {
			return err
		}
		i, ok := index[tableID]
		if !ok {
			continue
		}
		if tables[i].ZoneI18n == nil {
			tables[i].ZoneI18n = make(map[string]string)
		}
		tables[i].ZoneI18n[locale] = zone
	}
	return rows.Err()
}
