package model

import "time"

// Table describes a physical seating unit inside a restaurant.
// Capacity bounds the party sizes the table can host; SortOrder is
// a staff-controlled tie-break used by the auto-assignment
// heuristic (lower values are tried first among equal capacities).
//
// Fields:
//
//	ID         – primary key identifier.
//	RestaurantID – restaurant to which this table belongs.
//	Capacity   – number of guests the table seats (>= 1).
//	Zone       – default-language zone/label, e.g. "terrace".
//	ZoneI18n   – per-locale overrides for Zone, keyed by language tag.
//	SortOrder  – ordering hint; tie-break after capacity.
//	IsActive   – whether the table is bookable.
//	CreatedAt  – creation timestamp.
//	UpdatedAt  – last update timestamp.
type Table struct {
	ID           uint64            // tables.id
	RestaurantID uint64            // tables.restaurant_id
	Capacity     int               // tables.capacity
	Zone         string            // tables.zone (default language)
	ZoneI18n     map[string]string // table_zone_translations rows
	SortOrder    int               // tables.sort_order
	IsActive     bool              // tables.is_active
	CreatedAt    time.Time         // tables.created_at
	UpdatedAt    time.Time         // tables.updated_at
}

// ZoneIn returns the zone label for the given locale, falling back
// to the default-language Zone when no override exists.
func (t *Table) ZoneIn(locale string) string {
	if v, ok := t.ZoneI18n[locale]; ok && v != "" {
		return v
	}
	return t.Zone
}
