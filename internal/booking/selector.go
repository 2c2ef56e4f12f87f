package booking

import (
	"sort"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// TableAvailability pairs a table with its availability for one
// specific interval.  Fully booked tables stay in the list so the
// caller can show them greyed out.
type TableAvailability struct {
	Table     model.Table
	Available bool
}

// SuitableTables filters to active tables that can seat the party
// and orders them by (capacity asc, sort order asc, id asc).  The
// ordering is the basis of auto-assignment: smallest-capacity-first
// avoids wasting a large table on a small party, the sort order lets
// staff express a preference among equal capacities, and the id
// tie-break keeps the result deterministic for identical inputs.
func SuitableTables(tables []model.Table, partySize int) []model.Table {
	if partySize < 1 {
		return nil
	}
	out := make([]model.Table, 0, len(tables))
	for _, t := range tables {
		if t.IsActive && t.Capacity >= partySize {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Capacity != out[j].Capacity {
			return out[i].Capacity < out[j].Capacity
		}
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// AnnotateTables returns every suitable table for the interval,
// flagged with availability per the conflict detector.
func AnnotateTables(tables []model.Table, existing []model.Reservation, startMinute, durationMin, partySize int) []TableAvailability {
	suitable := SuitableTables(tables, partySize)
	out := make([]TableAvailability, 0, len(suitable))
	for _, t := range suitable {
		out = append(out, TableAvailability{
			Table:     t,
			Available: !HasConflict(t.ID, startMinute, durationMin, existing),
		})
	}
	return out
}

// PickTable implements the auto-assignment heuristic: among suitable
// tables in selector order, the first one with no conflict wins.
// The boolean is false when no table qualifies.
func PickTable(tables []model.Table, existing []model.Reservation, startMinute, durationMin, partySize int) (model.Table, bool) {
	for _, t := range SuitableTables(tables, partySize) {
		if !HasConflict(t.ID, startMinute, durationMin, existing) {
			return t, true
		}
	}
	return model.Table{}, false
}
