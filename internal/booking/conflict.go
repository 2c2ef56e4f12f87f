package booking

import "github.com/iliyamo/restaurant-table-reservation/internal/model"

// Overlaps reports whether the half-open intervals [s1, s1+d1) and
// [s2, s2+d2) share at least one minute.  A candidate that exactly
// abuts an existing reservation (candidate start == existing end)
// does not overlap.
func Overlaps(s1, d1, s2, d2 int) bool {
	return s1 < s2+d2 && s2 < s1+d1
}

// HasConflict reports whether the candidate interval on the given
// table collides with any of the existing reservations.  The caller
// supplies reservations already filtered to blocking statuses
// (PENDING, CONFIRMED) for the relevant restaurant and date; rows for
// other tables are skipped here.  A linear scan is fine at the
// expected cardinality of tens of reservations per day, and the
// signature does not preclude swapping in an interval index later.
func HasConflict(tableID uint64, startMinute, durationMin int, existing []model.Reservation) bool {
	for i := range existing {
		r := &existing[i]
		if r.TableID != tableID {
			continue
		}
		if Overlaps(startMinute, durationMin, r.StartMinute, r.DurationMin) {
			return true
		}
	}
	return false
}
