package booking

import "github.com/iliyamo/restaurant-table-reservation/internal/model"

// Slot is one candidate start time for a date, flagged with whether
// at least one suitable table is free for the full slot duration.
// Unavailable slots are kept in the result so callers can render
// them disabled instead of silently dropping them.
type Slot struct {
	StartMinute int    `json:"-"`
	Start       string `json:"start"`
	Available   bool   `json:"available"`
}

// GenerateSlots enumerates candidate start times for a date in
// chronological order.  Candidates run from the working-hours start
// to the last start whose slot still ends at or before closing,
// stepping by the slot duration.  A slot is available when at least
// one active table with sufficient capacity has no conflict for the
// exact interval.
//
// A party size below 1 or above the largest active table's capacity
// yields an empty list: "no capacity for this party" is a normal,
// displayable outcome, not an error.
func GenerateSlots(sched *model.Schedule, tables []model.Table, existing []model.Reservation, partySize int) []Slot {
	slots := make([]Slot, 0)
	if sched.SlotMinutes <= 0 || sched.CloseMinute <= sched.OpenMinute {
		return slots
	}
	suitable := SuitableTables(tables, partySize)
	if len(suitable) == 0 {
		return slots
	}
	for start := sched.OpenMinute; start+sched.SlotMinutes <= sched.CloseMinute; start += sched.SlotMinutes {
		available := false
		for i := range suitable {
			if !HasConflict(suitable[i].ID, start, sched.SlotMinutes, existing) {
				available = true
				break
			}
		}
		slots = append(slots, Slot{
			StartMinute: start,
			Start:       FormatClock(start),
			Available:   available,
		})
	}
	return slots
}
