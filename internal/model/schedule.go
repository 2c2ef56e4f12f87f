package model

import "time"

// BookingMode controls how new reservations enter the lifecycle.
// In AUTO mode a booking is confirmed the moment it commits; in
// MANUAL mode it is created pending and the owner must approve it.
const (
	BookingModeAuto   = "AUTO"
	BookingModeManual = "MANUAL"
)

// Schedule holds the per-restaurant reservation configuration: the
// working hours window, the slot duration and the booking mode.
// Working hours are stored as minutes since midnight in the
// restaurant's local time; no timezone conversion happens anywhere
// in the engine.  The schedule is read fresh on every request so
// staff edits take effect immediately.
//
// Fields:
//
//	RestaurantID – restaurant this schedule belongs to (1:1).
//	OpenMinute   – working hours start, minutes since midnight.
//	CloseMinute  – working hours end, minutes since midnight.
//	SlotMinutes  – slot duration in minutes (60, 90 or 120).
//	Mode         – AUTO or MANUAL.
//	Enabled      – whether reservations are accepted at all.
//	UpdatedAt    – last update timestamp.
type Schedule struct {
	RestaurantID uint64    // restaurant_schedules.restaurant_id
	OpenMinute   int       // restaurant_schedules.open_minute
	CloseMinute  int       // restaurant_schedules.close_minute
	SlotMinutes  int       // restaurant_schedules.slot_minutes
	Mode         string    // restaurant_schedules.mode
	Enabled      bool      // restaurant_schedules.enabled
	UpdatedAt    time.Time // restaurant_schedules.updated_at
}

// AllowedSlotMinutes lists the slot durations staff may configure.
var AllowedSlotMinutes = []int{60, 90, 120}

// ValidSlotMinutes reports whether d is one of the configurable slot durations.
func ValidSlotMinutes(d int) bool {
	for _, v := range AllowedSlotMinutes {
		if v == d {
			return true
		}
	}
	return false
}
