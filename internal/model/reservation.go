package model

import "time"

// Reservation statuses.  PENDING and CONFIRMED reservations block
// their interval; CANCELLED and COMPLETED are terminal and never do.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

// Reservation records a guest's booking of a single table for one
// slot on one calendar day.  DurationMin is copied from the
// restaurant's slot duration when the booking commits and never
// changes afterwards, so later schedule edits do not move existing
// bookings.  Reservations are cancelled by status change, never
// deleted, preserving audit history.
//
// Fields:
//
//	ID           – primary key identifier.
//	RestaurantID – restaurant the booking belongs to.
//	TableID      – table assigned to the booking.
//	Date         – calendar day, YYYY-MM-DD, restaurant-local.
//	StartMinute  – start time, minutes since midnight.
//	DurationMin  – slot length in minutes, immutable after creation.
//	PartySize    – number of guests (>= 1, <= table capacity).
//	GuestName    – name the booking is held under.
//	GuestEmail   – required contact address.
//	GuestPhone   – optional contact number.
//	GuestLocale  – language tag for guest notifications.
//	Notes        – optional free text from the guest.
//	Status       – lifecycle state, see constants above.
//	CreatedAt    – creation timestamp.
//	UpdatedAt    – last update timestamp.
type Reservation struct {
	ID           uint64    // reservations.id
	RestaurantID uint64    // reservations.restaurant_id
	TableID      uint64    // reservations.table_id
	Date         string    // reservations.res_date
	StartMinute  int       // reservations.start_minute
	DurationMin  int       // reservations.duration_min
	PartySize    int       // reservations.party_size
	GuestName    string    // reservations.guest_name
	GuestEmail   string    // reservations.guest_email
	GuestPhone   *string   // reservations.guest_phone (nullable)
	GuestLocale  string    // reservations.guest_locale
	Notes        *string   // reservations.notes (nullable)
	Status       string    // reservations.status
	CreatedAt    time.Time // reservations.created_at
	UpdatedAt    time.Time // reservations.updated_at
}

// EndMinute returns the exclusive end of the reservation's interval.
func (r *Reservation) EndMinute() int { return r.StartMinute + r.DurationMin }
