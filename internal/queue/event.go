// Package queue defines message payloads exchanged over the message broker.
package queue

// Event types carried on the reservation.events queue.
const (
	EventReservationCreated   = "reservation.created"
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationCancelled = "reservation.cancelled"
)

// ReservationEvent is published after a booking commits or changes
// status. It carries enough information for downstream consumers to
// notify the guest and the owner in their own languages without
// querying the primary database. Notification delivery is strictly
// fire-and-forget: the reservation is already committed when this
// event is published, and a lost event never rolls it back.
type ReservationEvent struct {
	Type           string `json:"type"`
	ReservationID  uint64 `json:"reservation_id"`
	RestaurantID   uint64 `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name"`
	TableID        uint64 `json:"table_id"`
	TableZone      string `json:"table_zone,omitempty"`
	Date           string `json:"date"`
	Start          string `json:"start"`
	DurationMin    int    `json:"duration_min"`
	PartySize      int    `json:"party_size"`
	Status         string `json:"status"`
	GuestName      string `json:"guest_name"`
	GuestEmail     string `json:"guest_email"`
	GuestLocale    string `json:"guest_locale"`
	OwnerLocale    string `json:"owner_locale"`
	OccurredAt     string `json:"occurred_at"`
}
