package model

import "time"

// Restaurant represents a venue that accepts table reservations.
// Restaurants belong to an owner account and carry a preferred
// locale used when notifying the owner about new bookings.
//
// Fields:
//
//	ID        – primary key identifier.
//	OwnerID   – user ID of the restaurant owner.
//	Name      – display name of the restaurant.
//	OwnerLocale – BCP-47 language tag used for owner notifications.
//	IsActive  – whether the restaurant is active.
//	CreatedAt – creation timestamp.
//	UpdatedAt – last update timestamp.
type Restaurant struct {
	ID          uint64    // restaurants.id
	OwnerID     uint64    // restaurants.owner_id
	Name        string    // restaurants.name
	OwnerLocale string    // restaurants.owner_locale
	IsActive    bool      // restaurants.is_active
	CreatedAt   time.Time // restaurants.created_at
	UpdatedAt   time.Time // restaurants.updated_at
}
