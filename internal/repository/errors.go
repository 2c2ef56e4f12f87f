// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current staff account is not
// authorized to operate on a restaurant owned by someone else, while
// ErrConflict signals that a state change raced with another writer
// (e.g. approving a reservation that was just cancelled).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a restaurant they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed because
// the row is no longer in the expected state, such as a status
// transition losing a race with another one. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrDuplicateSlot is returned when an insert collides with the
// uniqueness key on (table_id, res_date, start_minute). Two identical
// slots can never both commit; partially overlapping intervals are
// caught by the in-transaction re-check instead.
var ErrDuplicateSlot = errors.New("duplicate slot")
