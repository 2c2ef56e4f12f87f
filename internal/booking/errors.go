// Package booking contains the reservation engine core: interval
// conflict detection, slot generation, table selection and the
// reservation lifecycle rules.  Everything in this package is pure:
// callers load tables, schedule and existing reservations from the
// repository layer and pass them in.  Persistence and transaction
// scoping live in the handler and repository layers.
package booking

import "errors"

// ErrInvalidInput signals a malformed clock or date value.  Handlers
// translate it into an HTTP 400 response with a field-specific
// message.
var ErrInvalidInput = errors.New("invalid input")
