package booking

import "github.com/iliyamo/restaurant-table-reservation/internal/model"

// InitialStatus returns the state a new reservation enters when it
// commits: CONFIRMED under AUTO mode, PENDING under MANUAL mode.
func InitialStatus(mode string) string {
	if mode == model.BookingModeAuto {
		return model.StatusConfirmed
	}
	return model.StatusPending
}

// transitions encodes the full reservation state machine.
// CANCELLED and COMPLETED are terminal.
var transitions = map[string][]string{
	model.StatusPending:   {model.StatusConfirmed, model.StatusCancelled},
	model.StatusConfirmed: {model.StatusCancelled, model.StatusCompleted},
}

// CanTransition reports whether the state machine allows moving a
// reservation from one status to another.
func CanTransition(from, to string) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// CanStaffTransition restricts the transitions reachable through the
// status-change endpoint: approve, reject and cancel.  The move to
// COMPLETED is reserved for the housekeeping sweep, which only runs
// once the reservation's slot lies in the past.
func CanStaffTransition(from, to string) bool {
	return to != model.StatusCompleted && CanTransition(from, to)
}

// IsTerminal reports whether a status has no outgoing transitions.
func IsTerminal(status string) bool {
	return len(transitions[status]) == 0
}

// ValidStatus reports whether s is one of the four known statuses.
func ValidStatus(s string) bool {
	switch s {
	case model.StatusPending, model.StatusConfirmed, model.StatusCancelled, model.StatusCompleted:
		return true
	}
	return false
}
