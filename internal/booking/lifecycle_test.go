package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, model.StatusConfirmed, InitialStatus(model.BookingModeAuto))
	assert.Equal(t, model.StatusPending, InitialStatus(model.BookingModeManual))
	assert.Equal(t, model.StatusPending, InitialStatus(""), "unknown modes default to manual approval")
}

func TestCanTransition(t *testing.T) {
	allowed := [][2]string{
		{model.StatusPending, model.StatusConfirmed},
		{model.StatusPending, model.StatusCancelled},
		{model.StatusConfirmed, model.StatusCancelled},
		{model.StatusConfirmed, model.StatusCompleted},
	}
	for _, p := range allowed {
		assert.True(t, CanTransition(p[0], p[1]), "%s -> %s", p[0], p[1])
	}

	denied := [][2]string{
		{model.StatusCancelled, model.StatusPending},
		{model.StatusCancelled, model.StatusConfirmed},
		{model.StatusCompleted, model.StatusCancelled},
		{model.StatusPending, model.StatusCompleted},
		{model.StatusConfirmed, model.StatusPending},
		{model.StatusPending, model.StatusPending},
	}
	for _, p := range denied {
		assert.False(t, CanTransition(p[0], p[1]), "%s -> %s", p[0], p[1])
	}
}

func TestCanStaffTransition(t *testing.T) {
	assert.True(t, CanStaffTransition(model.StatusPending, model.StatusConfirmed))
	assert.True(t, CanStaffTransition(model.StatusPending, model.StatusCancelled))
	assert.True(t, CanStaffTransition(model.StatusConfirmed, model.StatusCancelled))
	// Completion belongs to the housekeeping sweep, not the endpoint.
	assert.False(t, CanStaffTransition(model.StatusConfirmed, model.StatusCompleted))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(model.StatusPending))
	assert.False(t, IsTerminal(model.StatusConfirmed))
	assert.True(t, IsTerminal(model.StatusCancelled))
	assert.True(t, IsTerminal(model.StatusCompleted))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(model.StatusPending))
	assert.False(t, ValidStatus("NO_SHOW"))
	assert.False(t, ValidStatus(""))
}
