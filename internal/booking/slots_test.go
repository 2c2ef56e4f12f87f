package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

func testSchedule(open, close, slot int) *model.Schedule {
	return &model.Schedule{
		RestaurantID: 1,
		OpenMinute:   open,
		CloseMinute:  close,
		SlotMinutes:  slot,
		Mode:         model.BookingModeAuto,
		Enabled:      true,
	}
}

func TestGenerateSlotsBoundary(t *testing.T) {
	// Working hours 10:00-14:00 with 90 minute slots.  Candidates step
	// from opening and a slot must end at or before closing, so the
	// only starts offered are 10:00 and 11:30; 13:00 would run until
	// 14:30 and is not generated.
	sched := testSchedule(600, 840, 90)
	tables := []model.Table{{ID: 1, Capacity: 4, IsActive: true}}

	slots := GenerateSlots(sched, tables, nil, 2)
	require.Len(t, slots, 2)
	assert.Equal(t, "10:00", slots[0].Start)
	assert.Equal(t, "11:30", slots[1].Start)
	assert.True(t, slots[0].Available)
	assert.True(t, slots[1].Available)
}

func TestGenerateSlotsExactFit(t *testing.T) {
	// 10:00-13:00 with 60 minute slots: 10:00, 11:00 and 12:00 all
	// fit; the 12:00 slot ends exactly at closing and is offered.
	sched := testSchedule(600, 780, 60)
	tables := []model.Table{{ID: 1, Capacity: 2, IsActive: true}}

	slots := GenerateSlots(sched, tables, nil, 2)
	require.Len(t, slots, 3)
	assert.Equal(t, "12:00", slots[2].Start)
}

func TestGenerateSlotsUnavailableKept(t *testing.T) {
	sched := testSchedule(600, 840, 60)
	tables := []model.Table{{ID: 1, Capacity: 4, IsActive: true}}
	existing := []model.Reservation{
		{TableID: 1, Date: "2025-06-15", StartMinute: 660, DurationMin: 60, Status: model.StatusConfirmed},
	}

	slots := GenerateSlots(sched, tables, existing, 2)
	require.Len(t, slots, 4)
	// The 11:00 slot is booked but still present, flagged unavailable.
	assert.Equal(t, "11:00", slots[1].Start)
	assert.False(t, slots[1].Available)
	assert.True(t, slots[0].Available)
	assert.True(t, slots[2].Available)
	assert.True(t, slots[3].Available)
}

func TestGenerateSlotsSecondTableKeepsSlotOpen(t *testing.T) {
	sched := testSchedule(600, 720, 60)
	tables := []model.Table{
		{ID: 1, Capacity: 4, IsActive: true},
		{ID: 2, Capacity: 4, IsActive: true},
	}
	existing := []model.Reservation{
		{TableID: 1, StartMinute: 600, DurationMin: 60, Status: model.StatusConfirmed},
	}

	slots := GenerateSlots(sched, tables, existing, 4)
	require.Len(t, slots, 2)
	assert.True(t, slots[0].Available, "table 2 is still free at 10:00")
}

func TestGenerateSlotsNoCapacity(t *testing.T) {
	sched := testSchedule(600, 840, 60)
	tables := []model.Table{
		{ID: 1, Capacity: 2, IsActive: true},
		{ID: 2, Capacity: 6, IsActive: false}, // inactive, must not count
	}

	// Party larger than any active table: empty list, not an error.
	assert.Empty(t, GenerateSlots(sched, tables, nil, 6))
	// Party size below 1: same.
	assert.Empty(t, GenerateSlots(sched, tables, nil, 0))
	assert.Empty(t, GenerateSlots(sched, tables, nil, -3))
}

func TestGenerateSlotsDegenerateSchedule(t *testing.T) {
	tables := []model.Table{{ID: 1, Capacity: 4, IsActive: true}}

	assert.Empty(t, GenerateSlots(testSchedule(840, 600, 60), tables, nil, 2))
	assert.Empty(t, GenerateSlots(testSchedule(600, 840, 0), tables, nil, 2))
}
