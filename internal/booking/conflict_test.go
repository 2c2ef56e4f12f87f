package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

func TestOverlapsHalfOpen(t *testing.T) {
	// [10:00,11:30) vs [11:30,12:30) abut and must not conflict.
	assert.False(t, Overlaps(600, 90, 690, 60))
	assert.False(t, Overlaps(690, 60, 600, 90))

	// [10:00,11:30) vs [11:00,12:00) share 30 minutes.
	assert.True(t, Overlaps(600, 90, 660, 60))
	assert.True(t, Overlaps(660, 60, 600, 90))

	// Identical intervals.
	assert.True(t, Overlaps(600, 90, 600, 90))

	// Containment.
	assert.True(t, Overlaps(600, 180, 660, 30))
}

func TestHasConflictFiltersByTable(t *testing.T) {
	existing := []model.Reservation{
		{TableID: 1, StartMinute: 600, DurationMin: 90, Status: model.StatusConfirmed},
		{TableID: 2, StartMinute: 600, DurationMin: 90, Status: model.StatusPending},
	}

	assert.True(t, HasConflict(1, 660, 60, existing))
	assert.True(t, HasConflict(2, 660, 60, existing))
	// Table 3 has no reservations at all.
	assert.False(t, HasConflict(3, 660, 60, existing))
	// Abutting slot on table 1 is free.
	assert.False(t, HasConflict(1, 690, 90, existing))
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("10:30")
	assert.NoError(t, err)
	assert.Equal(t, 630, m)

	m, err = ParseClock("00:00")
	assert.NoError(t, err)
	assert.Equal(t, 0, m)

	m, err = ParseClock("23:59")
	assert.NoError(t, err)
	assert.Equal(t, 23*60+59, m)

	for _, bad := range []string{"", "9:30", "24:00", "10:60", "1030", "10-30", "ab:cd"} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, "input %q", bad)
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "10:30", FormatClock(630))
	assert.Equal(t, "23:59", FormatClock(23*60+59))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-06-15")
	assert.NoError(t, err)
	assert.Equal(t, "2025-06-15", d)

	for _, bad := range []string{"", "2025-13-01", "15-06-2025", "2025-06-32", "garbage"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, "input %q", bad)
	}
}
