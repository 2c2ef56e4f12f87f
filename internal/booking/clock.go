package booking

import (
	"fmt"
	"time"
)

// The wire format for times is 24-hour "HH:MM" and for dates ISO
// "YYYY-MM-DD", both in the restaurant's local time.  Internally all
// times-of-day are minutes since midnight, which keeps the overlap
// arithmetic integer-only.

// ParseClock converts an "HH:MM" string into minutes since midnight.
// It returns ErrInvalidInput for anything that is not a zero-padded
// 24-hour clock value.
func ParseClock(s string) (int, error) {
	if len(s) != 5 {
		return 0, ErrInvalidInput
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, ErrInvalidInput
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// ParseDate validates an ISO calendar date and returns it normalized.
// The engine never converts dates between timezones; a date means a
// calendar day at the restaurant.
func ParseDate(s string) (string, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", ErrInvalidInput
	}
	return t.Format("2006-01-02"), nil
}
