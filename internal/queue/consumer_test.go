package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent(eventType string) *ReservationEvent {
	return &ReservationEvent{
		Type:           eventType,
		ReservationID:  7,
		RestaurantID:   3,
		RestaurantName: "La Terraza",
		Date:           "2025-06-15",
		Start:          "19:30",
		PartySize:      4,
		GuestName:      "Ana",
		GuestEmail:     "ana@example.com",
		GuestLocale:    "es",
		OwnerLocale:    "en",
		OccurredAt:     "2025-06-10T12:00:00Z",
	}
}

func TestRenderLinesLocalizesPerRecipient(t *testing.T) {
	lines := renderLines(testEvent(EventReservationCreated))
	require.Len(t, lines, 2)

	// Guest line in Spanish, owner line in English.
	assert.Contains(t, lines[0], "ana@example.com")
	assert.Contains(t, lines[0], "Su reserva en La Terraza")
	assert.Contains(t, lines[0], "19:30")
	assert.Contains(t, lines[1], "restaurant 3")
	assert.Contains(t, lines[1], "New reservation from Ana")
}

func TestRenderLinesFallsBackToEnglish(t *testing.T) {
	ev := testEvent(EventReservationConfirmed)
	ev.GuestLocale = "de" // no German templates
	ev.OwnerLocale = ""

	lines := renderLines(ev)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "is confirmed")
	assert.Contains(t, lines[0], "lang=en")
	assert.Contains(t, lines[1], "lang=en")
}

func TestRenderLinesRegionSubtags(t *testing.T) {
	ev := testEvent(EventReservationCancelled)
	ev.GuestLocale = "fr-CA"

	lines := renderLines(ev)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "a été annulée")
	assert.Contains(t, lines[0], "lang=fr")
}

func TestRenderLinesUnknownType(t *testing.T) {
	ev := testEvent("reservation.exploded")
	assert.Empty(t, renderLines(ev))
}
