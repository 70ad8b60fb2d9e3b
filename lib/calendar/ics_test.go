package calendar

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"phoenix-ical/lib/timezone"

	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	events := []Event{
		{
			Title:  "Dune: Part Two (12A)",
			Start:  time.Date(2025, time.August, 31, 17, 30, 0, 0, timezone.Location),
			End:    time.Date(2025, time.August, 31, 20, 9, 0, 0, timezone.Location),
			Screen: "Screen 1",
			URL:    "https://www.phoenix.org.uk/whats-on/programme/dune-part-two/",
		},
		{
			Title: "Past Lives",
			Start: time.Date(2025, time.September, 1, 19, 0, 0, 0, timezone.Location),
		},
	}

	var buf bytes.Buffer
	err := Encode(&buf, events)
	require.NoError(t, err)
	out := buf.String()

	require.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	require.Contains(t, out, "PRODID:-//Phoenix Leicester iCal//EN")
	require.Contains(t, out, "BEGIN:VEVENT")
	require.Contains(t, out, "SUMMARY:Dune: Part Two (12A)")
	require.Contains(t, out, "UID:"+events[0].UID())
	require.Contains(t, out, "LOCATION:Screen 1")
	// an event without a screen falls back to the venue address
	require.Contains(t, out, "Midland Street")
	// local-zone start carries the timezone, not a bare wall time
	require.Contains(t, out, "TZID=Europe/London")
}

func TestEncodeDeterministic(t *testing.T) {
	events := []Event{
		{
			Title:       "Dune: Part Two",
			Start:       time.Date(2025, time.August, 31, 17, 30, 0, 0, timezone.Location),
			Screen:      "Screen 1",
			Description: "Paul Atreides unites with the Fremen.",
			URL:         "https://www.phoenix.org.uk/whats-on/programme/dune-part-two/",
		},
		{
			Title: "Past Lives",
			Start: time.Date(2025, time.September, 1, 19, 0, 0, 0, timezone.Location),
		},
	}

	var first, second bytes.Buffer
	require.NoError(t, Encode(&first, events))
	require.NoError(t, Encode(&second, events))
	require.Equal(t, first.Bytes(), second.Bytes())
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, nil))
	require.Contains(t, buf.String(), "BEGIN:VCALENDAR")
	require.NotContains(t, buf.String(), "BEGIN:VEVENT")
}
