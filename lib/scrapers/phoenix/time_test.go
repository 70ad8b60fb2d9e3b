package phoenix

import (
	"testing"
	"time"

	"phoenix-ical/lib/timezone"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2024, time.November, 30, 10, 0, 0, 0, timezone.Location)

	testCases := []struct {
		text     string
		expected time.Time
		ok       bool
	}{
		{
			text:     "Sun 31 Aug",
			expected: time.Date(2025, time.August, 31, 0, 0, 0, 0, timezone.Location),
			ok:       true,
		},
		{
			// a bare month/day in the past rolls forward a year
			text:     "3 January",
			expected: time.Date(2025, time.January, 3, 0, 0, 0, 0, timezone.Location),
			ok:       true,
		},
		{
			text:     "Mon 1 December",
			expected: time.Date(2024, time.December, 1, 0, 0, 0, 0, timezone.Location),
			ok:       true,
		},
		{
			// explicit years are taken as written, even past ones
			text:     "Sat 14 September 2024",
			expected: time.Date(2024, time.September, 14, 0, 0, 0, 0, timezone.Location),
			ok:       true,
		},
		{
			text:     "01/12",
			expected: time.Date(2024, time.December, 1, 0, 0, 0, 0, timezone.Location),
			ok:       true,
		},
		{
			text:     "25/12/2025",
			expected: time.Date(2025, time.December, 25, 0, 0, 0, 0, timezone.Location),
			ok:       true,
		},
		{
			text:     "25/12/25",
			expected: time.Date(2025, time.December, 25, 0, 0, 0, 0, timezone.Location),
			ok:       true,
		},
		{
			// showings from earlier today are still today
			text:     "Sat 30 November",
			expected: time.Date(2024, time.November, 30, 0, 0, 0, 0, timezone.Location),
			ok:       true,
		},
		{text: "Tickets on sale now", ok: false},
		{text: "32 January", ok: false},
		{text: "31/13", ok: false},
		{text: "", ok: false},
	}

	for _, test := range testCases {
		got, ok := ParseDate(test.text, now)
		require.Equal(t, test.ok, ok, "text: %q", test.text)
		if test.ok {
			require.Equal(t, test.expected, got, "text: %q", test.text)
		}
	}
}

func TestParseClock(t *testing.T) {
	testCases := []struct {
		text   string
		hour   int
		minute int
		ok     bool
	}{
		{text: "5.30pm", hour: 17, minute: 30, ok: true},
		{text: "5:30pm", hour: 17, minute: 30, ok: true},
		{text: "12.00pm", hour: 12, minute: 0, ok: true},
		{text: "12.15am", hour: 0, minute: 15, ok: true},
		{text: "9.00am", hour: 9, minute: 0, ok: true},
		{text: "17:30", hour: 17, minute: 30, ok: true},
		{text: "09:05", hour: 9, minute: 5, ok: true},
		{text: "Sold out", ok: false},
		{text: "25:00", ok: false},
		{text: "13.00pm", ok: false},
		{text: "5.61pm", ok: false},
	}

	for _, test := range testCases {
		hour, minute, ok := ParseClock(test.text)
		require.Equal(t, test.ok, ok, "text: %q", test.text)
		if test.ok {
			require.Equal(t, test.hour, hour, "text: %q", test.text)
			require.Equal(t, test.minute, minute, "text: %q", test.text)
		}
	}
}

func TestParseStart(t *testing.T) {
	now := time.Date(2024, time.November, 30, 10, 0, 0, 0, timezone.Location)

	start, ok := ParseStart("Sun 31 Aug", "5.30pm", now)
	require.True(t, ok)
	require.Equal(t, time.Date(2025, time.August, 31, 17, 30, 0, 0, timezone.Location), start)

	_, ok = ParseStart("Sun 31 Aug", "no times today", now)
	require.False(t, ok)

	_, ok = ParseStart("coming soon", "5.30pm", now)
	require.False(t, ok)
}
