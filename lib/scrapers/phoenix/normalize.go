package phoenix

import (
	"log/slog"
	"time"

	"phoenix-ical/lib/calendar"
	"phoenix-ical/lib/textutil"
)

// Normalize converts one raw block into a validated event. `now` is the
// reference point for year inference, injected so the conversion stays
// a pure function. Returns ok=false (a soft-skip) when the title cleans
// to nothing or the start cannot be parsed; a missing screen label is
// tolerated.
func Normalize(block RawEventBlock, now time.Time) (calendar.Event, bool) {
	title := textutil.CleanTitle(block.Title)
	if title == "" {
		slog.Warn("dropping block with empty title", "date", block.Date, "time", block.Time)
		return calendar.Event{}, false
	}

	start, ok := ParseStart(block.Date, block.Time, now)
	if !ok {
		slog.Warn(
			"dropping block with unparseable start",
			"title", title,
			"date", block.Date,
			"time", block.Time,
		)
		return calendar.Event{}, false
	}

	return calendar.Event{
		Title:  title,
		Start:  start,
		Screen: textutil.CleanTitle(block.Screen),
		URL:    block.ProgrammeHref,
	}, true
}
