package calendar

import (
	"crypto/sha1"
	"encoding/hex"
	"slices"
	"strings"
	"time"
)

const uidDomain = "@phoenix-leicester"

// Event is one showing, normalized and validated. Start always carries
// the venue's local zone. End is the zero time when no duration could
// be derived for the film.
type Event struct {
	Title       string
	Start       time.Time
	End         time.Time
	Screen      string
	Description string
	URL         string
}

// UID derives the calendar uid purely from title, start and screen, so
// an unchanged listing produces the identical uid on every run.
func (e Event) UID() string {
	base := e.Title + "|" + e.Start.Format(time.RFC3339) + "|" + e.Screen
	sum := sha1.Sum([]byte(base))
	return hex.EncodeToString(sum[:]) + uidDomain
}

// Finalize collapses duplicate events (same uid, the first occurrence
// wins) and orders the result by start time, then title. The output
// ordering is independent of page fetch order, which keeps the encoded
// calendar byte-stable across runs.
func Finalize(events []Event) []Event {
	seen := make(map[string]bool, len(events))
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		uid := ev.UID()
		if seen[uid] {
			continue
		}
		seen[uid] = true
		out = append(out, ev)
	}

	slices.SortStableFunc(out, func(a, b Event) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return strings.Compare(a.Title, b.Title)
	})
	return out
}
