package phoenix

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"phoenix-ical/lib/timezone"
)

var referenceMonths = []string{
	"january",
	"february",
	"march",
	"april",
	"may",
	"june",
	"july",
	"august",
	"september",
	"october",
	"november",
	"december",
}

func parseMonth(text string) time.Month {
	text = strings.ToLower(text)
	if len(text) < 3 {
		return -1
	}
	for i, month := range referenceMonths {
		if strings.HasPrefix(month, text) {
			return time.January + time.Month(i)
		}
	}
	return -1
}

// listings are forward-looking, but a showing from earlier today (or
// late yesterday, with midnight screenings) is still this year
const pastDateGrace = 48 * time.Hour

// resolveYear picks the year for a month/day with none written: the
// nearest occurrence that is not meaningfully in the past relative to
// now rolls forward one year otherwise.
func resolveYear(month time.Month, day int, now time.Time) int {
	year := now.Year()
	candidate := time.Date(year, month, day, 0, 0, 0, 0, timezone.Location)
	if candidate.Before(now.Add(-pastDateGrace)) {
		year++
	}
	return year
}

var (
	// "Sun 31 Aug", "Mon 1 September 2025", "3 January"
	dayMonthRegex = regexp.MustCompile(
		`(?i)^(?:(?:Mon|Tue|Wed|Thu|Fri|Sat|Sun)[a-z]*\.?,?\s+)?(\d{1,2})(?:st|nd|rd|th)?\s+([A-Za-z]{3,9})(?:\s+(\d{4}))?`)
	// "31/08", "31/08/2025", "31/08/25"
	numericDateRegex = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?$`)
)

// ParseDate turns one of the site's date spellings into a midnight in
// the venue's zone, inferring the year from `now` when absent.
func ParseDate(text string, now time.Time) (time.Time, bool) {
	text = strings.TrimSpace(text)

	if m := dayMonthRegex.FindStringSubmatch(text); m != nil {
		day, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		month := parseMonth(m[2])
		if month < time.January {
			return time.Time{}, false
		}
		year := 0
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		} else {
			year = resolveYear(month, day, now)
		}
		if !validMonthDay(year, month, day) {
			return time.Time{}, false
		}
		return time.Date(year, month, day, 0, 0, 0, 0, timezone.Location), true
	}

	if m := numericDateRegex.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		monthNo, _ := strconv.Atoi(m[2])
		if monthNo < 1 || monthNo > 12 {
			return time.Time{}, false
		}
		month := time.Month(monthNo)
		year := 0
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
		} else {
			year = resolveYear(month, day, now)
		}
		if !validMonthDay(year, month, day) {
			return time.Time{}, false
		}
		return time.Date(year, month, day, 0, 0, 0, 0, timezone.Location), true
	}

	return time.Time{}, false
}

func validMonthDay(year int, month time.Month, day int) bool {
	if day < 1 {
		return false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, timezone.Location)
	return t.Month() == month && t.Day() == day
}

// "5.30pm", "5:30pm", "17:30"
var clockRegex = regexp.MustCompile(`(?i)^(\d{1,2})[.:](\d{2})\s*(am|pm)?$`)

// ParseClock parses a time-of-day label into hour and minute. The site
// writes "5.30pm"; plain "17:30" 24-hour readings are accepted too.
func ParseClock(text string) (hour, minute int, ok bool) {
	m := clockRegex.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if minute > 59 {
		return 0, 0, false
	}

	meridiem := strings.ToLower(m[3])
	switch meridiem {
	case "":
		if hour > 23 {
			return 0, 0, false
		}
	case "am", "pm":
		if hour < 1 || hour > 12 {
			return 0, 0, false
		}
		hour = hour % 12
		if meridiem == "pm" {
			hour += 12
		}
	}
	return hour, minute, true
}

// ParseStart resolves a raw date label plus time label into an absolute
// start in the venue's zone.
func ParseStart(dateText, timeText string, now time.Time) (time.Time, bool) {
	day, ok := ParseDate(dateText, now)
	if !ok {
		return time.Time{}, false
	}
	hour, minute, ok := ParseClock(timeText)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		hour, minute, 0, 0,
		timezone.Location,
	), true
}
