package calendar

import (
	"io"

	"github.com/emersion/go-ical"
)

const (
	prodID       = "-//Phoenix Leicester iCal//EN"
	calendarName = "Phoenix Leicester — What's On"
	timezoneName = "Europe/London"

	// used as LOCATION when the listing carries no screen label
	DefaultLocation = "Phoenix, 4 Midland Street, Leicester LE1 1TG"
)

// Encode serializes events into an iCalendar document. Events are
// written in the order given; go-ical writes properties in sorted name
// order, so identical input yields byte-identical output. DTSTAMP is
// derived from the event start rather than the wall clock for the same
// reason.
func Encode(w io.Writer, events []Event) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, prodID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText("X-WR-CALNAME", calendarName)
	cal.Props.SetText("X-WR-TIMEZONE", timezoneName)

	for _, ev := range events {
		comp := ical.NewEvent()
		comp.Props.SetText(ical.PropUID, ev.UID())
		comp.Props.SetText(ical.PropSummary, ev.Title)
		comp.Props.SetDateTime(ical.PropDateTimeStamp, ev.Start.UTC())
		comp.Props.SetDateTime(ical.PropDateTimeStart, ev.Start)
		if !ev.End.IsZero() {
			comp.Props.SetDateTime(ical.PropDateTimeEnd, ev.End)
		}
		location := ev.Screen
		if location == "" {
			location = DefaultLocation
		}
		comp.Props.SetText(ical.PropLocation, location)
		if ev.Description != "" {
			comp.Props.SetText(ical.PropDescription, ev.Description)
		}
		if ev.URL != "" {
			comp.Props.SetText(ical.PropURL, ev.URL)
		}
		cal.Children = append(cal.Children, comp.Component)
	}

	return ical.NewEncoder(w).Encode(cal)
}
