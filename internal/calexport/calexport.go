// Package calexport renders a custody schedule as an iCalendar feed so it can
// be subscribed to from a phone calendar.
package calexport

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/five82/kidplan/internal/schedule"
)

const productID = "-//five82//kidplan//EN"

// Names maps parents to the labels used in event summaries.
type Names map[schedule.Parent]string

func (n Names) label(p schedule.Parent) string {
	if name, ok := n[p]; ok && name != "" {
		return name
	}
	return string(p)
}

// Block is a run of consecutive days with the same parent and notes.
type Block struct {
	Start  schedule.Date
	End    schedule.Date // inclusive
	Parent schedule.Parent
	Notes  string
}

// Blocks groups the schedule's assigned days between from and until into
// runs. NONE days and gaps split runs and are not emitted. A zero from or
// until leaves that side open.
func Blocks(s schedule.Schedule, from, until schedule.Date) []Block {
	days := make([]schedule.Date, 0, len(s))
	for day, a := range s {
		if a.Parent == schedule.ParentNone {
			continue
		}
		if !from.IsZero() && day.Before(from) {
			continue
		}
		if !until.IsZero() && day.After(until) {
			continue
		}
		days = append(days, day)
	}
	schedule.SortDates(days)

	var out []Block
	for _, day := range days {
		a := s[day]
		if n := len(out); n > 0 {
			last := &out[n-1]
			if last.End.AddDays(1) == day && last.Parent == a.Parent && last.Notes == a.Notes {
				last.End = day
				continue
			}
		}
		out = append(out, Block{Start: day, End: day, Parent: a.Parent, Notes: a.Notes})
	}
	return out
}

// Render builds the VCALENDAR text for the given window.
func Render(s schedule.Schedule, names Names, from, until schedule.Date, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetName("kidplan")

	for _, b := range Blocks(s, from, until) {
		uid := fmt.Sprintf("%s-%s@kidplan", b.Start, b.Parent)
		event := cal.AddEvent(uid)
		event.SetDtStampTime(stamp.UTC())
		event.SetAllDayStartAt(b.Start.Time())
		// DTEND is exclusive for all-day events.
		event.SetAllDayEndAt(b.End.AddDays(1).Time())
		event.SetSummary(names.label(b.Parent))
		if b.Notes != "" {
			event.SetDescription(b.Notes)
		}
	}
	return cal.Serialize()
}
