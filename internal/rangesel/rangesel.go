// Package rangesel models the two-click gesture used to pick a span of days.
//
// Selection is a value; every transition returns the next value so callers
// own the state explicitly.
package rangesel

import "github.com/five82/kidplan/internal/schedule"

// Phase is where the gesture currently stands.
type Phase int

const (
	// Idle: no anchor chosen.
	Idle Phase = iota
	// AwaitingEnd: anchor chosen, waiting for the second day.
	AwaitingEnd
	// Selected: both ends chosen; the edit surface is open for the range.
	Selected
)

func (p Phase) String() string {
	switch p {
	case AwaitingEnd:
		return "awaiting-end"
	case Selected:
		return "selected"
	default:
		return "idle"
	}
}

// Request asks the presentation layer to open the edit surface for the closed
// range Start..End. Start is never after End.
type Request struct {
	Start schedule.Date
	End   schedule.Date
}

// IsRange reports whether the request spans more than one day.
func (r Request) IsRange() bool {
	return r.Start != r.End
}

// Days returns the number of days covered.
func (r Request) Days() int {
	return len(schedule.Span(r.Start, r.End))
}

// Selection is the range-mode state. The zero value has range mode off.
type Selection struct {
	active bool
	phase  Phase
	anchor schedule.Date
	end    schedule.Date
}

// Active reports whether range mode is on.
func (s Selection) Active() bool {
	return s.active
}

// Phase returns the current phase.
func (s Selection) Phase() Phase {
	return s.phase
}

// Anchor returns the first chosen day, if any.
func (s Selection) Anchor() (schedule.Date, bool) {
	if s.phase == Idle {
		return schedule.Date{}, false
	}
	return s.anchor, true
}

// Range returns the normalised selection once both ends are chosen.
func (s Selection) Range() (Request, bool) {
	if s.phase != Selected {
		return Request{}, false
	}
	return Request{Start: s.anchor, End: s.end}, true
}

// Contains reports whether day is inside the current (possibly half-built)
// selection, for highlighting.
func (s Selection) Contains(day schedule.Date) bool {
	switch s.phase {
	case AwaitingEnd:
		return day == s.anchor
	case Selected:
		return !day.Before(s.anchor) && !day.After(s.end)
	}
	return false
}

// Toggle switches range mode on or off. Either way any anchor is dropped.
func (s Selection) Toggle() Selection {
	return Selection{active: !s.active}
}

// Click applies a day click. With range mode off it bypasses the machine and
// requests a one-day edit. In range mode the first click sets the anchor and
// the second produces a request ordered earliest first.
func (s Selection) Click(day schedule.Date) (Selection, Request, bool) {
	if !s.active {
		return s, Request{Start: day, End: day}, true
	}

	switch s.phase {
	case AwaitingEnd:
		start, end := s.anchor, day
		if end.Before(start) {
			start, end = end, start
		}
		next := Selection{active: true, phase: Selected, anchor: start, end: end}
		return next, Request{Start: start, End: end}, true
	default:
		// Idle, or a previous range already completed: start over here.
		return Selection{active: true, phase: AwaitingEnd, anchor: day}, Request{}, false
	}
}

// Commit is called after a save: reset and leave range mode.
func (s Selection) Commit() Selection {
	return Selection{}
}

// Cancel closes the edit surface without saving. Range mode stays as it was
// but the selection is cleared.
func (s Selection) Cancel() Selection {
	return Selection{active: s.active}
}
