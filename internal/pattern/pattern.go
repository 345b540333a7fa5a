// Package pattern expands recurring custody arrangements ("every other
// weekend", "Wednesdays") written as RFC 5545 RRULEs into concrete days.
package pattern

import (
	"errors"
	"fmt"
	"strings"

	"github.com/teambition/rrule-go"

	"github.com/five82/kidplan/internal/schedule"
)

// MaxOccurrences caps a single expansion.
const MaxOccurrences = 1000

// ErrTooMany is returned when a rule yields more than MaxOccurrences days.
var ErrTooMany = errors.New("pattern yields too many days")

// Expand returns the days matched by rule between from and until inclusive,
// in order and without duplicates. The rule is anchored at from, so
// INTERVAL counts from that day. rule may include a leading "RRULE:".
func Expand(rule string, from, until schedule.Date) ([]schedule.Date, error) {
	if until.Before(from) {
		return nil, fmt.Errorf("pattern range %s..%s: until is before from", from, until)
	}
	raw := strings.TrimSpace(rule)
	raw = strings.TrimPrefix(raw, "RRULE:")
	if raw == "" {
		return nil, errors.New("pattern rule is empty")
	}

	r, err := rrule.StrToRRule(raw)
	if err != nil {
		return nil, fmt.Errorf("parse rule %q: %w", rule, err)
	}
	r.DTStart(from.Time())

	occurrences := r.Between(from.Time(), until.AddDays(1).Time(), true)

	var days []schedule.Date
	seen := make(map[schedule.Date]struct{}, len(occurrences))
	for _, occ := range occurrences {
		day := schedule.DateOf(occ)
		if day.After(until) {
			continue
		}
		if _, dup := seen[day]; dup {
			continue
		}
		if len(days) == MaxOccurrences {
			return nil, fmt.Errorf("%w (limit %d)", ErrTooMany, MaxOccurrences)
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	return days, nil
}
