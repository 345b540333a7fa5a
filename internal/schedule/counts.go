package schedule

import "time"

// Counts tallies assigned days per parent. Unassigned days are not counted.
type Counts struct {
	Carine int
	Robert int
}

// Total returns the number of assigned days.
func (c Counts) Total() int {
	return c.Carine + c.Robert
}

// For returns the count for p (zero for ParentNone).
func (c Counts) For(p Parent) int {
	switch p {
	case ParentCarine:
		return c.Carine
	case ParentRobert:
		return c.Robert
	}
	return 0
}

func (c *Counts) add(p Parent) {
	switch p {
	case ParentCarine:
		c.Carine++
	case ParentRobert:
		c.Robert++
	}
}

// MonthlyCounts counts the days of the given month assigned to each parent.
func MonthlyCounts(s Schedule, year int, month time.Month) Counts {
	var c Counts
	for day, a := range s {
		if day.Year == year && day.Month == month {
			c.add(a.Parent)
		}
	}
	return c
}

// YearSummary returns per-month counts for year, indexed January = 0.
func YearSummary(s Schedule, year int) [12]Counts {
	var out [12]Counts
	for day, a := range s {
		if day.Year == year {
			out[day.Month-1].add(a.Parent)
		}
	}
	return out
}
