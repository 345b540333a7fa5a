package schedule

import (
	"fmt"
	"strings"
)

// Parent names who has custody of the child on a given day.
type Parent string

const (
	ParentCarine Parent = "CARINE"
	ParentRobert Parent = "ROBERT"
	// ParentNone marks a day as explicitly unassigned. It differs from a day
	// that has no record at all.
	ParentNone Parent = "NONE"
)

// Parents lists the assignable values in display order.
var Parents = []Parent{ParentCarine, ParentRobert, ParentNone}

// Valid reports whether p is one of the known parent values.
func (p Parent) Valid() bool {
	switch p {
	case ParentCarine, ParentRobert, ParentNone:
		return true
	}
	return false
}

// ParseParent accepts the wire value case-insensitively ("carine", "ROBERT",
// "none").
func ParseParent(s string) (Parent, error) {
	p := Parent(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown parent %q (want carine, robert or none)", s)
	}
	return p, nil
}

// UnmarshalText rejects anything but the exact wire values.
func (p *Parent) UnmarshalText(text []byte) error {
	v := Parent(text)
	if !v.Valid() {
		return fmt.Errorf("unknown parent %q", string(text))
	}
	*p = v
	return nil
}

// Assignment is the record stored for one day.
type Assignment struct {
	Date   Date   `json:"date"`
	Parent Parent `json:"parent"`
	Notes  string `json:"notes"`
}

// Schedule maps each day to its assignment. Every record's Date equals its key.
type Schedule map[Date]Assignment

// Clone returns an independent copy. A nil schedule clones to an empty one.
func (s Schedule) Clone() Schedule {
	dup := make(Schedule, len(s))
	for k, v := range s {
		dup[k] = v
	}
	return dup
}

// Validate checks the self-consistency invariant of every record.
func (s Schedule) Validate() error {
	for day, a := range s {
		if day.IsZero() {
			return fmt.Errorf("record with empty day key")
		}
		if a.Date != day {
			return fmt.Errorf("record %s carries date %s", day, a.Date)
		}
		if !a.Parent.Valid() {
			return fmt.Errorf("record %s: unknown parent %q", day, a.Parent)
		}
	}
	return nil
}
