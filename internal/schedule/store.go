package schedule

import (
	"fmt"
	"strings"
	"sync"
)

// Store owns the schedule for a session. The zero value is an empty store.
type Store struct {
	mu   sync.RWMutex
	days Schedule
}

// NewStore returns a store seeded with a copy of initial.
func NewStore(initial Schedule) *Store {
	return &Store{days: initial.Clone()}
}

// Get returns the assignment for day, if one exists.
func (s *Store) Get(day Date) (Assignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.days[day]
	return a, ok
}

// UpsertSingle replaces or inserts the record for day and returns a snapshot
// of the updated schedule.
func (s *Store) UpsertSingle(day Date, parent Parent, notes string) Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(day, parent, notes)
	return s.days.Clone()
}

// UpsertRange overwrites every day from start to end inclusive with the same
// parent and notes, whatever was stored before. Callers must order the pair;
// a reversed range is a programming error and panics.
func (s *Store) UpsertRange(start, end Date, parent Parent, notes string) Schedule {
	if end.Before(start) {
		panic(fmt.Sprintf("schedule: invalid range %s..%s (start after end)", start, end))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for day := start; !day.After(end); day = day.AddDays(1) {
		s.put(day, parent, notes)
	}
	return s.days.Clone()
}

// ReplaceAll discards the current schedule and installs a copy of next.
func (s *Store) ReplaceAll(next Schedule) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.days = next.Clone()
}

// Snapshot returns a copy of the current schedule.
func (s *Store) Snapshot() Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.days.Clone()
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.days)
}

func (s *Store) put(day Date, parent Parent, notes string) {
	if s.days == nil {
		s.days = make(Schedule)
	}
	// The record always carries its own key. Notes are kept as valid UTF-8 so
	// that what is stored is exactly what a share link carries.
	s.days[day] = Assignment{Date: day, Parent: parent, Notes: strings.ToValidUTF8(notes, "\uFFFD")}
}
