// Package audit keeps an append-only journal of schedule edits, one JSON
// object per line.
package audit

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/five82/kidplan/internal/schedule"
)

// Entry records one day changing. Timestamp is Unix milliseconds.
type Entry struct {
	ID             string          `json:"id"`
	Timestamp      int64           `json:"timestamp"`
	User           string          `json:"user"`
	DateModified   string          `json:"dateModified"`
	PreviousParent schedule.Parent `json:"previousParent"`
	NewParent      schedule.Parent `json:"newParent"`
	PreviousNotes  string          `json:"previousNotes"`
	NewNotes       string          `json:"newNotes"`
}

// Time returns the entry timestamp.
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Journal appends entries to a JSONL file.
type Journal struct {
	mu   sync.Mutex
	path string
	user string
	now  func() time.Time
}

// NewJournal returns a journal writing to path on behalf of user.
func NewJournal(path, user string) *Journal {
	return &Journal{path: path, user: user, now: time.Now}
}

// Path returns the journal file.
func (j *Journal) Path() string {
	return j.path
}

// Diff builds entries for every day whose record differs between before and
// after. A day missing on either side is logged with parent NONE there.
func (j *Journal) Diff(before, after schedule.Schedule, days []schedule.Date) []Entry {
	ts := j.now().UnixMilli()
	var out []Entry
	for _, day := range days {
		prev, hadPrev := before[day]
		next, hasNext := after[day]
		if !hadPrev && !hasNext {
			continue
		}
		if hadPrev && hasNext && prev == next {
			continue
		}
		if !hadPrev {
			prev = schedule.Assignment{Parent: schedule.ParentNone}
		}
		if !hasNext {
			next = schedule.Assignment{Parent: schedule.ParentNone}
		}
		out = append(out, Entry{
			ID:             uuid.NewString(),
			Timestamp:      ts,
			User:           j.user,
			DateModified:   day.String(),
			PreviousParent: prev.Parent,
			NewParent:      next.Parent,
			PreviousNotes:  prev.Notes,
			NewNotes:       next.Notes,
		})
	}
	return out
}

// Append writes entries at the end of the journal, creating it if needed.
func (j *Journal) Append(entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return fmt.Errorf("create journal dir: %w", err)
	}
	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("encode journal entry: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}

// Recent returns at most n entries from the end of the journal, oldest first.
// Lines that do not parse are skipped.
func (j *Journal) Recent(n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	file, err := os.Open(j.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	// The ring grows with the lines read and never beyond them.
	var ring []Entry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	idx := 0
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		if len(ring) < n {
			ring = append(ring, e)
			continue
		}
		ring[idx] = e
		idx = (idx + 1) % n
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}

	out := make([]Entry, len(ring))
	for i := range ring {
		out[i] = ring[(idx+i)%len(ring)]
	}
	return out, nil
}
