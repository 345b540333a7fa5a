package state

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/five82/kidplan/internal/storage"
)

// defaultWarnAfter is how many consecutive failed writes mark storage degraded.
const defaultWarnAfter = 3

// Snapshot is a point-in-time view of the tracker for the UI.
type Snapshot struct {
	Dirty               bool
	LastWriteError      error
	ConsecutiveFailures int
	warnAfter           int
}

// StorageDegraded returns true once enough writes in a row have failed that the
// user should be warned. A zero Snapshot uses the default threshold.
func (s Snapshot) StorageDegraded() bool {
	limit := s.warnAfter
	if limit <= 0 {
		limit = defaultWarnAfter
	}
	return s.ConsecutiveFailures >= limit
}

// Tracker holds the "has unshared changes" flag and mirrors every change of it
// into storage. It also counts write failures reported by the rest of the
// session so they surface in one place.
type Tracker struct {
	mu        sync.RWMutex
	kv        storage.KV
	dirty     bool
	lastErr   error
	failures  int
	warnAfter int
}

// NewTracker restores the flag from kv. A missing or unreadable value starts
// clean; the read error, if any, is returned for logging.
func NewTracker(kv storage.KV, warnAfter int) (*Tracker, error) {
	if warnAfter <= 0 {
		warnAfter = defaultWarnAfter
	}
	t := &Tracker{kv: kv, warnAfter: warnAfter}

	raw, ok, err := kv.ReadString(storage.KeyUnshared)
	if err != nil {
		return t, fmt.Errorf("read unshared flag: %w", err)
	}
	if ok {
		dirty, perr := strconv.ParseBool(strings.TrimSpace(raw))
		if perr != nil {
			return t, fmt.Errorf("parse unshared flag %q: %w", raw, perr)
		}
		t.dirty = dirty
	}
	return t, nil
}

// Dirty reports whether local edits have not been shared yet.
func (t *Tracker) Dirty() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.dirty
}

// NeedsExitConfirmation is true only while there are unshared edits.
func (t *Tracker) NeedsExitConfirmation() bool {
	return t.Dirty()
}

// MarkDirty records that a save committed.
func (t *Tracker) MarkDirty() error {
	return t.set(true)
}

// MarkShared records that the user completed a share.
func (t *Tracker) MarkShared() error {
	return t.set(false)
}

// MarkImported records that an imported schedule was applied.
func (t *Tracker) MarkImported() error {
	return t.set(false)
}

// RecordWrite feeds the outcome of any persistence write into the failure
// counter. A nil error resets it.
func (t *Tracker) RecordWrite(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recordLocked(err)
}

// Snapshot returns a copy of the tracker state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := Snapshot{
		Dirty:               t.dirty,
		ConsecutiveFailures: t.failures,
		warnAfter:           t.warnAfter,
	}
	if t.lastErr != nil {
		snap.LastWriteError = fmt.Errorf("%w", t.lastErr)
	}
	return snap
}

func (t *Tracker) set(dirty bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	// In-memory state changes even when the write fails; the session stays
	// authoritative until the next successful write.
	t.dirty = dirty
	err := t.kv.WriteString(storage.KeyUnshared, strconv.FormatBool(dirty))
	if err != nil {
		err = fmt.Errorf("persist unshared flag: %w", err)
	}
	t.recordLocked(err)
	return err
}

func (t *Tracker) recordLocked(err error) {
	if err != nil {
		t.lastErr = err
		t.failures++
		return
	}
	t.lastErr = nil
	t.failures = 0
}
