package state

import (
	"errors"
	"testing"

	"github.com/five82/kidplan/internal/storage"
)

type memKV struct {
	values  map[string]string
	readErr error
	failing bool
}

func newMemKV() *memKV {
	return &memKV{values: map[string]string{}}
}

func (m *memKV) ReadString(key string) (string, bool, error) {
	if m.readErr != nil {
		return "", false, m.readErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memKV) WriteString(key, value string) error {
	if m.failing {
		return errors.New("disk full")
	}
	m.values[key] = value
	return nil
}

func TestNewTracker_DefaultsClean(t *testing.T) {
	tr, err := NewTracker(newMemKV(), 0)
	if err != nil {
		t.Fatalf("NewTracker returned error: %v", err)
	}
	if tr.Dirty() || tr.NeedsExitConfirmation() {
		t.Fatalf("fresh tracker is dirty")
	}
}

func TestNewTracker_RestoresPersistedFlag(t *testing.T) {
	kv := newMemKV()
	kv.values[storage.KeyUnshared] = "true"

	tr, err := NewTracker(kv, 0)
	if err != nil {
		t.Fatalf("NewTracker returned error: %v", err)
	}
	if !tr.Dirty() {
		t.Fatalf("Dirty() = false, want restored true")
	}
}

func TestNewTracker_GarbageFlagStartsClean(t *testing.T) {
	kv := newMemKV()
	kv.values[storage.KeyUnshared] = "maybe"

	tr, err := NewTracker(kv, 0)
	if err == nil {
		t.Fatalf("NewTracker returned nil error for garbage flag")
	}
	if tr == nil || tr.Dirty() {
		t.Fatalf("tracker should exist and be clean after a bad flag")
	}
}

func TestNewTracker_ReadErrorStartsClean(t *testing.T) {
	kv := newMemKV()
	kv.readErr = errors.New("locked")

	tr, err := NewTracker(kv, 0)
	if err == nil {
		t.Fatalf("NewTracker returned nil error")
	}
	if tr.Dirty() {
		t.Fatalf("tracker dirty after read error")
	}
}

func TestTracker_Transitions(t *testing.T) {
	kv := newMemKV()
	tr, _ := NewTracker(kv, 0)

	steps := []struct {
		name string
		do   func() error
		want bool
	}{
		{"save from clean", tr.MarkDirty, true},
		{"second save stays dirty", tr.MarkDirty, true},
		{"share", tr.MarkShared, false},
		{"save again", tr.MarkDirty, true},
		{"import from dirty", tr.MarkImported, false},
		{"import from clean", tr.MarkImported, false},
	}
	for _, step := range steps {
		if err := step.do(); err != nil {
			t.Fatalf("%s: returned error %v", step.name, err)
		}
		if tr.Dirty() != step.want {
			t.Fatalf("%s: Dirty() = %v, want %v", step.name, tr.Dirty(), step.want)
		}
		if tr.NeedsExitConfirmation() != step.want {
			t.Fatalf("%s: NeedsExitConfirmation() = %v, want %v", step.name, tr.NeedsExitConfirmation(), step.want)
		}
		wantRaw := "false"
		if step.want {
			wantRaw = "true"
		}
		if kv.values[storage.KeyUnshared] != wantRaw {
			t.Fatalf("%s: persisted %q, want %q", step.name, kv.values[storage.KeyUnshared], wantRaw)
		}
	}
}

func TestTracker_WriteFailureKeepsMemoryState(t *testing.T) {
	kv := newMemKV()
	kv.failing = true
	tr, _ := NewTracker(kv, 2)

	if err := tr.MarkDirty(); err == nil {
		t.Fatalf("MarkDirty returned nil error with failing storage")
	}
	if !tr.Dirty() {
		t.Fatalf("in-memory flag must change even when the write fails")
	}

	snap := tr.Snapshot()
	if snap.ConsecutiveFailures != 1 || snap.StorageDegraded() {
		t.Fatalf("after 1 failure: failures=%d degraded=%v", snap.ConsecutiveFailures, snap.StorageDegraded())
	}
	if snap.LastWriteError == nil {
		t.Fatalf("LastWriteError = nil, want error")
	}

	tr.RecordWrite(errors.New("blob write failed"))
	if snap := tr.Snapshot(); !snap.StorageDegraded() {
		t.Fatalf("StorageDegraded() = false after 2 failures with threshold 2")
	}

	kv.failing = false
	if err := tr.MarkShared(); err != nil {
		t.Fatalf("MarkShared: %v", err)
	}
	snap = tr.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.StorageDegraded() || snap.LastWriteError != nil {
		t.Fatalf("successful write should reset failures: %+v", snap)
	}
}

func TestSnapshot_ZeroValueNotDegraded(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		want bool
	}{
		{"zero", Snapshot{}, false},
		{"below default", Snapshot{ConsecutiveFailures: defaultWarnAfter - 1}, false},
		{"at default", Snapshot{ConsecutiveFailures: defaultWarnAfter}, true},
		{"custom threshold", Snapshot{ConsecutiveFailures: 1, warnAfter: 1}, true},
	}
	for _, tt := range tests {
		if got := tt.snap.StorageDegraded(); got != tt.want {
			t.Fatalf("%s: StorageDegraded() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
