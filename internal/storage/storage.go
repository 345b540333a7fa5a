// Package storage persists small string values for kidplan under a handful of
// well-known keys. Two backends exist: a TOML file and a SQLite database.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Logical keys shared by every backend.
const (
	KeySchedule = "kidplan_data"
	KeyUnshared = "kidplan_unshared"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// KV is the durable key/value contract the planner consumes.
type KV interface {
	// ReadString returns the stored value and true, or "" and false when the
	// key has never been written.
	ReadString(key string) (string, bool, error)
	WriteString(key, value string) error
}

// Store is a KV that holds resources until closed.
type Store interface {
	KV
	Close() error
}

// Open creates the data directory if needed and opens the named backend in it.
func Open(backend, dir string) (Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("storage dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return NewFileKV(filepath.Join(dir, "kidplan.toml")), nil
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dir, "kidplan.db"))
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %s or %s)", backend, BackendFile, BackendSQLite)
	}
}
