// Package state tracks whether the local schedule has edits the other parent
// has not received yet.
//
// # States
//
// The Tracker has two states:
//
//	CLEAN --save--> DIRTY --share--> CLEAN
//	  any --import applied--> CLEAN
//
// The flag is written to storage.KeyUnshared as "true" or "false" on every
// transition and read back by NewTracker when a session starts. A missing value
// means CLEAN.
//
// While DIRTY, NeedsExitConfirmation returns true; the TUI asks before
// quitting and shows a reminder banner.
//
// # Write Failures
//
// Persistence is best effort. A failed write never rolls back in-memory state.
// Every write outcome in the session (schedule blob and flag alike) goes
// through RecordWrite, and Snapshot.StorageDegraded reports when the number of
// consecutive failures reaches the configured threshold. One successful write
// clears it.
//
// # Concurrency
//
// Methods take a RWMutex so the tracker can be read from Bubble Tea commands
// while the update loop mutates it.
package state
