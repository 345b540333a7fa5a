// Package planner is one editing session over the custody schedule: the
// operations the TUI and CLI call in response to user gestures.
//
// A Planner owns the schedule store, the unshared-changes tracker and the
// range selection, and writes every change through to a storage.KV. Shares
// travel through a sharelink.Location; on startup DetectShareToken looks for
// an incoming one, and the caller decides whether to ImportConfirmed or
// DeclineImport it.
package planner
