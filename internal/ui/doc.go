// Package ui provides the terminal calendar for kidplan.
//
// # Architecture Overview
//
// The UI is a single Bubble Tea model (Model) styled with Lip Gloss. It never
// touches the schedule directly: every gesture becomes a call on a
// planner.Planner, and the model redraws from planner.Snapshot afterwards.
//
// # Package Structure
//
//   - app.go: Model, Update loop, key dispatch and the Run entry point
//   - calendar.go: month grid, year summary and the per-month counts
//   - header.go: title bar (unshared-changes banner, range hint, storage
//     warning) and the command bar
//   - edit.go, sharemodal.go, modal.go: the edit, share and yes/no dialogs
//   - help.go: keyboard shortcut overlay built from the key map
//   - theme.go: color themes, including one color per parent
//   - keys.go: key bindings (bubbles/key)
//
// # Views
//
//   - Month: a grid of day cells colored by parent. Enter edits the day
//     under the cursor; in range mode (r) the first Enter sets the start and
//     the second opens the editor for the whole range.
//   - Year: twelve blocks with per-parent counts and a split bar.
//
// The view and theme are remembered in the prefs file.
//
// # Dialogs
//
// A share (s) writes the link and opens the share dialog, where c copies it
// to the clipboard. When the program is started with a share link, the
// import question is shown before anything else. Quitting while there are
// unshared changes asks for confirmation.
package ui
