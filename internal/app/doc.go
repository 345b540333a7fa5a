// Package app wires kidplan's packages together.
//
// Open builds a Session: it loads the config, routes logs to the log file,
// opens the configured storage backend (TOML file or SQLite), parses the link
// the program was started with and constructs the planner with its edit
// journal. Both the terminal calendar and the one-shot CLI commands start
// from a Session.
//
// Run is the interactive entry point. After opening the session it loads the
// display prefs, checks the start link for a shared schedule and hands
// everything to ui.Run. A link that carries a valid schedule makes the UI ask
// whether to import it before anything else.
//
// # Error Handling
//
// Fatal (returned from Open or Run):
//   - invalid config file
//   - log file or storage backend that cannot be opened
//   - a start link that is not an absolute URL
//
// Recoverable (logged, the session continues):
//   - unreadable or corrupt stored schedule (starts empty)
//   - unreadable prefs (defaults)
//   - share links with a malformed or corrupt payload (ignored)
//
// # Usage Example
//
//	s, err := app.Open(app.Options{})
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//	fmt.Println(s.Planner.MonthlyCounts(2024, time.March))
package app
