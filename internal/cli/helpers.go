package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/kidplan/internal/app"
	"github.com/five82/kidplan/internal/schedule"
)

func sessionOptions(cmd *cobra.Command) app.Options {
	configPath, _ := cmd.Flags().GetString("config")
	link, _ := cmd.Flags().GetString("open")
	return app.Options{ConfigPath: configPath, OpenLink: link}
}

func openSession(cmd *cobra.Command) (*app.Session, error) {
	return app.Open(sessionOptions(cmd))
}

// parseOptionalDate reads a YYYY-MM-DD flag; an empty flag gives the zero Date.
func parseOptionalDate(cmd *cobra.Command, name string) (schedule.Date, error) {
	raw, _ := cmd.Flags().GetString(name)
	if strings.TrimSpace(raw) == "" {
		return schedule.Date{}, nil
	}
	d, err := schedule.ParseDate(raw)
	if err != nil {
		return schedule.Date{}, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}

func confirmPrompt(input io.Reader, output io.Writer, prompt string) (bool, error) {
	fmt.Fprint(output, prompt)
	reader := bufio.NewReader(input)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response := strings.TrimSpace(strings.ToLower(line))
	return response == "y" || response == "yes", nil
}

// printSessionWarnings reminds the user about unshared edits and failing
// storage after a command changed something.
func printSessionWarnings(cmd *cobra.Command, s *app.Session) {
	snap := s.Planner.Snapshot()
	out := cmd.OutOrStdout()
	if snap.Storage.StorageDegraded() {
		fmt.Fprintf(out, "Warning: the last %d saves failed (%v); changes may be lost on exit.\n",
			snap.Storage.ConsecutiveFailures, snap.Storage.LastWriteError)
	}
	if snap.Dirty {
		fmt.Fprintf(out, "Unshared changes: run '%s share' to send them.\n", AppName)
	}
}
