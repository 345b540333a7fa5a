package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/five82/kidplan/internal/schedule"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent day changes, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("last")
			if limit <= 0 {
				return fmt.Errorf("--last must be positive")
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := s.Planner.History(limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No changes recorded")
				return nil
			}
			name := func(p schedule.Parent) string {
				if p == "" {
					return "-"
				}
				return s.Config.ParentName(p)
			}
			for _, e := range entries {
				line := fmt.Sprintf("%s  %s -> %s  by %s, %s",
					e.DateModified, name(e.PreviousParent), name(e.NewParent), e.User, humanize.Time(e.Time()))
				if e.NewNotes != e.PreviousNotes && e.NewNotes != "" {
					line += fmt.Sprintf("  (%q)", e.NewNotes)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().IntP("last", "n", 20, "number of entries to show")
	return cmd
}
