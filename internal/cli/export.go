package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/kidplan/internal/calexport"
	"github.com/five82/kidplan/internal/schedule"
)

// NewExportCmd creates the export-ics command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-ics <file|->",
		Short: "Write the schedule as an iCalendar file of all-day events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseOptionalDate(cmd, "from")
			if err != nil {
				return err
			}
			until, err := parseOptionalDate(cmd, "until")
			if err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			names := calexport.Names{
				schedule.ParentCarine: s.Config.ParentName(schedule.ParentCarine),
				schedule.ParentRobert: s.Config.ParentName(schedule.ParentRobert),
			}
			snap := s.Planner.Snapshot().Schedule
			body := calexport.Render(snap, names, from, until, time.Now())

			if args[0] == "-" {
				fmt.Fprint(cmd.OutOrStdout(), body)
				return nil
			}
			if err := os.WriteFile(args[0], []byte(body), 0o644); err != nil {
				return fmt.Errorf("write calendar: %w", err)
			}
			blocks := calexport.Blocks(snap, from, until)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d event(s) to %s\n", len(blocks), args[0])
			return nil
		},
	}
	cmd.Flags().String("from", "", "first day to export (YYYY-MM-DD)")
	cmd.Flags().String("until", "", "last day to export (YYYY-MM-DD)")
	return cmd
}
