package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/kidplan/internal/schedule"
)

// NewSetCmd creates the set command.
func NewSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <YYYY-MM-DD> <carine|robert|none>",
		Short: "Assign a day, or a range of days with --until",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := schedule.ParseDate(args[0])
			if err != nil {
				return err
			}
			parent, err := schedule.ParseParent(args[1])
			if err != nil {
				return err
			}
			until, err := parseOptionalDate(cmd, "until")
			if err != nil {
				return err
			}
			notes, _ := cmd.Flags().GetString("notes")

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			var rangeEnd *schedule.Date
			count := 1
			if !until.IsZero() {
				rangeEnd = &until
				start, end := day, until
				if end.Before(start) {
					start, end = end, start
				}
				count = len(schedule.Span(start, end))
			}

			// A storage failure still leaves the edit applied for this session.
			saveErr := s.Planner.SaveDay(day, parent, notes, rangeEnd)
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d day(s) for %s\n", count, s.Config.ParentName(parent))
			printSessionWarnings(cmd, s)
			if saveErr != nil {
				return saveErr
			}
			return nil
		},
	}
	cmd.Flags().String("until", "", "last day of the range (YYYY-MM-DD)")
	cmd.Flags().String("notes", "", "notes for the day(s)")
	return cmd
}

// NewPatternCmd creates the pattern command.
func NewPatternCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pattern <RRULE> <carine|robert|none>",
		Short: "Assign every day matched by a recurrence rule",
		Long: "Assign every day matched by an RFC 5545 recurrence rule between --from and --until.\n" +
			"Example: kidplan pattern 'FREQ=WEEKLY;BYDAY=SA,SU' robert --from 2024-03-01 --until 2024-06-30",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parent, err := schedule.ParseParent(args[1])
			if err != nil {
				return err
			}
			from, err := parseOptionalDate(cmd, "from")
			if err != nil {
				return err
			}
			until, err := parseOptionalDate(cmd, "until")
			if err != nil {
				return err
			}
			if from.IsZero() || until.IsZero() {
				return fmt.Errorf("--from and --until are required")
			}
			notes, _ := cmd.Flags().GetString("notes")

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			days, err := s.Planner.ApplyPattern(args[0], from, until, parent, notes)
			if len(days) == 0 && err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d day(s) for %s\n", len(days), s.Config.ParentName(parent))
			printSessionWarnings(cmd, s)
			if err != nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().String("from", "", "first day to consider (YYYY-MM-DD)")
	cmd.Flags().String("until", "", "last day to consider (YYYY-MM-DD)")
	cmd.Flags().String("notes", "", "notes for the matched days")
	return cmd
}
