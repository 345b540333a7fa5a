package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/kidplan/internal/config"
	"github.com/five82/kidplan/internal/schedule"
)

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [YYYY-MM]",
		Short: "Print the assignments of a month (default: this month)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month := schedule.Today().Year, schedule.Today().Month
			if len(args) == 1 {
				t, err := time.Parse("2006-01", strings.TrimSpace(args[0]))
				if err != nil {
					return fmt.Errorf("month %q: want YYYY-MM", args[0])
				}
				year, month = t.Year(), t.Month()
			}
			wholeYear, _ := cmd.Flags().GetBool("year")

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			if wholeYear {
				printYear(out, s.Config, year, s.Planner.YearSummary(year))
			} else {
				printMonth(out, s.Config, year, month, s.Planner.Snapshot().Schedule)
			}
			printSessionWarnings(cmd, s)
			return nil
		},
	}
	cmd.Flags().Bool("year", false, "print per-month counts for the whole year")
	return cmd
}

func printMonth(out io.Writer, cfg config.Config, year int, month time.Month, s schedule.Schedule) {
	fmt.Fprintf(out, "%s %d\n", month, year)
	for day := 1; day <= schedule.DaysIn(year, month); day++ {
		d := schedule.NewDate(year, month, day)
		a, ok := s[d]
		if !ok {
			continue
		}
		line := fmt.Sprintf("%s %s  %-10s", d, d.Weekday().String()[:3], cfg.ParentName(a.Parent))
		if a.Notes != "" {
			line += "  " + a.Notes
		}
		fmt.Fprintln(out, strings.TrimRight(line, " "))
	}
	c := schedule.MonthlyCounts(s, year, month)
	fmt.Fprintf(out, "%s %d  %s %d  (%d of %d days assigned)\n",
		cfg.ParentName(schedule.ParentCarine), c.Carine,
		cfg.ParentName(schedule.ParentRobert), c.Robert,
		c.Total(), schedule.DaysIn(year, month))
}

func printYear(out io.Writer, cfg config.Config, year int, summary [12]schedule.Counts) {
	carine := cfg.ParentName(schedule.ParentCarine)
	robert := cfg.ParentName(schedule.ParentRobert)
	fmt.Fprintf(out, "%d\n", year)
	var total schedule.Counts
	for i, c := range summary {
		month := time.Month(i + 1)
		fmt.Fprintf(out, "%s  %s %2d  %s %2d\n", month.String()[:3], carine, c.Carine, robert, c.Robert)
		total.Carine += c.Carine
		total.Robert += c.Robert
	}
	fmt.Fprintf(out, "Year %s %d  %s %d\n", carine, total.Carine, robert, total.Robert)
}
