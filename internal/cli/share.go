package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/kidplan/internal/app"
	"github.com/five82/kidplan/internal/sharelink"
)

// NewShareCmd creates the share command.
func NewShareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Print a link carrying the whole schedule and clear the unshared flag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			link, shareErr := s.Planner.Share()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, link)

			if copyLink, _ := cmd.Flags().GetBool("copy"); copyLink {
				if err := sharelink.Copy(link); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
				} else {
					fmt.Fprintln(cmd.ErrOrStderr(), "Link copied to clipboard")
				}
			}
			return shareErr
		},
	}
	cmd.Flags().Bool("copy", false, "also copy the link to the clipboard")
	return cmd
}

// NewImportCmd creates the import command.
func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <link>",
		Short: "Replace the local schedule with the one carried by a share link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := sessionOptions(cmd)
			opts.OpenLink = args[0]
			s, err := app.Open(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			incoming, ok := s.Planner.DetectShareToken()
			if !ok {
				return errors.New("link does not carry a valid schedule")
			}

			snap := s.Planner.Snapshot()
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				prompt := fmt.Sprintf("Replace your %d local days with %d shared days? [y/N] ", len(snap.Schedule), len(incoming))
				if snap.Dirty {
					prompt = "You have unshared changes that will be lost.\n" + prompt
				}
				confirmed, err := confirmPrompt(cmd.InOrStdin(), cmd.OutOrStdout(), prompt)
				if err != nil {
					return err
				}
				if !confirmed {
					s.Planner.DeclineImport()
					fmt.Fprintln(cmd.OutOrStdout(), "Kept your local schedule")
					return nil
				}
			}

			if err := s.Planner.ImportConfirmed(incoming); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d days\n", len(incoming))
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "import without asking")
	return cmd
}
