// Package cli implements the kidplan command line. Each subcommand opens its
// own session, does one thing and exits.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/five82/kidplan/internal/app"
)

const AppName = "kidplan"

// Version is overwritten at build time using -ldflags.
var Version = "dev"

// NewRootCmd builds the kidplan command tree. Without a subcommand it opens
// the terminal calendar.
func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   AppName,
		Short: "kidplan - shared custody calendar",
		Long: "kidplan keeps a day-by-day custody calendar for two parents.\n" +
			"Changes stay local until shared as a link; opening a link offers to import it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := sessionOptions(cmd)
			opts.PrefsPath, _ = cmd.Flags().GetString("prefs")
			return app.Run(cmd.Context(), opts)
		},
	}

	cmd.Version = version
	cmd.SetVersionTemplate(AppName + " version {{.Version}}\n")
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().String("config", "", "config file (default ~/.config/kidplan/config.toml)")
	cmd.PersistentFlags().String("open", "", "start from a share link")
	cmd.PersistentFlags().String("prefs", "", "display prefs file (default ~/.config/kidplan/prefs.toml)")

	cmd.AddCommand(
		NewShowCmd(),
		NewSetCmd(),
		NewPatternCmd(),
		NewShareCmd(),
		NewImportCmd(),
		NewExportCmd(),
		NewHistoryCmd(),
	)

	return cmd
}
