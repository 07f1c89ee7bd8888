package root

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/entrhq/wowstat/pkg/ui"
)

func newImportCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import the addon export",
		Long:  "Merge the addon's SavedVariables file into the roster. Without a file argument the export is located in the configured or default WoW installation.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd, opts, false)
			if err != nil {
				return err
			}
			defer cleanup()

			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			res, err := a.Import(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.LabelValue("Export", res.Path))
			printImport(out, res)
			return nil
		},
	}
}

func newResetCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear weekly progress for every character now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd, opts, false)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.ResetWeekly(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(fmt.Sprintf("%s Weekly progress cleared for %d characters", ui.IconReset, a.Store.Count())))
			return nil
		},
	}
}

func newWeekCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show the current week and the next weekly reset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd, opts, false)
			if err != nil {
				return err
			}
			defer cleanup()

			now := time.Now()
			next := a.Weeks.Next(now)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconVault, "Week "+a.Weeks.Current()))
			fmt.Fprintln(out, ui.LabelValue("Started", a.Weeks.Boundary(now).Local().Format(time.RFC1123)))
			fmt.Fprintln(out, ui.LabelValue("Next reset", fmt.Sprintf("%s (in %s)",
				next.Local().Format(time.RFC1123), next.Sub(now).Truncate(time.Minute))))
			fmt.Fprintln(out, ui.LabelValue("Last recorded", a.Config.LastWeekID()))
			return nil
		},
	}
}
