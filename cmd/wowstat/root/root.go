package root

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/entrhq/wowstat/pkg/addon"
	"github.com/entrhq/wowstat/pkg/app"
	"github.com/entrhq/wowstat/pkg/reset"
	"github.com/entrhq/wowstat/pkg/ui"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	dir     string
	debug   bool
	noColor bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "wowstat",
		Short:         "WoW Stat Tracker: weekly character progress from the addon export",
		Long:          "wowstat imports the WoW Stat Tracker addon export, keeps a roster of characters and clears weekly progress after every weekly reset.",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	cmd.PersistentFlags().StringVar(&opts.dir, "dir", "", "Application directory (default: $WOWSTAT_DIR or the user config directory)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Write debug messages to the session log")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable styled output")

	cmd.AddCommand(
		newListCmd(opts),
		newShowCmd(opts),
		newAddCmd(opts),
		newEditCmd(opts),
		newDeleteCmd(opts),
		newImportCmd(opts),
		newResetCmd(opts),
		newWeekCmd(opts),
		newExportCmd(opts),
		newReportCmd(opts),
		newAddonCmd(opts),
		newCopyCmd(opts),
		newNotificationsCmd(opts),
		newConfigCmd(opts),
	)
	return cmd
}

// Execute runs the command tree and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}

// openApp opens the application directory. When autoImport is set and the
// addon section enables it, the located export is merged first; a missing
// export is not an error.
func openApp(cmd *cobra.Command, opts *globalOptions, autoImport bool) (*app.App, func(), error) {
	legacy, _ := os.Getwd()
	a, err := app.Open(app.Options{Dir: opts.dir, Debug: opts.debug, LegacyDir: legacy})
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = a.Close()
	}

	ui.SetColor(!opts.noColor && a.Config.UI().UseColor())

	out := cmd.ErrOrStderr()
	for _, path := range a.Recovered {
		fmt.Fprintln(out, ui.Warn.Render(ui.IconWarn+" unreadable file moved to "+path))
	}
	if a.ResetOutcome == reset.Reset {
		fmt.Fprintln(out, ui.Good.Render(ui.IconReset+" Weekly reset: weekly progress cleared"))
	}

	if autoImport && a.Config.Addon().IsAutoImport() {
		res, err := a.Import("")
		switch {
		case errors.Is(err, addon.ErrNotFound):
			a.Log.Debugf("auto import skipped: %v", err)
		case err != nil:
			fmt.Fprintln(out, ui.Warn.Render(ui.IconWarn+" auto import failed: "+err.Error()))
		default:
			printImport(out, res)
		}
	}
	return a, cleanup, nil
}

func printImport(w io.Writer, res app.ImportResult) {
	fmt.Fprintln(w, ui.LabelValue("Imported", res.Summary.String()))
	if res.Stale > 0 {
		fmt.Fprintln(w, ui.Muted.Render(fmt.Sprintf("%d characters were exported in an earlier week; their weekly progress was ignored", res.Stale)))
	}
	for _, key := range res.Skipped {
		fmt.Fprintln(w, ui.Warn.Render(ui.IconWarn+" skipped entry "+key))
	}
	for _, key := range res.Failed {
		fmt.Fprintln(w, ui.Bad.Render(ui.IconError+" could not store "+key))
	}
	if res.VersionMismatch {
		fmt.Fprintln(w, ui.Warn.Render(fmt.Sprintf("%s Version mismatch: addon v%s, wowstat v%s. Update both to the same version.", ui.IconWarn, res.Version, app.Version)))
	}
}
