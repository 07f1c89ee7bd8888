package root

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/entrhq/wowstat/pkg/character"
	"github.com/entrhq/wowstat/pkg/fsutil"
	"github.com/entrhq/wowstat/pkg/report"
	"github.com/entrhq/wowstat/pkg/ui"
)

var writeClipboard = clipboard.WriteAll // replaced in tests

func newExportCmd(opts *globalOptions) *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the roster as YAML or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			a, cleanup, err := openApp(cmd, opts, false)
			if err != nil {
				return err
			}
			defer cleanup()

			doc := report.Document{WeekID: a.Weeks.Current(), Characters: a.Store.All()}
			if output == "" || output == "-" {
				return report.Export(cmd.OutOrStdout(), f, doc)
			}

			var buf strings.Builder
			if err := report.Export(&buf, f, doc); err != nil {
				return err
			}
			if err := fsutil.WriteFileAtomic(output, []byte(buf.String()), 0o644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Good.Render(fmt.Sprintf("%s Exported %d characters to %s", ui.IconDone, len(doc.Characters), output)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatYAML), "Output format (yaml or json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func newReportCmd(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize vault progress and gear issues for the week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd, opts, true)
			if err != nil {
				return err
			}
			defer cleanup()

			summary := report.Summarize(a.Weeks.Current(), a.Store.All())
			out := cmd.OutOrStdout()

			if format != "" && format != "table" {
				f, err := report.ParseFormat(format)
				if err != nil {
					return err
				}
				return report.ExportSummary(out, f, summary)
			}

			fmt.Fprintln(out, ui.Heading(ui.IconVault, "Weekly report "+summary.WeekID))
			if len(summary.Rows) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No characters."))
				return nil
			}
			fmt.Fprintln(out, ui.SummaryTable(summary))
			t := summary.Totals
			fmt.Fprintln(out, ui.LabelValue("Done", fmt.Sprintf("%d/%d", t.Done, t.Characters)))
			fmt.Fprintln(out, ui.LabelValue("Vault slots", t.VaultSlots))
			fmt.Fprintln(out, ui.LabelValue("Missing enchants", t.MissingEnchants))
			fmt.Fprintln(out, ui.LabelValue("Missing sockets", t.MissingSockets))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, yaml or json)")
	return cmd
}

func newCopyCmd(opts *globalOptions) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "copy <Name-Realm>",
		Short: "Copy a one-line character summary to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd, opts, false)
			if err != nil {
				return err
			}
			defer cleanup()

			idx, err := lookup(a, args[0])
			if err != nil {
				return err
			}
			c, err := a.Store.Get(idx)
			if err != nil {
				return err
			}

			line := summaryLine(c)
			if printOnly {
				fmt.Fprintln(cmd.OutOrStdout(), line)
				return nil
			}
			if err := writeClipboard(line); err != nil {
				return fmt.Errorf("clipboard unavailable: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" Copied "+c.Key()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "Print instead of copying")
	return cmd
}

// summaryLine renders c as one chat-friendly line.
func summaryLine(c *character.Character) string {
	parts := []string{
		fmt.Sprintf("%s %.1f ilvl", c.Key(), c.ItemLevel),
		fmt.Sprintf("vault %d/%d", report.VaultSlots(c.Delves)+report.VaultSlots(c.Dungeons), report.MaxVaultSlots),
		fmt.Sprintf("delves %d/%d", c.Delves, character.MaxDelves),
		fmt.Sprintf("dungeons %d/%d", c.Dungeons, character.MaxDungeons),
		fmt.Sprintf("timewalk %d/%d", c.Timewalk, character.MaxTimewalk),
	}
	return strings.Join(parts, " | ")
}

func newAddonCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addon",
		Short: "Inspect the addon export",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the located export file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd, opts, false)
			if err != nil {
				return err
			}
			defer cleanup()

			export, err := a.LocateExport()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, export.Path)
			fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("account %s, written %s", export.Account, export.ModTime.Local().Format("Jan 2 15:04"))))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show [file]",
		Short: "Print the export with syntax highlighting",
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
			} else {
				export, err := a.LocateExport()
				if err != nil {
					return err
				}
				path = export.Path
			}

			src, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			return highlight(cmd.OutOrStdout(), string(src))
		},
	})
	return cmd
}

func highlight(w io.Writer, src string) error {
	if err := ui.HighlightLua(w, src); err != nil {
		return err
	}
	if !strings.HasSuffix(src, "\n") {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}
