package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/wowstat/pkg/notify"
	"github.com/entrhq/wowstat/pkg/ui"
)

func newNotificationsCmd(opts *globalOptions) *cobra.Command {
	var clearAll bool
	var remove string

	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notes", "history"},
		Short:   "List or clear recent notifications",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd, opts, false)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			switch {
			case clearAll:
				n := a.Notifications.Count()
				a.Notifications.Clear()
				if err := a.Notifications.Save(); err != nil {
					return err
				}
				fmt.Fprintln(out, ui.Good.Render(fmt.Sprintf("%s Cleared %d notifications", ui.IconDone, n)))
				return nil
			case remove != "":
				if !a.Notifications.Remove(remove) {
					return fmt.Errorf("notification %s not found", remove)
				}
				return a.Notifications.Save()
			}

			entries := a.Notifications.All()
			if len(entries) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No notifications."))
				return nil
			}
			for _, n := range entries {
				fmt.Fprintf(out, "%s %s %s\n", ui.NotificationIcon(string(n.Type)), ui.Muted.Render(n.Format()), message(n))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearAll, "clear", false, "Remove every notification")
	cmd.Flags().StringVar(&remove, "remove", "", "Remove the notification with this id")
	cmd.MarkFlagsMutuallyExclusive("clear", "remove")
	return cmd
}

func message(n notify.Notification) string {
	switch n.Type {
	case notify.Warning:
		return ui.Warn.Render(n.Message)
	case notify.Success:
		return ui.Good.Render(n.Message)
	default:
		return n.Message
	}
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get [section.key]",
		Short: "Print one setting, or every setting",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd, opts, false)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				value, err := a.Config.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, value)
				return nil
			}

			for _, key := range a.Config.Keys() {
				value, err := a.Config.Get(key)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, ui.LabelValue(key, value))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <section.key> <value>",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd, opts, false)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.Config.Set(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(fmt.Sprintf("%s %s = %s", ui.IconDone, args[0], args[1])))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the application directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd, opts, false)
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Fprintln(cmd.OutOrStdout(), a.Paths.Dir)
			return nil
		},
	})
	return cmd
}
