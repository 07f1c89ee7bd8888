package root

import (
	"errors"
	"fmt"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/entrhq/wowstat/pkg/app"
	"github.com/entrhq/wowstat/pkg/character"
	"github.com/entrhq/wowstat/pkg/store"
	"github.com/entrhq/wowstat/pkg/ui"
)

// lookup resolves a "Name-Realm" argument to a roster index.
func lookup(a *app.App, key string) (int, error) {
	name, realm, ok := character.SplitKey(key)
	if !ok {
		return 0, fmt.Errorf("invalid character %q: expected Name-Realm", key)
	}
	idx := a.Store.Find(realm, name)
	if idx == store.NotFound {
		return 0, fmt.Errorf("character %s not found", key)
	}
	return idx, nil
}

func newListCmd(opts *globalOptions) *cobra.Command {
	var match string
	var audit bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked characters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var g glob.Glob
			if match != "" {
				var err error
				if g, err = glob.Compile(match); err != nil {
					return fmt.Errorf("invalid pattern %q: %w", match, err)
				}
			}

			a, cleanup, err := openApp(cmd, opts, true)
			if err != nil {
				return err
			}
			defer cleanup()

			var chars []*character.Character
			for _, c := range a.Store.All() {
				if g == nil || g.Match(c.Key()) {
					chars = append(chars, c)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, fmt.Sprintf("Characters (week %s)", a.Weeks.Current())))
			if len(chars) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No characters. Use 'wowstat import' or 'wowstat add'."))
				return nil
			}
			fmt.Fprintln(out, ui.RosterTable(chars, audit || a.Config.UI().GearAuditEnabled()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&match, "match", "m", "", "Only list characters whose Name-Realm matches this glob")
	cmd.Flags().BoolVar(&audit, "audit", false, "Include gear audit columns")
	return cmd
}

func newShowCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <Name-Realm>",
		Short: "Show one character in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd, opts, true)
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

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, c.Key()))
			fmt.Fprintln(out, ui.LabelValue("Guild", c.Guild))
			fmt.Fprintln(out, ui.LabelValue("Item level", ui.Gold.Render(fmt.Sprintf("%.1f", c.ItemLevel))))
			fmt.Fprintln(out, ui.LabelValue("Gear (heroic/champion/veteran/adventure/old)",
				fmt.Sprintf("%d/%d/%d/%d/%d", c.HeroicItems, c.ChampionItems, c.VeteranItems, c.AdventureItems, c.OldItems)))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconVault+" This week"))
			fmt.Fprintln(out, ui.LabelValue("Vault visited", ui.Check(c.VaultVisited)))
			fmt.Fprintln(out, ui.LabelValue("Delves", ui.Progress(c.Delves, character.MaxDelves)))
			fmt.Fprintln(out, ui.LabelValue("Dungeons", ui.Progress(c.Dungeons, character.MaxDungeons)))
			fmt.Fprintln(out, ui.LabelValue("Vault T8+ rewards", ui.Progress(c.VaultT8Plus, character.MaxVaultT8Plus)))
			fmt.Fprintln(out, ui.LabelValue("Gilded stash", ui.Progress(c.GildedStash, character.MaxGildedStash)))
			fmt.Fprintln(out, ui.LabelValue("Gearing up", ui.Check(c.GearingUp)))
			fmt.Fprintln(out, ui.LabelValue("Quests", ui.Check(c.Quests)))
			fmt.Fprintln(out, ui.LabelValue("Timewalking", ui.Progress(c.Timewalk, character.MaxTimewalk)))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("Gear audit"))
			fmt.Fprintln(out, ui.LabelValue("Upgrades", fmt.Sprintf("%d/%d", c.UpgradeCurrent, c.UpgradeMax)))
			fmt.Fprintln(out, ui.LabelValue("Missing sockets", c.SocketMissingCount))
			fmt.Fprintln(out, ui.LabelValue("Empty sockets", c.SocketEmptyCount))
			fmt.Fprintln(out, ui.LabelValue("Missing enchants", c.EnchantMissingCount))
			for _, s := range c.SlotUpgrades {
				fmt.Fprintf(out, "- %s %s %s\n", ui.Key.Render(s.SlotName+":"), s.Track, ui.Progress(s.Current, s.Max))
			}

			if c.Notes != "" {
				fmt.Fprintln(out, "")
				fmt.Fprintln(out, ui.Panel.Render(c.Notes))
			}
			return nil
		},
	}
}

func newAddCmd(opts *globalOptions) *cobra.Command {
	fields := &fieldFlags{}

	cmd := &cobra.Command{
		Use:   "add <Name-Realm>",
		Short: "Add a character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, realm, ok := character.SplitKey(args[0])
			if !ok {
				return fmt.Errorf("invalid character %q: expected Name-Realm", args[0])
			}

			a, cleanup, err := openApp(cmd, opts, false)
			if err != nil {
				return err
			}
			defer cleanup()

			c := character.New(realm, name)
			fields.apply(cmd, c)
			if err := a.Store.Add(c); err != nil {
				return err
			}
			if err := a.Save(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" Added "+c.Key()))
			return nil
		},
	}

	fields.register(cmd)
	return cmd
}

func newEditCmd(opts *globalOptions) *cobra.Command {
	fields := &fieldFlags{}

	cmd := &cobra.Command{
		Use:   "edit <Name-Realm>",
		Short: "Change fields of a character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !fields.any(cmd) {
				return errors.New("nothing to change: pass at least one field flag")
			}

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
			fields.apply(cmd, c)
			if err := a.Store.Update(idx, c); err != nil {
				return err
			}
			if err := a.Save(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" Updated "+c.Key()))
			return nil
		},
	}

	fields.register(cmd)
	return cmd
}

func newDeleteCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <Name-Realm>",
		Aliases: []string{"rm"},
		Short:   "Delete a character",
		Args:    cobra.ExactArgs(1),
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
			if err := a.Store.Delete(idx); err != nil {
				return err
			}
			if err := a.Save(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" Deleted "+args[0]))
			return nil
		},
	}
}
