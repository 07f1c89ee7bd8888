package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/entrhq/wowstat/pkg/character"
	"github.com/entrhq/wowstat/pkg/report"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(cPrimary).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(cMuted)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// RosterTable renders the roster. gearAudit adds the upgrade, socket and
// enchant columns.
func RosterTable(chars []*character.Character, gearAudit bool) string {
	headers := []string{"#", "Character", "Guild", "iLvl", "Gear H/C/V/A/O", "Vault", "Delves", "Dungeons", "T8+", "Stash", "Gearing", "Quests", "TW"}
	if gearAudit {
		headers = append(headers, "Upgrades", "Sockets", "Enchants")
	}

	t := newTable(headers...)
	for i, c := range chars {
		row := []string{
			fmt.Sprint(i + 1),
			c.Key(),
			c.Guild,
			fmt.Sprintf("%.1f", c.ItemLevel),
			fmt.Sprintf("%d/%d/%d/%d/%d", c.HeroicItems, c.ChampionItems, c.VeteranItems, c.AdventureItems, c.OldItems),
			Check(c.VaultVisited),
			Progress(c.Delves, character.MaxDelves),
			Progress(c.Dungeons, character.MaxDungeons),
			Progress(c.VaultT8Plus, character.MaxVaultT8Plus),
			Progress(c.GildedStash, character.MaxGildedStash),
			Check(c.GearingUp),
			Check(c.Quests),
			Progress(c.Timewalk, character.MaxTimewalk),
		}
		if gearAudit {
			row = append(row,
				fmt.Sprintf("%d/%d", c.UpgradeCurrent, c.UpgradeMax),
				missing(c.SocketMissingCount),
				missing(c.EnchantMissingCount),
			)
		}
		t.Row(row...)
	}
	return t.String()
}

// SummaryTable renders a weekly report.
func SummaryTable(s report.Summary) string {
	t := newTable("Character", "iLvl", "Vault", "T8+", "TW", "Upgrades", "Missing enchants", "Missing sockets", "Status")
	for _, r := range s.Rows {
		t.Row(
			r.Key,
			fmt.Sprintf("%.1f", r.ItemLevel),
			Progress(r.VaultSlots, report.MaxVaultSlots),
			fmt.Sprint(r.VaultT8Plus),
			Progress(r.Timewalk, character.MaxTimewalk),
			fmt.Sprintf("%d/%d", r.UpgradeCurrent, r.UpgradeMax),
			join(r.MissingEnchants),
			join(r.MissingSockets),
			StatusText(string(r.Status)),
		)
	}
	return t.String()
}

func missing(n int) string {
	if n == 0 {
		return Good.Render("ok")
	}
	return Bad.Render(fmt.Sprintf("%d missing", n))
}

func join(names []string) string {
	if len(names) == 0 {
		return Muted.Render("-")
	}
	return strings.Join(names, ", ")
}
