package root

import (
	"github.com/spf13/cobra"

	"github.com/entrhq/wowstat/pkg/character"
)

// fieldFlags binds one flag per editable character field. Only flags the
// user set are applied.
type fieldFlags struct {
	guild     string
	notes     string
	itemLevel float64

	heroic, champion, veteran, adventure, old int

	vaultVisited, gearingUp, quests bool

	delves, dungeons, t8, stash, timewalk int
}

func (f *fieldFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.guild, "guild", "", "Guild name")
	fl.StringVar(&f.notes, "notes", "", "Free-text notes")
	fl.Float64Var(&f.itemLevel, "item-level", 0, "Equipped item level (0-1000)")

	fl.IntVar(&f.heroic, "heroic", 0, "Heroic track items")
	fl.IntVar(&f.champion, "champion", 0, "Champion track items")
	fl.IntVar(&f.veteran, "veteran", 0, "Veteran track items")
	fl.IntVar(&f.adventure, "adventure", 0, "Adventurer track items")
	fl.IntVar(&f.old, "old", 0, "Items from earlier seasons")

	fl.BoolVar(&f.vaultVisited, "vault-visited", false, "Great vault visited this week")
	fl.BoolVar(&f.gearingUp, "gearing-up", false, "Gearing up quest done")
	fl.BoolVar(&f.quests, "quests", false, "Weekly quests done")
	fl.IntVar(&f.delves, "delves", 0, "Delves completed this week (0-8)")
	fl.IntVar(&f.dungeons, "dungeons", 0, "Dungeons completed this week (0-8)")
	fl.IntVar(&f.t8, "t8", 0, "Vault rewards at tier 8 or higher (0-6)")
	fl.IntVar(&f.stash, "gilded-stash", 0, "Gilded stashes claimed (0-3)")
	fl.IntVar(&f.timewalk, "timewalk", 0, "Timewalking quest progress (0-5)")
}

func (f *fieldFlags) setters() map[string]func(c *character.Character) {
	return map[string]func(c *character.Character){
		"guild":         func(c *character.Character) { c.Guild = f.guild },
		"notes":         func(c *character.Character) { c.Notes = f.notes },
		"item-level":    func(c *character.Character) { c.ItemLevel = f.itemLevel },
		"heroic":        func(c *character.Character) { c.HeroicItems = f.heroic },
		"champion":      func(c *character.Character) { c.ChampionItems = f.champion },
		"veteran":       func(c *character.Character) { c.VeteranItems = f.veteran },
		"adventure":     func(c *character.Character) { c.AdventureItems = f.adventure },
		"old":           func(c *character.Character) { c.OldItems = f.old },
		"vault-visited": func(c *character.Character) { c.VaultVisited = f.vaultVisited },
		"gearing-up":    func(c *character.Character) { c.GearingUp = f.gearingUp },
		"quests":        func(c *character.Character) { c.Quests = f.quests },
		"delves":        func(c *character.Character) { c.Delves = f.delves },
		"dungeons":      func(c *character.Character) { c.Dungeons = f.dungeons },
		"t8":            func(c *character.Character) { c.VaultT8Plus = f.t8 },
		"gilded-stash":  func(c *character.Character) { c.GildedStash = f.stash },
		"timewalk":      func(c *character.Character) { c.Timewalk = f.timewalk },
	}
}

// apply copies every changed flag into c. Bounds are checked by the store.
func (f *fieldFlags) apply(cmd *cobra.Command, c *character.Character) {
	for name, set := range f.setters() {
		if cmd.Flags().Changed(name) {
			set(c)
		}
	}
}

func (f *fieldFlags) any(cmd *cobra.Command) bool {
	for name := range f.setters() {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}
