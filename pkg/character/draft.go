package character

// Draft is a character as reported by an addon export, before it is merged
// into a roster. A nil field was not reported and must not overwrite an
// existing value; a non-nil field was reported, even when it points at zero.
type Draft struct {
	Realm string
	Name  string

	// WeekID is the week the addon collected the data, empty if unknown.
	WeekID string

	Guild          *string
	ItemLevel      *float64
	HeroicItems    *int
	ChampionItems  *int
	VeteranItems   *int
	AdventureItems *int
	OldItems       *int

	VaultVisited *bool
	Delves       *int
	Dungeons     *int
	VaultT8Plus  *int
	GildedStash  *int
	GearingUp    *bool
	Quests       *bool
	Timewalk     *int

	UpgradeCurrent      *int
	UpgradeMax          *int
	SocketMissingCount  *int
	SocketEmptyCount    *int
	EnchantMissingCount *int

	SlotUpgrades    []SlotUpgrade
	MissingSockets  []int
	EmptySockets    []int
	MissingEnchants []int
}

// Key returns the "Name-Realm" token of the draft.
func (d *Draft) Key() string {
	return d.Name + "-" + d.Realm
}

// HasWeekly reports whether the draft carries any weekly-scoped field.
func (d *Draft) HasWeekly() bool {
	return d.VaultVisited != nil || d.Delves != nil || d.Dungeons != nil ||
		d.VaultT8Plus != nil || d.GildedStash != nil || d.GearingUp != nil ||
		d.Quests != nil || d.Timewalk != nil
}

// ToCharacter materializes the draft as a new character. Unreported fields
// keep their defaults. Weekly fields are skipped when includeWeekly is false.
func (d *Draft) ToCharacter(includeWeekly bool) *Character {
	c := New(d.Realm, d.Name)
	d.ApplyTo(c, includeWeekly)
	return c
}

// ApplyTo overwrites the fields of c that the draft reports and reports
// whether anything changed. Notes and identity are never touched. Values
// are clamped into their declared bounds.
func (d *Draft) ApplyTo(c *Character, includeWeekly bool) bool {
	before := c.Clone()

	setString(&c.Guild, d.Guild)
	if d.ItemLevel != nil {
		c.ItemLevel = ClampFloat(*d.ItemLevel, 0, MaxItemLevel)
	}
	setBounded(&c.HeroicItems, d.HeroicItems, MaxItemsPerCategory)
	setBounded(&c.ChampionItems, d.ChampionItems, MaxItemsPerCategory)
	setBounded(&c.VeteranItems, d.VeteranItems, MaxItemsPerCategory)
	setBounded(&c.AdventureItems, d.AdventureItems, MaxItemsPerCategory)
	setBounded(&c.OldItems, d.OldItems, MaxItemsPerCategory)

	if includeWeekly {
		setBool(&c.VaultVisited, d.VaultVisited)
		setBounded(&c.Delves, d.Delves, MaxDelves)
		setBounded(&c.Dungeons, d.Dungeons, MaxDungeons)
		setBounded(&c.VaultT8Plus, d.VaultT8Plus, MaxVaultT8Plus)
		setBounded(&c.GildedStash, d.GildedStash, MaxGildedStash)
		setBool(&c.GearingUp, d.GearingUp)
		setBool(&c.Quests, d.Quests)
		setBounded(&c.Timewalk, d.Timewalk, MaxTimewalk)
	}

	setNonNegative(&c.UpgradeCurrent, d.UpgradeCurrent)
	setNonNegative(&c.UpgradeMax, d.UpgradeMax)
	setNonNegative(&c.SocketMissingCount, d.SocketMissingCount)
	setNonNegative(&c.SocketEmptyCount, d.SocketEmptyCount)
	setNonNegative(&c.EnchantMissingCount, d.EnchantMissingCount)

	if d.SlotUpgrades != nil {
		c.SlotUpgrades = append([]SlotUpgrade(nil), d.SlotUpgrades...)
	}
	if d.MissingSockets != nil {
		c.MissingSockets = cloneInts(d.MissingSockets)
	}
	if d.EmptySockets != nil {
		c.EmptySockets = cloneInts(d.EmptySockets)
	}
	if d.MissingEnchants != nil {
		c.MissingEnchants = cloneInts(d.MissingEnchants)
	}
	if d.WeekID != "" {
		c.WeekID = d.WeekID
	}

	return !Equal(before, c)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setBounded(dst *int, src *int, hi int) {
	if src != nil {
		*dst = ClampInt(*src, 0, hi)
	}
}

func setNonNegative(dst *int, src *int) {
	if src != nil {
		*dst = max(*src, 0)
	}
}
