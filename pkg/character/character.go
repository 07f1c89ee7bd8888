// Package character defines the tracked character record, its bounds and
// the draft form produced by the addon export parser.
package character

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
)

const (
	// MaxItemLevel is the upper bound for equipped item level.
	MaxItemLevel = 1000.0

	// MaxItemsPerCategory bounds each gear-tier count.
	MaxItemsPerCategory = 50

	// MaxDelves bounds the weekly delve counter.
	MaxDelves = 8

	// MaxDungeons bounds the weekly dungeon vault counter.
	MaxDungeons = 8

	// MaxGildedStash bounds the weekly gilded stash counter.
	MaxGildedStash = 3

	// MaxTimewalk bounds the weekly timewalking quest progress.
	MaxTimewalk = 5

	// MaxVaultT8Plus bounds the count of tier 8+ vault rewards
	// (three delve slots and three dungeon slots).
	MaxVaultT8Plus = 6
)

// ErrValidation is wrapped by every validation failure.
var ErrValidation = errors.New("character: validation failed")

// SlotUpgrade describes the upgrade track progress of one equipment slot.
type SlotUpgrade struct {
	Slot     int    `json:"slot" yaml:"slot"`
	SlotName string `json:"slot_name,omitempty" yaml:"slot_name,omitempty"`
	Track    string `json:"track" yaml:"track"`
	Current  int    `json:"current" yaml:"current"`
	Max      int    `json:"max" yaml:"max"`
}

// Character is one tracked character.
type Character struct {
	Realm string `json:"realm" yaml:"realm"`
	Name  string `json:"name" yaml:"name"`
	Guild string `json:"guild" yaml:"guild"`

	ItemLevel      float64 `json:"item_level" yaml:"item_level"`
	HeroicItems    int     `json:"heroic_items" yaml:"heroic_items"`
	ChampionItems  int     `json:"champion_items" yaml:"champion_items"`
	VeteranItems   int     `json:"veteran_items" yaml:"veteran_items"`
	AdventureItems int     `json:"adventure_items" yaml:"adventure_items"`
	OldItems       int     `json:"old_items" yaml:"old_items"`

	// Weekly-scoped fields, cleared by ResetWeekly.
	VaultVisited bool `json:"vault_visited" yaml:"vault_visited"`
	Delves       int  `json:"delves" yaml:"delves"`
	Dungeons     int  `json:"dungeons" yaml:"dungeons"`
	VaultT8Plus  int  `json:"vault_t8_plus" yaml:"vault_t8_plus"`
	GildedStash  int  `json:"gilded_stash" yaml:"gilded_stash"`
	GearingUp    bool `json:"gearing_up" yaml:"gearing_up"`
	Quests       bool `json:"quests" yaml:"quests"`
	Timewalk     int  `json:"timewalk" yaml:"timewalk"`

	Notes string `json:"notes" yaml:"notes"`

	// Gear audit aggregates reported by the addon.
	UpgradeCurrent      int `json:"upgrade_current" yaml:"upgrade_current"`
	UpgradeMax          int `json:"upgrade_max" yaml:"upgrade_max"`
	SocketMissingCount  int `json:"socket_missing_count" yaml:"socket_missing_count"`
	SocketEmptyCount    int `json:"socket_empty_count" yaml:"socket_empty_count"`
	EnchantMissingCount int `json:"enchant_missing_count" yaml:"enchant_missing_count"`

	SlotUpgrades    []SlotUpgrade `json:"slot_upgrades,omitempty" yaml:"slot_upgrades,omitempty"`
	MissingSockets  []int         `json:"missing_sockets,omitempty" yaml:"missing_sockets,omitempty"`
	EmptySockets    []int         `json:"empty_sockets,omitempty" yaml:"empty_sockets,omitempty"`
	MissingEnchants []int         `json:"missing_enchants,omitempty" yaml:"missing_enchants,omitempty"`

	// WeekID is the week the addon collected this character, if imported.
	WeekID string `json:"week_id,omitempty" yaml:"week_id,omitempty"`
}

// New returns a character with the given identity and default values.
func New(realm, name string) *Character {
	return &Character{Realm: realm, Name: name}
}

// Key returns the "Name-Realm" token identifying c.
func (c *Character) Key() string {
	return c.Name + "-" + c.Realm
}

// Clone returns a deep copy of c.
func (c *Character) Clone() *Character {
	cp := *c
	if c.SlotUpgrades != nil {
		cp.SlotUpgrades = append([]SlotUpgrade(nil), c.SlotUpgrades...)
	}
	cp.MissingSockets = cloneInts(c.MissingSockets)
	cp.EmptySockets = cloneInts(c.EmptySockets)
	cp.MissingEnchants = cloneInts(c.MissingEnchants)
	return &cp
}

// Equal reports whether a and b hold identical field values.
func Equal(a, b *Character) bool {
	if a == nil || b == nil {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

func cloneInts(in []int) []int {
	if in == nil {
		return nil
	}
	return append([]int(nil), in...)
}

// ResetWeekly clears every weekly-scoped field. Static fields are untouched.
func (c *Character) ResetWeekly() {
	c.VaultVisited = false
	c.Delves = 0
	c.Dungeons = 0
	c.VaultT8Plus = 0
	c.GildedStash = 0
	c.GearingUp = false
	c.Quests = false
	c.Timewalk = 0
}

// Validate checks every field bound and returns all violations joined
// together, each wrapping ErrValidation.
func (c *Character) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...))
	}

	if strings.TrimSpace(c.Name) == "" {
		fail("character name is required")
	}
	if strings.TrimSpace(c.Realm) == "" {
		fail("realm is required")
	}
	if math.IsNaN(c.ItemLevel) || math.IsInf(c.ItemLevel, 0) || c.ItemLevel < 0 || c.ItemLevel > MaxItemLevel {
		fail("item_level must be between 0 and %.0f", MaxItemLevel)
	}

	bounded := []struct {
		field string
		value int
		max   int
	}{
		{"heroic_items", c.HeroicItems, MaxItemsPerCategory},
		{"champion_items", c.ChampionItems, MaxItemsPerCategory},
		{"veteran_items", c.VeteranItems, MaxItemsPerCategory},
		{"adventure_items", c.AdventureItems, MaxItemsPerCategory},
		{"old_items", c.OldItems, MaxItemsPerCategory},
		{"delves", c.Delves, MaxDelves},
		{"dungeons", c.Dungeons, MaxDungeons},
		{"vault_t8_plus", c.VaultT8Plus, MaxVaultT8Plus},
		{"gilded_stash", c.GildedStash, MaxGildedStash},
		{"timewalk", c.Timewalk, MaxTimewalk},
	}
	for _, b := range bounded {
		if b.value < 0 || b.value > b.max {
			fail("%s must be between 0 and %d", b.field, b.max)
		}
	}

	nonNegative := []struct {
		field string
		value int
	}{
		{"upgrade_current", c.UpgradeCurrent},
		{"upgrade_max", c.UpgradeMax},
		{"socket_missing_count", c.SocketMissingCount},
		{"socket_empty_count", c.SocketEmptyCount},
		{"enchant_missing_count", c.EnchantMissingCount},
	}
	for _, n := range nonNegative {
		if n.value < 0 {
			fail("%s must not be negative", n.field)
		}
	}

	return errors.Join(errs...)
}

// Clamp forces every bounded field into its declared range.
func (c *Character) Clamp() {
	c.ItemLevel = ClampFloat(c.ItemLevel, 0, MaxItemLevel)
	c.HeroicItems = ClampInt(c.HeroicItems, 0, MaxItemsPerCategory)
	c.ChampionItems = ClampInt(c.ChampionItems, 0, MaxItemsPerCategory)
	c.VeteranItems = ClampInt(c.VeteranItems, 0, MaxItemsPerCategory)
	c.AdventureItems = ClampInt(c.AdventureItems, 0, MaxItemsPerCategory)
	c.OldItems = ClampInt(c.OldItems, 0, MaxItemsPerCategory)
	c.Delves = ClampInt(c.Delves, 0, MaxDelves)
	c.Dungeons = ClampInt(c.Dungeons, 0, MaxDungeons)
	c.VaultT8Plus = ClampInt(c.VaultT8Plus, 0, MaxVaultT8Plus)
	c.GildedStash = ClampInt(c.GildedStash, 0, MaxGildedStash)
	c.Timewalk = ClampInt(c.Timewalk, 0, MaxTimewalk)
	c.UpgradeCurrent = max(c.UpgradeCurrent, 0)
	c.UpgradeMax = max(c.UpgradeMax, 0)
	c.SocketMissingCount = max(c.SocketMissingCount, 0)
	c.SocketEmptyCount = max(c.SocketEmptyCount, 0)
	c.EnchantMissingCount = max(c.EnchantMissingCount, 0)
}

// ClampInt returns v limited to [lo, hi].
func ClampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// ClampFloat returns v limited to [lo, hi]. NaN becomes lo.
func ClampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return min(max(v, lo), hi)
}

// SplitKey splits a "Name-Realm" token on its last hyphen; everything before
// it is the name. ok is false when the token has no hyphen or either side is
// empty.
func SplitKey(token string) (name, realm string, ok bool) {
	idx := strings.LastIndex(token, "-")
	if idx < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(token[:idx])
	realm = strings.TrimSpace(token[idx+1:])
	if name == "" || realm == "" {
		return "", "", false
	}
	return name, realm, true
}
