package savedvars

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/entrhq/wowstat/pkg/character"
)

// RootName is the global the addon writes its database to.
const RootName = "WoWStatTrackerDB"

const initialCapacity = 32

// tierThreshold is the lowest delve tier or keystone level counted as a
// high-tier vault reward.
const tierThreshold = 8

var (
	// ErrNotTable is returned when the export root is not a table.
	ErrNotTable = errors.New("savedvars: export root is not a table")

	// ErrNoItems is returned when the export has no characters table.
	ErrNoItems = errors.New("savedvars: export has no characters table")
)

// Result is the content of one addon export.
type Result struct {
	// Drafts holds one entry per character, in source order.
	Drafts []character.Draft

	// Version is the addon version from the export metadata, if any.
	Version string

	// Skipped lists character keys that could not be used.
	Skipped []string
}

// ParseFile reads and parses the export at path. On failure the returned
// Result is empty.
func ParseFile(path string) (Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read export: %w", err)
	}
	if info.Size() > MaxInputSize {
		return Result{}, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, path, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read export: %w", err)
	}
	return ParseContent(string(data))
}

// ParseContent parses the text of an addon export. Entries that cannot be
// used are skipped individually; an unusable document yields an empty
// Result and an error.
func ParseContent(text string) (Result, error) {
	doc, err := ParseDocument(text)
	if err != nil {
		return Result{}, err
	}

	root, ok := doc.Lookup(RootName)
	if !ok {
		root, ok = doc.Lookup("")
	}
	if !ok {
		return Result{}, fmt.Errorf("%w: %s is not assigned", ErrNotTable, RootName)
	}
	db, ok := root.AsTable()
	if !ok {
		return Result{}, fmt.Errorf("%w: got %s", ErrNotTable, root.Kind())
	}

	// Metadata is only reported together with the characters it describes.
	chars, ok := db.GetTable("characters")
	if !ok {
		return Result{}, ErrNoItems
	}

	res := Result{Drafts: make([]character.Draft, 0, initialCapacity)}
	if meta, ok := db.GetTable("metadata"); ok {
		res.Version, _ = meta.GetString("version")
	}

	for _, f := range chars.Fields() {
		key, ok := f.Key.AsString()
		if !ok {
			continue
		}
		entry, ok := f.Value.AsTable()
		if !ok {
			res.Skipped = append(res.Skipped, key)
			continue
		}
		name, realm, ok := character.SplitKey(key)
		if !ok {
			res.Skipped = append(res.Skipped, key)
			continue
		}
		res.Drafts = append(res.Drafts, draftFromEntry(name, realm, entry))
	}
	return res, nil
}

func draftFromEntry(name, realm string, t *Table) character.Draft {
	d := character.Draft{Realm: realm, Name: name}

	d.Guild = optString(t, "guild")
	if v, ok := t.GetNumber("item_level"); ok {
		d.ItemLevel = &v
	}
	d.HeroicItems = optInt(t, "heroic_items")
	d.ChampionItems = optInt(t, "champion_items")
	d.VeteranItems = optInt(t, "veteran_items")
	d.AdventureItems = optInt(t, "adventure_items")
	d.OldItems = optInt(t, "old_items")

	d.VaultVisited = optBool(t, "vault_visited")
	d.GearingUp = optBool(t, "gearing_up")
	d.Quests = optBool(t, "quests")

	if vd, ok := t.GetTable("vault_delves"); ok {
		if n, ok := vd.GetInt("count"); ok {
			// The gearing-up quest is itself a delve and counts toward the vault.
			if d.GearingUp != nil && *d.GearingUp && n > 0 {
				n--
			}
			d.Delves = &n
		}
	}
	if vd, ok := t.GetTable("vault_dungeons"); ok {
		d.Dungeons = optInt(vd, "count")
	}
	d.VaultT8Plus = highTierRewards(t)

	if gs, ok := t.GetTable("gilded_stash"); ok {
		d.GildedStash = optInt(gs, "claimed")
	}

	if tw, ok := t.GetTable("timewalking_quest"); ok {
		completed, _ := tw.GetBool("completed")
		if completed {
			n := character.MaxTimewalk
			d.Timewalk = &n
		} else {
			d.Timewalk = optInt(tw, "progress")
		}
	}

	if week, ok := t.GetString("week_id"); ok {
		d.WeekID = week
	}

	d.UpgradeCurrent = optInt(t, "upgrade_current")
	d.UpgradeMax = optInt(t, "upgrade_max")

	if si, ok := t.GetTable("socket_info"); ok {
		socketable, _ := si.GetInt("socketable_count")
		socketed, _ := si.GetInt("socketed_count")
		empty, _ := si.GetInt("empty_count")
		missing := socketable - socketed
		d.SocketMissingCount = &missing
		d.SocketEmptyCount = &empty
		d.MissingSockets = intList(si, "missing_sockets")
		d.EmptySockets = intList(si, "empty_sockets")
	}
	if ei, ok := t.GetTable("enchant_info"); ok {
		enchantable, _ := ei.GetInt("enchantable_count")
		enchanted, _ := ei.GetInt("enchant_count")
		missing := enchantable - enchanted
		d.EnchantMissingCount = &missing
		d.MissingEnchants = intList(ei, "missing_enchants")
	}

	d.SlotUpgrades = slotUpgrades(t)
	return d
}

// highTierRewards counts vault rewards at or above tierThreshold across the
// delve tiers and dungeon levels tables. It is nil when neither is reported.
func highTierRewards(t *Table) *int {
	count, seen := 0, false
	for _, src := range []struct{ vault, key string }{
		{"vault_delves", "tiers"},
		{"vault_dungeons", "levels"},
	} {
		vault, ok := t.GetTable(src.vault)
		if !ok {
			continue
		}
		levels, ok := vault.GetTable(src.key)
		if !ok {
			continue
		}
		seen = true
		for _, f := range levels.Fields() {
			if n, ok := f.Value.AsNumber(); ok && truncate(n) >= tierThreshold {
				count++
			}
		}
	}
	if !seen {
		return nil
	}
	return &count
}

func slotUpgrades(t *Table) []character.SlotUpgrade {
	list, ok := t.GetTable("slot_upgrades")
	if !ok {
		return nil
	}
	out := make([]character.SlotUpgrade, 0, list.Len())
	for _, f := range list.Fields() {
		entry, ok := f.Value.AsTable()
		if !ok {
			continue
		}
		slot, _ := entry.GetInt("slot")
		track, _ := entry.GetString("track")
		if slot <= 0 || track == "" {
			continue
		}
		su := character.SlotUpgrade{Slot: slot, Track: track}
		su.SlotName, _ = entry.GetString("slot_name")
		su.Current, _ = entry.GetInt("current")
		su.Max, _ = entry.GetInt("max")
		out = append(out, su)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}

func intList(t *Table, key string) []int {
	list, ok := t.GetTable(key)
	if !ok {
		return nil
	}
	out := make([]int, 0, list.Len())
	for _, f := range list.Fields() {
		if n, ok := f.Value.AsNumber(); ok {
			out = append(out, truncate(n))
		}
	}
	return out
}

func optString(t *Table, key string) *string {
	if v, ok := t.GetString(key); ok {
		return &v
	}
	return nil
}

func optInt(t *Table, key string) *int {
	if v, ok := t.GetInt(key); ok {
		return &v
	}
	return nil
}

func optBool(t *Table, key string) *bool {
	if v, ok := t.GetBool(key); ok {
		return &v
	}
	return nil
}
