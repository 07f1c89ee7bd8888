package savedvars

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/wowstat/pkg/character"
)

const fixture = `
WoWStatTrackerDB = {
	["metadata"] = {
		["version"] = "1.4.2",
	},
	["characters"] = {
		["Aaa-Realm1"] = {
			["guild"] = "Guild One",
			["item_level"] = 652.4,
			["heroic_items"] = 3,
			["champion_items"] = 0,
			["vault_visited"] = true,
			["gearing_up"] = true,
			["quests"] = false,
			["vault_delves"] = {
				["count"] = 5,
				["tiers"] = {
					[1] = 8,
					[4] = 11,
					[8] = 6,
				},
			},
			["timewalking_quest"] = {
				["completed"] = true,
				["progress"] = 2,
			},
			["week_id"] = "20241224",
		},
		["Bbb-Realm2"] = {
			["item_level"] = 610,
			["vault_dungeons"] = {
				["count"] = 2,
				["levels"] = {
					10, -- [1]
					4, -- [2]
				},
			},
			["timewalking_quest"] = {
				["completed"] = false,
				["progress"] = 3,
			},
			["gilded_stash"] = {
				["claimed"] = 2,
			},
		},
	},
}
`

func TestParseContentFixture(t *testing.T) {
	res, err := ParseContent(fixture)
	require.NoError(t, err)

	assert.Equal(t, "1.4.2", res.Version)
	require.Len(t, res.Drafts, 2)
	assert.Empty(t, res.Skipped)

	a := res.Drafts[0]
	assert.Equal(t, "Aaa", a.Name)
	assert.Equal(t, "Realm1", a.Realm)
	assert.Equal(t, "20241224", a.WeekID)
	require.NotNil(t, a.Guild)
	assert.Equal(t, "Guild One", *a.Guild)
	require.NotNil(t, a.ItemLevel)
	assert.Equal(t, 652.4, *a.ItemLevel)
	require.NotNil(t, a.ChampionItems)
	assert.Equal(t, 0, *a.ChampionItems)
	assert.Nil(t, a.VeteranItems)
	require.NotNil(t, a.Quests)
	assert.False(t, *a.Quests)
	require.NotNil(t, a.Delves)
	assert.Equal(t, 4, *a.Delves)
	require.NotNil(t, a.Timewalk)
	assert.Equal(t, character.MaxTimewalk, *a.Timewalk)
	require.NotNil(t, a.VaultT8Plus)
	assert.Equal(t, 2, *a.VaultT8Plus)
	assert.Nil(t, a.Dungeons)
	assert.Nil(t, a.GildedStash)

	b := res.Drafts[1]
	assert.Equal(t, "Bbb", b.Name)
	assert.Equal(t, "Realm2", b.Realm)
	assert.Equal(t, "", b.WeekID)
	assert.Nil(t, b.Guild)
	assert.Nil(t, b.Delves)
	assert.Nil(t, b.GearingUp)
	require.NotNil(t, b.Dungeons)
	assert.Equal(t, 2, *b.Dungeons)
	require.NotNil(t, b.VaultT8Plus)
	assert.Equal(t, 1, *b.VaultT8Plus)
	require.NotNil(t, b.Timewalk)
	assert.Equal(t, 3, *b.Timewalk)
	require.NotNil(t, b.GildedStash)
	assert.Equal(t, 2, *b.GildedStash)
}

func TestDelvesGearingUpAdjustment(t *testing.T) {
	tests := []struct {
		name      string
		gearingUp string
		count     int
		want      int
	}{
		{"flag set subtracts one", "true", 5, 4},
		{"flag set with zero count", "true", 0, 0},
		{"flag clear keeps count", "false", 5, 5},
		{"flag absent keeps count", "nil", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := fmt.Sprintf(`{ characters = { ["X-Y"] = { gearing_up = %s, vault_delves = { count = %d } } } }`, tt.gearingUp, tt.count)
			res, err := ParseContent(src)
			require.NoError(t, err)
			require.Len(t, res.Drafts, 1)
			require.NotNil(t, res.Drafts[0].Delves)
			assert.Equal(t, tt.want, *res.Drafts[0].Delves)
		})
	}
}

func TestTimewalkCompletionWins(t *testing.T) {
	for _, progress := range []string{"0", "2", "99", `"bad"`} {
		t.Run(progress, func(t *testing.T) {
			src := fmt.Sprintf(`{ characters = { ["X-Y"] = { timewalking_quest = { progress = %s, completed = true } } } }`, progress)
			res, err := ParseContent(src)
			require.NoError(t, err)
			require.NotNil(t, res.Drafts[0].Timewalk)
			assert.Equal(t, character.MaxTimewalk, *res.Drafts[0].Timewalk)
		})
	}
}

func TestParseContentWrongTypesAreAbsent(t *testing.T) {
	src := `{ characters = { ["X-Y"] = {
		heroic_items = "3",
		vault_visited = 1,
		guild = false,
		item_level = { 600 },
		vault_delves = 5,
		week_id = 20241224,
	} } }`

	res, err := ParseContent(src)
	require.NoError(t, err)
	require.Len(t, res.Drafts, 1)

	d := res.Drafts[0]
	assert.Nil(t, d.HeroicItems)
	assert.Nil(t, d.VaultVisited)
	assert.Nil(t, d.Guild)
	assert.Nil(t, d.ItemLevel)
	assert.Nil(t, d.Delves)
	assert.Equal(t, "", d.WeekID)
}

func TestParseContentSkipsUnusableEntries(t *testing.T) {
	src := `WoWStatTrackerDB = { characters = {
		["NoHyphen"] = { item_level = 600 },
		["Trailing-"] = { item_level = 600 },
		["Ccc-Realm3"] = 5,
		[7] = { item_level = 600 },
		["Ddd-Realm4"] = { item_level = 601 },
	} }`

	res, err := ParseContent(src)
	require.NoError(t, err)
	require.Len(t, res.Drafts, 1)
	assert.Equal(t, "Ddd", res.Drafts[0].Name)
	assert.Equal(t, []string{"NoHyphen", "Trailing-", "Ccc-Realm3"}, res.Skipped)
}

func TestParseContentGearAudit(t *testing.T) {
	src := `{ characters = { ["X-Y"] = {
		upgrade_current = 30,
		upgrade_max = 64,
		socket_info = {
			socketable_count = 3,
			socketed_count = 1,
			empty_count = 1,
			missing_sockets = { 2, 11 },
			empty_sockets = { 12 },
		},
		enchant_info = {
			enchantable_count = 8,
			enchant_count = 5,
			missing_enchants = { 5, 7, 15 },
		},
		slot_upgrades = {
			{ slot = 5, slot_name = "Chest", track = "Champion", current = 4, max = 8 },
			{ slot = 1, slot_name = "Head", track = "Hero", current = 2, max = 6 },
			{ slot = 0, track = "Hero", current = 1, max = 6 },
			{ slot = 3, current = 1, max = 6 },
		},
	} } }`

	res, err := ParseContent(src)
	require.NoError(t, err)
	d := res.Drafts[0]

	require.NotNil(t, d.UpgradeCurrent)
	assert.Equal(t, 30, *d.UpgradeCurrent)
	require.NotNil(t, d.SocketMissingCount)
	assert.Equal(t, 2, *d.SocketMissingCount)
	require.NotNil(t, d.SocketEmptyCount)
	assert.Equal(t, 1, *d.SocketEmptyCount)
	require.NotNil(t, d.EnchantMissingCount)
	assert.Equal(t, 3, *d.EnchantMissingCount)
	assert.Equal(t, []int{2, 11}, d.MissingSockets)
	assert.Equal(t, []int{12}, d.EmptySockets)
	assert.Equal(t, []int{5, 7, 15}, d.MissingEnchants)
	assert.Equal(t, []character.SlotUpgrade{
		{Slot: 1, SlotName: "Head", Track: "Hero", Current: 2, Max: 6},
		{Slot: 5, SlotName: "Chest", Track: "Champion", Current: 4, Max: 8},
	}, d.SlotUpgrades)
}

func TestParseContentFailures(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{"syntax error", `WoWStatTrackerDB = { characters = { `, ErrSyntax},
		{"root not a table", `WoWStatTrackerDB = 5`, ErrNotTable},
		{"root not assigned", `OtherDB = {}`, ErrNotTable},
		{"characters missing", `WoWStatTrackerDB = { metadata = { version = "1.0" } }`, ErrNoItems},
		{"characters not a table", `WoWStatTrackerDB = { metadata = { version = "1.0" }, characters = "none" }`, ErrNoItems},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParseContent(tt.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Empty(t, res.Drafts)
			assert.Empty(t, res.Version)
		})
	}
}

func TestParseContentPrefixHandling(t *testing.T) {
	body := `{ characters = { ["X-Y"] = { item_level = 600 } } }`
	for name, src := range map[string]string{
		"bom and prefix":      "\uFEFF\r\n  WoWStatTrackerDB = " + body,
		"tight prefix":        "WoWStatTrackerDB=" + body,
		"bare table":          body,
		"trailing assignment": "WoWStatTrackerDB = " + body + "\nWoWStatTrackerCharDB = { seen = true }\n",
	} {
		t.Run(name, func(t *testing.T) {
			res, err := ParseContent(src)
			require.NoError(t, err)
			assert.Len(t, res.Drafts, 1)
		})
	}
}

func TestParseContentManyEntries(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("WoWStatTrackerDB = { characters = {\n")
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&sb, "\t[\"Char%d-Realm\"] = { item_level = %d },\n", i, 500+i)
	}
	sb.WriteString("} }\n")

	res, err := ParseContent(sb.String())
	require.NoError(t, err)
	require.Len(t, res.Drafts, 100)
	assert.Equal(t, "Char0", res.Drafts[0].Name)
	assert.Equal(t, "Char99", res.Drafts[99].Name)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "WoWStatTracker.lua")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))

	res, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, res.Drafts, 2)

	_, err = ParseFile(filepath.Join(dir, "missing.lua"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
