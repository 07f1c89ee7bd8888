package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/wowstat/pkg/character"
	"github.com/entrhq/wowstat/pkg/savedvars"
	"github.com/entrhq/wowstat/pkg/store"
)

type fixedWeek string

func (w fixedWeek) Current() string { return string(w) }

func intPtr(v int) *int { return &v }
func boolPtr(v bool) *bool { return &v }

func newRoster(t *testing.T, chars ...*character.Character) *store.Store {
	t.Helper()
	s := store.New(filepath.Join(t.TempDir(), "wowstat_data.json"))
	for _, c := range chars {
		require.NoError(t, s.Add(c))
	}
	return s
}

func existing() *character.Character {
	c := character.New("Realm", "Aaa")
	c.Notes = "keep me"
	c.HeroicItems = 6
	c.Delves = 3
	c.Guild = "Old Guild"
	return c
}

func TestMergePreservesUnreportedFields(t *testing.T) {
	roster := newRoster(t, existing())
	r := New(roster, nil, nil)

	sum := r.Merge([]character.Draft{{Realm: "Realm", Name: "Aaa", HeroicItems: intPtr(0)}})

	assert.Equal(t, 1, sum.Updated)
	got, err := roster.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "keep me", got.Notes)
	assert.Equal(t, 0, got.HeroicItems)
	assert.Equal(t, "Old Guild", got.Guild)
	assert.Equal(t, 3, got.Delves)
}

func TestMergeAppendsNewCharacters(t *testing.T) {
	roster := newRoster(t, existing())
	r := New(roster, nil, nil)

	sum := r.Merge([]character.Draft{
		{Realm: "Realm", Name: "Bbb", Delves: intPtr(2)},
		{Realm: "Other", Name: "Ccc", GildedStash: intPtr(9)},
	})

	assert.Equal(t, 2, sum.Added)
	assert.True(t, sum.Changed())
	require.Equal(t, 3, roster.Count())
	assert.Equal(t, 1, roster.Find("Realm", "Bbb"))
	assert.Equal(t, 2, roster.Find("Other", "Ccc"))

	c, _ := roster.Get(2)
	assert.Equal(t, character.MaxGildedStash, c.GildedStash)
}

func TestMergeCountsUnchanged(t *testing.T) {
	roster := newRoster(t, existing())
	r := New(roster, nil, nil)

	sum := r.Merge([]character.Draft{{Realm: "Realm", Name: "Aaa", HeroicItems: intPtr(6)}})

	assert.Equal(t, Summary{Unchanged: 1}, sum)
	assert.False(t, sum.Changed())
}

func TestMergeStaleWeek(t *testing.T) {
	roster := newRoster(t, existing())
	r := New(roster, fixedWeek("20241224"), nil)

	sum := r.Merge([]character.Draft{
		{Realm: "Realm", Name: "Aaa", WeekID: "20241217", Delves: intPtr(8), VaultVisited: boolPtr(true), HeroicItems: intPtr(7)},
		{Realm: "Realm", Name: "New", WeekID: "20241217", Timewalk: intPtr(5)},
	})

	assert.Equal(t, 2, sum.Stale)
	assert.Equal(t, 1, sum.Updated)
	assert.Equal(t, 1, sum.Added)

	got, _ := roster.Get(0)
	assert.Equal(t, 3, got.Delves)
	assert.False(t, got.VaultVisited)
	assert.Equal(t, 7, got.HeroicItems)

	added, _ := roster.Get(1)
	assert.Equal(t, 0, added.Timewalk)
}

func TestMergeCurrentWeek(t *testing.T) {
	roster := newRoster(t, existing())
	r := New(roster, fixedWeek("20241224"), nil)

	sum := r.Merge([]character.Draft{{Realm: "Realm", Name: "Aaa", WeekID: "20241224", Delves: intPtr(6)}})

	assert.Zero(t, sum.Stale)
	got, _ := roster.Get(0)
	assert.Equal(t, 6, got.Delves)
	assert.Equal(t, "20241224", got.WeekID)
}

func TestImportContent(t *testing.T) {
	roster := newRoster(t, existing())
	r := New(roster, fixedWeek("20241224"), nil)

	src := `WoWStatTrackerDB = {
		metadata = { version = "2.0.1" },
		characters = {
			["Aaa-Realm"] = {
				heroic_items = 0,
				gearing_up = true,
				vault_delves = { count = 5 },
				timewalking_quest = { completed = true, progress = 1 },
				week_id = "20241224",
			},
			["Broken"] = {},
			["Bbb-Realm"] = { item_level = 615.5 },
		},
	}`

	rep, err := r.ImportContent(src)
	require.NoError(t, err)

	assert.Equal(t, "2.0.1", rep.Version)
	assert.Equal(t, []string{"Broken"}, rep.Skipped)
	assert.Equal(t, 1, rep.Updated)
	assert.Equal(t, 1, rep.Added)

	a, _ := roster.Get(0)
	assert.Equal(t, "keep me", a.Notes)
	assert.Equal(t, 0, a.HeroicItems)
	assert.Equal(t, 4, a.Delves)
	assert.Equal(t, character.MaxTimewalk, a.Timewalk)
	assert.True(t, a.GearingUp)
}

func TestImportFileFailureMergesNothing(t *testing.T) {
	roster := newRoster(t, existing())
	r := New(roster, nil, nil)

	path := filepath.Join(t.TempDir(), "WoWStatTracker.lua")
	require.NoError(t, os.WriteFile(path, []byte(`WoWStatTrackerDB = { metadata = { version = "1" } }`), 0o644))

	rep, err := r.ImportFile(path)
	require.ErrorIs(t, err, savedvars.ErrNoItems)
	assert.Equal(t, Report{}, rep)
	assert.Equal(t, 1, roster.Count())

	_, err = r.ImportFile(filepath.Join(t.TempDir(), "missing.lua"))
	assert.Error(t, err)
}
