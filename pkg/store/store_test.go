package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/wowstat/pkg/character"
)

func sample(realm, name string) *character.Character {
	c := character.New(realm, name)
	c.Guild = "Guild"
	c.ItemLevel = 640.5
	c.HeroicItems = 4
	c.ChampionItems = 8
	c.VaultVisited = true
	c.Delves = 5
	c.Dungeons = 2
	c.VaultT8Plus = 1
	c.GildedStash = 3
	c.GearingUp = true
	c.Quests = true
	c.Timewalk = 4
	c.Notes = "notes for " + name
	c.UpgradeCurrent = 12
	c.UpgradeMax = 48
	c.SlotUpgrades = []character.SlotUpgrade{{Slot: 1, SlotName: "Head", Track: "Hero", Current: 3, Max: 6}}
	c.MissingEnchants = []int{11}
	c.WeekID = "20241224"
	return c
}

func newStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "wowstat_data.json"))
}

func TestLoadMissingFile(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Load())
	assert.Equal(t, 0, s.Count())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Add(sample("Area 52", "Aaa")))
	require.NoError(t, s.Add(sample("Stormrage", "Bbb")))
	require.NoError(t, s.Add(character.New("Realm", "Bare")))
	require.NoError(t, s.Save())

	loaded := New(s.Path())
	require.NoError(t, loaded.Load())
	assert.Equal(t, s.All(), loaded.All())
}

func TestSaveEmptyStore(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save())

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestLoadErrorsAreDistinct(t *testing.T) {
	t.Run("malformed content is a parse error", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, os.WriteFile(s.Path(), []byte(`[{"realm": "R", "name": `), 0o600))

		err := s.Load()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrParse))
		assert.Equal(t, 0, s.Count())
	})

	t.Run("entry without identity is a parse error", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, os.WriteFile(s.Path(), []byte(`[{"realm": "R"}]`), 0o600))

		err := s.Load()
		assert.True(t, errors.Is(err, ErrParse))
	})

	t.Run("unreadable path is an io error", func(t *testing.T) {
		s := New(t.TempDir())

		err := s.Load()
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrParse))
	})
}

func TestLoadNormalizes(t *testing.T) {
	s := newStore(t)
	content := `[
		{"realm": "R", "name": "A", "delves": 12, "item_level": -5},
		null,
		{"realm": "R", "name": "A", "delves": 1},
		{"realm": "R", "name": "B"}
	]`
	require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0o600))

	require.NoError(t, s.Load())
	require.Equal(t, 2, s.Count())

	a, err := s.Get(0)
	require.NoError(t, err)
	assert.Equal(t, character.MaxDelves, a.Delves)
	assert.Equal(t, 0.0, a.ItemLevel)
}

func TestSaveInterrupted(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Add(sample("Realm", "Before")))
	require.NoError(t, s.Save())
	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	// Simulate a crash after the temp file is written but before the replace.
	s.write = func(path string, data []byte, _ os.FileMode) error {
		if err := os.WriteFile(path+".tmp.crash", data[:len(data)/2], 0o600); err != nil {
			return err
		}
		return errors.New("interrupted")
	}
	require.NoError(t, s.Add(sample("Realm", "After")))
	require.Error(t, s.Save())

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)

	reloaded := New(s.Path())
	require.NoError(t, reloaded.Load())
	require.Equal(t, 1, reloaded.Count())
	got, _ := reloaded.Get(0)
	assert.Equal(t, "Before", got.Name)
}

func TestBackupCorrupt(t *testing.T) {
	orig := timeNow
	timeNow = func() time.Time { return time.Date(2024, 12, 24, 16, 30, 0, 0, time.UTC) }
	defer func() { timeNow = orig }()

	s := newStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{broken"), 0o600))
	require.True(t, errors.Is(s.Load(), ErrParse))

	backup, err := s.BackupCorrupt()
	require.NoError(t, err)
	assert.Equal(t, s.Path()+".corrupt-20241224T163000Z", backup)

	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "{broken", string(data))

	_, err = os.Stat(s.Path())
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// A save after backup must not touch the preserved copy.
	require.NoError(t, s.Save())
	data, err = os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "{broken", string(data))
}

func TestAddValidation(t *testing.T) {
	s := newStore(t)

	err := s.Add(nil)
	assert.True(t, errors.Is(err, ErrInvalid))

	err = s.Add(character.New("", "NoRealm"))
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.True(t, errors.Is(err, character.ErrValidation))

	bad := character.New("R", "Bad")
	bad.GildedStash = 4
	assert.True(t, errors.Is(s.Add(bad), ErrInvalid))

	require.NoError(t, s.Add(character.New("R", "A")))
	assert.True(t, errors.Is(s.Add(character.New("R", "A")), ErrDuplicate))

	// Same name on another realm is a different character.
	require.NoError(t, s.Add(character.New("Other", "A")))
	assert.Equal(t, 2, s.Count())
}

func TestFind(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Add(character.New("R1", "A")))
	require.NoError(t, s.Add(character.New("R2", "A")))

	assert.Equal(t, 0, s.Find("R1", "A"))
	assert.Equal(t, 1, s.Find("R2", "A"))
	assert.Equal(t, NotFound, s.Find("R3", "A"))
	assert.Equal(t, NotFound, s.Find("r1", "a"))
}

func TestGetAndUpdate(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Add(sample("R", "A")))
	require.NoError(t, s.Add(sample("R", "B")))

	for _, idx := range []int{-1, 2} {
		_, err := s.Get(idx)
		assert.True(t, errors.Is(err, ErrOutOfRange))
		assert.True(t, errors.Is(s.Update(idx, character.New("R", "C")), ErrOutOfRange))
		assert.True(t, errors.Is(s.Delete(idx), ErrOutOfRange))
	}

	c, err := s.Get(0)
	require.NoError(t, err)
	c.Notes = "edited"

	unchanged, _ := s.Get(0)
	assert.Equal(t, "notes for A", unchanged.Notes)

	require.NoError(t, s.Update(0, c))
	updated, _ := s.Get(0)
	assert.Equal(t, "edited", updated.Notes)

	renamed := c.Clone()
	renamed.Name = "B"
	assert.True(t, errors.Is(s.Update(0, renamed), ErrDuplicate))
	assert.True(t, errors.Is(s.Update(0, nil), ErrInvalid))
}

func TestDelete(t *testing.T) {
	s := newStore(t)
	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, s.Add(character.New("R", name)))
	}

	require.NoError(t, s.Delete(1))
	require.Equal(t, 2, s.Count())
	assert.Equal(t, 1, s.Find("R", "C"))
	assert.Equal(t, NotFound, s.Find("R", "B"))
}

func TestResetWeeklyAll(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Add(sample("R", "A")))
	require.NoError(t, s.Add(sample("R", "B")))
	before := s.All()

	s.ResetWeeklyAll()

	for i, c := range s.All() {
		want := before[i].Clone()
		want.ResetWeekly()
		assert.Equal(t, want, c)

		assert.False(t, c.VaultVisited)
		assert.Zero(t, c.Delves)
		assert.Zero(t, c.GildedStash)
		assert.False(t, c.GearingUp)
		assert.Zero(t, c.Timewalk)
		assert.Equal(t, before[i].Notes, c.Notes)
		assert.Equal(t, before[i].HeroicItems, c.HeroicItems)
		assert.Equal(t, before[i].ItemLevel, c.ItemLevel)
	}
}
