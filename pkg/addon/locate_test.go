package addon

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExport(t *testing.T, wowPath, account string, modTime time.Time) string {
	t.Helper()
	dir := filepath.Join(AccountDir(wowPath), account, "SavedVariables")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, ExportFile)
	require.NoError(t, os.WriteFile(path, []byte("WoWStatTrackerDB = {}"), 0o644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
	return path
}

func TestFindNewestFirst(t *testing.T) {
	wow := t.TempDir()
	base := time.Date(2024, 12, 20, 10, 0, 0, 0, time.UTC)

	older := writeExport(t, wow, "ACCOUNT1", base)
	newer := writeExport(t, wow, "ACCOUNT2", base.Add(time.Hour))

	// Files the pattern must not match.
	other := filepath.Join(AccountDir(wow), "ACCOUNT1", "SavedVariables", "Other.lua")
	require.NoError(t, os.WriteFile(other, nil, 0o644))
	deep := filepath.Join(AccountDir(wow), "ACCOUNT1", "Realm", "Char", "SavedVariables")
	require.NoError(t, os.MkdirAll(deep, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(deep, ExportFile), nil, 0o644))

	found, err := Find(wow)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, newer, found[0].Path)
	assert.Equal(t, "ACCOUNT2", found[0].Account)
	assert.Equal(t, older, found[1].Path)

	latest, err := Latest(wow)
	require.NoError(t, err)
	assert.Equal(t, newer, latest.Path)
}

func TestLatestNotFound(t *testing.T) {
	t.Run("no installation", func(t *testing.T) {
		_, err := Latest(filepath.Join(t.TempDir(), "missing"))
		assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
	})

	t.Run("no exports", func(t *testing.T) {
		wow := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(AccountDir(wow), "ACCOUNT1", "SavedVariables"), 0o755))
		_, err := Latest(wow)
		assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
	})
}

func TestLocateConfiguredPath(t *testing.T) {
	wow := t.TempDir()
	path := writeExport(t, wow, "ACCOUNT1", time.Now())

	export, err := Locate(wow)
	require.NoError(t, err)
	assert.Equal(t, path, export.Path)
}

func TestDefaultInstallPaths(t *testing.T) {
	assert.Contains(t, defaultInstallPaths("darwin", "/Users/u"), "/Applications/World of Warcraft")
	assert.Contains(t, defaultInstallPaths("windows", ""), `C:\Program Files (x86)\World of Warcraft`)

	linux := defaultInstallPaths("linux", "/home/u")
	require.Len(t, linux, 2)
	assert.Equal(t, filepath.Join("/home/u", ".wine", "drive_c", "Program Files (x86)", "World of Warcraft"), linux[0])

	assert.Empty(t, defaultInstallPaths("linux", ""))
}
