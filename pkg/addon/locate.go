// Package addon finds the SavedVariables file written by the WoW Stat
// Tracker addon inside a World of Warcraft installation.
package addon

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/gobwas/glob"
)

const (
	// ExportFile is the SavedVariables file name the addon writes.
	ExportFile = "WoWStatTracker.lua"

	// AccountPattern matches export files relative to WTF/Account, with
	// '/' as separator.
	AccountPattern = "*/SavedVariables/" + ExportFile

	maxWalkDepth = 3
)

// ErrNotFound reports that no export file exists under any candidate.
var ErrNotFound = errors.New("addon: export file not found")

var accountGlob = glob.MustCompile(AccountPattern, '/')

// Export is one discovered export file.
type Export struct {
	Path    string
	Account string
	ModTime time.Time
}

// AccountDir returns <wowPath>/_retail_/WTF/Account.
func AccountDir(wowPath string) string {
	return filepath.Join(wowPath, "_retail_", "WTF", "Account")
}

// Find lists every export under the installation at wowPath, most
// recently modified first.
func Find(wowPath string) ([]Export, error) {
	root := AccountDir(wowPath)
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var found []Export
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable account folders are skipped.
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && strings.Count(rel, "/") >= maxWalkDepth-1 {
				return fs.SkipDir
			}
			return nil
		}
		if !accountGlob.Match(rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		found = append(found, Export{
			Path:    path,
			Account: strings.SplitN(rel, "/", 2)[0],
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].ModTime.After(found[j].ModTime)
	})
	return found, nil
}

// Latest returns the most recently modified export under wowPath.
func Latest(wowPath string) (Export, error) {
	found, err := Find(wowPath)
	if err != nil {
		return Export{}, err
	}
	if len(found) == 0 {
		return Export{}, fmt.Errorf("%w under %s", ErrNotFound, AccountDir(wowPath))
	}
	return found[0], nil
}

// Locate returns the newest export from the configured installation, or
// from the first default installation that has one when wowPath is empty.
func Locate(wowPath string) (Export, error) {
	if wowPath != "" {
		return Latest(wowPath)
	}

	for _, candidate := range DefaultInstallPaths() {
		if export, err := Latest(candidate); err == nil {
			return export, nil
		}
	}
	return Export{}, fmt.Errorf("%w: no World of Warcraft installation detected, set addon.wow_path", ErrNotFound)
}

// DefaultInstallPaths lists the usual installation directories for the
// running platform.
func DefaultInstallPaths() []string {
	home, _ := os.UserHomeDir()
	return defaultInstallPaths(runtime.GOOS, home)
}

func defaultInstallPaths(goos, home string) []string {
	switch goos {
	case "darwin":
		paths := []string{
			"/Applications/World of Warcraft",
			"/Applications/Games/World of Warcraft",
		}
		if home != "" {
			paths = append(paths, filepath.Join(home, "Applications", "World of Warcraft"))
		}
		return paths
	case "windows":
		return []string{
			`C:\Program Files (x86)\World of Warcraft`,
			`C:\Program Files\World of Warcraft`,
			`D:\World of Warcraft`,
			`D:\Games\World of Warcraft`,
		}
	default:
		if home == "" {
			return nil
		}
		return []string{
			filepath.Join(home, ".wine", "drive_c", "Program Files (x86)", "World of Warcraft"),
			filepath.Join(home, "Games", "world-of-warcraft", "drive_c", "Program Files (x86)", "World of Warcraft"),
		}
	}
}
