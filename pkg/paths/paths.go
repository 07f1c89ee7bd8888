// Package paths resolves where wowstat keeps its files.
package paths

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/entrhq/wowstat/pkg/fsutil"
)

// AppName is the directory name under the user config directory.
const AppName = "wowstat"

// EnvDir overrides the application directory when set.
const EnvDir = "WOWSTAT_DIR"

// File names inside the application directory.
const (
	DataFile          = "wowstat_data.json"
	ConfigFile        = "wowstat_config.json"
	NotificationsFile = "notifications.json"
	LockFile          = "wowstat.lock"
	LogDir            = "logs"
)

// Layout holds the resolved file locations of one application directory.
type Layout struct {
	Dir           string
	Data          string
	Config        string
	Notifications string
	Lock          string
	Logs          string
}

var userConfigDir = os.UserConfigDir

// AppDir returns the application directory. An explicit override wins,
// then $WOWSTAT_DIR, then <user config dir>/wowstat, which is
// $XDG_CONFIG_HOME or ~/.config on Linux, ~/Library/Application Support
// on macOS and %AppData% on Windows.
func AppDir(override string) (string, error) {
	if override != "" {
		return filepath.Abs(override)
	}
	if env := os.Getenv(EnvDir); env != "" {
		return filepath.Abs(env)
	}

	base, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// In returns the layout rooted at dir.
func In(dir string) Layout {
	return Layout{
		Dir:           dir,
		Data:          filepath.Join(dir, DataFile),
		Config:        filepath.Join(dir, ConfigFile),
		Notifications: filepath.Join(dir, NotificationsFile),
		Lock:          filepath.Join(dir, LockFile),
		Logs:          filepath.Join(dir, LogDir),
	}
}

// Resolve returns the layout for AppDir(override) and creates the directory.
func Resolve(override string) (Layout, error) {
	dir, err := AppDir(override)
	if err != nil {
		return Layout{}, err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return Layout{}, fmt.Errorf("failed to create application directory: %w", err)
	}
	return In(dir), nil
}

// MigrateLegacy moves data and config files left in legacyDir by older
// releases into the layout. A file is moved only when the destination does
// not exist yet. It returns the destinations that were written.
func (l Layout) MigrateLegacy(legacyDir string) ([]string, error) {
	if legacyDir == "" {
		return nil, nil
	}
	legacy, err := filepath.Abs(legacyDir)
	if err != nil {
		return nil, err
	}
	if legacy == l.Dir {
		return nil, nil
	}

	var (
		moved []string
		errs  []error
	)
	for _, pair := range [][2]string{
		{filepath.Join(legacy, DataFile), l.Data},
		{filepath.Join(legacy, ConfigFile), l.Config},
	} {
		ok, err := migrateFile(pair[0], pair[1])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			moved = append(moved, pair[1])
		}
	}
	return moved, errors.Join(errs...)
}

func migrateFile(from, to string) (bool, error) {
	if _, err := os.Stat(to); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}

	info, err := os.Stat(from)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !info.Mode().IsRegular() {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(to), 0o750); err != nil {
		return false, err
	}
	if err := os.Rename(from, to); err == nil {
		return true, nil
	}

	// Rename fails across volumes; copy then remove.
	if err := copyFile(from, to, info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("migrate %s: %w", filepath.Base(from), err)
	}
	if err := os.Remove(from); err != nil {
		return true, fmt.Errorf("remove migrated %s: %w", filepath.Base(from), err)
	}
	return true, nil
}

func copyFile(from, to string, perm os.FileMode) error {
	src, err := os.Open(from)
	if err != nil {
		return err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(to, data, perm)
}
