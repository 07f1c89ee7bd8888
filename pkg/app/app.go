// Package app wires the roster, configuration, lock and history together
// for one process run.
package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/entrhq/wowstat/pkg/addon"
	"github.com/entrhq/wowstat/pkg/config"
	"github.com/entrhq/wowstat/pkg/fsutil"
	"github.com/entrhq/wowstat/pkg/importer"
	"github.com/entrhq/wowstat/pkg/lock"
	"github.com/entrhq/wowstat/pkg/logging"
	"github.com/entrhq/wowstat/pkg/notify"
	"github.com/entrhq/wowstat/pkg/paths"
	"github.com/entrhq/wowstat/pkg/reset"
	"github.com/entrhq/wowstat/pkg/store"
	"github.com/entrhq/wowstat/pkg/weekid"
)

// Version is the application version compared against the addon's.
const Version = "1.4.2"

var timeNow = time.Now // injected for testability

// Options configure Open.
type Options struct {
	// Dir overrides the application directory.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// LegacyDir is checked for data files written by older releases.
	// Empty skips the migration.
	LegacyDir string

	// Clock replaces the wall clock for week computations.
	Clock func() time.Time
}

// App is one opened application directory. It holds the instance lock
// until Close.
type App struct {
	Paths         paths.Layout
	Config        *config.Manager
	Store         *store.Store
	Notifications *notify.History
	Weeks         *weekid.Calculator
	Log           *logging.Logger

	// ResetOutcome is what the startup weekly check did.
	ResetOutcome reset.Outcome

	// Recovered lists corrupt files moved aside during Open.
	Recovered []string

	lock *lock.Lock
}

// Open acquires the instance lock, loads every file and runs the weekly
// reset check. Failing to take the lock is fatal.
func Open(opts Options) (*App, error) {
	layout, err := paths.Resolve(opts.Dir)
	if err != nil {
		return nil, err
	}

	l, err := lock.Acquire(layout.Lock)
	if err != nil {
		return nil, err
	}

	a := &App{Paths: layout, lock: l}
	if err := a.load(opts); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) load(opts Options) error {
	logging.SetDirectory(a.Paths.Dir)
	logging.SetDebug(opts.Debug)
	logger, err := logging.NewLogger("app")
	if err != nil {
		logger.Warnf("file logging unavailable: %v", err)
	}
	a.Log = logger
	a.Log.Infof("opening %s (pid %d)", a.Paths.Dir, os.Getpid())

	if moved, err := a.Paths.MigrateLegacy(opts.LegacyDir); err != nil {
		a.Log.Warnf("legacy migration: %v", err)
	} else {
		for _, path := range moved {
			a.Log.Infof("migrated legacy file to %s", path)
		}
	}

	if err := a.openConfig(); err != nil {
		return err
	}

	a.Weeks = weekid.New()
	if opts.Clock != nil {
		a.Weeks = a.Weeks.WithClock(opts.Clock)
	}

	a.Notifications = notify.NewHistory(a.Paths.Notifications, a.Config.UI().GetNotificationLimit())
	if err := a.Notifications.Load(); err != nil {
		if !errors.Is(err, notify.ErrParse) {
			return err
		}
		a.Log.Warnf("discarding unreadable notification history: %v", err)
	}

	if err := a.openStore(); err != nil {
		return err
	}

	gate := reset.NewGate(a.Store, a.Config, a.Weeks, a.Log)
	a.ResetOutcome, err = gate.Check()
	if err != nil {
		return fmt.Errorf("weekly reset: %w", err)
	}
	if a.ResetOutcome == reset.Reset {
		a.Notifications.Add(notify.Success, "Weekly reset: cleared weekly progress for %d characters", a.Store.Count())
		a.saveNotifications()
	}
	return nil
}

func (a *App) openConfig() error {
	cfg, err := config.Open(a.Paths.Config)
	if errors.Is(err, config.ErrCorrupt) {
		backup, backupErr := backupFile(a.Paths.Config)
		if backupErr != nil {
			return fmt.Errorf("%w (backup failed: %v)", err, backupErr)
		}
		a.Log.Warnf("configuration unreadable, moved to %s", backup)
		a.Recovered = append(a.Recovered, backup)
		cfg, err = config.Open(a.Paths.Config)
	}
	if err != nil {
		return err
	}
	a.Config = cfg

	// Keep a copy of the file before defaults replace the bad sections on
	// the next save.
	if invalid := cfg.InvalidSections(); len(invalid) > 0 {
		backup, err := copyAside(a.Paths.Config)
		if err != nil {
			return fmt.Errorf("invalid configuration sections %v (backup failed: %w)", invalid, err)
		}
		a.Log.Warnf("configuration sections %v invalid, reset to defaults; original kept at %s", invalid, backup)
		a.Recovered = append(a.Recovered, backup)
	}
	return nil
}

func (a *App) openStore() error {
	a.Store = store.New(a.Paths.Data)
	err := a.Store.Load()
	if err == nil {
		a.Log.Infof("loaded %d characters", a.Store.Count())
		return nil
	}
	if !errors.Is(err, store.ErrParse) {
		return err
	}

	// Keep the unreadable file so nothing is lost when the empty roster
	// is saved later.
	backup, backupErr := a.Store.BackupCorrupt()
	if backupErr != nil {
		return fmt.Errorf("%w (backup failed: %v)", err, backupErr)
	}
	a.Log.Errorf("roster unreadable, moved to %s: %v", backup, err)
	a.Recovered = append(a.Recovered, backup)
	a.Notifications.Add(notify.Warning, "Character data was unreadable and has been moved to %s", backup)
	a.saveNotifications()
	return nil
}

// Close releases the lock and closes the log. Safe to call more than once.
func (a *App) Close() error {
	var errs []error
	if a.lock != nil {
		errs = append(errs, a.lock.Release())
		a.lock = nil
	}
	if a.Log != nil {
		errs = append(errs, a.Log.Close())
	}
	return errors.Join(errs...)
}

// Save writes the roster.
func (a *App) Save() error {
	return a.Store.Save()
}

// Notify records a notification and saves the history. A failed save is
// logged and otherwise ignored.
func (a *App) Notify(kind notify.Type, format string, args ...interface{}) notify.Notification {
	n := a.Notifications.Add(kind, format, args...)
	a.saveNotifications()
	return n
}

func (a *App) saveNotifications() {
	if err := a.Notifications.Save(); err != nil {
		a.Log.Warnf("failed to save notifications: %v", err)
	}
}

// LocateExport finds the addon export using the configured installation.
func (a *App) LocateExport() (addon.Export, error) {
	return addon.Locate(a.Config.Addon().GetWoWPath())
}

// ImportResult is the outcome of App.Import.
type ImportResult struct {
	importer.Report

	// Path is the export that was read.
	Path string

	// VersionMismatch is set when the export was written by a different
	// addon version.
	VersionMismatch bool
}

// Import merges the export at path, or the located export when path is
// empty, then saves the roster and records the addon version.
func (a *App) Import(path string) (ImportResult, error) {
	if path == "" {
		export, err := a.LocateExport()
		if err != nil {
			return ImportResult{}, err
		}
		path = export.Path
	}

	rec := importer.New(a.Store, a.Weeks, a.Log)
	report, err := rec.ImportFile(path)
	if err != nil {
		a.Log.Warnf("import of %s failed: %v", path, err)
		return ImportResult{Path: path}, fmt.Errorf("import %s: %w", path, err)
	}

	res := ImportResult{Report: report, Path: path}
	if report.Changed() {
		if err := a.Store.Save(); err != nil {
			return res, err
		}
	}

	if report.Version != "" {
		res.VersionMismatch = report.Version != Version
		a.Config.Addon().SetLastImportVersion(report.Version)
		if err := a.Config.SaveAll(); err != nil {
			a.Log.Warnf("failed to save configuration: %v", err)
		}
	}
	if res.VersionMismatch {
		a.Notifications.Add(notify.Warning, "Version mismatch: addon v%s, wowstat v%s", report.Version, Version)
	}

	kind := notify.Success
	if len(report.Failed) > 0 {
		kind = notify.Warning
	}
	a.Notify(kind, "Imported from addon: %s", report.Summary)
	return res, nil
}

// ResetWeekly clears weekly fields for every character and saves.
func (a *App) ResetWeekly() error {
	a.Store.ResetWeeklyAll()
	if err := a.Store.Save(); err != nil {
		return err
	}
	if err := a.Config.SetLastWeekID(a.Weeks.Current()); err != nil {
		return err
	}
	a.Notify(notify.Info, "Weekly progress cleared manually")
	return nil
}

func backupName(path string) string {
	return path + ".corrupt-" + timeNow().UTC().Format("20060102T150405Z")
}

func backupFile(path string) (string, error) {
	backup := backupName(path)
	if err := os.Rename(path, backup); err != nil {
		return "", err
	}
	return backup, nil
}

func copyAside(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	backup := backupName(path)
	if err := fsutil.WriteFileAtomic(backup, data, 0o600); err != nil {
		return "", err
	}
	return backup, nil
}
