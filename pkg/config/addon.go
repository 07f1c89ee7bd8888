package config

import (
	"fmt"
	"path/filepath"
	"sync"
)

// SectionIDAddon is the identifier for the addon import section
const SectionIDAddon = "addon"

const defaultAutoImport = true

// AddonSection configures where the addon export is read from.
type AddonSection struct {
	// WoWPath is the game installation directory. Empty means autodetect.
	WoWPath string `json:"wow_path"`

	// AutoImport imports the addon export on every start.
	AutoImport bool `json:"auto_import"`

	// LastImportVersion is the addon version of the most recent import.
	LastImportVersion string `json:"last_import_version"`

	mu sync.RWMutex
}

// NewAddonSection creates an addon section with default settings.
func NewAddonSection() *AddonSection {
	return &AddonSection{AutoImport: defaultAutoImport}
}

// ID returns the section identifier.
func (s *AddonSection) ID() string {
	return SectionIDAddon
}

// Title returns the section title.
func (s *AddonSection) Title() string {
	return "Addon Import"
}

// Description returns the section description.
func (s *AddonSection) Description() string {
	return "Configure the World of Warcraft installation and automatic import of the addon export."
}

// Data returns the current configuration data.
func (s *AddonSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"wow_path":            s.WoWPath,
		"auto_import":         s.AutoImport,
		"last_import_version": s.LastImportVersion,
	}
}

// SetData updates the configuration from the provided data.
func (s *AddonSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "wow_path":
			path, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value type for wow_path: expected string, got %T", value)
			}
			s.WoWPath = path

		case "auto_import":
			enabled, ok := value.(bool)
			if !ok {
				return fmt.Errorf("invalid value type for auto_import: expected bool, got %T", value)
			}
			s.AutoImport = enabled

		case "last_import_version":
			version, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value type for last_import_version: expected string, got %T", value)
			}
			s.LastImportVersion = version

		default:
			// Ignore unknown keys for forward compatibility
			continue
		}
	}
	return nil
}

// Validate validates the current configuration.
func (s *AddonSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.WoWPath != "" && !filepath.IsAbs(s.WoWPath) {
		return fmt.Errorf("wow_path must be an absolute path, got %q", s.WoWPath)
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *AddonSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.WoWPath = ""
	s.AutoImport = defaultAutoImport
	s.LastImportVersion = ""
}

// GetWoWPath returns the configured installation directory.
func (s *AddonSection) GetWoWPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.WoWPath
}

// IsAutoImport reports whether the export is imported on start.
func (s *AddonSection) IsAutoImport() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.AutoImport
}

// SetLastImportVersion records the addon version of an import.
func (s *AddonSection) SetLastImportVersion(version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastImportVersion = version
}
