package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownKey reports a dotted key that names no registered setting.
var ErrUnknownKey = errors.New("config: unknown key")

// Open loads the configuration file at path and registers the wowstat
// sections. A missing file yields defaults.
func Open(path string) (*Manager, error) {
	store, err := NewFileStore(path)
	if err != nil {
		return nil, err
	}

	manager := NewManager(store)

	if err := manager.RegisterSection(NewStateSection()); err != nil {
		return nil, err
	}

	if err := manager.RegisterSection(NewAddonSection()); err != nil {
		return nil, err
	}

	if err := manager.RegisterSection(NewUISection()); err != nil {
		return nil, err
	}

	if err := manager.LoadAll(); err != nil {
		return nil, err
	}

	return manager, nil
}

// State returns the runtime state section, nil if it is not registered.
func (m *Manager) State() *StateSection {
	section, ok := m.GetSection(SectionIDState)
	if !ok {
		return nil
	}

	state, ok := section.(*StateSection)
	if !ok {
		return nil
	}

	return state
}

// Addon returns the addon section, nil if it is not registered.
func (m *Manager) Addon() *AddonSection {
	section, ok := m.GetSection(SectionIDAddon)
	if !ok {
		return nil
	}

	addon, ok := section.(*AddonSection)
	if !ok {
		return nil
	}

	return addon
}

// UI returns the display section, nil if it is not registered.
func (m *Manager) UI() *UISection {
	section, ok := m.GetSection(SectionIDUI)
	if !ok {
		return nil
	}

	ui, ok := section.(*UISection)
	if !ok {
		return nil
	}

	return ui
}

// LastWeekID returns the week id recorded by the last reset check.
func (m *Manager) LastWeekID() string {
	state := m.State()
	if state == nil {
		return ""
	}
	return state.GetLastWeekID()
}

// SetLastWeekID records the week id and saves the configuration.
func (m *Manager) SetLastWeekID(id string) error {
	state := m.State()
	if state == nil {
		return fmt.Errorf("%w: %s", ErrUnknownKey, SectionIDState)
	}

	previous := state.GetLastWeekID()
	state.SetLastWeekID(id)
	if err := m.SaveAll(); err != nil {
		state.SetLastWeekID(previous)
		return err
	}
	return nil
}

// Keys lists every setting as "section.key", sorted.
func (m *Manager) Keys() []string {
	var keys []string
	for _, section := range m.GetSections() {
		for key := range section.Data() {
			keys = append(keys, section.ID()+"."+key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of a "section.key" setting.
func (m *Manager) Get(dotted string) (interface{}, error) {
	section, key, err := m.resolve(dotted)
	if err != nil {
		return nil, err
	}

	value, ok := section.Data()[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, dotted)
	}
	return value, nil
}

// Set parses raw into the type of the existing "section.key" setting,
// applies it and saves. Invalid values leave the section unchanged.
func (m *Manager) Set(dotted, raw string) error {
	section, key, err := m.resolve(dotted)
	if err != nil {
		return err
	}

	before := section.Data()
	current, ok := before[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, dotted)
	}

	var value interface{} = raw
	switch current.(type) {
	case bool:
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", dotted, err)
		}
		value = parsed
	case int:
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", dotted, err)
		}
		value = parsed
	}

	if err := section.SetData(map[string]interface{}{key: value}); err != nil {
		return err
	}
	if err := section.Validate(); err != nil {
		section.Reset()
		_ = section.SetData(before)
		return fmt.Errorf("invalid value for %s: %w", dotted, err)
	}
	return m.SaveAll()
}

func (m *Manager) resolve(dotted string) (Section, string, error) {
	id, key, ok := strings.Cut(dotted, ".")
	if !ok || id == "" || key == "" {
		return nil, "", fmt.Errorf("%w: %q (want section.key)", ErrUnknownKey, dotted)
	}

	section, found := m.GetSection(id)
	if !found {
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownKey, dotted)
	}
	return section, key, nil
}
