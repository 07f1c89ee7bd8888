package config

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

// memoryStore is an in-memory Store.
type memoryStore struct {
	sections map[string]map[string]interface{}
	loadErr  error
	saveErr  error
	saves    int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sections: make(map[string]map[string]interface{})}
}

func (m *memoryStore) Load() error { return m.loadErr }

func (m *memoryStore) Save() error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	return nil
}

func (m *memoryStore) GetSection(sectionID string) (map[string]interface{}, error) {
	if data, ok := m.sections[sectionID]; ok {
		return data, nil
	}
	return make(map[string]interface{}), nil
}

func (m *memoryStore) SetSection(sectionID string, data map[string]interface{}) error {
	m.sections[sectionID] = data
	return nil
}

func (m *memoryStore) GetAll() (map[string]map[string]interface{}, error) {
	return m.sections, nil
}

func (m *memoryStore) SetAll(data map[string]map[string]interface{}) error {
	m.sections = data
	return nil
}

func newTestManager(t *testing.T, store Store) *Manager {
	t.Helper()
	manager := NewManager(store)
	for _, section := range []Section{NewStateSection(), NewAddonSection(), NewUISection()} {
		if err := manager.RegisterSection(section); err != nil {
			t.Fatalf("RegisterSection(%s) failed: %v", section.ID(), err)
		}
	}
	return manager
}

func TestManager_RegisterSection(t *testing.T) {
	t.Run("keeps registration order", func(t *testing.T) {
		store := newMemoryStore()
		manager := newTestManager(t, store)

		if manager.Store() != store {
			t.Error("Manager does not reference correct store")
		}

		sections := manager.GetSections()
		if len(sections) != 3 {
			t.Fatalf("Expected 3 sections, got %d", len(sections))
		}
		if sections[0].ID() != SectionIDState || sections[1].ID() != SectionIDAddon || sections[2].ID() != SectionIDUI {
			t.Error("Sections not in registration order")
		}
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		manager := newTestManager(t, newMemoryStore())
		if err := manager.RegisterSection(NewUISection()); err == nil {
			t.Error("Expected error for duplicate registration")
		}
	})

	t.Run("unknown section", func(t *testing.T) {
		manager := newTestManager(t, newMemoryStore())
		if _, ok := manager.GetSection("llm"); ok {
			t.Error("Should return false for unregistered section")
		}
	})
}

func TestManager_LoadAll(t *testing.T) {
	t.Run("applies stored data", func(t *testing.T) {
		store := newMemoryStore()
		store.sections[SectionIDState] = map[string]interface{}{"last_week_id": "20250107"}
		store.sections[SectionIDUI] = map[string]interface{}{"notification_limit": float64(12)}

		manager := newTestManager(t, store)
		if err := manager.LoadAll(); err != nil {
			t.Fatalf("LoadAll failed: %v", err)
		}

		if manager.LastWeekID() != "20250107" {
			t.Errorf("Expected last week 20250107, got %q", manager.LastWeekID())
		}
		if manager.UI().GetNotificationLimit() != 12 {
			t.Errorf("Expected limit 12, got %d", manager.UI().GetNotificationLimit())
		}
		if !manager.Addon().IsAutoImport() {
			t.Error("Missing section should keep its defaults")
		}
	})

	t.Run("store error", func(t *testing.T) {
		store := newMemoryStore()
		store.loadErr = fmt.Errorf("load error")

		if err := newTestManager(t, store).LoadAll(); err == nil {
			t.Error("Expected error from store")
		}
	})

	t.Run("bad sections fall back to defaults", func(t *testing.T) {
		store := newMemoryStore()
		store.sections[SectionIDState] = map[string]interface{}{"last_week_id": "20250107"}
		store.sections[SectionIDAddon] = map[string]interface{}{"auto_import": "yes"}
		store.sections[SectionIDUI] = map[string]interface{}{"notification_limit": float64(0)}

		manager := newTestManager(t, store)
		if err := manager.LoadAll(); err != nil {
			t.Fatalf("LoadAll failed: %v", err)
		}

		invalid := manager.InvalidSections()
		if len(invalid) != 2 || invalid[0] != SectionIDAddon || invalid[1] != SectionIDUI {
			t.Errorf("Expected addon and ui to be invalid, got %v", invalid)
		}
		if !manager.Addon().IsAutoImport() || manager.UI().GetNotificationLimit() != defaultNotificationLimit {
			t.Error("Invalid sections should be reset to defaults")
		}
		if manager.LastWeekID() != "20250107" {
			t.Error("Valid sections should keep their stored values")
		}
		if err := manager.SaveAll(); err != nil {
			t.Errorf("SaveAll after recovery failed: %v", err)
		}
	})
}

func TestManager_SaveAll(t *testing.T) {
	t.Run("copies every section", func(t *testing.T) {
		store := newMemoryStore()
		manager := newTestManager(t, store)
		manager.State().SetLastWeekID("20250114")

		if err := manager.SaveAll(); err != nil {
			t.Fatalf("SaveAll failed: %v", err)
		}
		if store.saves != 1 {
			t.Errorf("Expected one save, got %d", store.saves)
		}
		if store.sections[SectionIDState]["last_week_id"] != "20250114" {
			t.Error("State section not stored")
		}
		if _, ok := store.sections[SectionIDUI]["color"]; !ok {
			t.Error("UI section not stored")
		}
	})

	t.Run("invalid section blocks the save", func(t *testing.T) {
		store := newMemoryStore()
		manager := newTestManager(t, store)
		manager.UI().NotificationLimit = 0

		if err := manager.SaveAll(); err == nil {
			t.Error("Expected validation error")
		}
		if store.saves != 0 {
			t.Error("Store should not be saved after a validation error")
		}
	})

	t.Run("store error", func(t *testing.T) {
		store := newMemoryStore()
		store.saveErr = errors.New("disk full")

		err := newTestManager(t, store).SaveAll()
		if !errors.Is(err, store.saveErr) {
			t.Errorf("Expected wrapped store error, got %v", err)
		}
	})
}

func TestManager_ResetAll(t *testing.T) {
	manager := newTestManager(t, newMemoryStore())
	manager.State().SetLastWeekID("20250114")
	manager.UI().SetData(map[string]interface{}{"color": false})

	manager.ResetAll()

	if manager.LastWeekID() != "" {
		t.Error("State section not reset")
	}
	if !manager.UI().UseColor() {
		t.Error("UI section not reset")
	}
}

func TestManager_ConcurrentReads(t *testing.T) {
	manager := newTestManager(t, newMemoryStore())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			manager.GetSection(SectionIDUI)
			manager.GetSections()
			manager.Keys()
		}()
	}
	wg.Wait()
}
