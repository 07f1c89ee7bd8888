package config

import (
	"fmt"
	"sync"

	"github.com/entrhq/wowstat/pkg/weekid"
)

// SectionIDState is the identifier for the persisted runtime state section
const SectionIDState = "state"

// StateSection holds values the application records about itself between
// runs, such as the last week it observed.
type StateSection struct {
	LastWeekID string `json:"last_week_id"`
	mu         sync.RWMutex
}

// NewStateSection creates an empty state section.
func NewStateSection() *StateSection {
	return &StateSection{}
}

// ID returns the section identifier.
func (s *StateSection) ID() string {
	return SectionIDState
}

// Title returns the section title.
func (s *StateSection) Title() string {
	return "Runtime State"
}

// Description returns the section description.
func (s *StateSection) Description() string {
	return "Values recorded between runs. The last week id drives the weekly reset."
}

// Data returns the current configuration data.
func (s *StateSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"last_week_id": s.LastWeekID,
	}
}

// SetData updates the state from the provided data.
func (s *StateSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "last_week_id":
			switch v := value.(type) {
			case string:
				s.LastWeekID = v
			case nil:
				s.LastWeekID = ""
			default:
				return fmt.Errorf("invalid value type for last_week_id: expected string, got %T", value)
			}
		default:
			// Ignore unknown keys for forward compatibility
			continue
		}
	}
	return nil
}

// Validate validates the current state.
func (s *StateSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.LastWeekID != "" && !weekid.Valid(s.LastWeekID) {
		return fmt.Errorf("last_week_id must be an 8-digit date, got %q", s.LastWeekID)
	}
	return nil
}

// Reset clears the state.
func (s *StateSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastWeekID = ""
}

// GetLastWeekID returns the last observed week id, empty if none.
func (s *StateSection) GetLastWeekID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastWeekID
}

// SetLastWeekID records the last observed week id.
func (s *StateSection) SetLastWeekID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastWeekID = id
}
