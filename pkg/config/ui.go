package config

import (
	"fmt"
	"math"
	"sync"
)

const (
	// SectionIDUI is the identifier for the UI settings section
	SectionIDUI = "ui"

	// Default values for UI settings
	defaultColor             = true
	defaultNotificationLimit = 50
	defaultShowGearAudit     = false

	maxNotificationLimit = 500
)

// UISection manages terminal output settings.
type UISection struct {
	Color             bool `json:"color"`
	NotificationLimit int  `json:"notification_limit"`
	ShowGearAudit     bool `json:"show_gear_audit"`
	mu                sync.RWMutex
}

// NewUISection creates a new UI section with default settings.
func NewUISection() *UISection {
	return &UISection{
		Color:             defaultColor,
		NotificationLimit: defaultNotificationLimit,
		ShowGearAudit:     defaultShowGearAudit,
	}
}

// ID returns the section identifier.
func (s *UISection) ID() string {
	return SectionIDUI
}

// Title returns the section title.
func (s *UISection) Title() string {
	return "UI Settings"
}

// Description returns the section description.
func (s *UISection) Description() string {
	return "Configure styled output, the notification history size and the gear audit columns."
}

// Data returns the current configuration data.
func (s *UISection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"color":              s.Color,
		"notification_limit": s.NotificationLimit,
		"show_gear_audit":    s.ShowGearAudit,
	}
}

// SetData updates the configuration from the provided data.
func (s *UISection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "color":
			if enabled, ok := value.(bool); ok {
				s.Color = enabled
			} else {
				return fmt.Errorf("invalid value type for color: expected bool, got %T", value)
			}

		case "show_gear_audit":
			if enabled, ok := value.(bool); ok {
				s.ShowGearAudit = enabled
			} else {
				return fmt.Errorf("invalid value type for show_gear_audit: expected bool, got %T", value)
			}

		case "notification_limit":
			switch v := value.(type) {
			case float64:
				// JSON numbers come as float64
				if v != math.Trunc(v) {
					return fmt.Errorf("invalid value for notification_limit: %v is not a whole number", v)
				}
				s.NotificationLimit = int(v)
			case int:
				s.NotificationLimit = v
			case int64:
				s.NotificationLimit = int(v)
			default:
				return fmt.Errorf("invalid value type for notification_limit: expected number, got %T", value)
			}

		default:
			// Ignore unknown keys for forward compatibility
			continue
		}
	}

	return nil
}

// Validate validates the current configuration.
func (s *UISection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.NotificationLimit < 1 || s.NotificationLimit > maxNotificationLimit {
		return fmt.Errorf("notification_limit must be between 1 and %d, got %d", maxNotificationLimit, s.NotificationLimit)
	}

	return nil
}

// Reset resets the section to default configuration.
func (s *UISection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Color = defaultColor
	s.NotificationLimit = defaultNotificationLimit
	s.ShowGearAudit = defaultShowGearAudit
}

// UseColor reports whether styled output is enabled.
func (s *UISection) UseColor() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Color
}

// GetNotificationLimit returns the notification history size.
func (s *UISection) GetNotificationLimit() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.NotificationLimit
}

// GearAuditEnabled reports whether roster tables include gear audit columns.
func (s *UISection) GearAuditEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ShowGearAudit
}
