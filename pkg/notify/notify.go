// Package notify keeps the history of events worth telling the user about,
// such as imports and weekly resets. Displaying them is up to the caller.
package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/entrhq/wowstat/pkg/fsutil"
)

// Type classifies a notification.
type Type string

const (
	// Info is a neutral event, such as a manual reset.
	Info Type = "info"
	// Success reports a completed import or weekly reset.
	Success Type = "success"
	// Warning reports something the user should look at.
	Warning Type = "warning"
)

// DefaultLimit is the history size used when none is configured.
const DefaultLimit = 50

// ErrParse reports a notifications file that cannot be decoded.
var ErrParse = errors.New("notify: malformed notifications file")

var timeNow = time.Now // injected for testability

// Notification is one history entry.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Type      Type      `json:"notification_type"`
	Timestamp time.Time `json:"timestamp"`
}

// Format renders the timestamp for display, e.g. "Dec 24, 4:30 PM".
func (n Notification) Format() string {
	if n.Timestamp.IsZero() {
		return ""
	}
	return n.Timestamp.Local().Format("Jan 2, 3:04 PM")
}

// History is a newest-first, size-capped list of notifications bound to
// one file.
type History struct {
	path    string
	limit   int
	entries []Notification
}

// NewHistory returns an empty history. A limit below one uses DefaultLimit.
func NewHistory(path string, limit int) *History {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &History{path: path, limit: limit}
}

// Path returns the backing file.
func (h *History) Path() string {
	return h.path
}

// Load replaces the history with the file content. A missing file yields
// an empty history. On error the history is left empty.
func (h *History) Load() error {
	h.entries = nil

	data, err := os.ReadFile(h.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read notifications: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}

	var entries []Notification
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
	for _, n := range entries {
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		if n.Type == "" {
			n.Type = Info
		}
		h.entries = append(h.entries, n)
	}
	h.trim()
	return nil
}

// Save writes the history atomically.
func (h *History) Save() error {
	entries := h.entries
	if entries == nil {
		entries = []Notification{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode notifications: %w", err)
	}
	if err := fsutil.WriteFileAtomic(h.path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("save notifications: %w", err)
	}
	return nil
}

// Add records a new notification at the front and returns it.
func (h *History) Add(typ Type, format string, args ...interface{}) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Message:   fmt.Sprintf(format, args...),
		Type:      typ,
		Timestamp: timeNow(),
	}
	h.entries = append([]Notification{n}, h.entries...)
	h.trim()
	return n
}

// Remove deletes the notification with the given id.
func (h *History) Remove(id string) bool {
	for i, n := range h.entries {
		if n.ID == id {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every notification.
func (h *History) Clear() {
	h.entries = nil
}

// All returns a copy of the history, newest first.
func (h *History) All() []Notification {
	out := make([]Notification, len(h.entries))
	copy(out, h.entries)
	return out
}

// Count returns the number of notifications.
func (h *History) Count() int {
	return len(h.entries)
}

// SetLimit changes the cap and trims the history to it.
func (h *History) SetLimit(limit int) {
	if limit < 1 {
		limit = DefaultLimit
	}
	h.limit = limit
	h.trim()
}

func (h *History) trim() {
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}
}
