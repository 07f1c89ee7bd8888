// Package store owns the persisted character roster.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/entrhq/wowstat/pkg/character"
	"github.com/entrhq/wowstat/pkg/fsutil"
)

// NotFound is returned by Find when no character matches.
const NotFound = -1

var (
	// ErrParse reports a data file that exists but cannot be decoded.
	ErrParse = errors.New("store: malformed data file")

	// ErrOutOfRange reports an index outside [0, Count()).
	ErrOutOfRange = errors.New("store: index out of range")

	// ErrDuplicate reports a realm and name pair that is already stored.
	ErrDuplicate = errors.New("store: character already exists")

	// ErrInvalid reports a nil or invalid character.
	ErrInvalid = errors.New("store: invalid character")
)

var timeNow = time.Now // injected for testability

// Store is an ordered roster bound to one JSON file. Mutations only touch
// memory; Save persists the whole roster atomically.
type Store struct {
	path  string
	chars []*character.Character
	write func(path string, data []byte, perm os.FileMode) error
}

// New returns an empty store bound to path.
func New(path string) *Store {
	return &Store{path: path, write: fsutil.WriteFileAtomic}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load replaces the roster with the content of the backing file. A missing
// file yields an empty roster. Malformed content wraps ErrParse and is kept
// apart from I/O failures so the caller can preserve the file. On any error
// the roster is left empty.
func (s *Store) Load() error {
	s.chars = nil

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	var loaded []*character.Character
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}

	chars := make([]*character.Character, 0, len(loaded))
	seen := make(map[string]bool, len(loaded))
	for i, c := range loaded {
		if c == nil {
			continue
		}
		if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Realm) == "" {
			return fmt.Errorf("%w: entry %d has no name or realm", ErrParse, i)
		}
		key := c.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		c.Clamp()
		chars = append(chars, c)
	}
	s.chars = chars
	return nil
}

// Save writes the whole roster to the backing file atomically. On failure
// the previous file content is untouched.
func (s *Store) Save() error {
	out := s.chars
	if out == nil {
		out = []*character.Character{}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal roster: %w", err)
	}
	if err := s.write(s.path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to save roster: %w", err)
	}
	return nil
}

// BackupCorrupt moves the backing file aside to
// <path>.corrupt-<UTC timestamp> and returns the new name, so that a later
// Save cannot overwrite data that failed to load.
func (s *Store) BackupCorrupt() (string, error) {
	backup := fmt.Sprintf("%s.corrupt-%s", s.path, timeNow().UTC().Format("20060102T150405Z"))
	if err := os.Rename(s.path, backup); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", s.path, err)
	}
	return backup, nil
}

// Count returns the number of characters.
func (s *Store) Count() int {
	return len(s.chars)
}

// Get returns a copy of the character at index.
func (s *Store) Get(index int) (*character.Character, error) {
	if err := s.checkIndex(index); err != nil {
		return nil, err
	}
	return s.chars[index].Clone(), nil
}

// All returns copies of every character in display order.
func (s *Store) All() []*character.Character {
	out := make([]*character.Character, len(s.chars))
	for i, c := range s.chars {
		out[i] = c.Clone()
	}
	return out
}

// Find returns the index of the character with exactly this realm and name,
// or NotFound.
func (s *Store) Find(realm, name string) int {
	for i, c := range s.chars {
		if c.Realm == realm && c.Name == name {
			return i
		}
	}
	return NotFound
}

// Add appends a copy of c.
func (s *Store) Add(c *character.Character) error {
	if err := validate(c); err != nil {
		return err
	}
	if s.Find(c.Realm, c.Name) != NotFound {
		return fmt.Errorf("%w: %s", ErrDuplicate, c.Key())
	}
	s.chars = append(s.chars, c.Clone())
	return nil
}

// Update replaces the character at index with a copy of c.
func (s *Store) Update(index int, c *character.Character) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	if err := validate(c); err != nil {
		return err
	}
	if i := s.Find(c.Realm, c.Name); i != NotFound && i != index {
		return fmt.Errorf("%w: %s", ErrDuplicate, c.Key())
	}
	s.chars[index] = c.Clone()
	return nil
}

// Delete removes the character at index.
func (s *Store) Delete(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.chars = append(s.chars[:index], s.chars[index+1:]...)
	return nil
}

// ResetWeeklyAll clears the weekly-scoped fields of every character.
func (s *Store) ResetWeeklyAll() {
	for _, c := range s.chars {
		c.ResetWeekly()
	}
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.chars) {
		return fmt.Errorf("%w: %d (count %d)", ErrOutOfRange, index, len(s.chars))
	}
	return nil
}

func validate(c *character.Character) error {
	if c == nil {
		return fmt.Errorf("%w: nil", ErrInvalid)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
