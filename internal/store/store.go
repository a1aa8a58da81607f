// Package store holds the reminders of a running chime process and their
// JSON snapshot on disk.
//
// The snapshot is read once when the store is opened and written only when
// Save is called. Mutations made after the last Save are lost if the process
// dies. A missing or unreadable snapshot yields an empty store rather than an
// error.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nadzzz/chime/internal/reminder"
)

// DefaultPath is the snapshot file used when none is configured.
const DefaultPath = "reminders.json"

// Entry is a stored reminder tagged with a process-local id. The id lets
// callers remove exactly the entry they looked at even when duplicates
// exist; it is never written to the snapshot.
type Entry struct {
	ID uuid.UUID
	reminder.Reminder
}

// Store is an ordered, mutex-guarded collection of reminders.
type Store struct {
	path string

	mu      sync.Mutex
	entries []Entry

	saveMu sync.Mutex // serializes snapshot writes
}

// Open returns a store populated from the snapshot at path.
func Open(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	s := &Store{path: path}
	for _, r := range Load(path) {
		s.entries = append(s.entries, Entry{ID: uuid.New(), Reminder: r})
	}
	slog.Info("reminders loaded", "path", path, "count", len(s.entries))
	return s
}

// Path returns the snapshot location.
func (s *Store) Path() string { return s.path }

// Load reads the snapshot at path. It never fails: a missing file or one
// that does not decode as a list of reminders yields an empty slice.
func Load(path string) []reminder.Reminder {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("reading reminders, starting empty", "path", path, "error", err)
		}
		return []reminder.Reminder{}
	}

	var reminders []reminder.Reminder
	if err := json.Unmarshal(data, &reminders); err != nil {
		slog.Warn("decoding reminders, starting empty", "path", path, "error", err)
		return []reminder.Reminder{}
	}
	for i, r := range reminders {
		if strings.TrimSpace(r.Title) == "" {
			slog.Warn("decoding reminders, starting empty", "path", path, "error", fmt.Sprintf("reminder %d has an empty title", i))
			return []reminder.Reminder{}
		}
	}
	if reminders == nil {
		reminders = []reminder.Reminder{}
	}
	return reminders
}

// Write replaces the snapshot at path with reminders. The list is written to
// a temporary file next to path and renamed over it.
func Write(path string, reminders []reminder.Reminder) error {
	if reminders == nil {
		reminders = []reminder.Reminder{}
	}
	data, err := json.MarshalIndent(reminders, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling reminders: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating reminders dir: %w", err)
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing reminders: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("writing reminders: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing reminders: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing reminders: %w", err)
	}
	return nil
}

// Save flushes the current reminders to the snapshot file.
// Concurrent saves are serialized, so the file always ends up holding the
// snapshot taken by the last one.
func (s *Store) Save() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	reminders := s.Reminders()
	if err := Write(s.path, reminders); err != nil {
		return err
	}
	slog.Info("reminders saved", "path", s.path, "count", len(reminders))
	return nil
}

// Add appends a reminder. Duplicates are kept.
func (s *Store) Add(title string, at reminder.Clock) Entry {
	e := Entry{ID: uuid.New(), Reminder: reminder.Reminder{Title: title, Time: at}}

	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()

	slog.Debug("reminder added", "id", e.ID, "title", title, "time", at)
	return e
}

// List returns a copy of the stored entries in insertion order.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Reminders returns the stored reminders in insertion order.
func (s *Store) Reminders() []reminder.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]reminder.Reminder, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Reminder)
	}
	return out
}

// Len returns the number of stored reminders.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Due returns, in insertion order, the entries whose time has passed at now.
// The store is not modified.
func (s *Store) Due(now time.Time) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []Entry
	for _, e := range s.entries {
		if e.Due(now) {
			due = append(due, e)
		}
	}
	return due
}

// Remove deletes the first reminder equal to r. It reports whether one was
// found.
func (s *Store) Remove(r reminder.Reminder) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.Reminder == r {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveID deletes the entry with the given id. It reports whether the
// entry was still present.
func (s *Store) RemoveID(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}
