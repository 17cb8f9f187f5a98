// Package store provides thread-safe in-memory event storage with file-based
// persistence. It is the concrete event repository the correlation engine
// reads from: events are kept per kind and served through interval- and
// subject-scoped queries.
//
// The store is designed for reliability with atomic file writes and graceful
// handling of persistence failures. Data is persisted to a JSON file and can
// be restored on application restart.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rewired-gh/tagreport/internal/models"
)

// Store provides thread-safe in-memory event storage with file persistence.
type Store struct {
	events map[models.EventKind][]models.TaggedEvent
	mu     sync.RWMutex

	// Configuration
	maxEventsPerKind int
	filePath         string
	filePermissions  os.FileMode
	dirPermissions   os.FileMode
}

// PersistenceFile represents the file structure for JSON persistence.
type PersistenceFile struct {
	Version string                                    `json:"version"`
	SavedAt time.Time                                 `json:"saved_at"`
	Events  map[models.EventKind][]models.TaggedEvent `json:"events"`
}

// New creates a new Store instance.
// If filePath is empty, an OS-appropriate tmp directory is used.
func New(maxEventsPerKind int, filePath string, filePermissions, dirPermissions os.FileMode) *Store {
	if filePath == "" {
		filePath = filepath.Join(os.TempDir(), "tagreport", "events.json")
	}

	return &Store{
		events:           make(map[models.EventKind][]models.TaggedEvent),
		maxEventsPerKind: maxEventsPerKind,
		filePath:         filePath,
		filePermissions:  filePermissions,
		dirPermissions:   dirPermissions,
	}
}

// AddEvent adds an event to storage.
func (s *Store) AddEvent(event *models.TaggedEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.events[event.Kind] = append(s.events[event.Kind], *event)
	return nil
}

// EventsByKind returns the events of one kind whose timestamp falls within
// the half-open interval, sorted ascending by timestamp. When subjectID is
// non-empty, only events belonging to that subject are returned; events with
// no subject are excluded from subject-scoped queries.
func (s *Store) EventsByKind(kind models.EventKind, interval models.DateInterval, subjectID string) ([]models.TaggedEvent, error) {
	if err := interval.Validate(); err != nil {
		return nil, fmt.Errorf("invalid interval: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]models.TaggedEvent, 0)
	for _, event := range s.events[kind] {
		if !interval.Contains(event.Timestamp) {
			continue
		}
		if subjectID != "" && event.SubjectID != subjectID {
			continue
		}
		filtered = append(filtered, event)
	}

	// Sort by timestamp ascending (oldest first); insertion order breaks ties.
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.Before(filtered[j].Timestamp)
	})

	return filtered, nil
}

// CountEvents returns the number of stored events of one kind.
func (s *Store) CountEvents(kind models.EventKind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.events[kind])
}

// Save persists storage state to file.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Create data directory if needed
	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, s.dirPermissions); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data := PersistenceFile{
		Version: "1.0",
		SavedAt: time.Now(),
		Events:  s.events,
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	// Write to temporary file first (atomic write)
	tempPath := s.filePath + ".tmp"
	if err := os.WriteFile(tempPath, jsonData, s.filePermissions); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	// Rename temp file to actual file
	if err := os.Rename(tempPath, s.filePath); err != nil {
		_ = os.Remove(tempPath) // Clean up temp file on rename failure
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}

// Load restores storage state from file.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Clean up any stale temp files from previous crashes
	tempPath := s.filePath + ".tmp"
	if _, err := os.Stat(tempPath); err == nil {
		_ = os.Remove(tempPath)
	}

	// Check if file exists
	if _, err := os.Stat(s.filePath); os.IsNotExist(err) {
		// No file to load, start fresh
		return nil
	}

	jsonData, err := os.ReadFile(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var data PersistenceFile
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}

	s.events = data.Events
	if s.events == nil {
		s.events = make(map[models.EventKind][]models.TaggedEvent)
	}

	return nil
}

// RotateEvents removes the oldest events of each kind exceeding the per-kind
// limit, keeping the most recent by timestamp.
func (s *Store) RotateEvents() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for kind, events := range s.events {
		if len(events) <= s.maxEventsPerKind {
			continue
		}

		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Timestamp.Before(events[j].Timestamp)
		})
		start := len(events) - s.maxEventsPerKind
		s.events[kind] = events[start:]
	}

	return nil
}
