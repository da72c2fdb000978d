// Package history persists tip calculations as a JSON list.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Record is one completed calculation.
type Record struct {
	Timestamp      time.Time `json:"timestamp"`
	MealQuality    float64   `json:"meal_quality"`
	ServiceQuality float64   `json:"service_quality"`
	ServiceTime    float64   `json:"service_time"`
	Bill           float64   `json:"bill"`
	Percent        float64   `json:"percent"`
	Amount         float64   `json:"amount"`
}

// Total is the bill plus the tip.
func (r Record) Total() float64 {
	return r.Bill + r.Amount
}

// Store reads and appends records in a single JSON file.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store backed by the file at path. The file is created
// on the first append.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load returns every stored record, oldest first. A missing file is an empty
// history. A file that does not match the history schema returns a
// *SchemaError.
func (s *Store) Load() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Append adds records to the end of the history and rewrites the file.
func (s *Store) Append(records ...Record) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return err
	}
	return s.write(append(existing, records...))
}

// Clear removes the history file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing history file: %w", err)
	}
	return nil
}

func (s *Store) load() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	if problems := ValidateBytes(data); len(problems) > 0 {
		return nil, &SchemaError{Path: s.path, Problems: problems}
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing history file: %w", err)
	}
	return records, nil
}

// write replaces the file through a temp file and rename so a crash never
// leaves a truncated history behind.
func (s *Store) write(records []Record) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}
	if problems := ValidateBytes(data); len(problems) > 0 {
		return &SchemaError{Path: s.path, Problems: problems}
	}

	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("creating temp history file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("writing history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp history file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing history file: %w", err)
	}
	return nil
}
