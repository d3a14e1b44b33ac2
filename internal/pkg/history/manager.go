// Package history records the commit messages gitmsg has generated.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxEntries is the default maximum number of history entries.
const DefaultMaxEntries = 1000

// Entry is one generated message and what the user did with it.
type Entry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Message    string    `json:"message"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model,omitempty"`
	Style      string    `json:"style"`
	Action     string    `json:"action"`
	Repository string    `json:"repository,omitempty"`
	// DiffChars is the number of diff characters sent to the provider.
	DiffChars int  `json:"diff_chars"`
	Cached    bool `json:"cached,omitempty"`
	// Warnings are the style findings for Message at generation time.
	Warnings []string `json:"warnings,omitempty"`
}

// Manager defines the interface for history management.
type Manager interface {
	Save(entry *Entry) error
	List(limit int) ([]*Entry, error)
	Clear() error
}

// FileManager implements Manager using a JSON file for storage.
type FileManager struct {
	filePath   string
	maxEntries int
	mu         sync.Mutex
}

// NewFileManager creates a new FileManager with the specified file path and max entries.
func NewFileManager(filePath string, maxEntries int) *FileManager {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &FileManager{
		filePath:   filePath,
		maxEntries: maxEntries,
	}
}

// Save appends entry, assigning an ID and timestamp when missing. The
// oldest entries are dropped once the file holds more than maxEntries.
func (m *FileManager) Save(entry *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	entries, err := m.loadEntries()
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	entries = append(entries, entry)
	if len(entries) > m.maxEntries {
		entries = entries[len(entries)-m.maxEntries:]
	}

	if err := m.saveEntries(entries); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// List returns up to limit of the most recent entries, oldest first.
// A limit of 0 or less returns everything.
func (m *FileManager) List(limit int) ([]*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.loadEntries()
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	if limit <= 0 || len(entries) <= limit {
		return entries, nil
	}
	return entries[len(entries)-limit:], nil
}

// Clear removes all entries from the history file.
func (m *FileManager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.saveEntries([]*Entry{}); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// loadEntries reads all entries; a missing file is an empty history.
func (m *FileManager) loadEntries() ([]*Entry, error) {
	data, err := os.ReadFile(m.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*Entry{}, nil
		}
		return nil, err
	}

	var entries []*Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse history file: %w", err)
	}
	if entries == nil {
		entries = []*Entry{}
	}
	return entries, nil
}

// saveEntries writes entries with user-only permissions.
func (m *FileManager) saveEntries(entries []*Entry) error {
	if err := os.MkdirAll(filepath.Dir(m.filePath), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if err := os.WriteFile(m.filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}
