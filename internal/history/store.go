// Package history maintains the persisted, bounded log of saved screenshots.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/snipp/internal/config"
)

const (
	// MaxEntries is the retention cap: only the most recent entries are kept.
	MaxEntries = 50

	// fallbackFilename is used when a saved path has no extractable base name.
	fallbackFilename = "unknown.png"

	dirPerm  = 0755
	filePerm = 0644
)

// Record references a screenshot that has been written to disk.
// FilePath uniquely identifies the record within the history.
type Record struct {
	FilePath      string    `json:"file_path"`
	Timestamp     time.Time `json:"timestamp"`
	Filename      string    `json:"filename"`
	ThumbnailPath *string   `json:"thumbnail_path"`
}

// Document is the full on-disk history, newest first.
type Document struct {
	Screenshots []Record `json:"screenshots"`
}

// Store owns the history document. All mutations are serialized behind one
// lock and the whole document is rewritten after every change.
type Store struct {
	mu   sync.Mutex
	path string
	doc  Document
	now  func() time.Time
}

// NewStore loads (or initializes) the history document at its canonical
// path under the config directory.
func NewStore() (*Store, error) {
	historyPath, err := config.GetHistoryFile()
	if err != nil {
		return nil, fmt.Errorf("failed to get history path: %w", err)
	}
	return NewStoreAt(historyPath)
}

// NewStoreAt loads (or initializes) the history document at path.
// A missing file is created empty so subsequent loads always succeed; a
// malformed file is a hard error and is never silently reset.
func NewStoreAt(path string) (*Store, error) {
	s := &Store{
		path: path,
		now:  time.Now,
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if err := s.persistLocked(); err != nil {
			return nil, fmt.Errorf("failed to initialize history: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read history: %w", err)
	default:
		if err := json.Unmarshal(data, &s.doc); err != nil {
			return nil, fmt.Errorf("failed to parse history document: %w", err)
		}
	}

	return s, nil
}

// Add records a newly saved screenshot at the front of the history,
// truncates to the retention cap, and persists the full document.
func (s *Store) Add(filePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := Record{
		FilePath:  filePath,
		Timestamp: s.now().UTC(),
		Filename:  baseFilename(filePath),
	}

	s.doc.Screenshots = append([]Record{record}, s.doc.Screenshots...)
	if len(s.doc.Screenshots) > MaxEntries {
		s.doc.Screenshots = s.doc.Screenshots[:MaxEntries]
	}

	return s.persistLocked()
}

// Remove deletes every record whose file path exactly equals filePath and
// persists. A non-matching path is a no-op, not an error.
func (s *Store) Remove(filePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.doc.Screenshots[:0]
	for _, record := range s.doc.Screenshots {
		if record.FilePath != filePath {
			kept = append(kept, record)
		}
	}
	s.doc.Screenshots = kept

	return s.persistLocked()
}

// Clear removes every record and persists the empty document.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Screenshots = nil
	return s.persistLocked()
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(limit int) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit > len(s.doc.Screenshots) {
		limit = len(s.doc.Screenshots)
	}
	if limit < 0 {
		limit = 0
	}

	records := make([]Record, limit)
	copy(records, s.doc.Screenshots[:limit])
	return records
}

// Len returns the number of records currently retained.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.doc.Screenshots)
}

// Path returns the canonical location of the history document.
func (s *Store) Path() string {
	return s.path
}

// persistLocked rewrites the whole document. Caller holds s.mu.
// The write goes through a temp file and an atomic rename so the on-disk
// document is never a partial write.
func (s *Store) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	data, err := json.MarshalIndent(&s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize history: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, filePerm); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to write history: %w", err)
	}

	return nil
}

// baseFilename extracts the final path segment, falling back to a fixed
// placeholder when the path has no usable base name.
func baseFilename(filePath string) string {
	base := filepath.Base(filePath)
	if base == "" || base == "." || base == string(filepath.Separator) {
		return fallbackFilename
	}
	return base
}
