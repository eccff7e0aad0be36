package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// JSONLWriter appends one JSON document per line and syncs after every
// record, so a crash loses at most the record being written.
type JSONLWriter struct {
	mu   sync.Mutex
	f    *os.File
	path string
	n    int
}

// OpenJSONL opens name for writing. The file is truncated unless appendMode is set.
func (s *Storage) OpenJSONL(name string, appendMode bool) (*JSONLWriter, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	path := s.Path(name)
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &JSONLWriter{f: f, path: path}, nil
}

// Write marshals v as a single line and flushes it to disk.
func (w *JSONLWriter) Write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	data = append(data, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.f.Write(data); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := w.f.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", w.path, err)
	}
	w.n++
	return nil
}

// Count returns the number of records written by this writer.
func (w *JSONLWriter) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.n
}

// Path returns the file path.
func (w *JSONLWriter) Path() string {
	return w.path
}

func (w *JSONLWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}
