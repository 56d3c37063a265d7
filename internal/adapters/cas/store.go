// Package cas keeps the fingerprints of generated injectors on disk.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.GenerationStore using a flat JSON file keyed by injector.
type Store struct {
	path    string
	mu      sync.RWMutex
	records map[string]domain.GenerationRecord
}

// NewStore opens the store at path. A missing file is an empty store.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:    filepath.Clean(path),
		records: make(map[string]domain.GenerationRecord),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to read generation store"), "path", s.path)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &s.records); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to unmarshal generation store"), "path", s.path)
	}
	return nil
}

// save must be called with mu held. The file is replaced atomically.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal generation store")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create state directory"), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, ".state-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create temporary state file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, "failed to write generation store")
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, "failed to write generation store")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to replace generation store"), "path", s.path)
	}
	return nil
}

// Get returns the record of an injector, or nil when there is none.
func (s *Store) Get(injector string) (*domain.GenerationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[injector]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// Put stores record and writes the whole store to disk.
func (s *Store) Put(record domain.GenerationRecord) error {
	if record.Injector == "" {
		return zerr.New("generation record has no injector")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Injector] = record
	return s.save()
}
