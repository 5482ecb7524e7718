package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"finlearn/core"
	"finlearn/engine"
)

// Store persists all slots to a single JSON file, mirroring the original
// app's local-storage model. Suitable for demos and small deployments.
type Store struct {
	path string
	mu   sync.Mutex
	// in-memory cache for speed
	data map[core.Slot]core.Progress
}

func New(path string) (*Store, error) {
	s := &Store{path: path, data: map[core.Slot]core.Progress{}}
	if err := s.load(); err != nil {
		// a corrupt file falls back to an empty store; fresh records
		// overwrite it on the next save
		if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, engine.ErrCorruptSnapshot) {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) load() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	var raw map[string]core.Progress
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: %v", engine.ErrCorruptSnapshot, err)
	}
	for k, v := range raw {
		s.data[core.Slot(k)] = v
	}
	return nil
}

func (s *Store) persist() error {
	tmp := s.path + ".tmp"
	raw := make(map[string]core.Progress, len(s.data))
	for k, v := range s.data {
		raw[string(k)] = v
	}
	b, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) Load(_ context.Context, slot core.Slot) (core.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data[slot]
	if !ok {
		return core.Progress{}, engine.ErrNotFound
	}
	return p.Clone(), nil
}

func (s *Store) Save(_ context.Context, slot core.Slot, p core.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[slot] = p.Clone()
	return s.persist()
}

var _ engine.Storage = (*Store)(nil)
