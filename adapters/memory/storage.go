package memory

import (
	"context"
	"sync"

	"finlearn/core"
	"finlearn/engine"
)

// Store is a concurrent in-memory Storage implementation.
type Store struct {
	mu    sync.RWMutex
	slots map[core.Slot]core.Progress
}

func New() *Store { return &Store{slots: map[core.Slot]core.Progress{}} }

func (s *Store) Load(_ context.Context, slot core.Slot) (core.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.slots[slot]
	if !ok {
		return core.Progress{}, engine.ErrNotFound
	}
	return p.Clone(), nil
}

func (s *Store) Save(_ context.Context, slot core.Slot, p core.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[slot] = p.Clone()
	return nil
}

var _ engine.Storage = (*Store)(nil)
