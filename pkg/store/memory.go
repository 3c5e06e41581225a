package store

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/meltgauge/pkg/tank"
)

// MemoryStore keeps tanks in a map. Values are copied on the way in and out
// so callers never share fluid slices with the store.
type MemoryStore struct {
	mu    sync.RWMutex
	tanks map[string]*tank.Tank
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tanks: make(map[string]*tank.Tank)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*tank.Tank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tanks[id]
	if !ok {
		return nil, notFound(id)
	}
	return t.Clone(), nil
}

func (s *MemoryStore) Put(ctx context.Context, t *tank.Tank) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tanks[t.ID] = t.Clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tanks, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.tanks))
	for id := range s.tanks {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
