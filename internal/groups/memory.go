package groups

import (
	"context"
	"sync"

	"github.com/certlab/protodrill/internal/errs"
)

// MemoryStore keeps groups in process memory. Used when no database is
// configured and as the store fake in tests.
type MemoryStore struct {
	mu        sync.RWMutex
	byTopic   map[string][]Group
	overrides map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byTopic:   map[string][]Group{},
		overrides: map[string]string{},
	}
}

func (s *MemoryStore) SaveGroups(_ context.Context, topic string, gs []Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]Group, len(gs))
	copy(cp, gs)
	s.byTopic[topic] = cp
	return nil
}

func (s *MemoryStore) LoadGroups(_ context.Context, topic string) ([]Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	gs, ok := s.byTopic[topic]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := make([]Group, len(gs))
	copy(cp, gs)
	return cp, nil
}

func (s *MemoryStore) SetOverride(_ context.Context, questionID, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[questionID] = groupID
	return nil
}

func (s *MemoryStore) Overrides(_ context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.overrides))
	for k, v := range s.overrides {
		out[k] = v
	}
	return out, nil
}
