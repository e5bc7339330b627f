package storage

import (
	"context"
	"sync"

	apperrors "github.com/lorrc/ticket-sync/internal/core/errors"
	"github.com/lorrc/ticket-sync/internal/core/ports"
)

// MemoryStore is a process-local InteractionStore, used when no profile
// directory is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

var _ ports.InteractionStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return nil, apperrors.ErrKeyNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	return nil
}
