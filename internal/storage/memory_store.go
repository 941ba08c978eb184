package storage

import (
	"context"
	"sync"
)

// MemoryStore implements Store with in-memory maps. Tests construct it
// directly; it honors the same not-found semantics as the Redis store.
type MemoryStore struct {
	mu       sync.RWMutex
	records  map[string][]byte
	counters map[string]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:  make(map[string][]byte),
		counters: make(map[string]int64),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.records[key]
	if !exists {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.records[key] = stored
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}

func (s *MemoryStore) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[key]++
	return s.counters[key], nil
}
