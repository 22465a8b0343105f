package store

import (
	"context"
	"errors"
	"sync"

	"github.com/i474232898/weather-dashboard/internal/favorites"
)

var (
	// ErrUnavailable is returned when a backend has been closed or failed to connect.
	ErrUnavailable = errors.New("key-value store unavailable")
)

// MemoryStore is a concurrency-safe in-memory key-value store.
// It backs tests and single-process deployments where nothing should survive a restart.
type MemoryStore struct {
	mu sync.RWMutex

	// key: persisted key, value: serialized payload
	data map[string]string

	closed bool
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]string),
	}
}

// Get returns the value for key and whether it was present.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", false, ErrUnavailable
	}
	v, ok := s.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrUnavailable
	}
	s.data[key] = value
	return nil
}

// Close makes every further call fail with ErrUnavailable.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

var _ favorites.Backend = (*MemoryStore)(nil)
