package favorites

import (
	"context"
	"encoding/json"
	"log"
	"sync"
)

// Persisted keys.
const (
	KeyFavorites = "favorites"
	KeyLastCity  = "last_city"
)

// Backend is the key-value contract the persisted state is written to.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Store is an ordered set of city keys. Insertion order is preserved and
// duplicates are ignored. Every mutation is written through to the backend.
type Store struct {
	// saveMu orders mutations and their backend writes; mu guards cities.
	saveMu  sync.Mutex
	mu      sync.RWMutex
	backend Backend
	cities  []string
}

// NewStore creates an empty store over backend. Call Load to read persisted data.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// Load replaces the in-memory set with the persisted one. Missing, unreadable
// or corrupt data yields an empty set.
func (s *Store) Load(ctx context.Context) {
	cities := s.read(ctx)

	s.mu.Lock()
	s.cities = cities
	s.mu.Unlock()
}

func (s *Store) read(ctx context.Context) []string {
	raw, ok, err := s.backend.Get(ctx, KeyFavorites)
	if err != nil {
		log.Printf("ERROR: favorites: load failed, starting empty: %v", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var decoded []string
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		log.Printf("INFO: favorites: persisted data is corrupt, starting empty: %v", err)
		return nil
	}

	// Re-apply the set invariant in case the stored list was edited by hand.
	out := make([]string, 0, len(decoded))
	for _, c := range decoded {
		if c != "" && !containsString(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// Save writes the current set to the backend.
func (s *Store) Save(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	return s.save(ctx)
}

// save must be called with saveMu held.
func (s *Store) save(ctx context.Context) error {
	s.mu.RLock()
	payload, err := json.Marshal(s.listLocked())
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, KeyFavorites, string(payload))
}

// Add appends city unless it is already present. It reports whether the set changed.
func (s *Store) Add(ctx context.Context, city string) bool {
	if city == "" {
		return false
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if containsString(s.cities, city) {
		s.mu.Unlock()
		return false
	}
	s.cities = append(s.cities, city)
	s.mu.Unlock()

	s.persist(ctx)
	return true
}

// Remove deletes city if present. It reports whether the set changed.
func (s *Store) Remove(ctx context.Context, city string) bool {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	idx := indexOf(s.cities, city)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.cities = append(s.cities[:idx:idx], s.cities[idx+1:]...)
	s.mu.Unlock()

	s.persist(ctx)
	return true
}

// Toggle removes city when present and adds it otherwise. It returns the new membership.
func (s *Store) Toggle(ctx context.Context, city string) bool {
	if s.Remove(ctx, city) {
		return false
	}
	return s.Add(ctx, city)
}

// Contains reports whether city is in the set.
func (s *Store) Contains(city string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return containsString(s.cities, city)
}

// List returns a copy of the set in insertion order.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked()
}

func (s *Store) listLocked() []string {
	out := make([]string, len(s.cities))
	copy(out, s.cities)
	return out
}

// persist is fire-and-forget from the caller's point of view. It must be
// called with saveMu held so writes reach the backend in mutation order.
func (s *Store) persist(ctx context.Context) {
	if err := s.save(ctx); err != nil {
		log.Printf("ERROR: favorites: save failed: %v", err)
	}
}

func indexOf(list []string, v string) int {
	for i, c := range list {
		if c == v {
			return i
		}
	}
	return -1
}

func containsString(list []string, v string) bool {
	return indexOf(list, v) >= 0
}
