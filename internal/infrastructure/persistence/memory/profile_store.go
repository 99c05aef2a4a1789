// Package memory provides an in-memory profile store implementation,
// used by tests and local development.
package memory

import (
	"context"
	"sync"

	"github.com/wodplate/v2/internal/domain/nutrition"
	"github.com/wodplate/v2/internal/ports/outbound"
)

// ProfileStore implements outbound.ProfileStore on a mutex-guarded map.
type ProfileStore struct {
	mu      sync.RWMutex
	entries map[string]nutrition.Entry
}

// NewProfileStore creates a new in-memory profile store.
func NewProfileStore() outbound.ProfileStore {
	return &ProfileStore{
		entries: make(map[string]nutrition.Entry),
	}
}

// Get returns the entry for the key, or (nil, nil) on a miss.
func (s *ProfileStore) Get(ctx context.Context, normalizedName string) (*nutrition.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[normalizedName]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// Upsert inserts or overwrites the entry under its normalized name.
func (s *ProfileStore) Upsert(ctx context.Context, entry nutrition.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.NormalizedName] = entry
	return nil
}
