// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"

	"github.com/wodplate/v2/internal/domain/nutrition"
)

// ProfileStore persists nutrition profile cache entries keyed by
// normalized ingredient name. Implementations must support upsert:
// a write for an existing key overwrites the prior entry including its
// timestamp. Entries are never deleted by this core.
//
// Concurrent writers for the same key are permitted; the last upsert
// wins. That relaxation is part of the cache contract, not a bug.
type ProfileStore interface {
	// Get returns the entry for the key, or (nil, nil) on a miss.
	Get(ctx context.Context, normalizedName string) (*nutrition.Entry, error)
	Upsert(ctx context.Context, entry nutrition.Entry) error
}

// FoodCandidate is one search result from the nutrition data provider,
// in provider-ranked order.
type FoodCandidate struct {
	ID          string
	Description string
	Score       float64
}

// NutritionProvider queries an external food-composition database.
// Both operations fail with a provider error when the endpoint is
// unreachable or answers with a non-success status; callers treat that
// as a lookup failure, never as a request failure.
type NutritionProvider interface {
	Search(ctx context.Context, query string) ([]FoodCandidate, error)
	FetchDetails(ctx context.Context, id string) (*nutrition.Profile, error)
}
