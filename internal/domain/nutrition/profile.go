// Package nutrition contains the core domain logic for nutrition
// reconciliation: ingredient name normalization, unit conversion,
// per-100g profiles and macro scaling.
package nutrition

import (
	"strings"
	"time"
)

// Profile holds macro values per 100 grams of an ingredient.
// A profile is immutable once fetched; refreshes supersede the
// stored entry rather than mutating it.
type Profile struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// Entry is a cached profile keyed by normalized ingredient name.
// Entries are owned exclusively by the cache service; the provider
// adapter never writes them.
type Entry struct {
	NormalizedName string    `json:"normalized_name"`
	Profile        Profile   `json:"profile"`
	SourceID       string    `json:"source_id"`
	LastUpdated    time.Time `json:"last_updated"`
}

// IsStale reports whether the entry is older than maxAge at the given time.
func (e Entry) IsStale(now time.Time, maxAge time.Duration) bool {
	return now.Sub(e.LastUpdated) >= maxAge
}

// CacheKey lowercases and trims a raw ingredient name into a store key.
// This is deliberately simpler than Normalize: callers apply the synonym
// mapping first, the cache only canonicalizes casing and whitespace.
func CacheKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
