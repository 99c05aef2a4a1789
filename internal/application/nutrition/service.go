// Package nutrition provides the application layer for nutrition profile
// lookups: cache-first with staleness-driven refresh from the provider.
package nutrition

import (
	"context"
	"time"

	"github.com/wodplate/v2/internal/domain/nutrition"
	"github.com/wodplate/v2/internal/infrastructure/monitoring"
	"github.com/wodplate/v2/internal/ports/outbound"
	"github.com/wodplate/v2/pkg/errors"
	"go.uber.org/zap"
)

// Service resolves per-100g profiles by normalized ingredient name.
//
// Concurrency contract: concurrent lookups for the same name may race to
// the provider independently; there is no cross-request lock and the
// last upsert wins. This is an accepted consistency relaxation.
type Service struct {
	store    outbound.ProfileStore
	provider outbound.NutritionProvider
	maxAge   time.Duration
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewService creates a new profile lookup service. maxAge is the
// staleness threshold after which a cached entry triggers a refresh.
func NewService(
	store outbound.ProfileStore,
	provider outbound.NutritionProvider,
	maxAge time.Duration,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		store:    store,
		provider: provider,
		maxAge:   maxAge,
		metrics:  metrics,
		logger:   logger.Named("nutrition-service"),
	}
}

// GetOrFetch returns the profile for an ingredient name. Fresh cache
// entries are returned without touching the provider. On a miss or a
// stale entry it runs the provider's search-then-detail flow and upserts
// the result best-effort: a failed write is recorded but never prevents
// returning the freshly fetched profile.
//
// A provider failure or an empty result set returns an error the caller
// must treat as "no data"; this service never synthesizes default macros.
func (s *Service) GetOrFetch(ctx context.Context, name string) (*nutrition.Profile, error) {
	key := nutrition.CacheKey(name)

	entry, err := s.store.Get(ctx, key)
	if err != nil {
		// A broken store read degrades to a miss.
		s.logger.Warn("Profile store read failed", zap.String("key", key), zap.Error(err))
		entry = nil
	}

	if entry != nil {
		if !entry.IsStale(time.Now(), s.maxAge) {
			s.metrics.CacheHits.Inc()
			return &entry.Profile, nil
		}
		s.metrics.CacheStale.Inc()
		s.logger.Debug("Profile entry stale, refreshing",
			zap.String("key", key),
			zap.Time("last_updated", entry.LastUpdated),
		)
	} else {
		s.metrics.CacheMisses.Inc()
	}

	profile, sourceID, err := s.fetch(ctx, key)
	if err != nil {
		return nil, err
	}

	newEntry := nutrition.Entry{
		NormalizedName: key,
		Profile:        *profile,
		SourceID:       sourceID,
		LastUpdated:    time.Now().UTC(),
	}
	if err := s.store.Upsert(ctx, newEntry); err != nil {
		s.metrics.CacheWriteFailures.Inc()
		writeErr := errors.NewCacheWriteError(key, err)
		s.logger.Warn("Profile upsert failed", zap.String("key", key), zap.Error(writeErr))
	}

	return profile, nil
}

// fetch runs the provider's search-then-detail flow for one key.
func (s *Service) fetch(ctx context.Context, key string) (*nutrition.Profile, string, error) {
	candidates, err := s.provider.Search(ctx, key)
	if err != nil {
		return nil, "", err
	}
	if len(candidates) == 0 {
		return nil, "", errors.NewFoodNotFoundError(key)
	}

	// Take-first in provider-ranked order; see Client.Search for the
	// rationale behind this heuristic.
	best := candidates[0]

	profile, err := s.provider.FetchDetails(ctx, best.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Debug("Fetched profile from provider",
		zap.String("key", key),
		zap.String("source_id", best.ID),
		zap.String("description", best.Description),
	)

	return profile, best.ID, nil
}
