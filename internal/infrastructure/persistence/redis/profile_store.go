// Package redis provides a Redis-backed profile store. Entries are
// stored as JSON without a TTL: staleness is a cache-service concern,
// the store only promises upsert-by-key.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/wodplate/v2/internal/domain/nutrition"
	"github.com/wodplate/v2/internal/infrastructure/config"
	"github.com/wodplate/v2/internal/ports/outbound"
	"go.uber.org/zap"
)

const keyPrefix = "nutrition:profile:"

// ProfileStore implements outbound.ProfileStore on Redis.
type ProfileStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewProfileStore connects to Redis and verifies the connection.
func NewProfileStore(cfg config.RedisConfig, logger *zap.Logger) (outbound.ProfileStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.Database,
		MaxRetries:   cfg.MaxRetries,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis profile store",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
	)

	return &ProfileStore{client: client, logger: logger.Named("redis-store")}, nil
}

// Get returns the entry for the key, or (nil, nil) on a miss.
func (s *ProfileStore) Get(ctx context.Context, normalizedName string) (*nutrition.Entry, error) {
	data, err := s.client.Get(ctx, keyPrefix+normalizedName).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entry nutrition.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		// A corrupt entry reads as a miss; the next upsert repairs it.
		s.logger.Warn("Discarding corrupt profile entry",
			zap.String("key", normalizedName),
			zap.Error(err),
		)
		return nil, nil
	}

	return &entry, nil
}

// Upsert overwrites the value under the entry's normalized name.
func (s *ProfileStore) Upsert(ctx context.Context, entry nutrition.Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+entry.NormalizedName, data, 0).Err()
}
