package cache

import (
	"context"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StatsCache caches computed stats responses
type StatsCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Stores bundles the Redis-backed stores the application uses
type Stores struct {
	Stats       StatsCache
	Idempotency shared.IdempotencyStore
	client      *redis.Client
}

// Close releases the Redis connection, if any
func (s *Stores) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// Ping checks the Redis connection. In-memory stores are always healthy.
func (s *Stores) Ping(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Ping(ctx).Err()
}

// Backend names the store implementation in use
func (s *Stores) Backend() string {
	if s.client == nil {
		return "memory"
	}
	return "redis"
}

// NewStores connects to Redis when it is enabled. An unreachable Redis
// degrades to in-memory stores with a warning rather than failing startup.
func NewStores(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Stores {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Enabled {
		client, err := NewRedisClient(ctx, cfg)
		if err == nil {
			logger.Info("Using Redis for stats cache and idempotency", zap.String("addr", cfg.Addr()))
			return &Stores{
				Stats:       NewRedisStatsCache(client, ""),
				Idempotency: NewRedisIdempotencyStore(client, ""),
				client:      client,
			}
		}
		logger.Warn("Redis unavailable, falling back to in-memory stores. "+
			"Duplicate payment callbacks may be applied once per instance.",
			zap.Error(err),
		)
	}

	return &Stores{
		Stats:       NewInMemoryStatsCache(),
		Idempotency: NewInMemoryIdempotencyStore(),
	}
}
