package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultStatsPrefix namespaces cached stats responses
const DefaultStatsPrefix = "fieldops:stats:"

// RedisStatsCache keeps JSON-encoded stats responses in Redis
type RedisStatsCache struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisStatsCache creates a stats cache on an existing client
func NewRedisStatsCache(client redis.UniversalClient, keyPrefix string) *RedisStatsCache {
	if keyPrefix == "" {
		keyPrefix = DefaultStatsPrefix
	}
	return &RedisStatsCache{client: client, keyPrefix: keyPrefix}
}

// Get decodes the cached value for key into dest. It reports false on a miss.
func (c *RedisStatsCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cached stats: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached stats: %w", err)
	}
	return true, nil
}

// Set stores value under key for ttl
func (c *RedisStatsCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache stats: %w", err)
	}
	return nil
}

type memoryEntry struct {
	raw     []byte
	expires time.Time
}

// InMemoryStatsCache is the single-instance fallback for RedisStatsCache.
// Values are stored JSON-encoded so hits never alias the cached value.
type InMemoryStatsCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewInMemoryStatsCache creates an empty cache
func NewInMemoryStatsCache() *InMemoryStatsCache {
	return &InMemoryStatsCache{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get decodes the cached value for key into dest
func (c *InMemoryStatsCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && !c.now().Before(e.expires) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.raw, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached stats: %w", err)
	}
	return true, nil
}

// Set stores value under key for ttl
func (c *InMemoryStatsCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}
	c.mu.Lock()
	c.entries[key] = memoryEntry{raw: raw, expires: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}
