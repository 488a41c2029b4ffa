package shared

import (
	"context"
	"time"
)

// DefaultIdempotencyTTL is how long a processed payment callback is remembered
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore remembers processed keys so that a redelivered payment
// callback is applied once
type IdempotencyStore interface {
	// MarkProcessed records key for ttl. It reports false when key was
	// already recorded.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, key string) (bool, error)
	Close() error
}
