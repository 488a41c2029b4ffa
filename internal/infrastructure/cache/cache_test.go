package cache

import (
	"context"
	"testing"
	"time"

	"github.com/fieldops/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestInMemoryIdempotencyStore(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)}
	s := NewInMemoryIdempotencyStore()
	s.now = c.now

	t.Run("first mark wins", func(t *testing.T) {
		ok, err := s.MarkProcessed(ctx, "BILL-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.MarkProcessed(ctx, "BILL-1", time.Hour)
		require.NoError(t, err)
		assert.False(t, ok)

		done, err := s.IsProcessed(ctx, "BILL-1")
		require.NoError(t, err)
		assert.True(t, done)
	})

	t.Run("expired keys can be marked again", func(t *testing.T) {
		c.t = c.t.Add(2 * time.Hour)

		done, err := s.IsProcessed(ctx, "BILL-1")
		require.NoError(t, err)
		assert.False(t, done)

		ok, err := s.MarkProcessed(ctx, "BILL-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	assert.NoError(t, s.Close())
}

type stats struct {
	Today int64   `json:"today"`
	Total float64 `json:"total"`
}

func TestInMemoryStatsCache(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)}
	sc := NewInMemoryStatsCache()
	sc.now = c.now

	var got stats
	hit, err := sc.Get(ctx, "booking:zone 4", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, sc.Set(ctx, "booking:zone 4", stats{Today: 3, Total: 15000}, time.Minute))

	hit, err = sc.Get(ctx, "booking:zone 4", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, stats{Today: 3, Total: 15000}, got)

	c.t = c.t.Add(time.Minute)
	got = stats{}
	hit, err = sc.Get(ctx, "booking:zone 4", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Zero(t, got)
}

func TestNewStores_DisabledUsesMemory(t *testing.T) {
	s := NewStores(context.Background(), config.RedisConfig{Enabled: false}, nil)

	assert.IsType(t, &InMemoryStatsCache{}, s.Stats)
	assert.IsType(t, &InMemoryIdempotencyStore{}, s.Idempotency)
	assert.Equal(t, "memory", s.Backend())
	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, s.Close())
}
