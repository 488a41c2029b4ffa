package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("*/15 * * * *"))
	assert.NoError(t, ValidateSchedule("@hourly"))
	assert.ErrorIs(t, ValidateSchedule("every now and then"), ErrInvalidSchedule)
}

func TestScheduler_RegisterRejectsBadSchedule(t *testing.T) {
	s := New(DefaultConfig(), zap.NewNop())
	assert.ErrorIs(t, s.Register("sync", "61 * * * *", func(context.Context) error { return nil }), ErrInvalidSchedule)
	assert.Empty(t, s.Jobs())
}

func TestScheduler_Trigger(t *testing.T) {
	s := New(DefaultConfig(), nil)

	var calls atomic.Int32
	require.NoError(t, s.Register("payment-sync", "@every 1h", func(context.Context) error {
		calls.Add(1)
		return nil
	}))

	assert.ErrorIs(t, s.Trigger("payment-sync"), ErrSchedulerNotRunning)

	require.NoError(t, s.Start(context.Background()))
	defer func() { _ = s.Stop(context.Background()) }()

	assert.ErrorIs(t, s.Trigger("missing"), ErrJobNotFound)
	require.NoError(t, s.Trigger("payment-sync"))
	assert.Equal(t, int32(1), calls.Load())

	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, JobStatusSuccess, jobs[0].Status)
	assert.Equal(t, 1, jobs[0].Runs)
	assert.NotNil(t, jobs[0].LastRun)
	assert.False(t, jobs[0].Next.IsZero())
}

func TestScheduler_RecordsFailuresAndPanics(t *testing.T) {
	s := New(DefaultConfig(), nil)
	require.NoError(t, s.Register("failing", "@daily", func(context.Context) error {
		return errors.New("gateway down")
	}))
	require.NoError(t, s.Register("panicking", "@daily", func(context.Context) error {
		panic("nil booking")
	}))
	require.NoError(t, s.Start(context.Background()))
	defer func() { _ = s.Stop(context.Background()) }()

	assert.EqualError(t, s.Trigger("failing"), "gateway down")
	assert.ErrorContains(t, s.Trigger("panicking"), "panicked")

	for _, j := range s.Jobs() {
		assert.Equal(t, JobStatusFailed, j.Status, j.Name)
		assert.NotEmpty(t, j.LastError)
	}
}

func TestScheduler_SkipsOverlap(t *testing.T) {
	s := New(DefaultConfig(), nil)
	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, s.Register("slow", "@daily", func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	}))
	require.NoError(t, s.Start(context.Background()))

	done := make(chan error)
	go func() { done <- s.Trigger("slow") }()
	<-started

	assert.ErrorIs(t, s.Trigger("slow"), ErrJobAlreadyRunning)

	close(release)
	require.NoError(t, <-done)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
