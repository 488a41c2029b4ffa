package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/fieldops/backend/internal/domain/report"
	"github.com/fieldops/backend/internal/infrastructure/event"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMockEventHandler(t *testing.T) {
	h := NewMockEventHandler(report.EventTypeReportCompleted)
	assert.Equal(t, []string{report.EventTypeReportCompleted}, h.EventTypes())

	e := NewReportEvent(report.EventTypeReportCompleted, "unp")
	require.NoError(t, h.Handle(context.Background(), e))
	assert.Equal(t, 1, h.HandledCount())
	assert.Same(t, e, h.Handled()[0])

	h.SetError(assert.AnError)
	assert.ErrorIs(t, h.Handle(context.Background(), e), assert.AnError)
	assert.Len(t, h.Types(), 2, "failing calls are still recorded")
}

func TestNewReportEvent(t *testing.T) {
	e := NewReportEvent(report.EventTypeReportFailed, "snapshot")

	assert.NotEqual(t, uuid.Nil, e.EventID())
	assert.NotEqual(t, uuid.Nil, e.AggregateID())
	assert.Equal(t, report.EventTypeReportFailed, e.EventType())
	assert.Equal(t, report.AggregateTypeReport, e.AggregateType())
	assert.Equal(t, "snapshot", e.ReportType)
	assert.False(t, e.OccurredAt().IsZero())
}

func TestWaitForEventCount_Bus(t *testing.T) {
	bus := event.NewInMemoryEventBus(zap.NewNop())
	h := NewMockEventHandler(report.EventTypeReportCompleted)
	bus.Subscribe(h)

	go func() {
		_ = bus.Publish(context.Background(),
			NewReportEvent(report.EventTypeReportCompleted, "bp"),
			NewReportEvent(report.EventTypeReportFailed, "bp"),
			NewReportEvent(report.EventTypeReportCompleted, "fa"),
		)
	}()

	assert.True(t, WaitForEventCount(t, h, 2, time.Second))
	assert.Equal(t, []string{report.EventTypeReportCompleted, report.EventTypeReportCompleted}, h.Types())
}
