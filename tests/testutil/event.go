package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fieldops/backend/internal/domain/report"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MockEventHandler records the events it is handed
type MockEventHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
}

// NewMockEventHandler creates a handler subscribed to eventTypes
func NewMockEventHandler(eventTypes ...string) *MockEventHandler {
	return &MockEventHandler{eventTypes: eventTypes}
}

// EventTypes implements shared.EventHandler
func (h *MockEventHandler) EventTypes() []string {
	return h.eventTypes
}

// Handle implements shared.EventHandler
func (h *MockEventHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

// Handled returns a copy of the events seen so far
func (h *MockEventHandler) Handled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]shared.DomainEvent, len(h.handled))
	copy(out, h.handled)
	return out
}

// HandledCount returns the number of events seen
func (h *MockEventHandler) HandledCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

// SetError makes Handle return err
func (h *MockEventHandler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// Types returns the event types seen so far, in order
func (h *MockEventHandler) Types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.handled))
	for _, e := range h.handled {
		out = append(out, e.EventType())
	}
	return out
}

// ReportEvent is a report lifecycle event detached from any stored report
type ReportEvent struct {
	shared.BaseDomainEvent
	ReportType string
}

// NewReportEvent creates a ReportEvent of eventType for a fresh report id
func NewReportEvent(eventType, reportType string) *ReportEvent {
	return &ReportEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, report.AggregateTypeReport, uuid.New()),
		ReportType:      reportType,
	}
}

// WaitForEventCount waits until handler has seen at least count events
func WaitForEventCount(t *testing.T, handler *MockEventHandler, count int, timeout time.Duration) bool {
	t.Helper()
	return WaitForCondition(t, func() bool {
		return handler.HandledCount() >= count
	}, timeout, 10*time.Millisecond)
}
