// Package payment reconciles booking payment state with the bill gateway.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fieldops/backend/internal/domain/access"
	"github.com/fieldops/backend/internal/domain/query"
	"github.com/fieldops/backend/internal/domain/record"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Settlement sources reported to the observer
const (
	SourceSync     = "sync"
	SourceCheck    = "check"
	SourceCallback = "callback"
)

// Unpaid is returned by CheckOne when the bill is still outstanding
const Unpaid = "unpaid"

// JobName is the scheduler name of the periodic sync
const JobName = "payment-sync"

// Checker answers whether a bill has been settled
type Checker interface {
	IsPaid(ctx context.Context, reference string) (bool, error)
}

// Observer counts settled bookings
type Observer interface {
	AddPaymentsSettled(source string, n int)
}

// Config tunes a SyncService
type Config struct {
	// Concurrency bounds parallel gateway lookups during a full sync
	Concurrency int
	// CallbackTTL is how long a callback transaction id is remembered
	CallbackTTL time.Duration
}

// Callback is a settlement notification pushed by the gateway
type Callback struct {
	Reference     string `json:"reference" binding:"required"`
	Status        string `json:"status" binding:"required"`
	TransactionID string `json:"transactionId"`
}

// CallbackResult reports what a callback changed
type CallbackResult struct {
	Reference string `json:"reference"`
	Applied   bool   `json:"applied"`
	Duplicate bool   `json:"duplicate"`
}

// SyncService marks bookings paid once the gateway confirms their bills
type SyncService struct {
	bookings    record.BookingRepository
	checker     Checker
	idempotency shared.IdempotencyStore
	observer    Observer
	cfg         Config
	logger      *zap.Logger
}

// NewSyncService creates a SyncService. idempotency and observer may be nil.
func NewSyncService(bookings record.BookingRepository, checker Checker, idempotency shared.IdempotencyStore, observer Observer, cfg Config, logger *zap.Logger) *SyncService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	if cfg.CallbackTTL <= 0 {
		cfg.CallbackTTL = shared.DefaultIdempotencyTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{
		bookings:    bookings,
		checker:     checker,
		idempotency: idempotency,
		observer:    observer,
		cfg:         cfg,
		logger:      logger,
	}
}

// SyncAll checks every unpaid booking against the gateway and returns how
// many were marked paid. A failed lookup is logged and skipped.
func (s *SyncService) SyncAll(ctx context.Context) (int, error) {
	var filter query.Filter
	filter.Add("paid", query.OpEq, false)

	unpaid, err := s.bookings.FindAll(ctx, filter)
	if err != nil {
		return 0, err
	}

	var updated atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for _, b := range unpaid {
		if b.BillRef == "" {
			continue
		}
		ref := b.BillRef
		g.Go(func() error {
			changed, err := s.settle(gctx, ref)
			if err != nil {
				s.logger.Warn("bill check failed", zap.String("bill_ref", ref), zap.Error(err))
				return nil
			}
			if changed {
				updated.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	n := int(updated.Load())
	s.settled(SourceSync, n)
	s.logger.Info("payment sync finished",
		zap.Int("checked", len(unpaid)),
		zap.Int("updated", n))
	return n, nil
}

// CheckOne checks a single booking in the actor's scope. It returns the
// booking id once paid, or Unpaid.
func (s *SyncService) CheckOne(ctx context.Context, actor access.Actor, id uuid.UUID) (string, error) {
	filter := query.Filter{}.WithScope(access.Resolve(actor, ""))
	b, err := s.bookings.FindOne(ctx, id, filter)
	if errors.Is(err, shared.ErrNotFound) {
		return "", shared.NewNotFoundError(fmt.Sprintf("Booking not found with id of %s", id))
	}
	if err != nil {
		return "", err
	}
	if b.Paid {
		return b.ID.String(), nil
	}

	paid, err := s.checker.IsPaid(ctx, b.BillRef)
	if err != nil {
		return "", shared.WrapDomainError(shared.CodeUpstream, "Bill lookup failed", err)
	}
	if !paid {
		return Unpaid, nil
	}
	if _, err := s.bookings.MarkPaid(ctx, b.BillRef); err != nil {
		return "", err
	}
	s.settled(SourceCheck, 1)
	return b.ID.String(), nil
}

// HandleCallback applies a gateway notification. Redelivered transaction
// ids are acknowledged without touching the booking.
func (s *SyncService) HandleCallback(ctx context.Context, cb Callback) (*CallbackResult, error) {
	ref := strings.TrimSpace(cb.Reference)
	if ref == "" {
		return nil, shared.NewValidationError("Payment reference is required")
	}
	result := &CallbackResult{Reference: ref}
	if !strings.EqualFold(strings.TrimSpace(cb.Status), "paid") {
		return result, nil
	}

	key := "payment-callback:" + ref
	if cb.TransactionID != "" {
		key = "payment-callback:" + cb.TransactionID
	}
	if s.idempotency != nil {
		done, err := s.idempotency.IsProcessed(ctx, key)
		if err != nil {
			s.logger.Warn("idempotency lookup failed", zap.String("key", key), zap.Error(err))
		}
		if done {
			result.Duplicate = true
			return result, nil
		}
	}

	changed, err := s.bookings.MarkPaid(ctx, ref)
	if err != nil {
		return nil, err
	}
	if s.idempotency != nil {
		if _, err := s.idempotency.MarkProcessed(ctx, key, s.cfg.CallbackTTL); err != nil {
			s.logger.Warn("idempotency mark failed", zap.String("key", key), zap.Error(err))
		}
	}
	if changed {
		result.Applied = true
		s.settled(SourceCallback, 1)
	}
	return result, nil
}

// Job adapts SyncAll to the scheduler's job signature
func (s *SyncService) Job() func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := s.SyncAll(ctx)
		return err
	}
}

func (s *SyncService) settle(ctx context.Context, ref string) (bool, error) {
	paid, err := s.checker.IsPaid(ctx, ref)
	if err != nil || !paid {
		return false, err
	}
	return s.bookings.MarkPaid(ctx, ref)
}

func (s *SyncService) settled(source string, n int) {
	if s.observer != nil && n > 0 {
		s.observer.AddPaymentsSettled(source, n)
	}
}
