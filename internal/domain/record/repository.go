package record

import (
	"context"

	"github.com/fieldops/backend/internal/domain/query"
	"github.com/google/uuid"
)

// Repository persists one record kind. Every read takes a filter so the
// caller's access scope always travels with the lookup.
type Repository[T any] interface {
	query.Store[T]

	// FindAll returns every matching record ordered by sort
	FindAll(ctx context.Context, filter query.Filter, sort ...query.SortField) ([]T, error)
	// FindOne returns the record with id that also matches filter
	FindOne(ctx context.Context, id uuid.UUID, filter query.Filter) (*T, error)
	Create(ctx context.Context, item *T) error
	Save(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BookingRepository adds the payment-state operations bookings need
type BookingRepository interface {
	Repository[Booking]

	// MarkPaid flags the booking whose bill reference matches as paid.
	// It reports whether a row changed.
	MarkPaid(ctx context.Context, billRef string) (bool, error)
}
