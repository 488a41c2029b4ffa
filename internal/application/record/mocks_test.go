package record

import (
	"context"

	"github.com/fieldops/backend/internal/domain/query"
	"github.com/fieldops/backend/internal/domain/record"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repository
// =============================================================================

type MockRepository[T any] struct {
	mock.Mock
}

func (m *MockRepository[T]) Count(ctx context.Context, filter query.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository[T]) Find(ctx context.Context, filter query.Filter, opts query.ListOptions) ([]T, error) {
	args := m.Called(ctx, filter, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockRepository[T]) FindAll(ctx context.Context, filter query.Filter, sort ...query.SortField) ([]T, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockRepository[T]) FindOne(ctx context.Context, id uuid.UUID, filter query.Filter) (*T, error) {
	args := m.Called(ctx, id, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockRepository[T]) Create(ctx context.Context, item *T) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockRepository[T]) Save(ctx context.Context, item *T) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockBookingRepository struct {
	MockRepository[record.Booking]
}

func (m *MockBookingRepository) MarkPaid(ctx context.Context, billRef string) (bool, error) {
	args := m.Called(ctx, billRef)
	return args.Bool(0), args.Error(1)
}

// hasCondition matches filters carrying the given condition
func hasCondition(field string, op query.Operator, value any) any {
	return mock.MatchedBy(func(f query.Filter) bool {
		c, ok := f.Find(field, op)
		if !ok {
			return false
		}
		if value == nil {
			return true
		}
		switch want := value.(type) {
		case []string:
			got, ok := c.Value.([]string)
			if !ok || len(got) != len(want) {
				return false
			}
			for i := range want {
				if got[i] != want[i] {
					return false
				}
			}
			return true
		default:
			return c.Value == value
		}
	})
}
