package persistence

import (
	"context"
	"errors"

	"github.com/fieldops/backend/internal/domain/query"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Collection is a GORM-backed repository for one record table. M is the
// persistence model and D the domain type it maps to.
type Collection[M any, D any] struct {
	db         *gorm.DB
	translator *Translator
	toDomain   func(*M) *D
	fromDomain func(*D) *M
}

// NewCollection creates a collection over the table of M
func NewCollection[M any, D any](db *gorm.DB, translator *Translator, toDomain func(*M) *D, fromDomain func(*D) *M) *Collection[M, D] {
	return &Collection[M, D]{
		db:         db,
		translator: translator,
		toDomain:   toDomain,
		fromDomain: fromDomain,
	}
}

func (r *Collection[M, D]) query(ctx context.Context, filter query.Filter) *gorm.DB {
	return r.translator.Apply(r.db.WithContext(ctx).Model(new(M)), filter)
}

func (r *Collection[M, D]) domain(rows []M) []D {
	out := make([]D, len(rows))
	for i := range rows {
		out[i] = *r.toDomain(&rows[i])
	}
	return out
}

// Count returns the number of rows matching filter
func (r *Collection[M, D]) Count(ctx context.Context, filter query.Filter) (int64, error) {
	var total int64
	if err := r.query(ctx, filter).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Find returns one page of rows matching filter
func (r *Collection[M, D]) Find(ctx context.Context, filter query.Filter, opts query.ListOptions) ([]D, error) {
	db := r.query(ctx, filter)
	db = r.translator.Select(db, opts.Select)
	db = r.translator.Order(db, opts.Sort)

	var rows []M
	if err := db.Offset(opts.Offset()).Limit(opts.Limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.domain(rows), nil
}

// FindAll returns every row matching filter
func (r *Collection[M, D]) FindAll(ctx context.Context, filter query.Filter, sort ...query.SortField) ([]D, error) {
	db := r.translator.Order(r.query(ctx, filter), sort)

	var rows []M
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.domain(rows), nil
}

// FindOne returns the row with id that also satisfies filter
func (r *Collection[M, D]) FindOne(ctx context.Context, id uuid.UUID, filter query.Filter) (*D, error) {
	var row M
	if err := r.query(ctx, filter).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.toDomain(&row), nil
}

// Create inserts a new row
func (r *Collection[M, D]) Create(ctx context.Context, item *D) error {
	return r.db.WithContext(ctx).Create(r.fromDomain(item)).Error
}

// Save writes every column of an existing row
func (r *Collection[M, D]) Save(ctx context.Context, item *D) error {
	return r.db.WithContext(ctx).Save(r.fromDomain(item)).Error
}

// Delete removes the row with id
func (r *Collection[M, D]) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(M))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
