// Package record provides the scoped CRUD and statistics services for the
// field-operation record kinds.
package record

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/fieldops/backend/internal/domain/access"
	"github.com/fieldops/backend/internal/domain/query"
	"github.com/fieldops/backend/internal/domain/record"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// entity is satisfied by pointers to record kinds
type entity[T any] interface {
	*T
	record.Entity
}

// Options tune a Service for one record kind
type Options[T any] struct {
	// WithUnit forces the actor's unit onto records created by non-admins
	WithUnit bool
	// BeforeCreate runs after stamping and before the insert
	BeforeCreate func(ctx context.Context, item *T) error
	Now          func() time.Time
}

// Service runs list, read and write operations for one record kind under
// the caller's access scope
type Service[T any, PT entity[T]] struct {
	kind     record.Kind
	repo     record.Repository[T]
	compiler *query.Compiler
	opts     Options[T]
}

// NewService creates a Service for kind
func NewService[T any, PT entity[T]](kind record.Kind, repo record.Repository[T], compiler *query.Compiler, opts Options[T]) *Service[T, PT] {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service[T, PT]{kind: kind, repo: repo, compiler: compiler, opts: opts}
}

// Kind returns the record kind served
func (s *Service[T, PT]) Kind() record.Kind {
	return s.kind
}

// ScopedFilter compiles params and constrains the result to what actor may
// see. The zone parameter narrows the scope rather than becoming a
// condition of its own.
func ScopedFilter(compiler *query.Compiler, actor access.Actor, params map[string][]string) query.Filter {
	rest := maps.Clone(params)
	var zone string
	if v := rest[query.FieldZone]; len(v) > 0 {
		zone = v[0]
	}
	delete(rest, query.FieldZone)
	return compiler.Compile(rest).WithScope(access.Resolve(actor, zone))
}

// List returns one page of records matching params
func (s *Service[T, PT]) List(ctx context.Context, actor access.Actor, params map[string][]string) (*query.Result[T], error) {
	filter := ScopedFilter(s.compiler, actor, params)
	return query.List[T](ctx, s.repo, filter, query.ParseListOptions(params))
}

// Get returns the record with id when it is inside the actor's scope
func (s *Service[T, PT]) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*T, error) {
	scope := query.Filter{}.WithScope(access.Resolve(actor, ""))
	item, err := s.repo.FindOne(ctx, id, scope)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, s.notFound(id)
	}
	return item, err
}

// Create decodes fields into a new record owned by actor
func (s *Service[T, PT]) Create(ctx context.Context, actor access.Actor, fields access.Fields) (*T, error) {
	fields = access.PrepareCreate(actor, access.Fields(record.Sanitize(fields)), s.opts.WithUnit)

	item, err := record.Decode[T](fields)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeValidation,
			fmt.Sprintf("Invalid %s payload", s.kind), err)
	}
	PT(item).Meta().Stamp(actor.ID, s.opts.Now())

	if s.opts.BeforeCreate != nil {
		if err := s.opts.BeforeCreate(ctx, item); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update applies patch to the record with id. Non-admins cannot move a
// record to another zone.
func (s *Service[T, PT]) Update(ctx context.Context, actor access.Actor, id uuid.UUID, patch access.Fields) (*T, error) {
	current, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	patch = access.PrepareUpdate(actor, access.Fields(record.Sanitize(patch)))
	next, err := record.Patch[T, PT](PT(current), patch)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeValidation,
			fmt.Sprintf("Invalid %s payload", s.kind), err)
	}
	if err := s.repo.Save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Delete removes the record with id when it is inside the actor's scope
func (s *Service[T, PT]) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return s.notFound(id)
	}
	return err
}

func (s *Service[T, PT]) notFound(id uuid.UUID) error {
	return shared.NewNotFoundError(fmt.Sprintf("%s not found with id of %s", s.kind.Title(), id))
}

// InsuranceDefaults issues new policies with a reference and expiry
func InsuranceDefaults(_ context.Context, i *record.Insurance) error {
	i.ApplyDefaults(record.NewReference())
	return nil
}

// InspectionDefaults books new inspections as pending with a visit date
// and certificate expiry
func InspectionDefaults(_ context.Context, i *record.Inspection) error {
	i.ApplyDefaults()
	return nil
}

// FireDefaults dates new fire reports and checks their type
func FireDefaults(_ context.Context, f *record.Fire) error {
	if err := f.ApplyDefaults(); err != nil {
		return shared.WrapDomainError(shared.CodeValidation, "Invalid fire payload", err)
	}
	return nil
}
