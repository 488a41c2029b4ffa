package query

import "context"

// PageLink points at an adjacent page
type PageLink struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination carries links to the neighbouring pages when they exist
type Pagination struct {
	Next *PageLink `json:"next,omitempty"`
	Prev *PageLink `json:"prev,omitempty"`
}

// NewPagination computes neighbour links for page of size limit
func NewPagination(page, limit int, total int64) Pagination {
	var p Pagination
	start := int64(page-1) * int64(limit)
	end := int64(page) * int64(limit)
	if end < total {
		p.Next = &PageLink{Page: page + 1, Limit: limit}
	}
	if start > 0 {
		p.Prev = &PageLink{Page: page - 1, Limit: limit}
	}
	return p
}

// Result is one page of a list query
type Result[T any] struct {
	Success    bool       `json:"success"`
	Total      int64      `json:"total"`
	Count      int        `json:"count"`
	Pagination Pagination `json:"pagination"`
	Limit      int        `json:"limit"`
	Data       []T        `json:"data"`
}

// Store is the collection handle a list query runs against
type Store[T any] interface {
	Count(ctx context.Context, filter Filter) (int64, error)
	Find(ctx context.Context, filter Filter, opts ListOptions) ([]T, error)
}

// List runs filter against store and assembles the page described by opts
func List[T any](ctx context.Context, store Store[T], filter Filter, opts ListOptions) (*Result[T], error) {
	opts.Page, opts.Limit = ClampPaging(opts.Page, opts.Limit, DefaultLimit)
	if len(opts.Sort) == 0 {
		opts.Sort = ParseSort("")
	}

	total, err := store.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items, err := store.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	return &Result[T]{
		Success:    true,
		Total:      total,
		Count:      len(items),
		Pagination: NewPagination(opts.Page, opts.Limit, total),
		Limit:      opts.Limit,
		Data:       items,
	}, nil
}
