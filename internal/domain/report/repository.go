package report

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows a report listing. Zero fields do not filter.
type ListFilter struct {
	ReportType  Type
	Period      Period
	Zone        string
	Status      Status
	GeneratedBy *uuid.UUID
	Page        int
	Limit       int
}

// TypeStat aggregates the reports of one type
type TypeStat struct {
	Type         Type    `json:"type"`
	Count        int64   `json:"count"`
	TotalRecords int64   `json:"totalRecords"`
	TotalAmount  float64 `json:"totalAmount"`
}

// StatusStat counts the reports in one status
type StatusStat struct {
	Status Status `json:"status"`
	Count  int64  `json:"count"`
}

// Stats groups report counts by type and status
type Stats struct {
	ByType   []TypeStat   `json:"byType"`
	ByStatus []StatusStat `json:"byStatus"`
}

// Repository persists report metadata
type Repository interface {
	Create(ctx context.Context, r *Report) error
	Save(ctx context.Context, r *Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*Report, error)
	// List returns one page, newest first, and the total match count
	List(ctx context.Context, filter ListFilter) ([]Report, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Stats aggregates all reports, or only those of generatedBy when set
	Stats(ctx context.Context, generatedBy *uuid.UUID) (*Stats, error)
}
