package report

import (
	"fmt"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AllZones is the zone value stored when a report is not narrowed to one zone
const AllZones = "all"

// Report is the metadata record of one generation attempt
type Report struct {
	shared.EventRecorder `json:"-"`

	ID          uuid.UUID  `json:"_id"`
	Name        string     `json:"name"`
	ReportType  Type       `json:"reportType"`
	Period      Period     `json:"period"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     time.Time  `json:"endDate"`
	Year        int        `json:"year"`
	Zone        string     `json:"zone"`
	Unit        string     `json:"unit"`
	Status      Status     `json:"status"`
	Summary     Summary    `json:"summary"`
	FileURL     string     `json:"fileUrl,omitempty"`
	FileName    string     `json:"fileName,omitempty"`
	GeneratedBy uuid.UUID  `json:"generatedBy"`
	GeneratedAt *time.Time `json:"generatedAt,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Spec describes the report a caller asked for
type Spec struct {
	Type   Type
	Period Period
	Range  DateRange
	Year   int
	Zone   string
	Unit   string
}

// NewReport creates a pending report
func NewReport(spec Spec, generatedBy uuid.UUID) (*Report, error) {
	if !spec.Type.IsValid() {
		return nil, ErrInvalidType
	}
	if !spec.Period.IsValid() {
		return nil, ErrInvalidPeriod
	}
	if generatedBy == uuid.Nil {
		return nil, shared.NewValidationError("Report requires a generating user")
	}
	zone := spec.Zone
	if zone == "" {
		zone = AllZones
	}
	unit := spec.Unit
	if unit == "" {
		unit = AllZones
	}

	return &Report{
		ID:          uuid.New(),
		Name:        Name(spec.Type, spec.Period, zone, spec.Range),
		ReportType:  spec.Type,
		Period:      spec.Period,
		StartDate:   spec.Range.Start,
		EndDate:     spec.Range.End,
		Year:        spec.Year,
		Zone:        zone,
		Unit:        unit,
		Status:      StatusPending,
		GeneratedBy: generatedBy,
		CreatedAt:   time.Now(),
	}, nil
}

// StartGenerating marks the report as generating
func (r *Report) StartGenerating() error {
	if !r.Status.CanTransitionTo(StatusGenerating) {
		return shared.NewDomainError(shared.CodeInvalidState,
			"Cannot start generating from status: "+r.Status.String())
	}
	r.Status = StatusGenerating
	return nil
}

// Complete records the stored file and digest
func (r *Report) Complete(fileURL, fileName string, summary Summary, at time.Time) error {
	if !r.Status.CanTransitionTo(StatusCompleted) {
		return shared.NewDomainError(shared.CodeInvalidState,
			"Cannot complete from status: "+r.Status.String())
	}
	if fileURL == "" {
		return shared.NewValidationError("Report file URL cannot be empty")
	}

	r.Status = StatusCompleted
	r.FileURL = fileURL
	r.FileName = fileName
	r.Summary = summary
	r.GeneratedAt = &at
	r.Error = ""

	r.AddDomainEvent(NewCompletedEvent(r))
	return nil
}

// Fail records why generation stopped
func (r *Report) Fail(message string) error {
	if r.Status.IsTerminal() {
		return shared.NewDomainError(shared.CodeInvalidState,
			"Cannot fail a report that is already in terminal status: "+r.Status.String())
	}
	r.Status = StatusFailed
	r.Error = message

	r.AddDomainEvent(NewFailedEvent(r))
	return nil
}

// IsCompleted returns true if the report file is available
func (r *Report) IsCompleted() bool {
	return r.Status == StatusCompleted
}

// CheckDownloadable returns an error unless the report can be fetched
func (r *Report) CheckDownloadable() error {
	if r.Status != StatusCompleted {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Report is not ready for download. Status: %s", r.Status))
	}
	if r.FileURL == "" {
		return shared.NewNotFoundError("Report file not found")
	}
	return nil
}

var (
	ErrInvalidType = shared.NewValidationError(
		"Invalid report type. Must be one of: " + typeList())
	ErrInvalidPeriod = shared.NewValidationError(
		"Invalid period. Must be: daily, weekly, monthly, or yearly")
)
