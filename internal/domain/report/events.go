package report

import (
	"github.com/fieldops/backend/internal/domain/shared"
)

// AggregateTypeReport is the aggregate type for report events
const AggregateTypeReport = "Report"

const (
	EventTypeReportCompleted = "report.completed"
	EventTypeReportFailed    = "report.failed"
)

// CompletedEvent is raised once a report file has been stored
type CompletedEvent struct {
	shared.BaseDomainEvent
	ReportType  Type    `json:"reportType"`
	Period      Period  `json:"period"`
	Zone        string  `json:"zone"`
	FileURL     string  `json:"fileUrl"`
	Summary     Summary `json:"summary"`
	GeneratedBy string  `json:"generatedBy"`
}

// NewCompletedEvent creates a CompletedEvent
func NewCompletedEvent(r *Report) *CompletedEvent {
	return &CompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReportCompleted, AggregateTypeReport, r.ID),
		ReportType:      r.ReportType,
		Period:          r.Period,
		Zone:            r.Zone,
		FileURL:         r.FileURL,
		Summary:         r.Summary,
		GeneratedBy:     r.GeneratedBy.String(),
	}
}

// FailedEvent is raised when generation fails
type FailedEvent struct {
	shared.BaseDomainEvent
	ReportType  Type   `json:"reportType"`
	Period      Period `json:"period"`
	Zone        string `json:"zone"`
	Error       string `json:"error"`
	GeneratedBy string `json:"generatedBy"`
}

// NewFailedEvent creates a FailedEvent
func NewFailedEvent(r *Report) *FailedEvent {
	return &FailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReportFailed, AggregateTypeReport, r.ID),
		ReportType:      r.ReportType,
		Period:          r.Period,
		Zone:            r.Zone,
		Error:           r.Error,
		GeneratedBy:     r.GeneratedBy.String(),
	}
}
