package models

import (
	"time"

	"github.com/fieldops/backend/internal/domain/report"
	"github.com/google/uuid"
)

// ReportModel is the GORM model for the reports table. The summary digest is
// flattened into columns so stats can aggregate it in SQL.
type ReportModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(255);not null"`
	ReportType   string    `gorm:"column:report_type;type:varchar(20);not null;index:idx_reports_type_period"`
	Period       string    `gorm:"type:varchar(20);not null;index:idx_reports_type_period"`
	StartDate    time.Time `gorm:"column:start_date;not null"`
	EndDate      time.Time `gorm:"column:end_date;not null"`
	Year         int       `gorm:"not null"`
	Zone         string    `gorm:"type:varchar(20);not null;default:'all';index"`
	Unit         string    `gorm:"type:varchar(10);not null;default:'all'"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	TotalRecords int       `gorm:"column:total_records;not null;default:0"`
	TotalAmount  float64   `gorm:"column:total_amount;type:numeric(16,2);not null;default:0"`
	PaidCount    int       `gorm:"column:paid_count;not null;default:0"`
	PaidAmount   float64   `gorm:"column:paid_amount;type:numeric(16,2);not null;default:0"`
	UnpaidCount  int       `gorm:"column:unpaid_count;not null;default:0"`
	UnpaidAmount float64   `gorm:"column:unpaid_amount;type:numeric(16,2);not null;default:0"`
	FileURL      string    `gorm:"column:file_url;type:text"`
	FileName     string    `gorm:"column:file_name;type:varchar(255)"`
	GeneratedBy  uuid.UUID `gorm:"column:generated_by;type:uuid;not null;index"`
	GeneratedAt  *time.Time
	Error        string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for ReportModel
func (ReportModel) TableName() string {
	return "reports"
}

// ToDomain converts ReportModel to domain Report
func (m *ReportModel) ToDomain() *report.Report {
	return &report.Report{
		ID:         m.ID,
		Name:       m.Name,
		ReportType: report.Type(m.ReportType),
		Period:     report.Period(m.Period),
		StartDate:  m.StartDate,
		EndDate:    m.EndDate,
		Year:       m.Year,
		Zone:       m.Zone,
		Unit:       m.Unit,
		Status:     report.Status(m.Status),
		Summary: report.Summary{
			TotalRecords: m.TotalRecords,
			TotalAmount:  m.TotalAmount,
			PaidCount:    m.PaidCount,
			PaidAmount:   m.PaidAmount,
			UnpaidCount:  m.UnpaidCount,
			UnpaidAmount: m.UnpaidAmount,
		},
		FileURL:     m.FileURL,
		FileName:    m.FileName,
		GeneratedBy: m.GeneratedBy,
		GeneratedAt: m.GeneratedAt,
		Error:       m.Error,
		CreatedAt:   m.CreatedAt,
	}
}

// ReportModelFromDomain creates a ReportModel from domain Report
func ReportModelFromDomain(r *report.Report) *ReportModel {
	return &ReportModel{
		ID:           r.ID,
		Name:         r.Name,
		ReportType:   string(r.ReportType),
		Period:       string(r.Period),
		StartDate:    r.StartDate.UTC(),
		EndDate:      r.EndDate.UTC(),
		Year:         r.Year,
		Zone:         r.Zone,
		Unit:         r.Unit,
		Status:       string(r.Status),
		TotalRecords: r.Summary.TotalRecords,
		TotalAmount:  r.Summary.TotalAmount,
		PaidCount:    r.Summary.PaidCount,
		PaidAmount:   r.Summary.PaidAmount,
		UnpaidCount:  r.Summary.UnpaidCount,
		UnpaidAmount: r.Summary.UnpaidAmount,
		FileURL:      r.FileURL,
		FileName:     r.FileName,
		GeneratedBy:  r.GeneratedBy,
		GeneratedAt:  r.GeneratedAt,
		Error:        r.Error,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

// AllModels lists every model for schema creation in tests and sqlite mode
func AllModels() []any {
	return []any{
		&BookingModel{},
		&FineModel{},
		&InsuranceModel{},
		&CollisionModel{},
		&InspectionModel{},
		&FireModel{},
		&ReportModel{},
	}
}
