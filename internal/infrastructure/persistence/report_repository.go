package persistence

import (
	"context"
	"errors"

	"github.com/fieldops/backend/internal/domain/report"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Repository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// Create inserts a new report
func (r *GormReportRepository) Create(ctx context.Context, rep *report.Report) error {
	return r.db.WithContext(ctx).Create(models.ReportModelFromDomain(rep)).Error
}

// Save persists every column of a report
func (r *GormReportRepository) Save(ctx context.Context, rep *report.Report) error {
	return r.db.WithContext(ctx).Save(models.ReportModelFromDomain(rep)).Error
}

// FindByID finds a report by ID
func (r *GormReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	var model models.ReportModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormReportRepository) scoped(ctx context.Context, generatedBy *uuid.UUID) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&models.ReportModel{})
	if generatedBy != nil {
		db = db.Where("generated_by = ?", *generatedBy)
	}
	return db
}

// List returns one page of reports, newest first
func (r *GormReportRepository) List(ctx context.Context, filter report.ListFilter) ([]report.Report, int64, error) {
	db := r.scoped(ctx, filter.GeneratedBy)
	if filter.ReportType != "" {
		db = db.Where("report_type = ?", string(filter.ReportType))
	}
	if filter.Period != "" {
		db = db.Where("period = ?", string(filter.Period))
	}
	if filter.Zone != "" {
		db = db.Where("zone = ?", filter.Zone)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", string(filter.Status))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var rows []models.ReportModel
	if err := db.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	reports := make([]report.Report, len(rows))
	for i := range rows {
		reports[i] = *rows[i].ToDomain()
	}
	return reports, total, nil
}

// Delete removes a report
func (r *GormReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ReportModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Stats groups reports by type and status
func (r *GormReportRepository) Stats(ctx context.Context, generatedBy *uuid.UUID) (*report.Stats, error) {
	var byType []struct {
		ReportType   string
		Count        int64
		TotalRecords int64
		TotalAmount  float64
	}
	if err := r.scoped(ctx, generatedBy).
		Select("report_type, COUNT(*) AS count, COALESCE(SUM(total_records), 0) AS total_records, COALESCE(SUM(total_amount), 0) AS total_amount").
		Group("report_type").
		Order("report_type").
		Scan(&byType).Error; err != nil {
		return nil, err
	}

	var byStatus []struct {
		Status string
		Count  int64
	}
	if err := r.scoped(ctx, generatedBy).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}

	stats := &report.Stats{
		ByType:   make([]report.TypeStat, len(byType)),
		ByStatus: make([]report.StatusStat, len(byStatus)),
	}
	for i, t := range byType {
		stats.ByType[i] = report.TypeStat{
			Type:         report.Type(t.ReportType),
			Count:        t.Count,
			TotalRecords: t.TotalRecords,
			TotalAmount:  t.TotalAmount,
		}
	}
	for i, s := range byStatus {
		stats.ByStatus[i] = report.StatusStat{Status: report.Status(s.Status), Count: s.Count}
	}
	return stats, nil
}

var _ report.Repository = (*GormReportRepository)(nil)
