package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/report"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, rpt *report.HealthReport) error {
	if err := r.db.WithContext(ctx).Create(rpt).Error; err != nil {
		return fmt.Errorf("creating health report: %w", err)
	}
	return nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*report.HealthReport, error) {
	var rpt report.HealthReport
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&rpt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, report.ErrReportNotFound
		}
		return nil, fmt.Errorf("fetching health report: %w", err)
	}
	return &rpt, nil
}

func (r *ReportRepository) Update(ctx context.Context, rpt *report.HealthReport) error {
	res := r.db.WithContext(ctx).
		Model(&report.HealthReport{}).
		Where("id = ? AND deleted_at IS NULL", rpt.ID).
		Updates(map[string]any{
			"report_type":        rpt.ReportType,
			"extracted_data":     rpt.ExtractedData,
			"assigned_doctor_id": rpt.AssignedDoctorID,
			"processing_status":  rpt.ProcessingStatus,
		})
	if res.Error != nil {
		return fmt.Errorf("updating health report: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return report.ErrReportNotFound
	}
	return nil
}

func (r *ReportRepository) List(ctx context.Context, q *report.ListReportsQuery) (*report.PagedReports, error) {
	db := r.db.WithContext(ctx).
		Model(&report.HealthReport{}).
		Where("deleted_at IS NULL")

	if q.PatientID != nil {
		db = db.Where("patient_id = ?", *q.PatientID)
	}
	if q.AssignedDoctorID != nil {
		db = db.Where("assigned_doctor_id = ?", *q.AssignedDoctorID)
	}
	if q.ProcessingStatus != nil {
		db = db.Where("processing_status = ?", *q.ProcessingStatus)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting health reports: %w", err)
	}

	page, pageSize := normalizePage(q.Page, q.PageSize)

	var reports []*report.HealthReport
	err := db.
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("listing health reports: %w", err)
	}

	return &report.PagedReports{
		Reports:    reports,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func (r *ReportRepository) ListByStatuses(ctx context.Context, statuses []report.ProcessingStatus, limit int) ([]*report.HealthReport, error) {
	if limit <= 0 {
		limit = 100
	}

	var reports []*report.HealthReport
	err := r.db.WithContext(ctx).
		Where("processing_status IN ? AND deleted_at IS NULL", statuses).
		Order("updated_at ASC").
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("listing health reports by status: %w", err)
	}
	return reports, nil
}

func (r *ReportRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&report.HealthReport{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", time.Now())
	if res.Error != nil {
		return fmt.Errorf("deleting health report: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return report.ErrReportNotFound
	}
	return nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func totalPages(total int64, pageSize int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
