package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/recommendation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecommendationRepository struct {
	db *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

func (r *RecommendationRepository) Create(ctx context.Context, rec *recommendation.Recommendation) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return recommendation.ErrDuplicateForReport
		}
		return fmt.Errorf("creating recommendation: %w", err)
	}
	return nil
}

func (r *RecommendationRepository) GetByID(ctx context.Context, id uuid.UUID) (*recommendation.Recommendation, error) {
	var rec recommendation.Recommendation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, recommendation.ErrRecommendationNotFound
		}
		return nil, fmt.Errorf("fetching recommendation: %w", err)
	}
	return &rec, nil
}

func (r *RecommendationRepository) GetByReportID(ctx context.Context, reportID uuid.UUID) (*recommendation.Recommendation, error) {
	var rec recommendation.Recommendation
	err := r.db.WithContext(ctx).Where("report_id = ?", reportID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, recommendation.ErrRecommendationNotFound
		}
		return nil, fmt.Errorf("fetching recommendation for report: %w", err)
	}
	return &rec, nil
}

func (r *RecommendationRepository) Update(ctx context.Context, rec *recommendation.Recommendation) error {
	res := r.db.WithContext(ctx).
		Model(&recommendation.Recommendation{}).
		Where("id = ?", rec.ID).
		Updates(map[string]any{
			"doctor_id":              rec.DoctorID,
			"ai_generated_treatment": rec.AIGeneratedTreatment,
			"ai_generated_lifestyle": rec.AIGeneratedLifestyle,
			"ai_generated_priority":  rec.AIGeneratedPriority,
			"status":                 rec.Status,
			"doctor_notes":           rec.DoctorNotes,
			"approved_treatment":     rec.ApprovedTreatment,
			"approved_lifestyle":     rec.ApprovedLifestyle,
			"reviewed_date":          rec.ReviewedDate,
		})
	if res.Error != nil {
		return fmt.Errorf("updating recommendation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return recommendation.ErrRecommendationNotFound
	}
	return nil
}

func (r *RecommendationRepository) List(ctx context.Context, q *recommendation.ListRecommendationsQuery) ([]*recommendation.Recommendation, error) {
	db := r.db.WithContext(ctx).Model(&recommendation.Recommendation{})

	if q.PatientID != nil {
		db = db.Where("patient_id = ?", *q.PatientID)
	}
	if q.DoctorID != nil {
		db = db.Where("doctor_id = ?", *q.DoctorID)
	}
	if len(q.Statuses) > 0 {
		db = db.Where("status IN ?", q.Statuses)
	}

	page, pageSize := normalizePage(q.Page, q.PageSize)

	var recs []*recommendation.Recommendation
	err := db.
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("listing recommendations: %w", err)
	}
	return recs, nil
}

func (r *RecommendationRepository) CountByDoctorAndStatuses(ctx context.Context, doctorID uuid.UUID, statuses []recommendation.ReviewStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&recommendation.Recommendation{}).
		Where("doctor_id = ? AND status IN ?", doctorID, statuses).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting recommendations: %w", err)
	}
	return count, nil
}

// isUniqueViolation matches postgres unique constraint errors (SQLSTATE 23505)
// without importing the driver's error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
