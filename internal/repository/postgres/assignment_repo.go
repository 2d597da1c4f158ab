package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/assignment"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Activate retires any prior active mapping for the pair and inserts a fresh
// one, refreshing the assignment timestamp and leaving the retired rows as a
// history trail. The partial unique index on (patient_id, doctor_id) WHERE
// is_active backstops races between concurrent pipeline runs.
func (r *AssignmentRepository) Activate(ctx context.Context, patientID, doctorID uuid.UUID) (*assignment.PatientDoctorMapping, error) {
	var mapping *assignment.PatientDoctorMapping

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Model(&assignment.PatientDoctorMapping{}).
			Where("patient_id = ? AND doctor_id = ? AND is_active = ?", patientID, doctorID, true).
			Update("is_active", false).Error
		if err != nil {
			return fmt.Errorf("retiring prior mapping: %w", err)
		}

		fresh := &assignment.PatientDoctorMapping{
			PatientID:  patientID,
			DoctorID:   doctorID,
			AssignedAt: time.Now(),
			IsActive:   true,
		}
		if err := tx.Create(fresh).Error; err != nil {
			return fmt.Errorf("creating mapping: %w", err)
		}

		mapping = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}

	return mapping, nil
}

func (r *AssignmentRepository) Deactivate(ctx context.Context, patientID, doctorID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&assignment.PatientDoctorMapping{}).
		Where("patient_id = ? AND doctor_id = ? AND is_active = ?", patientID, doctorID, true).
		Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("deactivating mapping: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return assignment.ErrMappingNotFound
	}
	return nil
}

func (r *AssignmentRepository) FindActive(ctx context.Context, patientID, doctorID uuid.UUID) (*assignment.PatientDoctorMapping, error) {
	var m assignment.PatientDoctorMapping
	err := r.db.WithContext(ctx).
		Where("patient_id = ? AND doctor_id = ? AND is_active = ?", patientID, doctorID, true).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, assignment.ErrMappingNotFound
		}
		return nil, fmt.Errorf("fetching mapping: %w", err)
	}
	return &m, nil
}

func (r *AssignmentRepository) ListPatientsForDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*assignment.PatientDoctorMapping, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var mappings []*assignment.PatientDoctorMapping
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND is_active = ?", doctorID, true).
		Order("assigned_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&mappings).Error
	if err != nil {
		return nil, fmt.Errorf("listing mappings for doctor: %w", err)
	}
	return mappings, nil
}

func (r *AssignmentRepository) CountActiveForDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&assignment.PatientDoctorMapping{}).
		Where("doctor_id = ? AND is_active = ?", doctorID, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting mappings for doctor: %w", err)
	}
	return count, nil
}
