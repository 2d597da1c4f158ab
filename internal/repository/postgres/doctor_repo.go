package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/doctor"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

func (r *DoctorRepository) Create(ctx context.Context, d *doctor.Doctor) error {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		if isUniqueViolation(err) {
			return doctor.ErrDoctorExists
		}
		return fmt.Errorf("creating doctor: %w", err)
	}
	return nil
}

func (r *DoctorRepository) GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	var d doctor.Doctor
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, doctor.ErrDoctorNotFound
		}
		return nil, fmt.Errorf("fetching doctor: %w", err)
	}
	return &d, nil
}

func (r *DoctorRepository) Update(ctx context.Context, id uuid.UUID, cmd *doctor.UpdateDoctorCommand) (*doctor.Doctor, error) {
	updates := map[string]any{}
	if cmd.MedicalLicenseNumber != nil {
		updates["medical_license_number"] = *cmd.MedicalLicenseNumber
	}
	if cmd.Specialization != nil {
		updates["specialization"] = *cmd.Specialization
	}
	if cmd.ContactNumber != nil {
		updates["contact_number"] = *cmd.ContactNumber
	}
	if cmd.HospitalAffiliation != nil {
		updates["hospital_affiliation"] = *cmd.HospitalAffiliation
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).
			Model(&doctor.Doctor{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("updating doctor: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, doctor.ErrDoctorNotFound
		}
	}

	return r.GetByID(ctx, id)
}

func (r *DoctorRepository) UpdateAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	res := r.db.WithContext(ctx).
		Model(&doctor.Doctor{}).
		Where("id = ?", id).
		Update("is_available", available)
	if res.Error != nil {
		return fmt.Errorf("updating doctor availability: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return doctor.ErrDoctorNotFound
	}
	return nil
}

// ClaimLeastRecentlyAssigned picks the fairest available doctor and stamps the
// assignment date in one transaction. SKIP LOCKED lets concurrent claims walk
// past rows another transaction is claiming instead of blocking on them.
func (r *DoctorRepository) ClaimLeastRecentlyAssigned(ctx context.Context, specialization string) (*doctor.Doctor, error) {
	var claimed doctor.Doctor

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("is_available = ?", true)
		if specialization != "" {
			q = q.Where("specialization = ?", specialization)
		}

		err := q.
			Order("last_assignment_date ASC NULLS FIRST").
			Limit(1).
			First(&claimed).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return doctor.ErrNoDoctorAvailable
			}
			return fmt.Errorf("selecting doctor for claim: %w", err)
		}

		now := time.Now()
		claimed.LastAssignmentDate = &now

		return tx.
			Model(&doctor.Doctor{}).
			Where("id = ?", claimed.ID).
			Update("last_assignment_date", now).Error
	})
	if err != nil {
		return nil, err
	}

	return &claimed, nil
}

func (r *DoctorRepository) ListAvailable(ctx context.Context, specialization string) ([]*doctor.Doctor, error) {
	q := r.db.WithContext(ctx).Where("is_available = ?", true)
	if specialization != "" {
		q = q.Where("specialization = ?", specialization)
	}

	var doctors []*doctor.Doctor
	err := q.
		Order("last_assignment_date ASC NULLS FIRST").
		Find(&doctors).Error
	if err != nil {
		return nil, fmt.Errorf("listing available doctors: %w", err)
	}
	return doctors, nil
}
