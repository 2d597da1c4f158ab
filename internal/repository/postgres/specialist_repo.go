package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/specialist"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SpecialistRepository struct {
	db *gorm.DB
}

func NewSpecialistRepository(db *gorm.DB) *SpecialistRepository {
	return &SpecialistRepository{db: db}
}

func (r *SpecialistRepository) GetSpecialization(ctx context.Context, reportType string) (string, error) {
	var m specialist.Mapping
	err := r.db.WithContext(ctx).
		Where("report_type = ?", reportType).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", specialist.ErrMappingNotFound
		}
		return "", fmt.Errorf("fetching specialist mapping: %w", err)
	}
	return m.Specialization, nil
}

func (r *SpecialistRepository) Seed(ctx context.Context, mappings []specialist.Mapping) error {
	if len(mappings) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&mappings).Error
	if err != nil {
		return fmt.Errorf("seeding specialist mappings: %w", err)
	}
	return nil
}
