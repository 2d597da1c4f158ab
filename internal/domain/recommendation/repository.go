package recommendation

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new recommendation. Returns ErrDuplicateForReport when
	// the report already has one (unique index on report_id).
	Create(ctx context.Context, r *Recommendation) error

	GetByID(ctx context.Context, id uuid.UUID) (*Recommendation, error)

	// GetByReportID retrieves the single recommendation bound to a report.
	GetByReportID(ctx context.Context, reportID uuid.UUID) (*Recommendation, error)

	// Update persists review-state mutations (status, notes, approved fields,
	// reviewed date, acting doctor).
	Update(ctx context.Context, r *Recommendation) error

	List(ctx context.Context, q *ListRecommendationsQuery) ([]*Recommendation, error)

	// CountByDoctorAndStatuses powers the doctor dashboard counters.
	CountByDoctorAndStatuses(ctx context.Context, doctorID uuid.UUID, statuses []ReviewStatus) (int64, error)
}
