package report

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *HealthReport) error

	// GetByID retrieves a report by primary key. Returns ErrReportNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*HealthReport, error)

	// Update persists the report's mutable pipeline fields (status, extracted
	// data, assigned doctor).
	Update(ctx context.Context, r *HealthReport) error

	List(ctx context.Context, q *ListReportsQuery) (*PagedReports, error)

	// ListByStatuses returns reports currently parked on one of the given
	// statuses. Used by the retry sweep.
	ListByStatuses(ctx context.Context, statuses []ProcessingStatus, limit int) ([]*HealthReport, error)

	// SoftDelete marks the report deleted; administrative action only, the
	// pipeline never deletes.
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
