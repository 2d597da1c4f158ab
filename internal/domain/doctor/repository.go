package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Doctor) error

	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)

	Update(ctx context.Context, id uuid.UUID, cmd *UpdateDoctorCommand) (*Doctor, error)

	UpdateAvailability(ctx context.Context, id uuid.UUID, available bool) error

	// ClaimLeastRecentlyAssigned atomically selects the available doctor with
	// the oldest (or null) last-assignment date and stamps that date to now,
	// inside one transaction with a row lock, so concurrent allocations can
	// never claim the same doctor twice.
	// specialization == "" means any available doctor. Returns
	// ErrNoDoctorAvailable when nobody can be claimed.
	ClaimLeastRecentlyAssigned(ctx context.Context, specialization string) (*Doctor, error)

	ListAvailable(ctx context.Context, specialization string) ([]*Doctor, error)
}
