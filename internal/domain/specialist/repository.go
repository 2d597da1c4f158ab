package specialist

import (
	"context"
	"errors"
)

var ErrMappingNotFound = errors.New("no specialist mapping for report type")

type Repository interface {
	// GetSpecialization resolves a report type to its required
	// specialization. Returns ErrMappingNotFound for unrecognized types.
	GetSpecialization(ctx context.Context, reportType string) (string, error)

	// Seed inserts the given mappings, skipping rows that already exist.
	Seed(ctx context.Context, mappings []Mapping) error
}
