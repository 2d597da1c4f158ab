package assignment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Activate ensures exactly one active mapping exists for the
	// (patient, doctor) pair: prior actives for the pair are retired and a
	// fresh mapping inserted in one transaction, refreshing the assignment
	// timestamp and keeping retired rows as history.
	Activate(ctx context.Context, patientID, doctorID uuid.UUID) (*PatientDoctorMapping, error)

	// Deactivate retires the active mapping for the pair. Returns
	// ErrMappingNotFound when no active mapping exists.
	Deactivate(ctx context.Context, patientID, doctorID uuid.UUID) error

	// FindActive returns the active mapping for the pair, or
	// ErrMappingNotFound.
	FindActive(ctx context.Context, patientID, doctorID uuid.UUID) (*PatientDoctorMapping, error)

	// ListPatientsForDoctor returns the patient IDs actively mapped to the
	// doctor, most recently assigned first.
	ListPatientsForDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*PatientDoctorMapping, error)

	CountActiveForDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error)
}
