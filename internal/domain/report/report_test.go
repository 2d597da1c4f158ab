package report

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessingStatusIsValid(t *testing.T) {
	valid := []ProcessingStatus{
		StatusUploaded, StatusExtracted, StatusFailedExtraction,
		StatusDoctorAssigned, StatusPendingManualAssignment,
		StatusPendingDoctorReview, StatusPendingAIAnalysis,
		StatusAIGenerationFailed, StatusDoctorAssignedNoAI,
	}
	for _, s := range valid {
		assert.True(t, s.IsValid(), "expected %s to be valid", s)
	}

	assert.False(t, ProcessingStatus("").IsValid())
	assert.False(t, ProcessingStatus("processing").IsValid())
	assert.False(t, ProcessingStatus("Uploaded").IsValid())
}

func TestSetStatusAllowsPipelineFlow(t *testing.T) {
	r := &HealthReport{ProcessingStatus: StatusUploaded}

	require.NoError(t, r.SetStatus(StatusExtracted))
	require.NoError(t, r.SetStatus(StatusDoctorAssigned))
	require.NoError(t, r.SetStatus(StatusPendingDoctorReview))
	assert.Equal(t, StatusPendingDoctorReview, r.ProcessingStatus)
}

func TestSetStatusRejectsSkippingStages(t *testing.T) {
	r := &HealthReport{ProcessingStatus: StatusUploaded}

	err := r.SetStatus(StatusDoctorAssigned)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Equal(t, StatusUploaded, r.ProcessingStatus, "failed transition must not mutate status")

	err = r.SetStatus(StatusPendingDoctorReview)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	r := &HealthReport{ProcessingStatus: StatusUploaded}
	assert.ErrorIs(t, r.SetStatus(ProcessingStatus("bogus")), ErrInvalidStatus)
}

func TestSetStatusSameStatusIsNoOp(t *testing.T) {
	r := &HealthReport{ProcessingStatus: StatusExtracted}
	assert.NoError(t, r.SetStatus(StatusExtracted))
	assert.Equal(t, StatusExtracted, r.ProcessingStatus)
}

func TestSetStatusTerminalReviewState(t *testing.T) {
	r := &HealthReport{ProcessingStatus: StatusPendingDoctorReview}
	for _, next := range []ProcessingStatus{
		StatusUploaded, StatusExtracted, StatusDoctorAssigned, StatusPendingAIAnalysis,
	} {
		assert.ErrorIs(t, r.SetStatus(next), ErrInvalidStatusTransition, "pending_doctor_review must be terminal (got %s)", next)
	}
}

func TestSetStatusRetryableStates(t *testing.T) {
	// failed_extraction can be retried back into extracted
	r := &HealthReport{ProcessingStatus: StatusFailedExtraction}
	assert.NoError(t, r.SetStatus(StatusExtracted))

	// parked AI states can be re-driven into pending_doctor_review
	for _, from := range []ProcessingStatus{
		StatusPendingAIAnalysis, StatusAIGenerationFailed, StatusDoctorAssignedNoAI,
	} {
		r := &HealthReport{ProcessingStatus: from}
		assert.NoError(t, r.SetStatus(StatusPendingDoctorReview), "from %s", from)
	}

	// pending_manual_assignment resolves by assignment
	r = &HealthReport{ProcessingStatus: StatusPendingManualAssignment}
	assert.NoError(t, r.SetStatus(StatusDoctorAssigned))
}

func TestAssignDoctor(t *testing.T) {
	doctorID := uuid.New()

	r := &HealthReport{ProcessingStatus: StatusExtracted}
	require.NoError(t, r.AssignDoctor(doctorID))
	require.NotNil(t, r.AssignedDoctorID)
	assert.Equal(t, doctorID, *r.AssignedDoctorID)
	assert.Equal(t, StatusDoctorAssigned, r.ProcessingStatus)
}

func TestAssignDoctorIdempotentForSameDoctor(t *testing.T) {
	doctorID := uuid.New()
	r := &HealthReport{ProcessingStatus: StatusExtracted}
	require.NoError(t, r.AssignDoctor(doctorID))

	assert.NoError(t, r.AssignDoctor(doctorID))
	assert.Equal(t, doctorID, *r.AssignedDoctorID)
}

func TestAssignDoctorNeverReassigns(t *testing.T) {
	first := uuid.New()
	r := &HealthReport{ProcessingStatus: StatusExtracted}
	require.NoError(t, r.AssignDoctor(first))

	err := r.AssignDoctor(uuid.New())
	assert.ErrorIs(t, err, ErrAlreadyAssigned)
	assert.Equal(t, first, *r.AssignedDoctorID, "existing assignment must survive")
}

func TestAssignDoctorRequiresExtractedState(t *testing.T) {
	r := &HealthReport{ProcessingStatus: StatusUploaded}
	err := r.AssignDoctor(uuid.New())
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Nil(t, r.AssignedDoctorID)
}
