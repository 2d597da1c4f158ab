package service

import (
	"context"
	"testing"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/recommendation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRecommendationService(repo *MockRecommendationRepository) *RecommendationService {
	return NewRecommendationService(repo, newTestAuditService(), nil, zap.NewNop())
}

func pendingRec(doctorID uuid.UUID) *recommendation.Recommendation {
	return &recommendation.Recommendation{
		ID:                   uuid.New(),
		ReportID:             uuid.New(),
		PatientID:            uuid.New(),
		DoctorID:             &doctorID,
		AIGeneratedTreatment: "Increase statin dosage review",
		AIGeneratedLifestyle: "Low sodium diet",
		AIGeneratedPriority:  "High",
		Status:               recommendation.StatusPendingReview,
	}
}

func TestApprovePersistsReview(t *testing.T) {
	doctorID := uuid.New()
	rec := pendingRec(doctorID)

	repo := new(MockRecommendationRepository)
	repo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	repo.On("Update", mock.Anything, rec).Return(nil)

	svc := newRecommendationService(repo)
	got, err := svc.Approve(context.Background(), rec.ID, doctorID, "agreed", "10.0.0.1")

	require.NoError(t, err)
	assert.Equal(t, recommendation.StatusApproved, got.Status)
	assert.Equal(t, rec.AIGeneratedTreatment, *got.ApprovedTreatment)
	repo.AssertExpectations(t)
}

func TestApproveRejectsWrongDoctor(t *testing.T) {
	rec := pendingRec(uuid.New())

	repo := new(MockRecommendationRepository)
	repo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)

	svc := newRecommendationService(repo)
	_, err := svc.Approve(context.Background(), rec.ID, uuid.New(), "", "10.0.0.1")

	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, recommendation.StatusPendingReview, rec.Status)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestModifyAndApproveRequiresBothTexts(t *testing.T) {
	doctorID := uuid.New()
	repo := new(MockRecommendationRepository)

	svc := newRecommendationService(repo)
	_, err := svc.ModifyAndApprove(context.Background(), uuid.New(), doctorID, "plan", "", "", "10.0.0.1")

	var validErr *ValidationError
	require.ErrorAs(t, err, &validErr)
	assert.Contains(t, validErr.Fields, "approved_lifestyle is required")
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestRejectWithoutNotesFailsAndChangesNothing(t *testing.T) {
	doctorID := uuid.New()
	repo := new(MockRecommendationRepository)

	svc := newRecommendationService(repo)
	_, err := svc.Reject(context.Background(), uuid.New(), doctorID, "", "10.0.0.1")

	var validErr *ValidationError
	require.ErrorAs(t, err, &validErr)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRejectPersistsNotesAndClearsApproval(t *testing.T) {
	doctorID := uuid.New()
	rec := pendingRec(doctorID)

	repo := new(MockRecommendationRepository)
	repo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	repo.On("Update", mock.Anything, rec).Return(nil)

	svc := newRecommendationService(repo)
	got, err := svc.Reject(context.Background(), rec.ID, doctorID, "draft contradicts renal history", "10.0.0.1")

	require.NoError(t, err)
	assert.Equal(t, recommendation.StatusRejected, got.Status)
	assert.Equal(t, "draft contradicts renal history", got.DoctorNotes)
	assert.Nil(t, got.ApprovedTreatment)
	assert.Nil(t, got.ApprovedLifestyle)
}

func TestSecondReviewIsRefused(t *testing.T) {
	doctorID := uuid.New()
	rec := pendingRec(doctorID)
	require.NoError(t, rec.Approve(doctorID, "first pass"))

	repo := new(MockRecommendationRepository)
	repo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)

	svc := newRecommendationService(repo)
	_, err := svc.Reject(context.Background(), rec.ID, doctorID, "changed my mind", "10.0.0.1")

	assert.ErrorIs(t, err, recommendation.ErrAlreadyReviewed)
	assert.Equal(t, recommendation.StatusApproved, rec.Status, "completed review must stay intact")
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSoftDeleteMarksDeleted(t *testing.T) {
	rec := pendingRec(uuid.New())

	repo := new(MockRecommendationRepository)
	repo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	repo.On("Update", mock.Anything, rec).Return(nil)

	svc := newRecommendationService(repo)
	err := svc.SoftDelete(context.Background(), rec.ID, uuid.New(), "admin", "10.0.0.1")

	require.NoError(t, err)
	assert.Equal(t, recommendation.StatusDeleted, rec.Status)
}

func TestListApprovedForPatientFiltersStatuses(t *testing.T) {
	patientID := uuid.New()

	repo := new(MockRecommendationRepository)
	repo.On("List", mock.Anything, mock.MatchedBy(func(q *recommendation.ListRecommendationsQuery) bool {
		return q.PatientID != nil && *q.PatientID == patientID &&
			len(q.Statuses) == 2 &&
			q.Statuses[0] == recommendation.StatusApproved &&
			q.Statuses[1] == recommendation.StatusModifiedAndApprove
	})).Return([]*recommendation.Recommendation{}, nil)

	svc := newRecommendationService(repo)
	_, err := svc.ListApprovedForPatient(context.Background(), patientID)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
