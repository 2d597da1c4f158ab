package recommendation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingRecommendation() *Recommendation {
	return &Recommendation{
		ID:                   uuid.New(),
		ReportID:             uuid.New(),
		PatientID:            uuid.New(),
		AIGeneratedTreatment: "Statin therapy review",
		AIGeneratedLifestyle: "Reduce saturated fat intake",
		AIGeneratedPriority:  "Medium",
		Status:               StatusPendingReview,
	}
}

func TestApproveCopiesAIDraftVerbatim(t *testing.T) {
	rec := pendingRecommendation()
	doctorID := uuid.New()

	require.NoError(t, rec.Approve(doctorID, "looks right"))

	assert.Equal(t, StatusApproved, rec.Status)
	require.NotNil(t, rec.ApprovedTreatment)
	require.NotNil(t, rec.ApprovedLifestyle)
	assert.Equal(t, rec.AIGeneratedTreatment, *rec.ApprovedTreatment)
	assert.Equal(t, rec.AIGeneratedLifestyle, *rec.ApprovedLifestyle)
	assert.Equal(t, doctorID, *rec.DoctorID)
	assert.Equal(t, "looks right", rec.DoctorNotes)
	assert.NotNil(t, rec.ReviewedDate)
}

func TestApproveWorksFromAIGenerated(t *testing.T) {
	rec := pendingRecommendation()
	rec.Status = StatusAIGenerated

	assert.NoError(t, rec.Approve(uuid.New(), ""))
	assert.Equal(t, StatusApproved, rec.Status)
}

func TestModifyAndApprove(t *testing.T) {
	rec := pendingRecommendation()
	doctorID := uuid.New()

	require.NoError(t, rec.ModifyAndApprove(doctorID, "Adjusted dosage plan", "Mediterranean diet", "tweaked"))

	assert.Equal(t, StatusModifiedAndApprove, rec.Status)
	assert.Equal(t, "Adjusted dosage plan", *rec.ApprovedTreatment)
	assert.Equal(t, "Mediterranean diet", *rec.ApprovedLifestyle)
	// AI draft is preserved for audit
	assert.Equal(t, "Statin therapy review", rec.AIGeneratedTreatment)
}

func TestModifyAndApproveRequiresBothTexts(t *testing.T) {
	rec := pendingRecommendation()

	assert.ErrorIs(t, rec.ModifyAndApprove(uuid.New(), "", "diet", "n"), ErrMissingApprovedFields)
	assert.ErrorIs(t, rec.ModifyAndApprove(uuid.New(), "plan", "", "n"), ErrMissingApprovedFields)
	assert.Equal(t, StatusPendingReview, rec.Status, "failed review must not change status")
}

func TestRejectRequiresNotes(t *testing.T) {
	rec := pendingRecommendation()

	err := rec.Reject(uuid.New(), "")
	assert.ErrorIs(t, err, ErrNotesRequired)
	assert.Equal(t, StatusPendingReview, rec.Status)
	assert.Nil(t, rec.ReviewedDate)
}

func TestRejectClearsApprovedFields(t *testing.T) {
	rec := pendingRecommendation()
	stale := "stale"
	rec.ApprovedTreatment = &stale
	rec.ApprovedLifestyle = &stale

	require.NoError(t, rec.Reject(uuid.New(), "metrics do not support the draft"))

	assert.Equal(t, StatusRejected, rec.Status)
	assert.Nil(t, rec.ApprovedTreatment)
	assert.Nil(t, rec.ApprovedLifestyle)
	assert.Equal(t, "metrics do not support the draft", rec.DoctorNotes)
}

func TestReviewedRecommendationIsImmutable(t *testing.T) {
	for _, terminal := range []ReviewStatus{StatusApproved, StatusModifiedAndApprove, StatusRejected} {
		rec := pendingRecommendation()
		rec.Status = terminal

		assert.ErrorIs(t, rec.Approve(uuid.New(), "n"), ErrAlreadyReviewed)
		assert.ErrorIs(t, rec.ModifyAndApprove(uuid.New(), "a", "b", "n"), ErrAlreadyReviewed)
		assert.ErrorIs(t, rec.Reject(uuid.New(), "n"), ErrAlreadyReviewed)
		assert.Equal(t, terminal, rec.Status)
	}
}

func TestMarkPendingReviewRefreshesDraft(t *testing.T) {
	rec := pendingRecommendation()
	rec.Status = StatusAIGenerated
	doctorID := uuid.New()

	require.NoError(t, rec.MarkPendingReview(doctorID, "new plan", "new lifestyle", "High"))

	assert.Equal(t, StatusPendingReview, rec.Status)
	assert.Equal(t, "new plan", rec.AIGeneratedTreatment)
	assert.Equal(t, "new lifestyle", rec.AIGeneratedLifestyle)
	assert.Equal(t, "High", rec.AIGeneratedPriority)
	assert.Equal(t, doctorID, *rec.DoctorID)
}

func TestMarkPendingReviewRefusesReviewedDraft(t *testing.T) {
	rec := pendingRecommendation()
	require.NoError(t, rec.Approve(uuid.New(), ""))

	err := rec.MarkPendingReview(uuid.New(), "x", "y", "Low")
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
	assert.Equal(t, StatusApproved, rec.Status)
}

func TestSoftDelete(t *testing.T) {
	rec := pendingRecommendation()
	rec.SoftDelete()
	assert.Equal(t, StatusDeleted, rec.Status)
}
