package recommendation

import (
	"time"

	"github.com/google/uuid"
)

// ReviewStatus is the doctor-review state machine for an AI-drafted
// recommendation.
//
// State transitions possibilities:
//
//	AI_generated → pending_doctor_review
//	pending_doctor_review → approved_by_doctor | modified_and_approved_by_doctor | rejected_by_doctor
//	any → deleted (administrative soft delete)
type ReviewStatus string

const (
	StatusAIGenerated        ReviewStatus = "AI_generated"
	StatusPendingReview      ReviewStatus = "pending_doctor_review"
	StatusApproved           ReviewStatus = "approved_by_doctor"
	StatusModifiedAndApprove ReviewStatus = "modified_and_approved_by_doctor"
	StatusRejected           ReviewStatus = "rejected_by_doctor"
	StatusDeleted            ReviewStatus = "deleted"
)

func (s ReviewStatus) IsValid() bool {
	switch s {
	case StatusAIGenerated, StatusPendingReview, StatusApproved,
		StatusModifiedAndApprove, StatusRejected, StatusDeleted:
		return true
	}
	return false
}

// IsPendingReview reports whether a doctor may still act on the
// recommendation.
func (s ReviewStatus) IsPendingReview() bool {
	return s == StatusAIGenerated || s == StatusPendingReview
}

// IsReviewed reports whether a doctor has already acted.
func (s ReviewStatus) IsReviewed() bool {
	switch s {
	case StatusApproved, StatusModifiedAndApprove, StatusRejected:
		return true
	}
	return false
}

type Recommendation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	// Exactly one recommendation per report.
	ReportID  uuid.UUID `gorm:"column:report_id;type:uuid;not null;uniqueIndex"`
	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`

	DoctorID *uuid.UUID `gorm:"column:doctor_id;type:uuid;index"`

	AIGeneratedTreatment string `gorm:"column:ai_generated_treatment;type:text"`
	AIGeneratedLifestyle string `gorm:"column:ai_generated_lifestyle;type:text"`
	AIGeneratedPriority  string `gorm:"column:ai_generated_priority;type:varchar(20)"`

	Status      ReviewStatus `gorm:"column:status;type:varchar(40);not null;default:'AI_generated';index"`
	DoctorNotes string       `gorm:"column:doctor_notes;type:text"`

	ApprovedTreatment *string `gorm:"column:approved_treatment;type:text"`
	ApprovedLifestyle *string `gorm:"column:approved_lifestyle;type:text"`

	ReviewedDate *time.Time `gorm:"column:reviewed_date"`
}

func (Recommendation) TableName() string {
	return "clinical.recommendations"
}

// Approve copies the AI draft verbatim into the approved fields and stamps
// the acting doctor.
func (r *Recommendation) Approve(doctorID uuid.UUID, notes string) error {
	if !r.Status.IsPendingReview() {
		return ErrAlreadyReviewed
	}
	treatment := r.AIGeneratedTreatment
	lifestyle := r.AIGeneratedLifestyle
	r.Status = StatusApproved
	r.ApprovedTreatment = &treatment
	r.ApprovedLifestyle = &lifestyle
	r.stampReview(doctorID, notes)
	return nil
}

// ModifyAndApprove stores the doctor's replacement treatment and lifestyle
// text as the approved plan. Both replacement texts are mandatory.
func (r *Recommendation) ModifyAndApprove(doctorID uuid.UUID, treatment, lifestyle, notes string) error {
	if !r.Status.IsPendingReview() {
		return ErrAlreadyReviewed
	}
	if treatment == "" || lifestyle == "" {
		return ErrMissingApprovedFields
	}
	r.Status = StatusModifiedAndApprove
	r.ApprovedTreatment = &treatment
	r.ApprovedLifestyle = &lifestyle
	r.stampReview(doctorID, notes)
	return nil
}

// Reject declines the AI draft. Notes explaining the rejection are mandatory;
// any previously approved content is cleared.
func (r *Recommendation) Reject(doctorID uuid.UUID, notes string) error {
	if !r.Status.IsPendingReview() {
		return ErrAlreadyReviewed
	}
	if notes == "" {
		return ErrNotesRequired
	}
	r.Status = StatusRejected
	r.ApprovedTreatment = nil
	r.ApprovedLifestyle = nil
	r.stampReview(doctorID, notes)
	return nil
}

// SoftDelete overwrites the status; the row is never removed.
func (r *Recommendation) SoftDelete() {
	r.Status = StatusDeleted
	r.UpdatedAt = time.Now().UTC()
}

// MarkPendingReview moves a freshly generated (or regenerated) draft into the
// doctor's queue, refreshing the AI fields and the responsible doctor.
func (r *Recommendation) MarkPendingReview(doctorID uuid.UUID, treatment, lifestyle, priority string) error {
	if r.Status.IsReviewed() {
		return ErrAlreadyReviewed
	}
	r.Status = StatusPendingReview
	r.DoctorID = &doctorID
	r.AIGeneratedTreatment = treatment
	r.AIGeneratedLifestyle = lifestyle
	r.AIGeneratedPriority = priority
	r.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *Recommendation) stampReview(doctorID uuid.UUID, notes string) {
	now := time.Now().UTC()
	r.DoctorID = &doctorID
	r.DoctorNotes = notes
	r.ReviewedDate = &now
	r.UpdatedAt = now
}

type ListRecommendationsQuery struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	Statuses  []ReviewStatus
	Page      int
	PageSize  int
}
