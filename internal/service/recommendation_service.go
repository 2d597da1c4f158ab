package service

import (
	"context"
	"fmt"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/recommendation"
	"github.com/SUDAR2106/RemedyLabBackEnd/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecommendationService exposes the doctor review surface: approve,
// modify-approve, reject, plus queries and administrative soft delete.
type RecommendationService struct {
	repo     recommendation.Repository
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewRecommendationService(repo recommendation.Repository, auditSvc *AuditService, collector *metrics.Collector, log *zap.Logger) *RecommendationService {
	return &RecommendationService{repo: repo, auditSvc: auditSvc, metrics: collector, log: log}
}

func (s *RecommendationService) GetByID(ctx context.Context, id uuid.UUID) (*recommendation.Recommendation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *RecommendationService) GetByReportID(ctx context.Context, reportID uuid.UUID) (*recommendation.Recommendation, error) {
	return s.repo.GetByReportID(ctx, reportID)
}

func (s *RecommendationService) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*recommendation.Recommendation, error) {
	return s.repo.List(ctx, &recommendation.ListRecommendationsQuery{PatientID: &patientID})
}

// ListApprovedForPatient returns only recommendations a doctor has signed off
// on. This is the patient-facing view.
func (s *RecommendationService) ListApprovedForPatient(ctx context.Context, patientID uuid.UUID) ([]*recommendation.Recommendation, error) {
	return s.repo.List(ctx, &recommendation.ListRecommendationsQuery{
		PatientID: &patientID,
		Statuses: []recommendation.ReviewStatus{
			recommendation.StatusApproved,
			recommendation.StatusModifiedAndApprove,
		},
	})
}

func (s *RecommendationService) ListPendingForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*recommendation.Recommendation, error) {
	return s.repo.List(ctx, &recommendation.ListRecommendationsQuery{
		DoctorID: &doctorID,
		Statuses: []recommendation.ReviewStatus{
			recommendation.StatusAIGenerated,
			recommendation.StatusPendingReview,
		},
	})
}

func (s *RecommendationService) ListReviewedByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*recommendation.Recommendation, error) {
	return s.repo.List(ctx, &recommendation.ListRecommendationsQuery{
		DoctorID: &doctorID,
		Statuses: []recommendation.ReviewStatus{
			recommendation.StatusApproved,
			recommendation.StatusModifiedAndApprove,
			recommendation.StatusRejected,
		},
	})
}

// Approve accepts the AI draft verbatim.
func (s *RecommendationService) Approve(ctx context.Context, id, doctorID uuid.UUID, notes, ip string) (*recommendation.Recommendation, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeReviewer(rec, doctorID); err != nil {
		return nil, err
	}
	if err := rec.Approve(doctorID, notes); err != nil {
		return nil, err
	}
	return s.persistReview(ctx, rec, doctorID, ip)
}

// ModifyAndApprove replaces the treatment and lifestyle plans before
// approving. Both replacement texts are required.
func (s *RecommendationService) ModifyAndApprove(ctx context.Context, id, doctorID uuid.UUID, treatment, lifestyle, notes, ip string) (*recommendation.Recommendation, error) {
	var missing []string
	if treatment == "" {
		missing = append(missing, "approved_treatment is required")
	}
	if lifestyle == "" {
		missing = append(missing, "approved_lifestyle is required")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeReviewer(rec, doctorID); err != nil {
		return nil, err
	}
	if err := rec.ModifyAndApprove(doctorID, treatment, lifestyle, notes); err != nil {
		return nil, err
	}
	return s.persistReview(ctx, rec, doctorID, ip)
}

// Reject declines the draft; notes are mandatory.
func (s *RecommendationService) Reject(ctx context.Context, id, doctorID uuid.UUID, notes, ip string) (*recommendation.Recommendation, error) {
	if notes == "" {
		return nil, &ValidationError{Fields: []string{"doctor_notes are required when rejecting"}}
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeReviewer(rec, doctorID); err != nil {
		return nil, err
	}
	if err := rec.Reject(doctorID, notes); err != nil {
		return nil, err
	}
	return s.persistReview(ctx, rec, doctorID, ip)
}

// SoftDelete marks the recommendation deleted; the row stays.
func (s *RecommendationService) SoftDelete(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole, ip string) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	rec.SoftDelete()
	if err := s.repo.Update(ctx, rec); err != nil {
		return fmt.Errorf("soft-deleting recommendation: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "delete", ResourceType: "recommendation", ResourceID: id.String(), IPAddress: ip,
	})
	return nil
}

// authorizeReviewer rejects review attempts by a doctor other than the one
// the recommendation is assigned to.
func (s *RecommendationService) authorizeReviewer(rec *recommendation.Recommendation, doctorID uuid.UUID) error {
	if rec.DoctorID != nil && *rec.DoctorID != doctorID {
		return ErrForbidden
	}
	return nil
}

func (s *RecommendationService) persistReview(ctx context.Context, rec *recommendation.Recommendation, doctorID uuid.UUID, ip string) (*recommendation.Recommendation, error) {
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("persisting review: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecommendationsReviewedTotal.WithLabelValues(string(rec.Status)).Inc()
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: doctorID, UserRole: "doctor",
		Action: "review", ResourceType: "recommendation", ResourceID: rec.ID.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"status":%q}`, rec.Status),
	})

	s.log.Info("recommendation reviewed",
		zap.String("recommendation_id", rec.ID.String()),
		zap.String("doctor_id", doctorID.String()),
		zap.String("status", string(rec.Status)))

	return rec, nil
}
