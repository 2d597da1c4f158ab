package service

import (
	"context"
	"fmt"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/assignment"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/doctor"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/recommendation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DashboardOverview aggregates a doctor's workload counters.
type DashboardOverview struct {
	PendingReviews   int64 `json:"pending_reviews"`
	ReviewedTotal    int64 `json:"reviewed_total"`
	AssignedPatients int64 `json:"assigned_patients"`
}

type DoctorService struct {
	doctorRepo     doctor.Repository
	assignmentRepo assignment.Repository
	recRepo        recommendation.Repository
	log            *zap.Logger
}

func NewDoctorService(
	doctorRepo doctor.Repository,
	assignmentRepo assignment.Repository,
	recRepo recommendation.Repository,
	log *zap.Logger,
) *DoctorService {
	return &DoctorService{doctorRepo: doctorRepo, assignmentRepo: assignmentRepo, recRepo: recRepo, log: log}
}

func (s *DoctorService) GetProfile(ctx context.Context, doctorID uuid.UUID) (*doctor.Doctor, error) {
	return s.doctorRepo.GetByID(ctx, doctorID)
}

func (s *DoctorService) UpdateProfile(ctx context.Context, doctorID uuid.UUID, cmd *doctor.UpdateDoctorCommand) (*doctor.Doctor, error) {
	return s.doctorRepo.Update(ctx, doctorID, cmd)
}

func (s *DoctorService) SetAvailability(ctx context.Context, doctorID uuid.UUID, available bool) error {
	if err := s.doctorRepo.UpdateAvailability(ctx, doctorID, available); err != nil {
		return fmt.Errorf("updating availability: %w", err)
	}
	s.log.Info("doctor availability changed",
		zap.String("doctor_id", doctorID.String()),
		zap.Bool("is_available", available))
	return nil
}

func (s *DoctorService) DashboardOverview(ctx context.Context, doctorID uuid.UUID) (*DashboardOverview, error) {
	pending, err := s.recRepo.CountByDoctorAndStatuses(ctx, doctorID, []recommendation.ReviewStatus{
		recommendation.StatusAIGenerated,
		recommendation.StatusPendingReview,
	})
	if err != nil {
		return nil, fmt.Errorf("counting pending reviews: %w", err)
	}

	reviewed, err := s.recRepo.CountByDoctorAndStatuses(ctx, doctorID, []recommendation.ReviewStatus{
		recommendation.StatusApproved,
		recommendation.StatusModifiedAndApprove,
		recommendation.StatusRejected,
	})
	if err != nil {
		return nil, fmt.Errorf("counting reviewed recommendations: %w", err)
	}

	patients, err := s.assignmentRepo.CountActiveForDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("counting assigned patients: %w", err)
	}

	return &DashboardOverview{
		PendingReviews:   pending,
		ReviewedTotal:    reviewed,
		AssignedPatients: patients,
	}, nil
}

func (s *DoctorService) AssignedPatients(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*assignment.PatientDoctorMapping, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.assignmentRepo.ListPatientsForDoctor(ctx, doctorID, limit, offset)
}
