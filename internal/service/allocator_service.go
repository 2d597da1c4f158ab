package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/assignment"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/doctor"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/report"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/specialist"
	"github.com/SUDAR2106/RemedyLabBackEnd/pkg/metrics"
	"go.uber.org/zap"
)

// AllocatorService resolves the specialization a report needs and binds the
// least-recently-assigned available doctor to it.
type AllocatorService struct {
	reportRepo     report.Repository
	doctorRepo     doctor.Repository
	assignmentRepo assignment.Repository
	specialistRepo specialist.Repository
	metrics        *metrics.Collector
	log            *zap.Logger

	fallbackSpecialization string
}

func NewAllocatorService(
	reportRepo report.Repository,
	doctorRepo doctor.Repository,
	assignmentRepo assignment.Repository,
	specialistRepo specialist.Repository,
	collector *metrics.Collector,
	log *zap.Logger,
	fallbackSpecialization string,
) *AllocatorService {
	if fallbackSpecialization == "" {
		fallbackSpecialization = "General Physician"
	}
	return &AllocatorService{
		reportRepo:             reportRepo,
		doctorRepo:             doctorRepo,
		assignmentRepo:         assignmentRepo,
		specialistRepo:         specialistRepo,
		metrics:                collector,
		log:                    log,
		fallbackSpecialization: fallbackSpecialization,
	}
}

// ResolveSpecialization determines which specialization should review the
// report: direct mapping on the declared type first, then inference from
// extracted metric names, then the configured fallback. It never fails.
func (s *AllocatorService) ResolveSpecialization(ctx context.Context, rpt *report.HealthReport) string {
	if rpt.ReportType != nil && *rpt.ReportType != "" {
		if spec, err := s.specialistRepo.GetSpecialization(ctx, *rpt.ReportType); err == nil {
			return spec
		} else if !errors.Is(err, specialist.ErrMappingNotFound) {
			s.log.Warn("specialist mapping lookup failed",
				zap.String("report_type", *rpt.ReportType), zap.Error(err))
		}
	}

	if rpt.ExtractedData != nil && len(rpt.ExtractedData.Metrics) > 0 {
		inferred := inferReportType(rpt.ExtractedData.Metrics)
		if spec, err := s.specialistRepo.GetSpecialization(ctx, inferred); err == nil {
			s.log.Info("specialization inferred from extracted metrics",
				zap.String("report_id", rpt.ID.String()),
				zap.String("inferred_type", inferred),
				zap.String("specialization", spec))
			return spec
		}
	}

	return s.fallbackSpecialization
}

// inferReportType sniffs well-known metric names to classify an untyped
// report. The keyword table is illustrative policy, not a contract.
func inferReportType(m map[string]report.Metric) string {
	has := func(names ...string) bool {
		for _, n := range names {
			if _, ok := m[n]; ok {
				return true
			}
		}
		return false
	}

	switch {
	case has("Total Cholesterol", "LDL", "HDL", "Triglycerides"):
		return "Lipid Profile"
	case has("TSH", "T3", "T4"):
		return "Thyroid Function Test"
	case has("Glucose", "HbA1c"):
		return "Diabetes Report"
	case has("Creatinine", "Urea", "eGFR"):
		return "Kidney Function Test"
	case has("ALT", "AST", "Bilirubin"):
		return "Liver Function Test"
	default:
		return "General Checkup"
	}
}

// AssignDoctor selects and durably binds a doctor to the report. On a report
// that already carries an assignment it is a no-op returning the bound
// doctor. When no doctor is available at all, the report is parked on
// pending_manual_assignment and doctor.ErrNoDoctorAvailable is returned,
// an expected and retryable outcome.
func (s *AllocatorService) AssignDoctor(ctx context.Context, rpt *report.HealthReport) (*doctor.Doctor, error) {
	if rpt.IsAssigned() {
		d, err := s.doctorRepo.GetByID(ctx, *rpt.AssignedDoctorID)
		if err != nil {
			return nil, fmt.Errorf("loading already-assigned doctor: %w", err)
		}
		return d, nil
	}

	specialization := s.ResolveSpecialization(ctx, rpt)

	// Specialist match first; fall back to any available doctor. The claim
	// stamps last_assignment_date inside the selection transaction.
	outcome := "specialist"
	d, err := s.doctorRepo.ClaimLeastRecentlyAssigned(ctx, specialization)
	if errors.Is(err, doctor.ErrNoDoctorAvailable) {
		outcome = "fallback"
		d, err = s.doctorRepo.ClaimLeastRecentlyAssigned(ctx, "")
	}
	if errors.Is(err, doctor.ErrNoDoctorAvailable) {
		s.log.Warn("no doctor available, report needs manual assignment",
			zap.String("report_id", rpt.ID.String()),
			zap.String("specialization", specialization))
		if serr := rpt.SetStatus(report.StatusPendingManualAssignment); serr != nil {
			return nil, serr
		}
		if serr := s.reportRepo.Update(ctx, rpt); serr != nil {
			return nil, fmt.Errorf("parking report for manual assignment: %w", serr)
		}
		if s.metrics != nil {
			s.metrics.AllocationsTotal.WithLabelValues("manual_pending").Inc()
		}
		return nil, doctor.ErrNoDoctorAvailable
	}
	if err != nil {
		return nil, fmt.Errorf("claiming doctor: %w", err)
	}

	if err := rpt.AssignDoctor(d.ID); err != nil {
		return nil, err
	}
	if err := s.reportRepo.Update(ctx, rpt); err != nil {
		return nil, fmt.Errorf("saving doctor assignment: %w", err)
	}

	// Mapping creation failure is not fatal to the pipeline: the report
	// already carries the assignment, and Activate is safe to retry.
	if _, err := s.assignmentRepo.Activate(ctx, rpt.PatientID, d.ID); err != nil {
		s.log.Error("failed to activate patient-doctor mapping",
			zap.String("patient_id", rpt.PatientID.String()),
			zap.String("doctor_id", d.ID.String()),
			zap.Error(err))
	}

	if s.metrics != nil {
		s.metrics.AllocationsTotal.WithLabelValues(outcome).Inc()
	}

	s.log.Info("doctor assigned to report",
		zap.String("report_id", rpt.ID.String()),
		zap.String("doctor_id", d.ID.String()),
		zap.String("specialization", d.Specialization))

	return d, nil
}
