package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/ai"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/doctor"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/recommendation"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/report"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/extraction"
	"github.com/SUDAR2106/RemedyLabBackEnd/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Pipeline step names reported in PipelineResult.Step.
const (
	StepLoadReport         = "load_report"
	StepExtract            = "extract"
	StepDoctorAssignment   = "doctor_assignment"
	StepAIGeneration       = "ai_generation"
	StepSaveRecommendation = "save_recommendation"
)

// PipelineResult is the structured outcome of one pipeline run. Success is
// true only when the report reached pending_doctor_review; otherwise Step
// names the stage that stopped the run and Status the status the report was
// left on. The report always lands on an enumerated status either way.
type PipelineResult struct {
	Success          bool                    `json:"success"`
	Step             string                  `json:"step,omitempty"`
	Error            string                  `json:"error,omitempty"`
	ReportID         uuid.UUID               `json:"report_id"`
	Status           report.ProcessingStatus `json:"status"`
	AssignedDoctorID *uuid.UUID              `json:"assigned_doctor_id,omitempty"`
	RecommendationID *uuid.UUID              `json:"recommendation_id,omitempty"`
}

// PipelineService drives a report through extraction, doctor allocation, AI
// draft generation and recommendation persistence, writing a terminal status
// after every stage so a crash leaves the report resumable.
type PipelineService struct {
	reportRepo report.Repository
	recRepo    recommendation.Repository
	allocator  *AllocatorService
	extractor  extraction.Extractor
	generator  ai.Generator
	metrics    *metrics.Collector
	log        *zap.Logger

	minRawTextLen int

	// group serializes pipeline runs per report id: a retry fired while the
	// first run is in flight joins it instead of racing it.
	group singleflight.Group
}

func NewPipelineService(
	reportRepo report.Repository,
	recRepo recommendation.Repository,
	allocator *AllocatorService,
	extractor extraction.Extractor,
	generator ai.Generator,
	collector *metrics.Collector,
	log *zap.Logger,
	minRawTextLen int,
) *PipelineService {
	if minRawTextLen <= 0 {
		minRawTextLen = 20
	}
	return &PipelineService{
		reportRepo:    reportRepo,
		recRepo:       recRepo,
		allocator:     allocator,
		extractor:     extractor,
		generator:     generator,
		metrics:       collector,
		log:           log,
		minRawTextLen: minRawTextLen,
	}
}

// ProcessReport runs the full pipeline for one report. At most one run per
// report id is in flight at a time; concurrent callers share the result. The
// run is detached from the first caller's cancellation so joined callers are
// not failed by a request that gave up mid-run.
func (s *PipelineService) ProcessReport(ctx context.Context, reportID uuid.UUID) *PipelineResult {
	runCtx := context.WithoutCancel(ctx)
	v, _, _ := s.group.Do(reportID.String(), func() (interface{}, error) {
		return s.run(runCtx, reportID), nil
	})
	res := v.(*PipelineResult)
	if s.metrics != nil {
		s.metrics.PipelineRunsTotal.WithLabelValues(string(res.Status)).Inc()
	}
	return res
}

func (s *PipelineService) run(ctx context.Context, reportID uuid.UUID) *PipelineResult {
	rpt, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return &PipelineResult{
			Success:  false,
			Step:     StepLoadReport,
			Error:    err.Error(),
			ReportID: reportID,
		}
	}

	s.log.Info("processing report",
		zap.String("report_id", rpt.ID.String()),
		zap.String("file_name", rpt.FileName),
		zap.String("status", string(rpt.ProcessingStatus)))

	// Stage 1: extraction. Runs for fresh or previously failed reports;
	// re-extraction overwrites prior payload. Reports further along reuse
	// their stored payload.
	extracted := storedResult(rpt)
	needsExtraction := rpt.ProcessingStatus == report.StatusUploaded ||
		rpt.ProcessingStatus == report.StatusFailedExtraction ||
		extracted == nil

	if needsExtraction {
		extracted = s.extract(ctx, rpt)
		if extracted == nil {
			if err := s.reportRepo.Update(ctx, rpt); err != nil {
				return s.fail(rpt, StepExtract, fmt.Errorf("saving failed extraction: %w", err))
			}
			return &PipelineResult{
				Success:  false,
				Step:     StepExtract,
				Error:    "extraction produced no usable text",
				ReportID: rpt.ID,
				Status:   rpt.ProcessingStatus,
			}
		}
		if err := s.reportRepo.Update(ctx, rpt); err != nil {
			return s.fail(rpt, StepExtract, fmt.Errorf("saving extracted data: %w", err))
		}
	}

	// Stage 2: doctor allocation. No-op when the report is already bound.
	if _, err := s.allocator.AssignDoctor(ctx, rpt); err != nil {
		if errors.Is(err, doctor.ErrNoDoctorAvailable) {
			return &PipelineResult{
				Success:  false,
				Step:     StepDoctorAssignment,
				Error:    "no suitable doctor could be assigned",
				ReportID: rpt.ID,
				Status:   rpt.ProcessingStatus,
			}
		}
		return s.fail(rpt, StepDoctorAssignment, err)
	}

	// Stage 3: AI draft + recommendation persistence.
	return s.generateRecommendation(ctx, rpt, extracted)
}

// extract runs the extraction adapter and moves the report to extracted or
// failed_extraction. Returns nil when extraction produced no usable text; the
// adapter's error is recorded on the report rather than propagated.
func (s *PipelineService) extract(ctx context.Context, rpt *report.HealthReport) *extraction.Result {
	res, err := s.extractor.Extract(ctx, rpt.FilePath)
	if err != nil {
		s.log.Warn("document extraction failed",
			zap.String("report_id", rpt.ID.String()), zap.Error(err))
		_ = rpt.SetStatus(report.StatusFailedExtraction)
		rpt.ExtractedData = &report.ExtractedData{Errors: []string{err.Error()}}
		return nil
	}

	if len([]rune(strings.TrimSpace(res.RawText))) < s.minRawTextLen {
		s.log.Warn("insufficient text extracted",
			zap.String("report_id", rpt.ID.String()),
			zap.Int("raw_text_len", len(res.RawText)))
		_ = rpt.SetStatus(report.StatusFailedExtraction)
		rpt.ExtractedData = &report.ExtractedData{
			RawText: res.RawText,
			Errors:  append(res.Errors, "insufficient text extracted from document"),
		}
		return nil
	}

	_ = rpt.SetStatus(report.StatusExtracted)
	rpt.ExtractedData = &report.ExtractedData{
		PatientInfo: res.PatientInfo,
		Metrics:     res.Metrics,
		RawText:     res.RawText,
		Errors:      res.Errors,
	}
	return res
}

func (s *PipelineService) generateRecommendation(ctx context.Context, rpt *report.HealthReport, extracted *extraction.Result) *PipelineResult {
	if s.generator == nil {
		// AI engine not wired in this deployment; the assignment stands.
		if err := s.park(ctx, rpt, report.StatusDoctorAssignedNoAI); err != nil {
			return s.fail(rpt, StepAIGeneration, err)
		}
		return &PipelineResult{
			Success:          false,
			Step:             StepAIGeneration,
			Error:            "AI recommendation engine unavailable",
			ReportID:         rpt.ID,
			Status:           rpt.ProcessingStatus,
			AssignedDoctorID: rpt.AssignedDoctorID,
		}
	}

	draft, err := s.generator.Generate(ctx, extracted)
	if err != nil {
		s.log.Error("AI recommendation generation failed",
			zap.String("report_id", rpt.ID.String()), zap.Error(err))
		if perr := s.park(ctx, rpt, report.StatusAIGenerationFailed); perr != nil {
			return s.fail(rpt, StepAIGeneration, perr)
		}
		return &PipelineResult{
			Success:          false,
			Step:             StepAIGeneration,
			Error:            err.Error(),
			ReportID:         rpt.ID,
			Status:           rpt.ProcessingStatus,
			AssignedDoctorID: rpt.AssignedDoctorID,
		}
	}

	if draft == nil {
		s.log.Warn("AI engine returned no data", zap.String("report_id", rpt.ID.String()))
		if perr := s.park(ctx, rpt, report.StatusPendingAIAnalysis); perr != nil {
			return s.fail(rpt, StepAIGeneration, perr)
		}
		return &PipelineResult{
			Success:          false,
			Step:             StepAIGeneration,
			Error:            "AI engine returned no data",
			ReportID:         rpt.ID,
			Status:           rpt.ProcessingStatus,
			AssignedDoctorID: rpt.AssignedDoctorID,
		}
	}

	rec, err := s.recRepo.GetByReportID(ctx, rpt.ID)
	switch {
	case err == nil:
		if uerr := rec.MarkPendingReview(*rpt.AssignedDoctorID, draft.TreatmentSuggestions, draft.LifestyleRecommendations, draft.Priority); uerr != nil {
			return s.fail(rpt, StepSaveRecommendation, uerr)
		}
		if uerr := s.recRepo.Update(ctx, rec); uerr != nil {
			return s.fail(rpt, StepSaveRecommendation, fmt.Errorf("updating recommendation: %w", uerr))
		}
	case errors.Is(err, recommendation.ErrRecommendationNotFound):
		rec = &recommendation.Recommendation{
			ReportID:             rpt.ID,
			PatientID:            rpt.PatientID,
			DoctorID:             rpt.AssignedDoctorID,
			AIGeneratedTreatment: draft.TreatmentSuggestions,
			AIGeneratedLifestyle: draft.LifestyleRecommendations,
			AIGeneratedPriority:  draft.Priority,
			Status:               recommendation.StatusPendingReview,
		}
		if cerr := s.recRepo.Create(ctx, rec); cerr != nil {
			return s.fail(rpt, StepSaveRecommendation, fmt.Errorf("creating recommendation: %w", cerr))
		}
	default:
		return s.fail(rpt, StepSaveRecommendation, fmt.Errorf("loading recommendation: %w", err))
	}

	if err := s.park(ctx, rpt, report.StatusPendingDoctorReview); err != nil {
		return s.fail(rpt, StepSaveRecommendation, err)
	}

	s.log.Info("report ready for doctor review",
		zap.String("report_id", rpt.ID.String()),
		zap.String("recommendation_id", rec.ID.String()),
		zap.String("priority", draft.Priority))

	return &PipelineResult{
		Success:          true,
		ReportID:         rpt.ID,
		Status:           rpt.ProcessingStatus,
		AssignedDoctorID: rpt.AssignedDoctorID,
		RecommendationID: &rec.ID,
	}
}

// park moves the report to a stage-terminal status and persists it.
func (s *PipelineService) park(ctx context.Context, rpt *report.HealthReport, status report.ProcessingStatus) error {
	if err := rpt.SetStatus(status); err != nil {
		return err
	}
	return s.reportRepo.Update(ctx, rpt)
}

// fail reports an unexpected stage failure without touching the report's
// last persisted status.
func (s *PipelineService) fail(rpt *report.HealthReport, step string, err error) *PipelineResult {
	s.log.Error("pipeline stage failed",
		zap.String("report_id", rpt.ID.String()),
		zap.String("step", step),
		zap.Error(err))
	return &PipelineResult{
		Success:          false,
		Step:             step,
		Error:            err.Error(),
		ReportID:         rpt.ID,
		Status:           rpt.ProcessingStatus,
		AssignedDoctorID: rpt.AssignedDoctorID,
	}
}

// RetrySweep re-drives reports parked on retryable statuses. Returns how
// many reports were re-processed.
func (s *PipelineService) RetrySweep(ctx context.Context, limit int) int {
	retryable := []report.ProcessingStatus{
		report.StatusPendingManualAssignment,
		report.StatusPendingAIAnalysis,
		report.StatusAIGenerationFailed,
		report.StatusDoctorAssignedNoAI,
	}

	reports, err := s.reportRepo.ListByStatuses(ctx, retryable, limit)
	if err != nil {
		s.log.Error("retry sweep query failed", zap.Error(err))
		return 0
	}

	processed := 0
	for _, rpt := range reports {
		res := s.ProcessReport(ctx, rpt.ID)
		processed++
		if res.Success {
			s.log.Info("retry sweep recovered report", zap.String("report_id", rpt.ID.String()))
		}
	}
	return processed
}

func storedResult(rpt *report.HealthReport) *extraction.Result {
	d := rpt.ExtractedData
	if d == nil || d.RawText == "" {
		return nil
	}
	return &extraction.Result{
		PatientInfo: d.PatientInfo,
		Metrics:     d.Metrics,
		RawText:     d.RawText,
		Errors:      d.Errors,
	}
}
