package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/report"
	"github.com/SUDAR2106/RemedyLabBackEnd/pkg/metrics"
	"github.com/SUDAR2106/RemedyLabBackEnd/pkg/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportService handles report intake and queries. Upload persists the file,
// creates the row with status uploaded, then hands off to the pipeline.
type ReportService struct {
	repo     report.Repository
	files    storage.FileStore
	pipeline *PipelineService
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewReportService(
	repo report.Repository,
	files storage.FileStore,
	pipeline *PipelineService,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *ReportService {
	return &ReportService{repo: repo, files: files, pipeline: pipeline, auditSvc: auditSvc, metrics: collector, log: log}
}

type UploadReportCommand struct {
	PatientID  uuid.UUID
	UploadedBy uuid.UUID
	ReportType *string
	FileName   string
	Data       []byte
}

// Upload stores the document, creates the report row and runs the processing
// pipeline synchronously. The pipeline result is returned alongside the
// report; a pipeline failure is not an upload failure.
func (s *ReportService) Upload(ctx context.Context, cmd *UploadReportCommand, ip string) (*report.HealthReport, *PipelineResult, error) {
	var fields []string
	if cmd.FileName == "" {
		fields = append(fields, "file_name is required")
	}
	if len(cmd.Data) == 0 {
		fields = append(fields, "file content is empty")
	}
	if len(fields) > 0 {
		return nil, nil, &ValidationError{Fields: fields}
	}

	key := fmt.Sprintf("%s/%s_%s", cmd.PatientID, uuid.NewString()[:8], filepath.Base(cmd.FileName))
	path, err := s.files.Save(ctx, key, cmd.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("storing report file: %w", err)
	}

	rpt := &report.HealthReport{
		PatientID:        cmd.PatientID,
		UploadedBy:       cmd.UploadedBy,
		ReportType:       cmd.ReportType,
		FileName:         filepath.Base(cmd.FileName),
		FilePath:         path,
		FileType:         strings.TrimPrefix(strings.ToLower(filepath.Ext(cmd.FileName)), "."),
		ProcessingStatus: report.StatusUploaded,
	}
	if err := s.repo.Create(ctx, rpt); err != nil {
		return nil, nil, fmt.Errorf("creating report record: %w", err)
	}

	if s.metrics != nil {
		s.metrics.ReportsUploadedTotal.Inc()
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: cmd.UploadedBy, UserRole: "patient",
		Action: "create", ResourceType: "health_report", ResourceID: rpt.ID.String(), IPAddress: ip,
	})

	res := s.pipeline.ProcessReport(ctx, rpt.ID)

	// Reload so the caller sees the post-pipeline state.
	fresh, err := s.repo.GetByID(ctx, rpt.ID)
	if err != nil {
		return rpt, res, nil
	}
	return fresh, res, nil
}

func (s *ReportService) GetByID(ctx context.Context, id uuid.UUID) (*report.HealthReport, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ReportService) ListForPatient(ctx context.Context, patientID uuid.UUID, page, pageSize int) (*report.PagedReports, error) {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}
	return s.repo.List(ctx, &report.ListReportsQuery{
		PatientID: &patientID,
		Page:      page,
		PageSize:  pageSize,
	})
}

func (s *ReportService) ListForDoctor(ctx context.Context, doctorID uuid.UUID, page, pageSize int) (*report.PagedReports, error) {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}
	return s.repo.List(ctx, &report.ListReportsQuery{
		AssignedDoctorID: &doctorID,
		Page:             page,
		PageSize:         pageSize,
	})
}

// Reprocess re-runs the pipeline for a parked report.
func (s *ReportService) Reprocess(ctx context.Context, id uuid.UUID) *PipelineResult {
	return s.pipeline.ProcessReport(ctx, id)
}

// OverrideStatus is the administrative escape hatch for stuck reports. The
// transition must still be one the state machine allows.
func (s *ReportService) OverrideStatus(ctx context.Context, id uuid.UUID, status report.ProcessingStatus, callerID uuid.UUID, ip string) (*report.HealthReport, error) {
	rpt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rpt.SetStatus(status); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, rpt); err != nil {
		return nil, fmt.Errorf("updating report status: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: "admin",
		Action: "update", ResourceType: "health_report", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"processing_status":%q}`, status),
	})
	return rpt, nil
}

// Delete soft-deletes a report. Administrative action; the pipeline itself
// never deletes.
func (s *ReportService) Delete(ctx context.Context, id uuid.UUID, callerID uuid.UUID, ip string) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: "admin",
		Action: "delete", ResourceType: "health_report", ResourceID: id.String(), IPAddress: ip,
	})
	return nil
}
