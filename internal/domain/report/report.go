package report

import (
	"time"

	"github.com/google/uuid"
)

// ProcessingStatus tracks how far a health report has travelled through the
// extraction → allocation → AI-draft pipeline.
//
// State transitions possibilities:
//
//	uploaded → extracted | failed_extraction
//	extracted → doctor_assigned | pending_manual_assignment
//	doctor_assigned → pending_doctor_review | pending_ai_analysis |
//	                  ai_generation_failed | doctor_assigned_no_ai
//
// pending_doctor_review is the pipeline's terminal success state; every other
// end state marks a stage that needs a retry or manual handling.
type ProcessingStatus string

const (
	StatusUploaded                ProcessingStatus = "uploaded"
	StatusExtracted               ProcessingStatus = "extracted"
	StatusFailedExtraction        ProcessingStatus = "failed_extraction"
	StatusDoctorAssigned          ProcessingStatus = "doctor_assigned"
	StatusPendingManualAssignment ProcessingStatus = "pending_manual_assignment"
	StatusPendingDoctorReview     ProcessingStatus = "pending_doctor_review"
	StatusPendingAIAnalysis       ProcessingStatus = "pending_ai_analysis"
	StatusAIGenerationFailed      ProcessingStatus = "ai_generation_failed"
	StatusDoctorAssignedNoAI      ProcessingStatus = "doctor_assigned_no_ai"
)

func (s ProcessingStatus) IsValid() bool {
	switch s {
	case StatusUploaded, StatusExtracted, StatusFailedExtraction,
		StatusDoctorAssigned, StatusPendingManualAssignment,
		StatusPendingDoctorReview, StatusPendingAIAnalysis,
		StatusAIGenerationFailed, StatusDoctorAssignedNoAI:
		return true
	}
	return false
}

func (s ProcessingStatus) CanTransitionTo(next ProcessingStatus) bool {
	allowed := map[ProcessingStatus][]ProcessingStatus{
		StatusUploaded:  {StatusExtracted, StatusFailedExtraction},
		StatusExtracted: {StatusDoctorAssigned, StatusPendingManualAssignment},
		StatusDoctorAssigned: {
			StatusPendingDoctorReview, StatusPendingAIAnalysis,
			StatusAIGenerationFailed, StatusDoctorAssignedNoAI,
		},
		// Retryable end states: extraction may be re-run, allocation and the
		// AI stage may be re-driven by the retry sweep.
		StatusFailedExtraction:        {StatusExtracted, StatusFailedExtraction},
		StatusPendingManualAssignment: {StatusDoctorAssigned, StatusPendingManualAssignment},
		StatusPendingAIAnalysis:       {StatusPendingDoctorReview, StatusPendingAIAnalysis, StatusAIGenerationFailed},
		StatusAIGenerationFailed:      {StatusPendingDoctorReview, StatusPendingAIAnalysis, StatusAIGenerationFailed},
		StatusDoctorAssignedNoAI:      {StatusPendingDoctorReview, StatusPendingAIAnalysis, StatusAIGenerationFailed},
		StatusPendingDoctorReview:     {},
	}

	for _, s2 := range allowed[s] {
		if s2 == next {
			return true
		}
	}
	return false
}

// Metric is one extracted health measurement, e.g. {"190", "mg/dL"}.
type Metric struct {
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

// ExtractedData is the structured payload produced by the document
// extraction adapter, stored on the report once extraction has run.
type ExtractedData struct {
	PatientInfo map[string]string `json:"patient_info"`
	Metrics     map[string]Metric `json:"metrics"`
	RawText     string            `json:"raw_text"`
	Errors      []string          `json:"errors,omitempty"`
}

type HealthReport struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	PatientID  uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	UploadedBy uuid.UUID `gorm:"column:uploaded_by;type:uuid;not null"`

	// ReportType is the type declared by the uploader ("Lipid Profile",
	// "Cardiology Report", ...). May be absent or unrecognized; the
	// allocator then infers one from extracted metrics.
	ReportType *string `gorm:"column:report_type;type:varchar(100);index"`

	FileName string `gorm:"column:file_name;type:varchar(255);not null"`
	FilePath string `gorm:"column:file_path;type:text;not null"`
	FileType string `gorm:"column:file_type;type:varchar(50)"`

	ExtractedData *ExtractedData `gorm:"column:extracted_data;serializer:json"`

	AssignedDoctorID *uuid.UUID       `gorm:"column:assigned_doctor_id;type:uuid;index"`
	ProcessingStatus ProcessingStatus `gorm:"column:processing_status;type:varchar(40);not null;default:'uploaded';index"`
}

func (HealthReport) TableName() string {
	return "clinical.health_reports"
}

func (r *HealthReport) IsAssigned() bool {
	return r.AssignedDoctorID != nil
}

// SetStatus advances the processing status, rejecting transitions the
// pipeline state machine does not allow.
func (r *HealthReport) SetStatus(next ProcessingStatus) error {
	if !next.IsValid() {
		return ErrInvalidStatus
	}
	if r.ProcessingStatus == next {
		return nil
	}
	if !r.ProcessingStatus.CanTransitionTo(next) {
		return ErrInvalidStatusTransition
	}
	r.ProcessingStatus = next
	return nil
}

// AssignDoctor binds a doctor to the report and moves it to doctor_assigned.
// Assigning an already-assigned report is a no-op unless it is the same
// doctor (the pipeline never reassigns).
func (r *HealthReport) AssignDoctor(doctorID uuid.UUID) error {
	if r.AssignedDoctorID != nil {
		if *r.AssignedDoctorID == doctorID {
			return nil
		}
		return ErrAlreadyAssigned
	}
	if err := r.SetStatus(StatusDoctorAssigned); err != nil {
		return err
	}
	r.AssignedDoctorID = &doctorID
	return nil
}

type CreateReportCommand struct {
	PatientID  uuid.UUID
	UploadedBy uuid.UUID
	ReportType *string
	FileName   string
	FilePath   string
	FileType   string
}

type ListReportsQuery struct {
	PatientID        *uuid.UUID
	AssignedDoctorID *uuid.UUID
	ProcessingStatus *ProcessingStatus
	Page             int
	PageSize         int
}

type PagedReports struct {
	Reports    []*HealthReport
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
