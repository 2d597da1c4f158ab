package service

import (
	"context"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/ai"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/assignment"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/doctor"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/recommendation"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/report"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/specialist"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/extraction"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockReportRepository implements report.Repository for testing
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, r *report.HealthReport) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*report.HealthReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.HealthReport), args.Error(1)
}

func (m *MockReportRepository) Update(ctx context.Context, r *report.HealthReport) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReportRepository) List(ctx context.Context, q *report.ListReportsQuery) (*report.PagedReports, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.PagedReports), args.Error(1)
}

func (m *MockReportRepository) ListByStatuses(ctx context.Context, statuses []report.ProcessingStatus, limit int) ([]*report.HealthReport, error) {
	args := m.Called(ctx, statuses, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*report.HealthReport), args.Error(1)
}

func (m *MockReportRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockDoctorRepository implements doctor.Repository for testing
type MockDoctorRepository struct {
	mock.Mock
}

func (m *MockDoctorRepository) Create(ctx context.Context, d *doctor.Doctor) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDoctorRepository) GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*doctor.Doctor), args.Error(1)
}

func (m *MockDoctorRepository) Update(ctx context.Context, id uuid.UUID, cmd *doctor.UpdateDoctorCommand) (*doctor.Doctor, error) {
	args := m.Called(ctx, id, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*doctor.Doctor), args.Error(1)
}

func (m *MockDoctorRepository) UpdateAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	args := m.Called(ctx, id, available)
	return args.Error(0)
}

func (m *MockDoctorRepository) ClaimLeastRecentlyAssigned(ctx context.Context, specialization string) (*doctor.Doctor, error) {
	args := m.Called(ctx, specialization)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*doctor.Doctor), args.Error(1)
}

func (m *MockDoctorRepository) ListAvailable(ctx context.Context, specialization string) ([]*doctor.Doctor, error) {
	args := m.Called(ctx, specialization)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*doctor.Doctor), args.Error(1)
}

// MockAssignmentRepository implements assignment.Repository for testing
type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) Activate(ctx context.Context, patientID, doctorID uuid.UUID) (*assignment.PatientDoctorMapping, error) {
	args := m.Called(ctx, patientID, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.PatientDoctorMapping), args.Error(1)
}

func (m *MockAssignmentRepository) Deactivate(ctx context.Context, patientID, doctorID uuid.UUID) error {
	args := m.Called(ctx, patientID, doctorID)
	return args.Error(0)
}

func (m *MockAssignmentRepository) FindActive(ctx context.Context, patientID, doctorID uuid.UUID) (*assignment.PatientDoctorMapping, error) {
	args := m.Called(ctx, patientID, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.PatientDoctorMapping), args.Error(1)
}

func (m *MockAssignmentRepository) ListPatientsForDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*assignment.PatientDoctorMapping, error) {
	args := m.Called(ctx, doctorID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*assignment.PatientDoctorMapping), args.Error(1)
}

func (m *MockAssignmentRepository) CountActiveForDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error) {
	args := m.Called(ctx, doctorID)
	return args.Get(0).(int64), args.Error(1)
}

// MockSpecialistRepository implements specialist.Repository for testing
type MockSpecialistRepository struct {
	mock.Mock
}

func (m *MockSpecialistRepository) GetSpecialization(ctx context.Context, reportType string) (string, error) {
	args := m.Called(ctx, reportType)
	return args.String(0), args.Error(1)
}

func (m *MockSpecialistRepository) Seed(ctx context.Context, mappings []specialist.Mapping) error {
	args := m.Called(ctx, mappings)
	return args.Error(0)
}

// MockRecommendationRepository implements recommendation.Repository for testing
type MockRecommendationRepository struct {
	mock.Mock
}

func (m *MockRecommendationRepository) Create(ctx context.Context, r *recommendation.Recommendation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRecommendationRepository) GetByID(ctx context.Context, id uuid.UUID) (*recommendation.Recommendation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recommendation.Recommendation), args.Error(1)
}

func (m *MockRecommendationRepository) GetByReportID(ctx context.Context, reportID uuid.UUID) (*recommendation.Recommendation, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recommendation.Recommendation), args.Error(1)
}

func (m *MockRecommendationRepository) Update(ctx context.Context, r *recommendation.Recommendation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRecommendationRepository) List(ctx context.Context, q *recommendation.ListRecommendationsQuery) ([]*recommendation.Recommendation, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*recommendation.Recommendation), args.Error(1)
}

func (m *MockRecommendationRepository) CountByDoctorAndStatuses(ctx context.Context, doctorID uuid.UUID, statuses []recommendation.ReviewStatus) (int64, error) {
	args := m.Called(ctx, doctorID, statuses)
	return args.Get(0).(int64), args.Error(1)
}

// MockExtractor implements extraction.Extractor for testing
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, filePath string) (*extraction.Result, error) {
	args := m.Called(ctx, filePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*extraction.Result), args.Error(1)
}

// MockGenerator implements ai.Generator for testing
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, extracted *extraction.Result) (*ai.Draft, error) {
	args := m.Called(ctx, extracted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ai.Draft), args.Error(1)
}

// noopAuditRepo satisfies AuditRepository without persistence.
type noopAuditRepo struct{}

func (noopAuditRepo) Create(context.Context, *domain.AuditLog) error { return nil }

func newTestAuditService() *AuditService {
	return NewAuditService(noopAuditRepo{}, nil, zap.NewNop())
}
