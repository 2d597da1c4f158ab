package v1

import (
	"time"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/assignment"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/doctor"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/service"
	"github.com/gin-gonic/gin"
)

type DoctorHandler struct {
	doctorSvc *service.DoctorService
	reportSvc *service.ReportService
}

func NewDoctorHandler(doctorSvc *service.DoctorService, reportSvc *service.ReportService) *DoctorHandler {
	return &DoctorHandler{doctorSvc: doctorSvc, reportSvc: reportSvc}
}

type doctorResponse struct {
	DoctorID             string     `json:"doctor_id"`
	MedicalLicenseNumber string     `json:"medical_license_number"`
	Specialization       string     `json:"specialization"`
	ContactNumber        string     `json:"contact_number"`
	HospitalAffiliation  string     `json:"hospital_affiliation"`
	IsAvailable          bool       `json:"is_available"`
	LastAssignmentDate   *time.Time `json:"last_assignment_date"`
}

func toDoctorResponse(d *doctor.Doctor) doctorResponse {
	return doctorResponse{
		DoctorID:             d.ID.String(),
		MedicalLicenseNumber: d.MedicalLicenseNumber,
		Specialization:       d.Specialization,
		ContactNumber:        d.ContactNumber,
		HospitalAffiliation:  d.HospitalAffiliation,
		IsAvailable:          d.IsAvailable,
		LastAssignmentDate:   d.LastAssignmentDate,
	}
}

func (h *DoctorHandler) GetProfile(c *gin.Context) {
	doctorID, ok := callerID(c)
	if !ok {
		return
	}

	d, err := h.doctorSvc.GetProfile(c.Request.Context(), doctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toDoctorResponse(d))
}

type updateProfileRequest struct {
	MedicalLicenseNumber *string `json:"medical_license_number"`
	Specialization       *string `json:"specialization"`
	ContactNumber        *string `json:"contact_number"`
	HospitalAffiliation  *string `json:"hospital_affiliation"`
}

func (h *DoctorHandler) UpdateProfile(c *gin.Context) {
	doctorID, ok := callerID(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.doctorSvc.UpdateProfile(c.Request.Context(), doctorID, &doctor.UpdateDoctorCommand{
		MedicalLicenseNumber: req.MedicalLicenseNumber,
		Specialization:       req.Specialization,
		ContactNumber:        req.ContactNumber,
		HospitalAffiliation:  req.HospitalAffiliation,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toDoctorResponse(d))
}

type availabilityRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

func (h *DoctorHandler) SetAvailability(c *gin.Context) {
	doctorID, ok := callerID(c)
	if !ok {
		return
	}

	var req availabilityRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.doctorSvc.SetAvailability(c.Request.Context(), doctorID, *req.IsAvailable); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"is_available": *req.IsAvailable})
}

func (h *DoctorHandler) Dashboard(c *gin.Context) {
	doctorID, ok := callerID(c)
	if !ok {
		return
	}

	overview, err := h.doctorSvc.DashboardOverview(c.Request.Context(), doctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, overview)
}

type assignedPatientResponse struct {
	PatientID  string    `json:"patient_id"`
	AssignedAt time.Time `json:"assigned_at"`
}

func toAssignedPatients(mappings []*assignment.PatientDoctorMapping) []assignedPatientResponse {
	out := make([]assignedPatientResponse, 0, len(mappings))
	for _, m := range mappings {
		out = append(out, assignedPatientResponse{
			PatientID:  m.PatientID.String(),
			AssignedAt: m.AssignedAt,
		})
	}
	return out
}

func (h *DoctorHandler) AssignedPatients(c *gin.Context) {
	doctorID, ok := callerID(c)
	if !ok {
		return
	}

	limit := parseQueryInt(c, "limit", 50)
	offset := parseQueryInt(c, "offset", 0)

	mappings, err := h.doctorSvc.AssignedPatients(c.Request.Context(), doctorID, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toAssignedPatients(mappings))
}

// AssignedReports lists reports routed to the authenticated doctor.
func (h *DoctorHandler) AssignedReports(c *gin.Context) {
	doctorID, ok := callerID(c)
	if !ok {
		return
	}

	page := parseQueryInt(c, "page", 1)
	pageSize := parseQueryInt(c, "page_size", 20)

	paged, err := h.reportSvc.ListForDoctor(c.Request.Context(), doctorID, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	reports := make([]reportResponse, 0, len(paged.Reports))
	for _, r := range paged.Reports {
		reports = append(reports, toReportResponse(r))
	}

	respondOK(c, gin.H{
		"reports":     reports,
		"total_count": paged.TotalCount,
		"page":        paged.Page,
		"page_size":   paged.PageSize,
		"total_pages": paged.TotalPages,
	})
}
