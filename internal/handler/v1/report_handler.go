package v1

import (
	"io"
	"net/http"
	"time"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/report"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxUploadBytes caps report documents at 10 MiB.
const maxUploadBytes = 10 << 20

type ReportHandler struct {
	reportSvc *service.ReportService
}

func NewReportHandler(reportSvc *service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

type reportResponse struct {
	ReportID         string                `json:"report_id"`
	PatientID        string                `json:"patient_id"`
	ReportType       *string               `json:"report_type"`
	FileName         string                `json:"file_name"`
	FileType         string                `json:"file_type"`
	ProcessingStatus string                `json:"processing_status"`
	AssignedDoctorID *string               `json:"assigned_doctor_id"`
	ExtractedData    *report.ExtractedData `json:"extracted_data,omitempty"`
	UploadDate       time.Time             `json:"upload_date"`
}

func toReportResponse(r *report.HealthReport) reportResponse {
	resp := reportResponse{
		ReportID:         r.ID.String(),
		PatientID:        r.PatientID.String(),
		ReportType:       r.ReportType,
		FileName:         r.FileName,
		FileType:         r.FileType,
		ProcessingStatus: string(r.ProcessingStatus),
		ExtractedData:    r.ExtractedData,
		UploadDate:       r.CreatedAt,
	}
	if r.AssignedDoctorID != nil {
		s := r.AssignedDoctorID.String()
		resp.AssignedDoctorID = &s
	}
	return resp
}

type uploadResponse struct {
	Report   reportResponse          `json:"report"`
	Pipeline *service.PipelineResult `json:"pipeline"`
}

// Upload accepts a multipart form with the report file, the target patient id,
// and an optional declared report type, then runs the processing pipeline
// synchronously.
func (h *ReportHandler) Upload(c *gin.Context) {
	uploaderID, ok := callerID(c)
	if !ok {
		return
	}

	patientID, err := uuid.Parse(c.PostForm("patient_id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid patient_id: must be a valid UUID")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "missing file upload")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		respondError(c, http.StatusRequestEntityTooLarge, "file exceeds upload size limit")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "unreadable file upload")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		respondError(c, http.StatusBadRequest, "reading file upload failed")
		return
	}
	if int64(len(data)) > maxUploadBytes {
		respondError(c, http.StatusRequestEntityTooLarge, "file exceeds upload size limit")
		return
	}

	var reportType *string
	if rt := c.PostForm("report_type"); rt != "" {
		reportType = &rt
	}

	rpt, pipeline, err := h.reportSvc.Upload(c.Request.Context(), &service.UploadReportCommand{
		PatientID:  patientID,
		UploadedBy: uploaderID,
		ReportType: reportType,
		FileName:   fileHeader.Filename,
		Data:       data,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, uploadResponse{
		Report:   toReportResponse(rpt),
		Pipeline: pipeline,
	})
}

func (h *ReportHandler) GetByID(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	rpt, err := h.reportSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toReportResponse(rpt))
}

func (h *ReportHandler) ListForPatient(c *gin.Context) {
	patientID, ok := parseUUID(c, "patientID")
	if !ok {
		return
	}

	page := parseQueryInt(c, "page", 1)
	pageSize := parseQueryInt(c, "page_size", 20)

	paged, err := h.reportSvc.ListForPatient(c.Request.Context(), patientID, page, pageSize)
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

// Process re-runs the pipeline for a report, picking up from whatever status
// it is parked on.
func (h *ReportHandler) Process(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	res := h.reportSvc.Reprocess(c.Request.Context(), id)
	respondOK(c, res)
}

type overrideStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *ReportHandler) OverrideStatus(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	caller, ok := callerID(c)
	if !ok {
		return
	}

	var req overrideStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	rpt, err := h.reportSvc.OverrideStatus(c.Request.Context(), id, report.ProcessingStatus(req.Status), caller, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toReportResponse(rpt))
}

func (h *ReportHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	caller, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.reportSvc.Delete(c.Request.Context(), id, caller, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
