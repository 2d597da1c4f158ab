package v1

import (
	"net/http"
	"time"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/recommendation"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/service"
	"github.com/gin-gonic/gin"
)

type RecommendationHandler struct {
	recSvc *service.RecommendationService
}

func NewRecommendationHandler(recSvc *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recSvc: recSvc}
}

type recommendationResponse struct {
	RecommendationID     string     `json:"recommendation_id"`
	ReportID             string     `json:"report_id"`
	PatientID            string     `json:"patient_id"`
	DoctorID             *string    `json:"doctor_id"`
	AIGeneratedTreatment string     `json:"ai_generated_treatment"`
	AIGeneratedLifestyle string     `json:"ai_generated_lifestyle"`
	AIGeneratedPriority  string     `json:"ai_generated_priority"`
	Status               string     `json:"status"`
	DoctorNotes          string     `json:"doctor_notes,omitempty"`
	ApprovedTreatment    *string    `json:"approved_treatment"`
	ApprovedLifestyle    *string    `json:"approved_lifestyle"`
	ReviewedDate         *time.Time `json:"reviewed_date"`
	CreatedAt            time.Time  `json:"created_at"`
}

func toRecommendationResponse(r *recommendation.Recommendation) recommendationResponse {
	resp := recommendationResponse{
		RecommendationID:     r.ID.String(),
		ReportID:             r.ReportID.String(),
		PatientID:            r.PatientID.String(),
		AIGeneratedTreatment: r.AIGeneratedTreatment,
		AIGeneratedLifestyle: r.AIGeneratedLifestyle,
		AIGeneratedPriority:  r.AIGeneratedPriority,
		Status:               string(r.Status),
		DoctorNotes:          r.DoctorNotes,
		ApprovedTreatment:    r.ApprovedTreatment,
		ApprovedLifestyle:    r.ApprovedLifestyle,
		ReviewedDate:         r.ReviewedDate,
		CreatedAt:            r.CreatedAt,
	}
	if r.DoctorID != nil {
		s := r.DoctorID.String()
		resp.DoctorID = &s
	}
	return resp
}

func toRecommendationResponses(recs []*recommendation.Recommendation) []recommendationResponse {
	out := make([]recommendationResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, toRecommendationResponse(r))
	}
	return out
}

func (h *RecommendationHandler) GetByID(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	rec, err := h.recSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toRecommendationResponse(rec))
}

func (h *RecommendationHandler) GetByReportID(c *gin.Context) {
	reportID, ok := parseUUID(c, "reportID")
	if !ok {
		return
	}

	rec, err := h.recSvc.GetByReportID(c.Request.Context(), reportID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toRecommendationResponse(rec))
}

func (h *RecommendationHandler) ListForPatient(c *gin.Context) {
	patientID, ok := parseUUID(c, "patientID")
	if !ok {
		return
	}

	recs, err := h.recSvc.ListForPatient(c.Request.Context(), patientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toRecommendationResponses(recs))
}

func (h *RecommendationHandler) ListApprovedForPatient(c *gin.Context) {
	patientID, ok := parseUUID(c, "patientID")
	if !ok {
		return
	}

	recs, err := h.recSvc.ListApprovedForPatient(c.Request.Context(), patientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toRecommendationResponses(recs))
}

func (h *RecommendationHandler) ListPendingForDoctor(c *gin.Context) {
	doctorID, ok := parseUUID(c, "doctorID")
	if !ok {
		return
	}

	recs, err := h.recSvc.ListPendingForDoctor(c.Request.Context(), doctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toRecommendationResponses(recs))
}

func (h *RecommendationHandler) ListReviewedByDoctor(c *gin.Context) {
	doctorID, ok := parseUUID(c, "doctorID")
	if !ok {
		return
	}

	recs, err := h.recSvc.ListReviewedByDoctor(c.Request.Context(), doctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toRecommendationResponses(recs))
}

type reviewRequest struct {
	DoctorNotes string `json:"doctor_notes"`
}

func (h *RecommendationHandler) Approve(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	doctorID, ok := callerID(c)
	if !ok {
		return
	}

	var req reviewRequest
	if !bindJSON(c, &req) {
		return
	}

	rec, err := h.recSvc.Approve(c.Request.Context(), id, doctorID, req.DoctorNotes, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toRecommendationResponse(rec))
}

type modifyApproveRequest struct {
	ApprovedTreatment string `json:"approved_treatment" binding:"required"`
	ApprovedLifestyle string `json:"approved_lifestyle" binding:"required"`
	DoctorNotes       string `json:"doctor_notes"`
}

func (h *RecommendationHandler) ModifyAndApprove(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	doctorID, ok := callerID(c)
	if !ok {
		return
	}

	var req modifyApproveRequest
	if !bindJSON(c, &req) {
		return
	}

	rec, err := h.recSvc.ModifyAndApprove(c.Request.Context(), id, doctorID, req.ApprovedTreatment, req.ApprovedLifestyle, req.DoctorNotes, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toRecommendationResponse(rec))
}

func (h *RecommendationHandler) Reject(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	doctorID, ok := callerID(c)
	if !ok {
		return
	}

	var req reviewRequest
	if !bindJSON(c, &req) {
		return
	}

	rec, err := h.recSvc.Reject(c.Request.Context(), id, doctorID, req.DoctorNotes, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toRecommendationResponse(rec))
}

func (h *RecommendationHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	claims, ok := claimsFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.recSvc.SoftDelete(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
