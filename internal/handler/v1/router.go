package v1

import (
	"net/http"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/config"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain"
	"github.com/SUDAR2106/RemedyLabBackEnd/pkg/auth"
	"github.com/SUDAR2106/RemedyLabBackEnd/pkg/metrics"
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Config     *config.Config
	JWTManager *auth.JWTManager
	Metrics    *metrics.Collector

	AuthHandler           *AuthHandler
	ReportHandler         *ReportHandler
	RecommendationHandler *RecommendationHandler
	DoctorHandler         *DoctorHandler
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(MetricsMiddleware(deps.Metrics))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": deps.Config.App.Version,
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", deps.AuthHandler.Register)
		authGroup.POST("/login", deps.AuthHandler.Login)
		authGroup.POST("/refresh", deps.AuthHandler.Refresh)
	}

	authed := api.Group("")
	authed.Use(AuthMiddleware(deps.JWTManager))

	reports := authed.Group("/reports")
	{
		reports.POST("/upload", RequireRoles(domain.RolePatient, domain.RoleAdmin), deps.ReportHandler.Upload)
		reports.GET("/:id", deps.ReportHandler.GetByID)
		reports.POST("/:id/process", RequireRoles(domain.RoleAdmin), deps.ReportHandler.Process)
		reports.PUT("/:id/status", RequireRoles(domain.RoleAdmin), deps.ReportHandler.OverrideStatus)
		reports.DELETE("/:id", RequireRoles(domain.RoleAdmin), deps.ReportHandler.Delete)
	}

	authed.GET("/patients/:patientID/reports", deps.ReportHandler.ListForPatient)

	recs := authed.Group("/recommendations")
	{
		recs.GET("/:id", deps.RecommendationHandler.GetByID)
		recs.GET("/report/:reportID", deps.RecommendationHandler.GetByReportID)
		recs.GET("/patient/:patientID", deps.RecommendationHandler.ListForPatient)
		recs.GET("/patient/:patientID/approved", deps.RecommendationHandler.ListApprovedForPatient)
		recs.GET("/doctor/:doctorID/pending", RequireRoles(domain.RoleDoctor, domain.RoleAdmin), deps.RecommendationHandler.ListPendingForDoctor)
		recs.GET("/doctor/:doctorID/reviewed", RequireRoles(domain.RoleDoctor, domain.RoleAdmin), deps.RecommendationHandler.ListReviewedByDoctor)

		recs.PUT("/:id/approve", RequireRoles(domain.RoleDoctor), deps.RecommendationHandler.Approve)
		recs.PUT("/:id/modify-approve", RequireRoles(domain.RoleDoctor), deps.RecommendationHandler.ModifyAndApprove)
		recs.PUT("/:id/reject", RequireRoles(domain.RoleDoctor), deps.RecommendationHandler.Reject)
		recs.DELETE("/:id", RequireRoles(domain.RoleAdmin), deps.RecommendationHandler.Delete)
	}

	doctors := authed.Group("/doctors")
	doctors.Use(RequireRoles(domain.RoleDoctor))
	{
		doctors.GET("/profile", deps.DoctorHandler.GetProfile)
		doctors.PUT("/profile", deps.DoctorHandler.UpdateProfile)
		doctors.PUT("/availability", deps.DoctorHandler.SetAvailability)
		doctors.GET("/dashboard", deps.DoctorHandler.Dashboard)
		doctors.GET("/patients", deps.DoctorHandler.AssignedPatients)
		doctors.GET("/reports", deps.DoctorHandler.AssignedReports)
	}

	return r
}
