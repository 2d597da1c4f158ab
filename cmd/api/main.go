package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/ai"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/config"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/specialist"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/extraction"
	v1 "github.com/SUDAR2106/RemedyLabBackEnd/internal/handler/v1"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/repository/postgres"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/service"
	"github.com/SUDAR2106/RemedyLabBackEnd/pkg/auth"
	"github.com/SUDAR2106/RemedyLabBackEnd/pkg/database"
	"github.com/SUDAR2106/RemedyLabBackEnd/pkg/logger"
	"github.com/SUDAR2106/RemedyLabBackEnd/pkg/metrics"
	"github.com/SUDAR2106/RemedyLabBackEnd/pkg/storage"
	"github.com/SUDAR2106/RemedyLabBackEnd/pkg/tracer"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real deployments inject environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("loading config: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("building logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}

	if err := database.Migrate(db, log); err != nil {
		return err
	}

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}()

	collector := metrics.NewCollector("remedylab")

	fileStore, err := storage.New(cfg.Storage)
	if err != nil {
		return err
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	reportRepo := postgres.NewReportRepository(db)
	recRepo := postgres.NewRecommendationRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	assignmentRepo := postgres.NewAssignmentRepository(db)
	specialistRepo := postgres.NewSpecialistRepository(db)

	seedCtx, seedCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	err = specialistRepo.Seed(seedCtx, specialist.Defaults())
	seedCancel()
	if err != nil {
		return err
	}

	// Services
	auditSvc := service.NewAuditService(auditRepo, collector, log)
	defer auditSvc.Shutdown()

	jwtManager := auth.NewJWTManager(cfg.JWT)
	authSvc := service.NewAuthService(userRepo, doctorRepo, jwtManager, auditSvc, log)

	allocator := service.NewAllocatorService(
		reportRepo, doctorRepo, assignmentRepo, specialistRepo,
		collector, log, cfg.Pipeline.FallbackSpecialization,
	)
	pipeline := service.NewPipelineService(
		reportRepo, recRepo, allocator,
		extraction.NewTextExtractor(fileStore), ai.NewRuleBasedGenerator(),
		collector, log, cfg.Pipeline.MinRawTextLen,
	)
	reportSvc := service.NewReportService(reportRepo, fileStore, pipeline, auditSvc, collector, log)
	recSvc := service.NewRecommendationService(recRepo, auditSvc, collector, log)
	doctorSvc := service.NewDoctorService(doctorRepo, assignmentRepo, recRepo, log)

	// Periodic sweep re-drives reports parked on retryable statuses.
	var sweeper *cron.Cron
	if cfg.Pipeline.RetryEnabled {
		sweeper = cron.New()
		_, err := sweeper.AddFunc(cfg.Pipeline.RetryCronSpec, func() {
			retried := pipeline.RetrySweep(context.Background(), 100)
			if retried > 0 {
				log.Info("retry sweep completed", zap.Int("reports", retried))
			}
		})
		if err != nil {
			return err
		}
		sweeper.Start()
		defer sweeper.Stop()
	}

	router := v1.NewRouter(v1.RouterDeps{
		Config:                cfg,
		JWTManager:            jwtManager,
		Metrics:               collector,
		AuthHandler:           v1.NewAuthHandler(authSvc),
		ReportHandler:         v1.NewReportHandler(reportSvc),
		RecommendationHandler: v1.NewRecommendationHandler(recSvc),
		DoctorHandler:         v1.NewDoctorHandler(doctorSvc, reportSvc),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.App.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
