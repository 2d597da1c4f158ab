package database

import (
	"fmt"
	"time"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/config"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/assignment"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/doctor"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/recommendation"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/report"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/specialist"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt:                              true,
		DisableForeignKeyConstraintWhenMigrating: false,
		DisableAutomaticPing:                     false,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: false,
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	schemas := []string{"clinical", "auth", "audit"} // logical namespace
	for _, schema := range schemas {
		if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
			return fmt.Errorf("creating schema %s: %w", schema, err)
		}
	}

	models := []any{
		&domain.User{},
		&domain.AuditLog{},
		&doctor.Doctor{},
		&report.HealthReport{},
		&recommendation.Recommendation{},
		&assignment.PatientDoctorMapping{},
		&specialist.Mapping{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name  string
		query string
	}{
		// At most one active mapping per patient-doctor pair.
		{
			name:  "idx_mappings_active_pair",
			query: `CREATE UNIQUE INDEX IF NOT EXISTS idx_mappings_active_pair ON clinical.patient_doctor_mappings (patient_id, doctor_id) WHERE is_active`,
		},
		// Fairness ordering scan for the allocator.
		{
			name:  "idx_doctors_allocation",
			query: `CREATE INDEX IF NOT EXISTS idx_doctors_allocation ON clinical.doctors (specialization, last_assignment_date ASC NULLS FIRST) WHERE is_available`,
		},
		// Retry sweep scans parked reports by status.
		{
			name:  "idx_reports_status",
			query: `CREATE INDEX IF NOT EXISTS idx_reports_status ON clinical.health_reports (processing_status, updated_at) WHERE deleted_at IS NULL`,
		},
		{
			name:  "idx_reports_patient",
			query: `CREATE INDEX IF NOT EXISTS idx_reports_patient ON clinical.health_reports (patient_id, created_at DESC) WHERE deleted_at IS NULL`,
		},
		{
			name:  "idx_recommendations_doctor_status",
			query: `CREATE INDEX IF NOT EXISTS idx_recommendations_doctor_status ON clinical.recommendations (doctor_id, status)`,
		},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			return fmt.Errorf("creating index %s: %w", idx.name, err)
		}
	}

	return nil
}
