//go:build integration

package postgres

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/assignment"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/doctor"
	"github.com/SUDAR2106/RemedyLabBackEnd/pkg/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// openTestDB connects to the database named by TEST_DATABASE_URL and runs the
// full migration, partial indexes included. Tests are skipped when the
// variable is unset so the suite stays runnable without infrastructure.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zap.NewNop()))

	require.NoError(t, db.Exec(
		"TRUNCATE clinical.patient_doctor_mappings, clinical.doctors CASCADE",
	).Error)

	return db
}

func seedDoctor(t *testing.T, db *gorm.DB, specialization string, lastAssigned *time.Time) uuid.UUID {
	t.Helper()
	d := &doctor.Doctor{
		ID:                 uuid.New(),
		UserID:             uuid.New(),
		Specialization:     specialization,
		IsAvailable:        true,
		LastAssignmentDate: lastAssigned,
	}
	require.NoError(t, db.Create(d).Error)
	return d.ID
}

func timePtr(ts time.Time) *time.Time { return &ts }

func TestClaimOrdersByLastAssignmentNullsFirst(t *testing.T) {
	db := openTestDB(t)
	repo := NewDoctorRepository(db)
	ctx := context.Background()

	recent := seedDoctor(t, db, "Cardiologist", timePtr(time.Now().Add(-time.Hour)))
	oldest := seedDoctor(t, db, "Cardiologist", timePtr(time.Now().Add(-72*time.Hour)))
	never := seedDoctor(t, db, "Cardiologist", nil)

	first, err := repo.ClaimLeastRecentlyAssigned(ctx, "Cardiologist")
	require.NoError(t, err)
	assert.Equal(t, never, first.ID)
	require.NotNil(t, first.LastAssignmentDate)

	second, err := repo.ClaimLeastRecentlyAssigned(ctx, "Cardiologist")
	require.NoError(t, err)
	assert.Equal(t, oldest, second.ID)

	third, err := repo.ClaimLeastRecentlyAssigned(ctx, "Cardiologist")
	require.NoError(t, err)
	assert.Equal(t, recent, third.ID)
}

func TestClaimNoDoctorForSpecialization(t *testing.T) {
	db := openTestDB(t)
	repo := NewDoctorRepository(db)

	seedDoctor(t, db, "Cardiologist", nil)

	_, err := repo.ClaimLeastRecentlyAssigned(context.Background(), "Nephrologist")
	assert.ErrorIs(t, err, doctor.ErrNoDoctorAvailable)
}

func TestConcurrentClaimsPickDistinctDoctors(t *testing.T) {
	db := openTestDB(t)
	repo := NewDoctorRepository(db)

	const n = 4
	for i := 0; i < n; i++ {
		seedDoctor(t, db, "General Physician", nil)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		claimed = map[uuid.UUID]int{}
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := repo.ClaimLeastRecentlyAssigned(context.Background(), "General Physician")
			assert.NoError(t, err)
			if d == nil {
				return
			}
			mu.Lock()
			claimed[d.ID]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, claimed, n)
	for id, count := range claimed {
		assert.Equalf(t, 1, count, "doctor %s claimed more than once", id)
	}
}

func TestActivateKeepsOneActiveRowPerPair(t *testing.T) {
	db := openTestDB(t)
	repo := NewAssignmentRepository(db)
	ctx := context.Background()

	patientID := uuid.New()
	doctorID := seedDoctor(t, db, "General Physician", nil)

	first, err := repo.Activate(ctx, patientID, doctorID)
	require.NoError(t, err)

	second, err := repo.Activate(ctx, patientID, doctorID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, second.AssignedAt.Before(first.AssignedAt))

	var active, total int64
	require.NoError(t, db.Model(&assignment.PatientDoctorMapping{}).
		Where("patient_id = ? AND doctor_id = ? AND is_active = ?", patientID, doctorID, true).
		Count(&active).Error)
	require.NoError(t, db.Model(&assignment.PatientDoctorMapping{}).
		Where("patient_id = ? AND doctor_id = ?", patientID, doctorID).
		Count(&total).Error)

	assert.Equal(t, int64(1), active)
	assert.Equal(t, int64(2), total)
}

func TestActivePairIndexRejectsDuplicateRow(t *testing.T) {
	db := openTestDB(t)
	repo := NewAssignmentRepository(db)
	ctx := context.Background()

	patientID := uuid.New()
	doctorID := seedDoctor(t, db, "General Physician", nil)

	_, err := repo.Activate(ctx, patientID, doctorID)
	require.NoError(t, err)

	// A second active row for the pair must be refused by the partial unique
	// index regardless of how it is inserted.
	dup := &assignment.PatientDoctorMapping{
		PatientID:  patientID,
		DoctorID:   doctorID,
		AssignedAt: time.Now(),
		IsActive:   true,
	}
	assert.Error(t, db.Create(dup).Error)
}
