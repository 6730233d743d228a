package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"gradus/config"
	"gradus/database"
	"gradus/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive for the whole test
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	config.AppConfig.SheetsMaxAttempts = 3
	config.AppConfig.SheetsBatchSize = 10

	return db
}

func createSyncJob(t *testing.T, db *gorm.DB, jobType, status string, attempts int, payload string) models.SheetsSyncJob {
	t.Helper()

	job := models.SheetsSyncJob{
		JobType:       jobType,
		SpreadsheetID: "sheet-abc",
		SheetName:     "Registrations",
		Payload:       datatypes.JSON(payload),
		Status:        status,
		Attempts:      attempts,
		NextAttemptAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, db.Create(&job).Error)
	return job
}

func stubAppendSheetRow(t *testing.T, fn func(ctx context.Context, spreadsheetID, sheetName string, cells []interface{}) error) {
	t.Helper()

	original := appendSheetRow
	appendSheetRow = fn
	t.Cleanup(func() { appendSheetRow = original })
}

func TestNextBackoff(t *testing.T) {
	assert.Equal(t, 2*time.Minute, nextBackoff(0))
	assert.Equal(t, 2*time.Minute, nextBackoff(1))
	assert.Equal(t, 5*time.Minute, nextBackoff(2))
	assert.Equal(t, 15*time.Minute, nextBackoff(3))

	// Attempts past the schedule stay on the last step
	assert.Equal(t, 15*time.Minute, nextBackoff(4))
	assert.Equal(t, 15*time.Minute, nextBackoff(10))
}

func TestClaimSyncJob(t *testing.T) {
	db := setupTestDB(t)
	job := createSyncJob(t, db, "ENROLLMENT", "pending", 0, `["GR-1"]`)

	assert.True(t, claimSyncJob(job.ID))

	var claimed models.SheetsSyncJob
	require.NoError(t, db.First(&claimed, job.ID).Error)
	assert.Equal(t, "processing", claimed.Status)

	// A second claim loses, the status guard already moved the job on
	assert.False(t, claimSyncJob(job.ID))
}

func TestClaimSyncJobIgnoresSettledJobs(t *testing.T) {
	db := setupTestDB(t)
	completed := createSyncJob(t, db, "ENROLLMENT", "completed", 1, `["GR-1"]`)
	failed := createSyncJob(t, db, "ENROLLMENT", "failed", 3, `["GR-2"]`)

	assert.False(t, claimSyncJob(completed.ID))
	assert.False(t, claimSyncJob(failed.ID))
}

func TestDrainCompletesJobAndMarksRowSynced(t *testing.T) {
	db := setupTestDB(t)

	reg := models.LandingPageRegistration{
		LandingPageID: 1,
		Name:          "Jane Doe",
		Email:         "jane@example.com",
		ReferenceCode: "GR-TEST-1",
	}
	require.NoError(t, db.Create(&reg).Error)

	job := createSyncJob(t, db, "LANDING_REGISTRATION", "pending", 0, `["GR-TEST-1","Jane Doe","jane@example.com"]`)

	var gotSpreadsheet, gotSheet string
	var gotCells []interface{}
	stubAppendSheetRow(t, func(ctx context.Context, spreadsheetID, sheetName string, cells []interface{}) error {
		gotSpreadsheet = spreadsheetID
		gotSheet = sheetName
		gotCells = cells
		return nil
	})

	DrainSheetsSyncQueue()

	var updated models.SheetsSyncJob
	require.NoError(t, db.First(&updated, job.ID).Error)
	assert.Equal(t, "completed", updated.Status)
	assert.Equal(t, 1, updated.Attempts)
	assert.Empty(t, updated.LastError)

	assert.Equal(t, "sheet-abc", gotSpreadsheet)
	assert.Equal(t, "Registrations", gotSheet)
	require.Len(t, gotCells, 3)
	assert.Equal(t, "GR-TEST-1", gotCells[0])

	var synced models.LandingPageRegistration
	require.NoError(t, db.First(&synced, reg.ID).Error)
	assert.True(t, synced.IsSynced)
}

func TestDrainRetriesFailedAppendWithBackoff(t *testing.T) {
	db := setupTestDB(t)
	job := createSyncJob(t, db, "ENROLLMENT", "pending", 0, `["GR-2"]`)

	stubAppendSheetRow(t, func(ctx context.Context, spreadsheetID, sheetName string, cells []interface{}) error {
		return errors.New("sheets api unavailable")
	})

	before := time.Now()
	DrainSheetsSyncQueue()

	var updated models.SheetsSyncJob
	require.NoError(t, db.First(&updated, job.ID).Error)
	assert.Equal(t, "pending", updated.Status)
	assert.Equal(t, 1, updated.Attempts)
	assert.Contains(t, updated.LastError, "sheets api unavailable")

	// First retry lands roughly two minutes out
	assert.True(t, updated.NextAttemptAt.After(before.Add(time.Minute)))
	assert.True(t, updated.NextAttemptAt.Before(before.Add(3*time.Minute)))
}

func TestDrainFailsJobAfterMaxAttempts(t *testing.T) {
	db := setupTestDB(t)
	job := createSyncJob(t, db, "ENROLLMENT", "pending", 2, `["GR-3"]`)

	stubAppendSheetRow(t, func(ctx context.Context, spreadsheetID, sheetName string, cells []interface{}) error {
		return errors.New("still down")
	})

	DrainSheetsSyncQueue()

	var updated models.SheetsSyncJob
	require.NoError(t, db.First(&updated, job.ID).Error)
	assert.Equal(t, "failed", updated.Status)
	assert.Equal(t, 3, updated.Attempts)
	assert.Contains(t, updated.LastError, "still down")
}

func TestDrainFailsInvalidPayloadImmediately(t *testing.T) {
	db := setupTestDB(t)
	job := createSyncJob(t, db, "ENROLLMENT", "pending", 0, `not-json`)

	called := false
	stubAppendSheetRow(t, func(ctx context.Context, spreadsheetID, sheetName string, cells []interface{}) error {
		called = true
		return nil
	})

	DrainSheetsSyncQueue()

	var updated models.SheetsSyncJob
	require.NoError(t, db.First(&updated, job.ID).Error)
	assert.Equal(t, "failed", updated.Status)
	assert.Contains(t, updated.LastError, "invalid payload")
	assert.False(t, called)
}

func TestDrainSkipsJobsNotYetDue(t *testing.T) {
	db := setupTestDB(t)

	job := models.SheetsSyncJob{
		JobType:       "ENROLLMENT",
		SpreadsheetID: "sheet-abc",
		SheetName:     "Enrollments",
		Payload:       datatypes.JSON(`["GR-4"]`),
		Status:        "pending",
		NextAttemptAt: time.Now().Add(10 * time.Minute),
	}
	require.NoError(t, db.Create(&job).Error)

	called := false
	stubAppendSheetRow(t, func(ctx context.Context, spreadsheetID, sheetName string, cells []interface{}) error {
		called = true
		return nil
	})

	DrainSheetsSyncQueue()

	var updated models.SheetsSyncJob
	require.NoError(t, db.First(&updated, job.ID).Error)
	assert.Equal(t, "pending", updated.Status)
	assert.Equal(t, 0, updated.Attempts)
	assert.False(t, called)
}

func TestMarkRowSyncedOnlyTouchesRegistrationJobs(t *testing.T) {
	db := setupTestDB(t)

	reg := models.LandingPageRegistration{
		LandingPageID: 1,
		Email:         "jane@example.com",
		ReferenceCode: "GR-TEST-2",
	}
	require.NoError(t, db.Create(&reg).Error)

	markRowSynced(models.SheetsSyncJob{JobType: "ENROLLMENT"}, []interface{}{"GR-TEST-2"})

	var after models.LandingPageRegistration
	require.NoError(t, db.First(&after, reg.ID).Error)
	assert.False(t, after.IsSynced)

	markRowSynced(models.SheetsSyncJob{JobType: "LANDING_REGISTRATION"}, []interface{}{"GR-TEST-2"})

	require.NoError(t, db.First(&after, reg.ID).Error)
	assert.True(t, after.IsSynced)
}

func TestRequeueStaleProcessing(t *testing.T) {
	db := setupTestDB(t)

	stale := createSyncJob(t, db, "ENROLLMENT", "processing", 1, `["GR-5"]`)
	require.NoError(t, db.Model(&models.SheetsSyncJob{}).Where("id = ?", stale.ID).
		UpdateColumn("updated_at", time.Now().Add(-time.Hour)).Error)

	fresh := createSyncJob(t, db, "ENROLLMENT", "processing", 1, `["GR-6"]`)

	requeueStaleProcessing()

	var staleAfter, freshAfter models.SheetsSyncJob
	require.NoError(t, db.First(&staleAfter, stale.ID).Error)
	require.NoError(t, db.First(&freshAfter, fresh.ID).Error)
	assert.Equal(t, "pending", staleAfter.Status)
	assert.Equal(t, "processing", freshAfter.Status)
}

func TestEnqueueSheetsSync(t *testing.T) {
	db := setupTestDB(t)
	config.AppConfig.SheetsSpreadsheetID = "configured-sheet"

	require.NoError(t, EnqueueSheetsSync(db, "LANDING_REGISTRATION", "Registrations", []interface{}{"GR-7", "John"}))

	var job models.SheetsSyncJob
	require.NoError(t, db.Where("job_type = ?", "LANDING_REGISTRATION").First(&job).Error)
	assert.Equal(t, "configured-sheet", job.SpreadsheetID)
	assert.Equal(t, "pending", job.Status)
	assert.Equal(t, 0, job.Attempts)
	assert.NotEmpty(t, job.DedupeKey)
	assert.JSONEq(t, `["GR-7","John"]`, string(job.Payload))
}
