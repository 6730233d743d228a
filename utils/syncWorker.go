package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gradus/config"
	"gradus/database"
	"gradus/models"

	"github.com/robfig/cron/v3"
)

// Fixed backoff schedule between sheet sync attempts
var syncBackoff = []time.Duration{2 * time.Minute, 5 * time.Minute, 15 * time.Minute}

// Seam for tests, the worker never talks to the spreadsheet API directly
var appendSheetRow = AppendSheetRow

// staleProcessingAfter is how long a job may sit in processing before a
// crashed drain is assumed and the job is put back in line
const staleProcessingAfter = 10 * time.Minute

// logSyncWorker logs worker events with timestamp
func logSyncWorker(message string) {
	log.Printf("[SHEETS-SYNC %s] %s", time.Now().Format(time.RFC3339), message)
}

// nextBackoff returns the wait after the given failed attempt count
func nextBackoff(attempts int) time.Duration {
	if attempts <= 0 {
		return syncBackoff[0]
	}
	if attempts > len(syncBackoff) {
		return syncBackoff[len(syncBackoff)-1]
	}
	return syncBackoff[attempts-1]
}

// claimSyncJob flips one job pending -> processing. The status guard in
// the WHERE clause means two overlapping drains can never both win.
func claimSyncJob(jobID uint) bool {
	res := database.Database.Db.Model(&models.SheetsSyncJob{}).
		Where("id = ? AND status = ?", jobID, "pending").
		Update("status", "processing")
	return res.Error == nil && res.RowsAffected == 1
}

// DrainSheetsSyncQueue processes the due pending jobs once
func DrainSheetsSyncQueue() {
	db := database.Database.Db
	now := time.Now()

	var jobs []models.SheetsSyncJob
	if err := db.Where("status = ? AND next_attempt_at <= ? AND is_deleted = false", "pending", now).
		Order("next_attempt_at asc").
		Limit(config.AppConfig.SheetsBatchSize).
		Find(&jobs).Error; err != nil {
		logSyncWorker("Error fetching pending jobs: " + err.Error())
		return
	}

	for _, job := range jobs {
		if !claimSyncJob(job.ID) {
			continue // another drain got there first
		}
		processSyncJob(job)
	}
}

// processSyncJob appends the row and settles the job's status
func processSyncJob(job models.SheetsSyncJob) {
	db := database.Database.Db

	var cells []interface{}
	if err := json.Unmarshal(job.Payload, &cells); err != nil {
		// A broken payload can never succeed, no point burning retries
		db.Model(&models.SheetsSyncJob{}).Where("id = ?", job.ID).Updates(map[string]interface{}{
			"status":     "failed",
			"last_error": "invalid payload: " + err.Error(),
		})
		logSyncWorker(fmt.Sprintf("Job %d failed permanently: invalid payload", job.ID))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := appendSheetRow(ctx, job.SpreadsheetID, job.SheetName, cells)
	if err == nil {
		db.Model(&models.SheetsSyncJob{}).Where("id = ?", job.ID).Updates(map[string]interface{}{
			"status":     "completed",
			"attempts":   job.Attempts + 1,
			"last_error": "",
		})
		markRowSynced(job, cells)
		logSyncWorker(fmt.Sprintf("Job %d (%s) completed", job.ID, job.JobType))
		return
	}

	attempts := job.Attempts + 1
	if attempts >= config.AppConfig.SheetsMaxAttempts {
		db.Model(&models.SheetsSyncJob{}).Where("id = ?", job.ID).Updates(map[string]interface{}{
			"status":     "failed",
			"attempts":   attempts,
			"last_error": err.Error(),
		})
		logSyncWorker(fmt.Sprintf("Job %d failed permanently after %d attempts: %v", job.ID, attempts, err))
		return
	}

	wait := nextBackoff(attempts)
	db.Model(&models.SheetsSyncJob{}).Where("id = ?", job.ID).Updates(map[string]interface{}{
		"status":          "pending",
		"attempts":        attempts,
		"next_attempt_at": time.Now().Add(wait),
		"last_error":      err.Error(),
	})
	logSyncWorker(fmt.Sprintf("Job %d attempt %d failed, retrying in %s: %v", job.ID, attempts, wait, err))
}

// markRowSynced flips the source row's sync flag. The first cell is always
// the reference code for registration jobs.
func markRowSynced(job models.SheetsSyncJob, cells []interface{}) {
	if job.JobType != "LANDING_REGISTRATION" || len(cells) == 0 {
		return
	}
	ref, ok := cells[0].(string)
	if !ok || ref == "" {
		return
	}
	database.Database.Db.Model(&models.LandingPageRegistration{}).
		Where("reference_code = ? AND is_deleted = ?", ref, false).
		Update("is_synced", true)
}

// requeueStaleProcessing puts jobs orphaned by a crashed drain back to pending
func requeueStaleProcessing() {
	cutoff := time.Now().Add(-staleProcessingAfter)
	res := database.Database.Db.Model(&models.SheetsSyncJob{}).
		Where("status = ? AND updated_at < ?", "processing", cutoff).
		Update("status", "pending")
	if res.Error != nil {
		logSyncWorker("Error requeueing stale jobs: " + res.Error.Error())
		return
	}
	if res.RowsAffected > 0 {
		logSyncWorker(fmt.Sprintf("Requeued %d stale processing jobs", res.RowsAffected))
	}
}

// expireVerificationSessions clears out unused OTP sessions past expiry
func expireVerificationSessions() {
	cutoff := time.Now().Add(-24 * time.Hour)
	res := database.Database.Db.Model(&models.VerificationSession{}).
		Where("is_used = false AND is_deleted = false AND expires_at < ?", cutoff).
		Update("is_deleted", true)
	if res.Error != nil {
		logSyncWorker("Error expiring verification sessions: " + res.Error.Error())
		return
	}
	if res.RowsAffected > 0 {
		logSyncWorker(fmt.Sprintf("Expired %d stale verification sessions", res.RowsAffected))
	}
}

// StartSheetsSyncScheduler drains the queue every minute
func StartSheetsSyncScheduler(c *cron.Cron) {
	c.AddFunc("* * * * *", func() {
		DrainSheetsSyncQueue()
	})
	c.AddFunc("*/10 * * * *", func() {
		requeueStaleProcessing()
	})
	logSyncWorker("Sheets sync scheduler started - drains every minute")
}

// StartCleanupScheduler runs housekeeping early every morning
func StartCleanupScheduler(c *cron.Cron) {
	c.AddFunc("30 2 * * *", func() {
		expireVerificationSessions()
	})
	logSyncWorker("Cleanup scheduler started - runs daily at 2:30 AM")
}

// InitializeSyncSchedulers initializes all background schedulers
func InitializeSyncSchedulers() *cron.Cron {
	logSyncWorker("Initializing sync schedulers...")

	// Create cron scheduler with IST timezone
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		loc = time.FixedZone("IST", 5*60*60+30*60)
	}

	c := cron.New(cron.WithLocation(loc))

	StartSheetsSyncScheduler(c)
	StartCleanupScheduler(c)

	c.Start()

	logSyncWorker("All sync schedulers initialized successfully")
	return c
}
