package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SheetsSyncJob is one queued row append for the spreadsheet mirror.
// Status moves pending -> processing -> completed. A failed attempt puts
// the job back to pending with a later NextAttemptAt until attempts run
// out, after which it stays failed until an admin retries it.
type SheetsSyncJob struct {
	gorm.Model
	JobType       string         `json:"job_type" gorm:"size:50;index"` // ENROLLMENT, LANDING_REGISTRATION
	SpreadsheetID string         `json:"spreadsheet_id"`
	SheetName     string         `json:"sheet_name"`
	Payload       datatypes.JSON `json:"payload"`                                       // ordered row cells
	Status        string         `json:"status" gorm:"size:20;default:'pending';index"` // pending, processing, completed, failed
	Attempts      int            `json:"attempts" gorm:"default:0"`
	NextAttemptAt time.Time      `json:"next_attempt_at" gorm:"index"`
	LastError     string         `json:"last_error" gorm:"type:text"`
	DedupeKey     string         `json:"dedupe_key" gorm:"index"`
	IsDeleted     bool           `gorm:"default:false"`
}
