package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gradus/config"
	"gradus/models"

	"github.com/google/uuid"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AppendSheetRow appends one row of cells to a spreadsheet tab
func AppendSheetRow(ctx context.Context, spreadsheetID, sheetName string, cells []interface{}) error {
	cfg := config.AppConfig
	if cfg.SheetsCredentialsFile == "" {
		return fmt.Errorf("sheets credentials are not configured")
	}
	if spreadsheetID == "" {
		return fmt.Errorf("spreadsheet id is empty")
	}

	srv, err := sheets.NewService(ctx, option.WithCredentialsFile(cfg.SheetsCredentialsFile))
	if err != nil {
		return fmt.Errorf("failed to create sheets client: %v", err)
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{cells}}
	_, err = srv.Spreadsheets.Values.Append(spreadsheetID, sheetName, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append sheet row: %v", err)
	}
	return nil
}

// EnqueueSheetsSync records a pending row append for the drainer. The
// request that triggered it never waits on the spreadsheet API.
func EnqueueSheetsSync(db *gorm.DB, jobType, sheetName string, cells []interface{}) error {
	payload, err := json.Marshal(cells)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %v", err)
	}

	job := models.SheetsSyncJob{
		JobType:       jobType,
		SpreadsheetID: config.AppConfig.SheetsSpreadsheetID,
		SheetName:     sheetName,
		Payload:       datatypes.JSON(payload),
		Status:        "pending",
		Attempts:      0,
		NextAttemptAt: time.Now(),
		DedupeKey:     uuid.New().String(),
	}
	return db.Create(&job).Error
}
