package adminController

import (
	"log"
	"time"

	"gradus/database"
	"gradus/middleware"
	"gradus/models"

	"github.com/gofiber/fiber/v2"
)

// AdminGetSyncJobs lists spreadsheet sync jobs with optional status filter
func AdminGetSyncJobs(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedList").(*struct {
		Page   int    `query:"page"`
		Limit  int    `query:"limit"`
		Search string `query:"search"`
		Status string `query:"status"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
	}

	db := database.Database.Db

	query := db.Model(&models.SheetsSyncJob{})
	if reqData.Status != "" {
		query = query.Where("status = ?", reqData.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("Error counting sync jobs: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch sync jobs!", nil)
	}

	var jobs []models.SheetsSyncJob
	offset := (reqData.Page - 1) * reqData.Limit
	if err := query.Order("created_at desc").Offset(offset).Limit(reqData.Limit).Find(&jobs).Error; err != nil {
		log.Printf("Error fetching sync jobs: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch sync jobs!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sync jobs fetched successfully!", fiber.Map{
		"jobs":  jobs,
		"total": total,
		"page":  reqData.Page,
		"limit": reqData.Limit,
	})
}

// AdminRetrySyncJob puts a permanently failed job back in the queue
func AdminRetrySyncJob(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	jobID, ok := c.Locals("jobID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Job ID!", nil)
	}

	db := database.Database.Db

	var job models.SheetsSyncJob
	if err := db.Where("id = ?", jobID).First(&job).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Sync job not found!", nil)
	}

	if job.Status != "failed" {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Only failed jobs can be retried!", nil)
	}

	if err := db.Model(&models.SheetsSyncJob{}).Where("id = ?", job.ID).Updates(map[string]interface{}{
		"status":          "pending",
		"attempts":        0,
		"next_attempt_at": time.Now(),
		"last_error":      "",
	}).Error; err != nil {
		log.Printf("Error retrying sync job %d: %v", job.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to retry sync job!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sync job queued for retry!", nil)
}
