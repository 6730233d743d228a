package landingController

import (
	"log"
	"time"

	"gradus/database"
	"gradus/middleware"
	"gradus/models"
	"gradus/utils"

	"github.com/gofiber/fiber/v2"
)

// GetLandingPageBySlug returns a published landing page for the website
func GetLandingPageBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Page slug is required!", nil)
	}

	var page models.LandingPage
	if err := database.Database.Db.
		Where("slug = ? AND is_published = ? AND is_deleted = ?", slug, true, false).
		First(&page).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Page not found!", nil)
	}

	var registrationCount int64
	database.Database.Db.Model(&models.LandingPageRegistration{}).
		Where("landing_page_id = ? AND is_deleted = ?", page.ID, false).
		Count(&registrationCount)

	isFull := page.Capacity > 0 && registrationCount >= int64(page.Capacity)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Page fetched successfully!", fiber.Map{
		"page":    page,
		"is_full": isFull,
	})
}

// Register accepts a public registration for an event or webinar page
func Register(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Page slug is required!", nil)
	}

	reqData, ok := c.Locals("validatedRegistration").(*struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		Mobile string `json:"mobile"`
		Note   string `json:"note"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var page models.LandingPage
	if err := database.Database.Db.
		Where("slug = ? AND is_published = ? AND is_deleted = ?", slug, true, false).
		First(&page).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Page not found!", nil)
	}

	if !page.IsRegistrationOpen {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Registration is closed!", nil)
	}

	// One registration per email per page
	var existing models.LandingPageRegistration
	if err := database.Database.Db.
		Where("landing_page_id = ? AND email = ? AND is_deleted = ?", page.ID, reqData.Email, false).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "This email is already registered!", nil)
	}

	// Capacity of 0 means unlimited seats
	if page.Capacity > 0 {
		var count int64
		database.Database.Db.Model(&models.LandingPageRegistration{}).
			Where("landing_page_id = ? AND is_deleted = ?", page.ID, false).
			Count(&count)
		if count >= int64(page.Capacity) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Registration is full!", nil)
		}
	}

	registration := models.LandingPageRegistration{
		LandingPageID: page.ID,
		Name:          reqData.Name,
		Email:         reqData.Email,
		Mobile:        reqData.Mobile,
		Note:          reqData.Note,
		ReferenceCode: utils.GenerateReferenceCode("REG"),
	}

	// Save registration and the spreadsheet sync job together
	tx := database.Database.Db.Begin()
	if err := tx.Create(&registration).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register!", nil)
	}

	cells := []interface{}{
		registration.ReferenceCode,
		registration.Name,
		registration.Email,
		registration.Mobile,
		page.Title,
		registration.Note,
		time.Now().Format("2006-01-02 15:04:05"),
	}
	if err := utils.EnqueueSheetsSync(tx, "LANDING_REGISTRATION", "Registrations", cells); err != nil {
		tx.Rollback()
		log.Printf("Error queueing registration sync: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register!", nil)
	}
	tx.Commit()

	utils.SendRegistrationEmail(registration.Email, registration.Name, page.Title, registration.ReferenceCode)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Registered successfully!", fiber.Map{
		"reference_code": registration.ReferenceCode,
	})
}
