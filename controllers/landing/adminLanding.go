package landingController

import (
	"encoding/json"
	"fmt"
	"time"

	"gradus/database"
	"gradus/middleware"
	"gradus/models"
	"gradus/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// uniqueLandingSlug derives a slug and suffixes a counter until no other
// page carries it
func uniqueLandingSlug(source string) string {
	base := utils.Slugify(source)
	slug := base
	for i := 2; ; i++ {
		var count int64
		database.Database.Db.Model(&models.LandingPage{}).Where("slug = ?", slug).Count(&count)
		if count == 0 {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// AdminGetAllLandingPages lists every landing page for the back office
func AdminGetAllLandingPages(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.LandingPage{}).Where("is_deleted = ?", false)

	var total int64
	db.Count(&total)

	var pages []models.LandingPage
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&pages).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch pages!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pages fetched successfully!", fiber.Map{
		"pages": pages,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// AdminCreateLandingPage creates a new landing page, unpublished
func AdminCreateLandingPage(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedLandingPage").(*struct {
		Slug         string      `json:"slug"`
		Title        string      `json:"title"`
		Headline     string      `json:"headline"`
		Subheadline  string      `json:"subheadline"`
		HeroImageURL string      `json:"hero_image_url"`
		Sections     interface{} `json:"sections"`
		EventDate    *time.Time  `json:"event_date"`
		Capacity     int         `json:"capacity"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// An explicit slug wins, otherwise one is minted from the title
	slugSource := reqData.Slug
	if slugSource == "" {
		slugSource = reqData.Title
	}

	landingPage := models.LandingPage{
		Slug:         uniqueLandingSlug(slugSource),
		Title:        reqData.Title,
		Headline:     reqData.Headline,
		Subheadline:  reqData.Subheadline,
		HeroImageURL: reqData.HeroImageURL,
		EventDate:    reqData.EventDate,
		Capacity:     reqData.Capacity,
		IsPublished:  false,
	}
	if reqData.Sections != nil {
		raw, err := json.Marshal(reqData.Sections)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid sections!", nil)
		}
		landingPage.Sections = datatypes.JSON(raw)
	}

	if err := database.Database.Db.Create(&landingPage).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create page!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Page created successfully!", landingPage)
}

// AdminUpdateLandingPage updates an existing landing page
func AdminUpdateLandingPage(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	pageID := c.Locals("pageID").(int)

	var landingPage models.LandingPage
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", pageID, false).First(&landingPage).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Page not found!", nil)
	}

	reqData, ok := c.Locals("validatedLandingPage").(*struct {
		Title              *string     `json:"title"`
		Headline           *string     `json:"headline"`
		Subheadline        *string     `json:"subheadline"`
		HeroImageURL       *string     `json:"hero_image_url"`
		Sections           interface{} `json:"sections"`
		EventDate          *time.Time  `json:"event_date"`
		Capacity           *int        `json:"capacity"`
		IsRegistrationOpen *bool       `json:"is_registration_open"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Update only provided fields, the slug stays stable once minted
	if reqData.Title != nil {
		landingPage.Title = *reqData.Title
	}
	if reqData.Headline != nil {
		landingPage.Headline = *reqData.Headline
	}
	if reqData.Subheadline != nil {
		landingPage.Subheadline = *reqData.Subheadline
	}
	if reqData.HeroImageURL != nil {
		landingPage.HeroImageURL = *reqData.HeroImageURL
	}
	if reqData.EventDate != nil {
		landingPage.EventDate = reqData.EventDate
	}
	if reqData.Capacity != nil {
		landingPage.Capacity = *reqData.Capacity
	}
	if reqData.IsRegistrationOpen != nil {
		landingPage.IsRegistrationOpen = *reqData.IsRegistrationOpen
	}
	if reqData.Sections != nil {
		raw, err := json.Marshal(reqData.Sections)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid sections!", nil)
		}
		landingPage.Sections = datatypes.JSON(raw)
	}

	if err := database.Database.Db.Save(&landingPage).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update page!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Page updated successfully!", landingPage)
}

// AdminDeleteLandingPage soft deletes a landing page
func AdminDeleteLandingPage(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	pageID := c.Locals("pageID").(int)

	var landingPage models.LandingPage
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", pageID, false).First(&landingPage).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Page not found!", nil)
	}

	landingPage.IsDeleted = true
	landingPage.IsPublished = false

	if err := database.Database.Db.Save(&landingPage).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete page!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Page deleted successfully!", nil)
}

// AdminPublishLandingPage toggles page visibility on the website
func AdminPublishLandingPage(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	pageID := c.Locals("pageID").(int)

	reqData, ok := c.Locals("validatedPublish").(*struct {
		Publish *bool `json:"publish"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var landingPage models.LandingPage
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", pageID, false).First(&landingPage).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Page not found!", nil)
	}

	landingPage.IsPublished = *reqData.Publish

	if err := database.Database.Db.Save(&landingPage).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update page!", nil)
	}

	message := "Page unpublished successfully!"
	if landingPage.IsPublished {
		message = "Page published successfully!"
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, landingPage)
}

// AdminGetRegistrations lists registrations of a landing page
func AdminGetRegistrations(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	pageID := c.Locals("pageID").(int)

	var landingPage models.LandingPage
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", pageID, false).First(&landingPage).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Page not found!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.LandingPageRegistration{}).
		Where("landing_page_id = ? AND is_deleted = ?", landingPage.ID, false)

	var total int64
	db.Count(&total)

	var registrations []models.LandingPageRegistration
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&registrations).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch registrations!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Registrations fetched successfully!", fiber.Map{
		"registrations": registrations,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
