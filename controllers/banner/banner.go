package bannerController

import (
	"gradus/database"
	"gradus/middleware"
	"gradus/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetActiveBanners lists the banners shown on the website, in display order
func GetActiveBanners(c *fiber.Ctx) error {
	var banners []models.Banner
	if err := database.Database.Db.
		Where("is_active = ? AND is_deleted = ?", true, false).
		Order("order_index asc").
		Find(&banners).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch banners!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Banners fetched successfully!", fiber.Map{
		"banners": banners,
	})
}

// AdminGetAllBanners lists every banner for the back office
func AdminGetAllBanners(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var banners []models.Banner
	if err := database.Database.Db.
		Where("is_deleted = ?", false).
		Order("order_index asc").
		Find(&banners).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch banners!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Banners fetched successfully!", fiber.Map{
		"banners": banners,
	})
}

// AdminCreateBanner creates a new banner
func AdminCreateBanner(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedBanner").(*struct {
		Title      string `json:"title"`
		Subtitle   string `json:"subtitle"`
		ImageURL   string `json:"image_url"`
		LinkURL    string `json:"link_url"`
		OrderIndex int    `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	banner := models.Banner{
		Title:      reqData.Title,
		Subtitle:   reqData.Subtitle,
		ImageURL:   reqData.ImageURL,
		LinkURL:    reqData.LinkURL,
		OrderIndex: reqData.OrderIndex,
		IsActive:   true,
	}

	if err := database.Database.Db.Create(&banner).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create banner!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Banner created successfully!", banner)
}

// AdminUpdateBanner updates an existing banner
func AdminUpdateBanner(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	bannerID := c.Locals("bannerID").(int)

	var banner models.Banner
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", bannerID, false).First(&banner).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Banner not found!", nil)
	}

	reqData, ok := c.Locals("validatedBanner").(*struct {
		Title      *string `json:"title"`
		Subtitle   *string `json:"subtitle"`
		ImageURL   *string `json:"image_url"`
		LinkURL    *string `json:"link_url"`
		OrderIndex *int    `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Update only provided fields
	if reqData.Title != nil {
		banner.Title = *reqData.Title
	}
	if reqData.Subtitle != nil {
		banner.Subtitle = *reqData.Subtitle
	}
	if reqData.ImageURL != nil {
		banner.ImageURL = *reqData.ImageURL
	}
	if reqData.LinkURL != nil {
		banner.LinkURL = *reqData.LinkURL
	}
	if reqData.OrderIndex != nil {
		banner.OrderIndex = *reqData.OrderIndex
	}

	if err := database.Database.Db.Save(&banner).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update banner!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Banner updated successfully!", banner)
}

// AdminDeleteBanner soft deletes a banner
func AdminDeleteBanner(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	bannerID := c.Locals("bannerID").(int)

	var banner models.Banner
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", bannerID, false).First(&banner).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Banner not found!", nil)
	}

	banner.IsDeleted = true
	banner.IsActive = false

	if err := database.Database.Db.Save(&banner).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete banner!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Banner deleted successfully!", nil)
}

// AdminActivateBanner toggles a banner on or off
func AdminActivateBanner(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	bannerID := c.Locals("bannerID").(int)

	reqData, ok := c.Locals("validatedActivate").(*struct {
		Active *bool `json:"active"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var banner models.Banner
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", bannerID, false).First(&banner).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Banner not found!", nil)
	}

	banner.IsActive = *reqData.Active

	if err := database.Database.Db.Save(&banner).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update banner!", nil)
	}

	message := "Banner deactivated successfully!"
	if banner.IsActive {
		message = "Banner activated successfully!"
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, banner)
}

// AdminReorderBanners rewrites the display order from the given id list
func AdminReorderBanners(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedReorder").(*struct {
		IDs []uint `json:"ids"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		for i, id := range reqData.IDs {
			if err := tx.Model(&models.Banner{}).
				Where("id = ? AND is_deleted = ?", id, false).
				Update("order_index", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reorder banners!", nil)
	}

	var banners []models.Banner
	database.Database.Db.Where("is_deleted = ?", false).Order("order_index asc").Find(&banners)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Banners reordered successfully!", fiber.Map{
		"banners": banners,
	})
}
