package testimonialController

import (
	"gradus/database"
	"gradus/middleware"
	"gradus/models"

	"github.com/gofiber/fiber/v2"
)

// GetApprovedTestimonials lists the testimonials shown on the website
func GetApprovedTestimonials(c *fiber.Ctx) error {
	var testimonials []models.Testimonial
	if err := database.Database.Db.
		Where("is_approved = ? AND is_deleted = ?", true, false).
		Order("order_index asc").
		Find(&testimonials).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch testimonials!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Testimonials fetched successfully!", fiber.Map{
		"testimonials": testimonials,
	})
}

// AdminGetAllTestimonials lists every testimonial for the back office
func AdminGetAllTestimonials(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var testimonials []models.Testimonial
	if err := database.Database.Db.
		Where("is_deleted = ?", false).
		Order("order_index asc").
		Find(&testimonials).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch testimonials!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Testimonials fetched successfully!", fiber.Map{
		"testimonials": testimonials,
	})
}

// AdminCreateTestimonial creates a new testimonial, unapproved by default
func AdminCreateTestimonial(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedTestimonial").(*struct {
		AuthorName  string `json:"author_name"`
		AuthorTitle string `json:"author_title"`
		AvatarURL   string `json:"avatar_url"`
		Quote       string `json:"quote"`
		Rating      uint   `json:"rating"`
		OrderIndex  int    `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	testimonial := models.Testimonial{
		AuthorName:  reqData.AuthorName,
		AuthorTitle: reqData.AuthorTitle,
		AvatarURL:   reqData.AvatarURL,
		Quote:       reqData.Quote,
		OrderIndex:  reqData.OrderIndex,
		IsApproved:  false,
	}
	if reqData.Rating != 0 {
		testimonial.Rating = reqData.Rating
	}

	if err := database.Database.Db.Create(&testimonial).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create testimonial!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Testimonial created successfully!", testimonial)
}

// AdminUpdateTestimonial updates an existing testimonial
func AdminUpdateTestimonial(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	testimonialID := c.Locals("testimonialID").(int)

	var testimonial models.Testimonial
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", testimonialID, false).First(&testimonial).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Testimonial not found!", nil)
	}

	reqData, ok := c.Locals("validatedTestimonial").(*struct {
		AuthorName  *string `json:"author_name"`
		AuthorTitle *string `json:"author_title"`
		AvatarURL   *string `json:"avatar_url"`
		Quote       *string `json:"quote"`
		Rating      *uint   `json:"rating"`
		OrderIndex  *int    `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Update only provided fields
	if reqData.AuthorName != nil {
		testimonial.AuthorName = *reqData.AuthorName
	}
	if reqData.AuthorTitle != nil {
		testimonial.AuthorTitle = *reqData.AuthorTitle
	}
	if reqData.AvatarURL != nil {
		testimonial.AvatarURL = *reqData.AvatarURL
	}
	if reqData.Quote != nil {
		testimonial.Quote = *reqData.Quote
	}
	if reqData.Rating != nil {
		testimonial.Rating = *reqData.Rating
	}
	if reqData.OrderIndex != nil {
		testimonial.OrderIndex = *reqData.OrderIndex
	}

	if err := database.Database.Db.Save(&testimonial).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update testimonial!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Testimonial updated successfully!", testimonial)
}

// AdminDeleteTestimonial soft deletes a testimonial
func AdminDeleteTestimonial(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	testimonialID := c.Locals("testimonialID").(int)

	var testimonial models.Testimonial
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", testimonialID, false).First(&testimonial).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Testimonial not found!", nil)
	}

	testimonial.IsDeleted = true
	testimonial.IsApproved = false

	if err := database.Database.Db.Save(&testimonial).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete testimonial!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Testimonial deleted successfully!", nil)
}

// AdminApproveTestimonial toggles whether a testimonial shows on the site
func AdminApproveTestimonial(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	testimonialID := c.Locals("testimonialID").(int)

	reqData, ok := c.Locals("validatedApprove").(*struct {
		Approved *bool `json:"approved"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var testimonial models.Testimonial
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", testimonialID, false).First(&testimonial).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Testimonial not found!", nil)
	}

	testimonial.IsApproved = *reqData.Approved

	if err := database.Database.Db.Save(&testimonial).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update testimonial!", nil)
	}

	message := "Testimonial hidden successfully!"
	if testimonial.IsApproved {
		message = "Testimonial approved successfully!"
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, testimonial)
}
