package blogController

import (
	"log"

	"gradus/database"
	"gradus/middleware"
	"gradus/models"

	"github.com/gofiber/fiber/v2"
)

// GetPublishedBlogs lists published posts for the website
func GetPublishedBlogs(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	tag := c.Query("tag")
	search := c.Query("search")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Blog{}).
		Where("status = ? AND is_deleted = ?", "PUBLISHED", false)

	if search != "" {
		db = db.Where("title ILIKE ?", "%"+search+"%")
	}
	if tag != "" {
		db = db.Where("? = ANY(tags)", tag)
	}

	var total int64
	db.Count(&total)

	var blogs []models.Blog
	if err := db.Offset(offset).Limit(limit).Order("published_at desc").Find(&blogs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch blogs!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Blogs fetched successfully!", fiber.Map{
		"blogs": blogs,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetBlogBySlug returns a published post with its approved comments
func GetBlogBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Blog slug is required!", nil)
	}

	var blog models.Blog
	if err := database.Database.Db.
		Where("slug = ? AND status = ? AND is_deleted = ?", slug, "PUBLISHED", false).
		First(&blog).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Blog not found!", nil)
	}

	// Count the read
	blog.ViewCount++
	if err := database.Database.Db.Save(&blog).Error; err != nil {
		log.Printf("Error updating blog view count: %v", err)
	}

	var comments []models.BlogComment
	database.Database.Db.
		Where("blog_id = ? AND is_approved = ? AND is_deleted = ?", blog.ID, true, false).
		Order("created_at desc").
		Find(&comments)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Blog fetched successfully!", fiber.Map{
		"blog":     blog,
		"comments": comments,
	})
}

// CreateComment accepts a public comment, held until a moderator approves it
func CreateComment(c *fiber.Ctx) error {
	blogID := c.Locals("blogID").(int)

	reqData, ok := c.Locals("validatedComment").(*struct {
		AuthorName string `json:"author_name"`
		Email      string `json:"email"`
		Body       string `json:"body"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var blog models.Blog
	if err := database.Database.Db.
		Where("id = ? AND status = ? AND is_deleted = ?", blogID, "PUBLISHED", false).
		First(&blog).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Blog not found!", nil)
	}

	comment := models.BlogComment{
		BlogID:     blog.ID,
		AuthorName: reqData.AuthorName,
		Email:      reqData.Email,
		Body:       reqData.Body,
		IsApproved: false,
	}

	if err := database.Database.Db.Create(&comment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit comment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Comment submitted for review.", comment)
}
