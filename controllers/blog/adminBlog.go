package blogController

import (
	"fmt"
	"time"

	"gradus/database"
	"gradus/middleware"
	"gradus/models"
	"gradus/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
)

// uniqueBlogSlug derives a slug from the title and suffixes a counter
// until no other post carries it
func uniqueBlogSlug(title string) string {
	base := utils.Slugify(title)
	slug := base
	for i := 2; ; i++ {
		var count int64
		database.Database.Db.Model(&models.Blog{}).Where("slug = ?", slug).Count(&count)
		if count == 0 {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// AdminGetAllBlogs lists posts of every status for the back office
func AdminGetAllBlogs(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	status := c.Query("status")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Blog{}).Where("is_deleted = ?", false)

	if status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	db.Count(&total)

	var blogs []models.Blog
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&blogs).Error; err != nil {
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

// AdminCreateBlog creates a new post as a draft
func AdminCreateBlog(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedBlog").(*struct {
		Title         string   `json:"title"`
		Author        string   `json:"author"`
		CoverImageURL string   `json:"cover_image_url"`
		Excerpt       string   `json:"excerpt"`
		Content       string   `json:"content"`
		Tags          []string `json:"tags"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	blog := models.Blog{
		Title:         reqData.Title,
		Slug:          uniqueBlogSlug(reqData.Title),
		Author:        reqData.Author,
		CoverImageURL: reqData.CoverImageURL,
		Excerpt:       reqData.Excerpt,
		Content:       reqData.Content,
		Tags:          pq.StringArray(reqData.Tags),
		Status:        "DRAFT",
	}

	if err := database.Database.Db.Create(&blog).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create blog!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Blog created successfully!", blog)
}

// AdminUpdateBlog updates an existing post
func AdminUpdateBlog(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	blogID := c.Locals("blogID").(int)

	var blog models.Blog
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", blogID, false).First(&blog).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Blog not found!", nil)
	}

	reqData, ok := c.Locals("validatedBlog").(*struct {
		Title         *string   `json:"title"`
		Author        *string   `json:"author"`
		CoverImageURL *string   `json:"cover_image_url"`
		Excerpt       *string   `json:"excerpt"`
		Content       *string   `json:"content"`
		Tags          *[]string `json:"tags"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Update only provided fields, the slug stays stable once minted
	if reqData.Title != nil {
		blog.Title = *reqData.Title
	}
	if reqData.Author != nil {
		blog.Author = *reqData.Author
	}
	if reqData.CoverImageURL != nil {
		blog.CoverImageURL = *reqData.CoverImageURL
	}
	if reqData.Excerpt != nil {
		blog.Excerpt = *reqData.Excerpt
	}
	if reqData.Content != nil {
		blog.Content = *reqData.Content
	}
	if reqData.Tags != nil {
		blog.Tags = pq.StringArray(*reqData.Tags)
	}

	if err := database.Database.Db.Save(&blog).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update blog!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Blog updated successfully!", blog)
}

// AdminDeleteBlog soft deletes a post
func AdminDeleteBlog(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	blogID := c.Locals("blogID").(int)

	var blog models.Blog
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", blogID, false).First(&blog).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Blog not found!", nil)
	}

	blog.IsDeleted = true

	if err := database.Database.Db.Save(&blog).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete blog!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Blog deleted successfully!", nil)
}

// AdminPublishBlog publishes or unpublishes a post
func AdminPublishBlog(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	blogID := c.Locals("blogID").(int)

	reqData, ok := c.Locals("validatedPublish").(*struct {
		Publish *bool `json:"publish"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var blog models.Blog
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", blogID, false).First(&blog).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Blog not found!", nil)
	}

	if *reqData.Publish {
		blog.Status = "PUBLISHED"
		if blog.PublishedAt == nil {
			now := time.Now()
			blog.PublishedAt = &now
		}
	} else {
		blog.Status = "DRAFT"
	}

	if err := database.Database.Db.Save(&blog).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update blog!", nil)
	}

	message := "Blog unpublished successfully!"
	if blog.Status == "PUBLISHED" {
		message = "Blog published successfully!"
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, blog)
}

// AdminGetBlogComments lists every comment on a post, approved or not
func AdminGetBlogComments(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	blogID := c.Locals("blogID").(int)

	var blog models.Blog
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", blogID, false).First(&blog).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Blog not found!", nil)
	}

	var comments []models.BlogComment
	if err := database.Database.Db.
		Where("blog_id = ? AND is_deleted = ?", blog.ID, false).
		Order("created_at desc").
		Find(&comments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch comments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Comments fetched successfully!", fiber.Map{
		"comments": comments,
	})
}

// AdminGetPendingComments lists comments awaiting moderation across all blogs
func AdminGetPendingComments(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	db := database.Database.Db

	query := db.Model(&models.BlogComment{}).Where("is_approved = ? AND is_deleted = ?", false, false)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch comments!", nil)
	}

	var comments []models.BlogComment
	if err := query.Order("created_at asc").Offset((page - 1) * limit).Limit(limit).Find(&comments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch comments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending comments fetched successfully!", fiber.Map{
		"comments": comments,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// AdminApproveComment makes a held comment visible on the site
func AdminApproveComment(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	commentID := c.Locals("commentID").(int)

	var comment models.BlogComment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", commentID, false).First(&comment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Comment not found!", nil)
	}

	comment.IsApproved = true

	if err := database.Database.Db.Save(&comment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to approve comment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Comment approved successfully!", comment)
}

// AdminDeleteComment soft deletes a comment
func AdminDeleteComment(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	commentID := c.Locals("commentID").(int)

	var comment models.BlogComment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", commentID, false).First(&comment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Comment not found!", nil)
	}

	comment.IsDeleted = true
	comment.IsApproved = false

	if err := database.Database.Db.Save(&comment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete comment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Comment deleted successfully!", nil)
}
