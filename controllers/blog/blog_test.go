package blogController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gradus/config"
	"gradus/database"
	"gradus/middleware"
	"gradus/models"
	blogValidator "gradus/validators/blog"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	config.AppConfig.JWTKey = "test-secret"
	return db
}

func newBlogApp() *fiber.App {
	manageBlogs := middleware.CheckPermissionMiddleware("manage-blogs")

	app := fiber.New()
	app.Get("/blog/list", GetPublishedBlogs)
	app.Get("/blog/:slug", GetBlogBySlug)
	app.Post("/blog/:id/comment", blogValidator.CreateComment(), CreateComment)

	app.Get("/admin/blog/comments/pending", middleware.AdminJWTMiddleware, manageBlogs, AdminGetPendingComments)
	app.Post("/admin/blog/:id/publish", middleware.AdminJWTMiddleware, manageBlogs, blogValidator.PublishBlog(), AdminPublishBlog)
	app.Patch("/admin/blog/comment/:id/approve", middleware.AdminJWTMiddleware, manageBlogs, blogValidator.CommentID(), AdminApproveComment)
	app.Delete("/admin/blog/comment/:id", middleware.AdminJWTMiddleware, manageBlogs, blogValidator.CommentID(), AdminDeleteComment)
	return app
}

func blogAdminToken(t *testing.T, db *gorm.DB) string {
	t.Helper()

	admin := models.AdminUser{Name: "Editor", Email: "editor@example.com", Password: "x", Role: "ADMIN"}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&models.AdminPermission{
		AdminUserID: admin.ID,
		Permission:  "manage-blogs",
		GrantedBy:   admin.ID,
	}).Error)

	token, err := middleware.GenerateAdminJWT(admin.ID, admin.Name, admin.Role, admin.Email)
	require.NoError(t, err)
	return token
}

func createBlog(t *testing.T, db *gorm.DB, slug, status string) models.Blog {
	t.Helper()

	blog := models.Blog{
		Title:   "How to study",
		Slug:    slug,
		Author:  "Jane",
		Content: "Long form content",
		Status:  status,
	}
	if status == "PUBLISHED" {
		now := time.Now()
		blog.PublishedAt = &now
	}
	require.NoError(t, db.Create(&blog).Error)
	return blog
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) *http.Response {
	t.Helper()

	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestGetBlogBySlugCountsViews(t *testing.T) {
	db := setupTestDB(t)
	app := newBlogApp()

	blog := createBlog(t, db, "how-to-study", "PUBLISHED")

	resp := doJSON(t, app, "GET", "/blog/how-to-study", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/blog/how-to-study", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var read models.Blog
	require.NoError(t, db.First(&read, blog.ID).Error)
	assert.Equal(t, uint(2), read.ViewCount)
}

func TestGetBlogBySlugHidesDrafts(t *testing.T) {
	db := setupTestDB(t)
	app := newBlogApp()

	createBlog(t, db, "secret-draft", "DRAFT")

	resp := doJSON(t, app, "GET", "/blog/secret-draft", nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCommentModerationFlow(t *testing.T) {
	db := setupTestDB(t)
	app := newBlogApp()
	token := blogAdminToken(t, db)

	blog := createBlog(t, db, "how-to-study", "PUBLISHED")

	// A fresh comment is held for review
	resp := doJSON(t, app, "POST", fmt.Sprintf("/blog/%d/comment", blog.ID), fiber.Map{
		"author_name": "Reader",
		"email":       "reader@example.com",
		"body":        "Great post!",
	}, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var comment models.BlogComment
	require.NoError(t, db.Where("blog_id = ?", blog.ID).First(&comment).Error)
	assert.False(t, comment.IsApproved)

	// Not visible on the public page yet
	resp = doJSON(t, app, "GET", "/blog/how-to-study", nil, "")
	body := decodeBody(t, resp)
	comments := body["data"].(map[string]interface{})["comments"].([]interface{})
	assert.Empty(t, comments)

	// It shows up in the moderation queue
	resp = doJSON(t, app, "GET", "/admin/blog/comments/pending", nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	pending := body["data"].(map[string]interface{})["comments"].([]interface{})
	require.Len(t, pending, 1)

	// Approve it
	resp = doJSON(t, app, "PATCH", fmt.Sprintf("/admin/blog/comment/%d/approve", comment.ID), nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Now the public page shows it and the queue is empty
	resp = doJSON(t, app, "GET", "/blog/how-to-study", nil, "")
	body = decodeBody(t, resp)
	comments = body["data"].(map[string]interface{})["comments"].([]interface{})
	require.Len(t, comments, 1)
	assert.Equal(t, "Great post!", comments[0].(map[string]interface{})["body"])

	resp = doJSON(t, app, "GET", "/admin/blog/comments/pending", nil, token)
	body = decodeBody(t, resp)
	pending = body["data"].(map[string]interface{})["comments"].([]interface{})
	assert.Empty(t, pending)
}

func TestCommentOnDraftBlogRejected(t *testing.T) {
	db := setupTestDB(t)
	app := newBlogApp()

	blog := createBlog(t, db, "secret-draft", "DRAFT")

	resp := doJSON(t, app, "POST", fmt.Sprintf("/blog/%d/comment", blog.ID), fiber.Map{
		"author_name": "Reader",
		"email":       "reader@example.com",
		"body":        "First!",
	}, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCommentValidation(t *testing.T) {
	db := setupTestDB(t)
	app := newBlogApp()

	blog := createBlog(t, db, "how-to-study", "PUBLISHED")

	resp := doJSON(t, app, "POST", fmt.Sprintf("/blog/%d/comment", blog.ID), fiber.Map{
		"author_name": "",
		"email":       "bad-email",
		"body":        "",
	}, "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/blog/abc/comment", fiber.Map{
		"author_name": "Reader",
		"email":       "reader@example.com",
		"body":        "hi",
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminDeleteCommentRemovesFromQueue(t *testing.T) {
	db := setupTestDB(t)
	app := newBlogApp()
	token := blogAdminToken(t, db)

	blog := createBlog(t, db, "how-to-study", "PUBLISHED")
	comment := models.BlogComment{BlogID: blog.ID, AuthorName: "Spam", Email: "spam@example.com", Body: "buy now"}
	require.NoError(t, db.Create(&comment).Error)

	resp := doJSON(t, app, "DELETE", fmt.Sprintf("/admin/blog/comment/%d", comment.ID), nil, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var deleted models.BlogComment
	require.NoError(t, db.First(&deleted, comment.ID).Error)
	assert.True(t, deleted.IsDeleted)

	resp = doJSON(t, app, "GET", "/admin/blog/comments/pending", nil, token)
	body := decodeBody(t, resp)
	pending := body["data"].(map[string]interface{})["comments"].([]interface{})
	assert.Empty(t, pending)
}

func TestAdminPublishBlogSetsPublishedAt(t *testing.T) {
	db := setupTestDB(t)
	app := newBlogApp()
	token := blogAdminToken(t, db)

	blog := createBlog(t, db, "drafted", "DRAFT")

	resp := doJSON(t, app, "POST", fmt.Sprintf("/admin/blog/%d/publish", blog.ID), fiber.Map{
		"publish": true,
	}, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var published models.Blog
	require.NoError(t, db.First(&published, blog.ID).Error)
	assert.Equal(t, "PUBLISHED", published.Status)
	require.NotNil(t, published.PublishedAt)
	firstPublish := *published.PublishedAt

	// Unpublish keeps the original publish date for a later re-publish
	resp = doJSON(t, app, "POST", fmt.Sprintf("/admin/blog/%d/publish", blog.ID), fiber.Map{
		"publish": false,
	}, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, db.First(&published, blog.ID).Error)
	assert.Equal(t, "DRAFT", published.Status)

	resp = doJSON(t, app, "POST", fmt.Sprintf("/admin/blog/%d/publish", blog.ID), fiber.Map{
		"publish": true,
	}, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, db.First(&published, blog.ID).Error)
	assert.Equal(t, "PUBLISHED", published.Status)
	require.NotNil(t, published.PublishedAt)
	assert.WithinDuration(t, firstPublish, *published.PublishedAt, time.Second)
}
