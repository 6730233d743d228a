package bannerController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gradus/config"
	"gradus/database"
	"gradus/middleware"
	"gradus/models"
	bannerValidator "gradus/validators/banner"

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

// newBannerApp wires the same chains the router uses
func newBannerApp() *fiber.App {
	manageBanners := middleware.CheckPermissionMiddleware("manage-banners")

	app := fiber.New()
	app.Get("/banners", GetActiveBanners)
	app.Get("/admin/banner/list", middleware.AdminJWTMiddleware, manageBanners, AdminGetAllBanners)
	app.Post("/admin/banner/create", middleware.AdminJWTMiddleware, manageBanners, bannerValidator.CreateBanner(), AdminCreateBanner)
	app.Put("/admin/banner/reorder", middleware.AdminJWTMiddleware, manageBanners, bannerValidator.ReorderBanners(), AdminReorderBanners)
	app.Put("/admin/banner/:id", middleware.AdminJWTMiddleware, manageBanners, bannerValidator.UpdateBanner(), AdminUpdateBanner)
	app.Delete("/admin/banner/:id", middleware.AdminJWTMiddleware, manageBanners, bannerValidator.BannerID(), AdminDeleteBanner)
	app.Patch("/admin/banner/:id/activate", middleware.AdminJWTMiddleware, manageBanners, bannerValidator.ActivateBanner(), AdminActivateBanner)
	return app
}

func adminToken(t *testing.T, db *gorm.DB) string {
	t.Helper()

	admin := models.AdminUser{Name: "Ops", Email: "ops@example.com", Password: "x", Role: "ADMIN"}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&models.AdminPermission{
		AdminUserID: admin.ID,
		Permission:  "manage-banners",
		GrantedBy:   admin.ID,
	}).Error)

	token, err := middleware.GenerateAdminJWT(admin.ID, admin.Name, admin.Role, admin.Email)
	require.NoError(t, err)
	return token
}

func createBanner(t *testing.T, db *gorm.DB, title string, orderIndex int, active bool) models.Banner {
	t.Helper()

	banner := models.Banner{
		Title:      title,
		ImageURL:   "https://cdn.example.com/" + title + ".webp",
		OrderIndex: orderIndex,
		IsActive:   active,
	}
	require.NoError(t, db.Create(&banner).Error)
	return banner
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

func TestGetActiveBannersOrdersAndFilters(t *testing.T) {
	db := setupTestDB(t)
	app := newBannerApp()

	createBanner(t, db, "second", 2, true)
	createBanner(t, db, "first", 1, true)
	createBanner(t, db, "hidden", 0, false)

	resp := doJSON(t, app, "GET", "/banners", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	banners := body["data"].(map[string]interface{})["banners"].([]interface{})
	require.Len(t, banners, 2)
	assert.Equal(t, "first", banners[0].(map[string]interface{})["title"])
	assert.Equal(t, "second", banners[1].(map[string]interface{})["title"])
}

func TestAdminCreateBanner(t *testing.T) {
	db := setupTestDB(t)
	app := newBannerApp()
	token := adminToken(t, db)

	resp := doJSON(t, app, "POST", "/admin/banner/create", fiber.Map{
		"title":     "Spring Cohort",
		"image_url": "https://cdn.example.com/spring.webp",
		"link_url":  "https://example.com/courses",
	}, token)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var banner models.Banner
	require.NoError(t, db.Where("title = ?", "Spring Cohort").First(&banner).Error)
	assert.True(t, banner.IsActive)
}

func TestAdminCreateBannerValidation(t *testing.T) {
	db := setupTestDB(t)
	app := newBannerApp()
	token := adminToken(t, db)

	resp := doJSON(t, app, "POST", "/admin/banner/create", fiber.Map{
		"title": "No Image",
	}, token)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/admin/banner/create", fiber.Map{
		"title":     "Bad Image",
		"image_url": "not a url",
	}, token)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAdminBannerRequiresPermission(t *testing.T) {
	db := setupTestDB(t)
	app := newBannerApp()

	admin := models.AdminUser{Name: "NoPerm", Email: "noperm@example.com", Password: "x", Role: "ADMIN"}
	require.NoError(t, db.Create(&admin).Error)
	token, err := middleware.GenerateAdminJWT(admin.ID, admin.Name, admin.Role, admin.Email)
	require.NoError(t, err)

	resp := doJSON(t, app, "GET", "/admin/banner/list", nil, token)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/admin/banner/list", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminUpdateBanner(t *testing.T) {
	db := setupTestDB(t)
	app := newBannerApp()
	token := adminToken(t, db)

	banner := createBanner(t, db, "old title", 0, true)

	resp := doJSON(t, app, "PUT", fmt.Sprintf("/admin/banner/%d", banner.ID), fiber.Map{
		"title": "new title",
	}, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.Banner
	require.NoError(t, db.First(&updated, banner.ID).Error)
	assert.Equal(t, "new title", updated.Title)

	// Untouched fields keep their values
	assert.Equal(t, banner.ImageURL, updated.ImageURL)

	resp = doJSON(t, app, "PUT", "/admin/banner/99999", fiber.Map{
		"title": "nope",
	}, token)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminDeleteBannerHidesIt(t *testing.T) {
	db := setupTestDB(t)
	app := newBannerApp()
	token := adminToken(t, db)

	banner := createBanner(t, db, "doomed", 0, true)

	resp := doJSON(t, app, "DELETE", fmt.Sprintf("/admin/banner/%d", banner.ID), nil, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var deleted models.Banner
	require.NoError(t, db.First(&deleted, banner.ID).Error)
	assert.True(t, deleted.IsDeleted)
	assert.False(t, deleted.IsActive)

	// Gone from the public list
	resp = doJSON(t, app, "GET", "/banners", nil, "")
	body := decodeBody(t, resp)
	banners := body["data"].(map[string]interface{})["banners"].([]interface{})
	assert.Empty(t, banners)

	// Deleting again is a 404
	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/admin/banner/%d", banner.ID), nil, token)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminActivateBannerToggle(t *testing.T) {
	db := setupTestDB(t)
	app := newBannerApp()
	token := adminToken(t, db)

	banner := createBanner(t, db, "seasonal", 0, true)

	resp := doJSON(t, app, "PATCH", fmt.Sprintf("/admin/banner/%d/activate", banner.ID), fiber.Map{
		"active": false,
	}, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Banner deactivated successfully!", body["message"])

	var toggled models.Banner
	require.NoError(t, db.First(&toggled, banner.ID).Error)
	assert.False(t, toggled.IsActive)

	resp = doJSON(t, app, "PATCH", fmt.Sprintf("/admin/banner/%d/activate", banner.ID), fiber.Map{
		"active": true,
	}, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "Banner activated successfully!", body["message"])
}

func TestAdminReorderBanners(t *testing.T) {
	db := setupTestDB(t)
	app := newBannerApp()
	token := adminToken(t, db)

	a := createBanner(t, db, "a", 0, true)
	b := createBanner(t, db, "b", 1, true)
	c := createBanner(t, db, "c", 2, true)

	resp := doJSON(t, app, "PUT", "/admin/banner/reorder", fiber.Map{
		"ids": []uint{c.ID, a.ID, b.ID},
	}, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var banners []models.Banner
	require.NoError(t, db.Where("is_deleted = ?", false).Order("order_index asc").Find(&banners).Error)
	require.Len(t, banners, 3)
	assert.Equal(t, "c", banners[0].Title)
	assert.Equal(t, "a", banners[1].Title)
	assert.Equal(t, "b", banners[2].Title)
}
