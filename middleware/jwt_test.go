package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"gradus/config"
	"gradus/database"
	"gradus/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
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

func TestJWTMiddlewareAllowsSiteToken(t *testing.T) {
	config.AppConfig.JWTKey = "test-secret"

	app := fiber.New()
	app.Get("/me", JWTMiddleware, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", fiber.Map{"userId": c.Locals("userId")})
	})

	token, err := GenerateJWT(42, "Jane", "jane@example.com", "9999999999")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJWTMiddlewareRejectsMissingHeader(t *testing.T) {
	config.AppConfig.JWTKey = "test-secret"

	app := fiber.New()
	app.Get("/me", JWTMiddleware, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	})

	req := httptest.NewRequest("GET", "/me", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddlewareRejectsAdminToken(t *testing.T) {
	config.AppConfig.JWTKey = "test-secret"

	app := fiber.New()
	app.Get("/me", JWTMiddleware, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	})

	// The audiences are separate, a back office token must not open user routes
	token, err := GenerateAdminJWT(7, "Ops", "ADMIN", "ops@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminJWTMiddlewareRejectsSiteToken(t *testing.T) {
	config.AppConfig.JWTKey = "test-secret"

	app := fiber.New()
	app.Get("/admin/me", AdminJWTMiddleware, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	})

	token, err := GenerateJWT(42, "Jane", "jane@example.com", "9999999999")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/admin/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddlewareRejectsExpiredToken(t *testing.T) {
	config.AppConfig.JWTKey = "test-secret"

	claims := jwt.MapClaims{
		"userId": 42,
		"aud":    "site",
		"iat":    time.Now().Add(-2 * time.Hour).Unix(),
		"exp":    time.Now().Add(-time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.AppConfig.JWTKey))
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/me", JWTMiddleware, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	})

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddlewareRejectsForeignSignature(t *testing.T) {
	config.AppConfig.JWTKey = "test-secret"

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": 42,
		"aud":    "site",
		"exp":    time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/me", JWTMiddleware, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	})

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCheckPermissionMiddleware(t *testing.T) {
	db := setupTestDB(t)

	admin := models.AdminUser{Name: "Ops", Email: "ops@example.com", Role: "ADMIN"}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&models.AdminPermission{
		AdminUserID: admin.ID,
		Permission:  "manage-banners",
		GrantedBy:   1,
	}).Error)

	app := fiber.New()
	app.Get("/banners", AdminJWTMiddleware, CheckPermissionMiddleware("manage-banners"), func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	})
	app.Get("/courses", AdminJWTMiddleware, CheckPermissionMiddleware("manage-courses"), func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	})

	token, err := GenerateAdminJWT(admin.ID, admin.Name, admin.Role, admin.Email)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/banners", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Same admin without the courses grant is turned away
	req = httptest.NewRequest("GET", "/courses", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestCheckPermissionMiddlewareSuperAdminBypass(t *testing.T) {
	db := setupTestDB(t)

	admin := models.AdminUser{Name: "Root", Email: "root@example.com", Role: "SUPER_ADMIN"}
	require.NoError(t, db.Create(&admin).Error)

	app := fiber.New()
	app.Get("/courses", AdminJWTMiddleware, CheckPermissionMiddleware("manage-courses"), func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	})

	// No permission rows at all, the role alone is enough
	token, err := GenerateAdminJWT(admin.ID, admin.Name, admin.Role, admin.Email)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/courses", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSuperAdminOnly(t *testing.T) {
	setupTestDB(t)

	app := fiber.New()
	app.Get("/admins", AdminJWTMiddleware, SuperAdminOnly, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	})

	superToken, err := GenerateAdminJWT(1, "Root", "SUPER_ADMIN", "root@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/admins", nil)
	req.Header.Set("Authorization", "Bearer "+superToken)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	adminToken, err := GenerateAdminJWT(2, "Ops", "ADMIN", "ops@example.com")
	require.NoError(t, err)

	req = httptest.NewRequest("GET", "/admins", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
