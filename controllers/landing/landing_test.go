package landingController

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gradus/database"
	"gradus/models"
	landingValidator "gradus/validators/landing"

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
	return db
}

func newLandingApp() *fiber.App {
	app := fiber.New()
	app.Get("/landing/:slug", GetLandingPageBySlug)
	app.Post("/landing/:slug/register", landingValidator.Register(), Register)
	return app
}

func createLandingPage(t *testing.T, db *gorm.DB, slug string, published bool, capacity int) models.LandingPage {
	t.Helper()

	page := models.LandingPage{
		Slug:               slug,
		Title:              "Career Webinar",
		Headline:           "Level up",
		Capacity:           capacity,
		IsRegistrationOpen: true,
		IsPublished:        published,
	}
	require.NoError(t, db.Create(&page).Error)
	return page
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
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

func TestGetLandingPageBySlug(t *testing.T) {
	db := setupTestDB(t)
	app := newLandingApp()

	createLandingPage(t, db, "career-webinar", true, 0)

	req := httptest.NewRequest("GET", "/landing/career-webinar", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, false, data["is_full"])

	req = httptest.NewRequest("GET", "/landing/no-such-page", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetLandingPageHidesUnpublished(t *testing.T) {
	db := setupTestDB(t)
	app := newLandingApp()

	createLandingPage(t, db, "draft-page", false, 0)

	req := httptest.NewRequest("GET", "/landing/draft-page", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRegisterCreatesRegistrationAndSyncJob(t *testing.T) {
	db := setupTestDB(t)
	app := newLandingApp()

	page := createLandingPage(t, db, "career-webinar", true, 0)

	resp := postJSON(t, app, "/landing/career-webinar/register", fiber.Map{
		"name":   "Jane Doe",
		"email":  "jane@example.com",
		"mobile": "9876543210",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	refCode, _ := data["reference_code"].(string)
	assert.True(t, strings.HasPrefix(refCode, "REG-"))

	var reg models.LandingPageRegistration
	require.NoError(t, db.Where("landing_page_id = ?", page.ID).First(&reg).Error)
	assert.Equal(t, "jane@example.com", reg.Email)
	assert.Equal(t, refCode, reg.ReferenceCode)
	assert.False(t, reg.IsSynced)

	// The spreadsheet append is queued, not done inline
	var job models.SheetsSyncJob
	require.NoError(t, db.Where("job_type = ?", "LANDING_REGISTRATION").First(&job).Error)
	assert.Equal(t, "pending", job.Status)

	var cells []interface{}
	require.NoError(t, json.Unmarshal(job.Payload, &cells))
	require.NotEmpty(t, cells)
	assert.Equal(t, refCode, cells[0])
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	app := newLandingApp()

	createLandingPage(t, db, "career-webinar", true, 0)

	resp := postJSON(t, app, "/landing/career-webinar/register", fiber.Map{
		"name":  "Jane Doe",
		"email": "jane@example.com",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/landing/career-webinar/register", fiber.Map{
		"name":  "Jane Again",
		"email": "jane@example.com",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "This email is already registered!", body["message"])
}

func TestRegisterRejectsWhenFull(t *testing.T) {
	db := setupTestDB(t)
	app := newLandingApp()

	createLandingPage(t, db, "small-event", true, 1)

	resp := postJSON(t, app, "/landing/small-event/register", fiber.Map{
		"name":  "First",
		"email": "first@example.com",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/landing/small-event/register", fiber.Map{
		"name":  "Second",
		"email": "second@example.com",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Registration is full!", body["message"])
}

func TestRegisterRejectsWhenClosed(t *testing.T) {
	db := setupTestDB(t)
	app := newLandingApp()

	page := createLandingPage(t, db, "closed-event", true, 0)
	require.NoError(t, db.Model(&page).Update("is_registration_open", false).Error)

	resp := postJSON(t, app, "/landing/closed-event/register", fiber.Map{
		"name":  "Late",
		"email": "late@example.com",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	db := setupTestDB(t)
	app := newLandingApp()

	createLandingPage(t, db, "career-webinar", true, 0)

	resp := postJSON(t, app, "/landing/career-webinar/register", fiber.Map{
		"email": "no-name@example.com",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp = postJSON(t, app, "/landing/career-webinar/register", fiber.Map{
		"name":  "Bad Email",
		"email": "not-an-email",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp = postJSON(t, app, "/landing/career-webinar/register", fiber.Map{
		"name":   "Bad Mobile",
		"email":  "mobile@example.com",
		"mobile": "12345",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRegisterUnknownPage(t *testing.T) {
	setupTestDB(t)
	app := newLandingApp()

	resp := postJSON(t, app, "/landing/missing/register", fiber.Map{
		"name":  "Jane",
		"email": "jane@example.com",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
