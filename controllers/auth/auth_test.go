package authController

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gradus/config"
	"gradus/database"
	"gradus/middleware"
	"gradus/models"
	authValidator "gradus/validators/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
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
	config.AppConfig.SaltRound = bcrypt.MinCost
	return db
}

func newAuthApp() *fiber.App {
	app := fiber.New()
	app.Post("/auth/signup", authValidator.Signup(), Signup)
	app.Post("/auth/login", authValidator.Login(), Login)
	app.Patch("/auth/verify/otp", authValidator.VerifyOTP(), VerifyOTP)
	app.Post("/auth/forgot/password", authValidator.ForgotPassword(), ForgotPassword)
	app.Patch("/auth/reset/password", authValidator.ResetPassword(), middleware.JWTMiddleware, ResetPassword)
	app.Get("/auth/profile", middleware.JWTMiddleware, GetProfile)
	return app
}

func createVerifiedUser(t *testing.T, db *gorm.DB, email, password string) models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Name:            "Jane Doe",
		Email:           email,
		Mobile:          "9876543210",
		Password:        string(hashed),
		IsEmailVerified: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
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

func TestSignupCreatesUser(t *testing.T) {
	db := setupTestDB(t)
	app := newAuthApp()

	resp := doJSON(t, app, "POST", "/auth/signup", fiber.Map{
		"name":     "Jane Doe",
		"email":    "jane@example.com",
		"mobile":   "9876543210",
		"password": "supersecret",
	}, "")
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "jane@example.com", data["Email"])
	assert.Empty(t, data["Password"])

	var user models.User
	require.NoError(t, db.Where("email = ?", "jane@example.com").First(&user).Error)
	assert.False(t, user.IsEmailVerified)
	assert.NotEqual(t, "supersecret", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("supersecret")))

	// Signup leaves a pending verification code behind
	var session models.VerificationSession
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&session).Error)
	assert.Equal(t, "SIGNUP", session.Purpose)
	assert.Len(t, session.Code, 6)
	assert.False(t, session.IsUsed)
}

func TestSignupRejectsDuplicates(t *testing.T) {
	db := setupTestDB(t)
	app := newAuthApp()

	createVerifiedUser(t, db, "jane@example.com", "supersecret")

	resp := doJSON(t, app, "POST", "/auth/signup", fiber.Map{
		"name":     "Jane Again",
		"email":    "jane@example.com",
		"mobile":   "1234567890",
		"password": "supersecret",
	}, "")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Email is already registered!", body["message"])

	resp = doJSON(t, app, "POST", "/auth/signup", fiber.Map{
		"name":     "Other Person",
		"email":    "other@example.com",
		"mobile":   "9876543210",
		"password": "supersecret",
	}, "")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "Mobile number is already registered!", body["message"])
}

func TestSignupValidation(t *testing.T) {
	setupTestDB(t)
	app := newAuthApp()

	resp := doJSON(t, app, "POST", "/auth/signup", fiber.Map{
		"name":     "Jo",
		"email":    "not-an-email",
		"mobile":   "123",
		"password": "short",
	}, "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestLoginSuccess(t *testing.T) {
	db := setupTestDB(t)
	app := newAuthApp()

	user := createVerifiedUser(t, db, "jane@example.com", "supersecret")

	resp := doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email":    "jane@example.com",
		"password": "supersecret",
	}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	token, _ := data["token"].(string)
	assert.NotEmpty(t, token)

	// The device and IP of the login get recorded
	var tracking models.LoginTracking
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&tracking).Error)

	// The issued token opens the profile route
	resp = doJSON(t, app, "GET", "/auth/profile", nil, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	profile := body["data"].(map[string]interface{})
	assert.Equal(t, "jane@example.com", profile["Email"])
	assert.Empty(t, profile["Password"])
}

func TestLoginRequiresVerifiedEmail(t *testing.T) {
	db := setupTestDB(t)
	app := newAuthApp()

	hashed, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Name: "Jane", Email: "jane@example.com", Password: string(hashed)}
	require.NoError(t, db.Create(&user).Error)

	resp := doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email":    "jane@example.com",
		"password": "supersecret",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Email not verified!", body["message"])
}

func TestLoginGoogleAccountHasNoPassword(t *testing.T) {
	db := setupTestDB(t)
	app := newAuthApp()

	user := models.User{Name: "Jane", Email: "jane@example.com", GoogleID: "google-sub", IsEmailVerified: true}
	require.NoError(t, db.Create(&user).Error)

	resp := doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email":    "jane@example.com",
		"password": "supersecret",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Please sign in with Google!", body["message"])
}

func TestLoginBlocksAfterRepeatedFailures(t *testing.T) {
	db := setupTestDB(t)
	app := newAuthApp()

	user := createVerifiedUser(t, db, "jane@example.com", "supersecret")

	for i := 0; i < 3; i++ {
		resp := doJSON(t, app, "POST", "/auth/login", fiber.Map{
			"email":    "jane@example.com",
			"password": "wrongpassword",
		}, "")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Wrong Password", body["message"])
	}

	var blocked models.User
	require.NoError(t, db.First(&blocked, user.ID).Error)
	assert.True(t, blocked.IsBlocked)
	assert.Equal(t, 3, blocked.FailedLoginAttempts)
	require.NotNil(t, blocked.BlockedUntil)
	assert.True(t, blocked.BlockedUntil.After(time.Now()))

	// Even the right password is refused while the block lasts
	resp := doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email":    "jane@example.com",
		"password": "supersecret",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Your account is temporarily blocked. Try again later.", body["message"])
}

func TestVerifyOTPMarksEmailVerified(t *testing.T) {
	db := setupTestDB(t)
	app := newAuthApp()

	hashed, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Name: "Jane", Email: "jane@example.com", Password: string(hashed)}
	require.NoError(t, db.Create(&user).Error)

	session := models.VerificationSession{
		UserID:    user.ID,
		Email:     user.Email,
		Code:      "123456",
		Purpose:   "SIGNUP",
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}
	require.NoError(t, db.Create(&session).Error)

	resp := doJSON(t, app, "PATCH", "/auth/verify/otp", fiber.Map{
		"email": "jane@example.com",
		"code":  "999999",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, "PATCH", "/auth/verify/otp", fiber.Map{
		"email": "jane@example.com",
		"code":  "123456",
	}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var verified models.User
	require.NoError(t, db.First(&verified, user.ID).Error)
	assert.True(t, verified.IsEmailVerified)

	var used models.VerificationSession
	require.NoError(t, db.First(&used, session.ID).Error)
	assert.True(t, used.IsUsed)

	// A used code cannot be replayed
	resp = doJSON(t, app, "PATCH", "/auth/verify/otp", fiber.Map{
		"email": "jane@example.com",
		"code":  "123456",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestVerifyOTPRejectsExpiredCode(t *testing.T) {
	db := setupTestDB(t)
	app := newAuthApp()

	user := createVerifiedUser(t, db, "jane@example.com", "supersecret")
	session := models.VerificationSession{
		UserID:    user.ID,
		Email:     user.Email,
		Code:      "123456",
		Purpose:   "PASSWORD_RESET",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, db.Create(&session).Error)

	resp := doJSON(t, app, "PATCH", "/auth/verify/otp", fiber.Map{
		"email": "jane@example.com",
		"code":  "123456",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "OTP has expired!", body["message"])
}

func TestPasswordResetFlow(t *testing.T) {
	db := setupTestDB(t)
	app := newAuthApp()

	user := createVerifiedUser(t, db, "jane@example.com", "supersecret")

	resp := doJSON(t, app, "POST", "/auth/forgot/password", fiber.Map{
		"email": "jane@example.com",
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var session models.VerificationSession
	require.NoError(t, db.Where("user_id = ? AND purpose = ?", user.ID, "PASSWORD_RESET").
		Order("created_at desc").First(&session).Error)

	// Verifying the code hands back a short lived reset token
	resp = doJSON(t, app, "PATCH", "/auth/verify/otp", fiber.Map{
		"email": "jane@example.com",
		"code":  session.Code,
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	resetToken, _ := data["token"].(string)
	require.NotEmpty(t, resetToken)

	resp = doJSON(t, app, "PATCH", "/auth/reset/password", fiber.Map{
		"password": "brandnewsecret",
	}, resetToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Old password is gone, the new one works
	resp = doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email":    "jane@example.com",
		"password": "supersecret",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email":    "jane@example.com",
		"password": "brandnewsecret",
	}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	setupTestDB(t)
	app := newAuthApp()

	resp := doJSON(t, app, "POST", "/auth/forgot/password", fiber.Map{
		"email": "nobody@example.com",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
