package liveController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gradus/config"
	"gradus/database"
	"gradus/middleware"
	"gradus/models"
	courseModels "gradus/models/course"
	liveModels "gradus/models/live"
	liveValidator "gradus/validators/live"

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

// stubVideoProvider fakes the conferencing API the controllers talk to
func stubVideoProvider(t *testing.T) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "POST" && r.URL.Path == "/rooms":
			fmt.Fprint(w, `{"id":"room-123"}`)
		case r.Method == "POST" && strings.HasPrefix(r.URL.Path, "/room-codes/room/"):
			fmt.Fprint(w, `{"data":[{"code":"code-host","role":"host","enabled":true},{"code":"code-guest","role":"guest","enabled":true}]}`)
		case strings.HasSuffix(r.URL.Path, "/end-room"):
			fmt.Fprint(w, `{}`)
		case r.URL.Path == "/recording-assets":
			fmt.Fprint(w, `{"data":[{"id":"asset-1","type":"room-composite","status":"completed","duration":2712.4},{"id":"asset-2","type":"chat","status":"completed","duration":0}]}`)
		case strings.HasSuffix(r.URL.Path, "/presigned-url"):
			fmt.Fprint(w, `{"url":"https://storage.example.com/asset-1.mp4"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	config.AppConfig.VideoApiURL = srv.URL
	config.AppConfig.VideoAccessKey = "test-access-key"
	config.AppConfig.VideoSecret = "test-video-secret"
	config.AppConfig.VideoTemplateID = ""
	config.AppConfig.VideoTokenValidity = 60
}

func newLiveApp() *fiber.App {
	manageLive := middleware.CheckPermissionMiddleware("manage-live")

	app := fiber.New()
	app.Get("/live/upcoming", middleware.JWTMiddleware, GetUpcomingSessions)
	app.Get("/live/recordings", middleware.JWTMiddleware, GetMyRecordings)
	app.Get("/live/:id/token", middleware.JWTMiddleware, liveValidator.SessionID(), GetJoinToken)
	app.Post("/live/:id/leave", middleware.JWTMiddleware, liveValidator.SessionID(), LeaveSession)
	app.Post("/live/:id/chat", middleware.JWTMiddleware, liveValidator.ChatMessage(), PostChatMessage)
	app.Get("/live/:id/chat", middleware.JWTMiddleware, liveValidator.SessionID(), GetChatMessages)
	app.Post("/live/:id/hand/raise", middleware.JWTMiddleware, liveValidator.SessionID(), RaiseHand)
	app.Post("/live/:id/hand/lower", middleware.JWTMiddleware, liveValidator.SessionID(), LowerHand)

	app.Post("/admin/live/create", middleware.AdminJWTMiddleware, manageLive, liveValidator.CreateSession(), AdminCreateSession)
	app.Post("/admin/live/:id/start", middleware.AdminJWTMiddleware, manageLive, liveValidator.SessionID(), AdminStartSession)
	app.Post("/admin/live/:id/end", middleware.AdminJWTMiddleware, manageLive, liveValidator.SessionID(), AdminEndSession)
	app.Post("/admin/live/:id/cancel", middleware.AdminJWTMiddleware, manageLive, liveValidator.SessionID(), AdminCancelSession)
	app.Post("/admin/live/:id/recordings/sync", middleware.AdminJWTMiddleware, manageLive, liveValidator.SessionID(), AdminSyncRecordings)
	return app
}

func liveAdminToken(t *testing.T, db *gorm.DB) string {
	t.Helper()

	admin := models.AdminUser{Name: "Host", Email: "host@example.com", Password: "x", Role: "ADMIN"}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&models.AdminPermission{
		AdminUserID: admin.ID,
		Permission:  "manage-live",
		GrantedBy:   admin.ID,
	}).Error)

	token, err := middleware.GenerateAdminJWT(admin.ID, admin.Name, admin.Role, admin.Email)
	require.NoError(t, err)
	return token
}

func liveUserToken(t *testing.T, db *gorm.DB, email string) (models.User, string) {
	t.Helper()

	user := models.User{Name: "Student", Email: email, Password: "x", IsEmailVerified: true}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Email, user.Mobile)
	require.NoError(t, err)
	return user, token
}

func createSession(t *testing.T, db *gorm.DB, courseID *uint, status string, scheduledAt time.Time) liveModels.LiveSession {
	t.Helper()

	session := liveModels.LiveSession{
		CourseID:    courseID,
		Title:       "Algebra Live",
		Instructor:  "Prof. X",
		RoomID:      "room-123",
		RoomCode:    "code-guest",
		ScheduledAt: scheduledAt,
		Status:      status,
	}
	if status == "LIVE" {
		now := time.Now()
		session.StartedAt = &now
	}
	require.NoError(t, db.Create(&session).Error)
	return session
}

func enrollUser(t *testing.T, db *gorm.DB, userID uint, slug string) courseModels.Course {
	t.Helper()

	course := courseModels.Course{Title: "Algebra", Slug: slug, Status: "ACTIVE", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)
	require.NoError(t, db.Create(&courseModels.Enrollment{
		UserID:   userID,
		CourseID: course.ID,
		Status:   "ACTIVE",
	}).Error)
	return course
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

func TestAdminCreateSessionProvisionsRoom(t *testing.T) {
	db := setupTestDB(t)
	stubVideoProvider(t)
	app := newLiveApp()
	token := liveAdminToken(t, db)

	resp := doJSON(t, app, "POST", "/admin/live/create", fiber.Map{
		"title":       "Open Doubt Hour",
		"instructor":  "Prof. X",
		"scheduledAt": time.Now().Add(2 * time.Hour).Format(time.RFC3339),
		"duration":    90,
	}, token)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var session liveModels.LiveSession
	require.NoError(t, db.Where("title = ?", "Open Doubt Hour").First(&session).Error)
	assert.Equal(t, "SCHEDULED", session.Status)
	assert.Equal(t, "room-123", session.RoomID)
	assert.Equal(t, 90, session.Duration)
	assert.Nil(t, session.CourseID)

	// The guest code is the one handed to attendees
	assert.Equal(t, "code-guest", session.RoomCode)
}

func TestAdminCreateSessionUnknownCourse(t *testing.T) {
	db := setupTestDB(t)
	stubVideoProvider(t)
	app := newLiveApp()
	token := liveAdminToken(t, db)

	resp := doJSON(t, app, "POST", "/admin/live/create", fiber.Map{
		"courseId":    99999,
		"title":       "Ghost Course Class",
		"scheduledAt": time.Now().Add(2 * time.Hour).Format(time.RFC3339),
	}, token)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminCreateSessionValidation(t *testing.T) {
	db := setupTestDB(t)
	stubVideoProvider(t)
	app := newLiveApp()
	token := liveAdminToken(t, db)

	resp := doJSON(t, app, "POST", "/admin/live/create", fiber.Map{
		"title":       "No Time",
		"scheduledAt": time.Now().Add(-time.Hour).Format(time.RFC3339),
	}, token)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSessionLifecycle(t *testing.T) {
	db := setupTestDB(t)
	stubVideoProvider(t)
	app := newLiveApp()
	adminTok := liveAdminToken(t, db)
	_, userTok := liveUserToken(t, db, "student@example.com")

	session := createSession(t, db, nil, "SCHEDULED", time.Now().Add(5*time.Minute))

	// Start it
	resp := doJSON(t, app, "POST", fmt.Sprintf("/admin/live/%d/start", session.ID), nil, adminTok)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var started liveModels.LiveSession
	require.NoError(t, db.First(&started, session.ID).Error)
	assert.Equal(t, "LIVE", started.Status)
	require.NotNil(t, started.StartedAt)

	// Starting twice is refused
	resp = doJSON(t, app, "POST", fmt.Sprintf("/admin/live/%d/start", session.ID), nil, adminTok)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// A user joins and gets a token plus an open attendance span
	resp = doJSON(t, app, "GET", fmt.Sprintf("/live/%d/token", session.ID), nil, userTok)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, "code-guest", data["room_code"])

	var spans []liveModels.LiveAttendance
	require.NoError(t, db.Where("session_id = ?", session.ID).Find(&spans).Error)
	require.Len(t, spans, 1)
	assert.Nil(t, spans[0].LeftAt)

	// Fetching the token again reuses the open span
	resp = doJSON(t, app, "GET", fmt.Sprintf("/live/%d/token", session.ID), nil, userTok)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, db.Where("session_id = ?", session.ID).Find(&spans).Error)
	assert.Len(t, spans, 1)

	// Chat works while live
	resp = doJSON(t, app, "POST", fmt.Sprintf("/live/%d/chat", session.ID), fiber.Map{
		"message": "hello",
	}, userTok)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var chat liveModels.LiveChatMessage
	require.NoError(t, db.Where("session_id = ?", session.ID).First(&chat).Error)
	assert.Equal(t, "Student", chat.SenderName)

	// Hand raise, duplicate raise, lower
	resp = doJSON(t, app, "POST", fmt.Sprintf("/live/%d/hand/raise", session.ID), nil, userTok)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp = doJSON(t, app, "POST", fmt.Sprintf("/live/%d/hand/raise", session.ID), nil, userTok)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	resp = doJSON(t, app, "POST", fmt.Sprintf("/live/%d/hand/lower", session.ID), nil, userTok)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// End the session
	resp = doJSON(t, app, "POST", fmt.Sprintf("/admin/live/%d/end", session.ID), nil, adminTok)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["recordings_synced"])

	var ended liveModels.LiveSession
	require.NoError(t, db.First(&ended, session.ID).Error)
	assert.Equal(t, "ENDED", ended.Status)
	require.NotNil(t, ended.EndedAt)

	// The open span was closed with the session
	require.NoError(t, db.Where("session_id = ?", session.ID).Find(&spans).Error)
	require.Len(t, spans, 1)
	assert.NotNil(t, spans[0].LeftAt)
	assert.GreaterOrEqual(t, spans[0].Duration, 0)

	// Provider recordings landed, filtered to finished composites
	var recordings []liveModels.LiveRecording
	require.NoError(t, db.Where("session_id = ?", session.ID).Find(&recordings).Error)
	require.Len(t, recordings, 1)
	assert.Equal(t, "asset-1", recordings[0].AssetID)
	assert.Equal(t, 2712, recordings[0].Duration)
	assert.Equal(t, "https://storage.example.com/asset-1.mp4", recordings[0].PlaybackURL)
	assert.Equal(t, "Algebra Live", recordings[0].Title)

	// Chat is closed now
	resp = doJSON(t, app, "POST", fmt.Sprintf("/live/%d/chat", session.ID), fiber.Map{
		"message": "too late",
	}, userTok)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestJoinTokenScheduledWindow(t *testing.T) {
	db := setupTestDB(t)
	stubVideoProvider(t)
	app := newLiveApp()
	_, userTok := liveUserToken(t, db, "student@example.com")

	// Too early
	far := createSession(t, db, nil, "SCHEDULED", time.Now().Add(30*time.Minute))
	resp := doJSON(t, app, "GET", fmt.Sprintf("/live/%d/token", far.ID), nil, userTok)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Session has not started yet!", body["message"])

	// Inside the early join window
	soon := createSession(t, db, nil, "SCHEDULED", time.Now().Add(5*time.Minute))
	resp = doJSON(t, app, "GET", fmt.Sprintf("/live/%d/token", soon.ID), nil, userTok)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Cancelled sessions hand out nothing
	gone := createSession(t, db, nil, "CANCELLED", time.Now().Add(5*time.Minute))
	resp = doJSON(t, app, "GET", fmt.Sprintf("/live/%d/token", gone.ID), nil, userTok)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "Session is not live!", body["message"])
}

func TestJoinTokenRequiresEnrollment(t *testing.T) {
	db := setupTestDB(t)
	stubVideoProvider(t)
	app := newLiveApp()

	enrolled, enrolledTok := liveUserToken(t, db, "enrolled@example.com")
	_, outsiderTok := liveUserToken(t, db, "outsider@example.com")

	course := enrollUser(t, db, enrolled.ID, "algebra")
	session := createSession(t, db, &course.ID, "LIVE", time.Now().Add(-10*time.Minute))

	resp := doJSON(t, app, "GET", fmt.Sprintf("/live/%d/token", session.ID), nil, outsiderTok)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, "GET", fmt.Sprintf("/live/%d/token", session.ID), nil, enrolledTok)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLeaveSessionClosesSpan(t *testing.T) {
	db := setupTestDB(t)
	stubVideoProvider(t)
	app := newLiveApp()

	user, userTok := liveUserToken(t, db, "student@example.com")
	session := createSession(t, db, nil, "LIVE", time.Now().Add(-10*time.Minute))

	resp := doJSON(t, app, "GET", fmt.Sprintf("/live/%d/token", session.ID), nil, userTok)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "POST", fmt.Sprintf("/live/%d/leave", session.ID), nil, userTok)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var span liveModels.LiveAttendance
	require.NoError(t, db.Where("session_id = ? AND user_id = ?", session.ID, user.ID).First(&span).Error)
	require.NotNil(t, span.LeftAt)
	assert.GreaterOrEqual(t, span.Duration, 0)

	// Leaving again finds nothing open
	resp = doJSON(t, app, "POST", fmt.Sprintf("/live/%d/leave", session.ID), nil, userTok)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetUpcomingSessionsVisibility(t *testing.T) {
	db := setupTestDB(t)
	stubVideoProvider(t)
	app := newLiveApp()

	enrolled, enrolledTok := liveUserToken(t, db, "enrolled@example.com")
	_, outsiderTok := liveUserToken(t, db, "outsider@example.com")

	course := enrollUser(t, db, enrolled.ID, "algebra")

	createSession(t, db, nil, "SCHEDULED", time.Now().Add(time.Hour))
	createSession(t, db, &course.ID, "SCHEDULED", time.Now().Add(2*time.Hour))
	createSession(t, db, nil, "ENDED", time.Now().Add(-time.Hour))

	resp := doJSON(t, app, "GET", "/live/upcoming", nil, enrolledTok)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	sessions := body["data"].([]interface{})
	assert.Len(t, sessions, 2)

	// The outsider only sees the open session
	resp = doJSON(t, app, "GET", "/live/upcoming", nil, outsiderTok)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	sessions = body["data"].([]interface{})
	assert.Len(t, sessions, 1)
}

func TestAdminSyncRecordingsOnlyForEnded(t *testing.T) {
	db := setupTestDB(t)
	stubVideoProvider(t)
	app := newLiveApp()
	adminTok := liveAdminToken(t, db)

	live := createSession(t, db, nil, "LIVE", time.Now().Add(-time.Hour))
	resp := doJSON(t, app, "POST", fmt.Sprintf("/admin/live/%d/recordings/sync", live.ID), nil, adminTok)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	ended := createSession(t, db, nil, "ENDED", time.Now().Add(-2*time.Hour))
	resp = doJSON(t, app, "POST", fmt.Sprintf("/admin/live/%d/recordings/sync", ended.ID), nil, adminTok)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var recordings []liveModels.LiveRecording
	require.NoError(t, db.Where("session_id = ?", ended.ID).Find(&recordings).Error)
	assert.Len(t, recordings, 1)

	// Syncing again updates in place instead of duplicating
	resp = doJSON(t, app, "POST", fmt.Sprintf("/admin/live/%d/recordings/sync", ended.ID), nil, adminTok)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, db.Where("session_id = ?", ended.ID).Find(&recordings).Error)
	assert.Len(t, recordings, 1)
}

func TestAdminCancelSession(t *testing.T) {
	db := setupTestDB(t)
	stubVideoProvider(t)
	app := newLiveApp()
	adminTok := liveAdminToken(t, db)

	session := createSession(t, db, nil, "SCHEDULED", time.Now().Add(time.Hour))

	resp := doJSON(t, app, "POST", fmt.Sprintf("/admin/live/%d/cancel", session.ID), nil, adminTok)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var cancelled liveModels.LiveSession
	require.NoError(t, db.First(&cancelled, session.ID).Error)
	assert.Equal(t, "CANCELLED", cancelled.Status)

	// Cancelling a finished session is refused
	resp = doJSON(t, app, "POST", fmt.Sprintf("/admin/live/%d/cancel", session.ID), nil, adminTok)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestGetMyRecordingsFiltersAvailability(t *testing.T) {
	db := setupTestDB(t)
	stubVideoProvider(t)
	app := newLiveApp()

	_, userTok := liveUserToken(t, db, "student@example.com")

	session := createSession(t, db, nil, "ENDED", time.Now().Add(-2*time.Hour))
	require.NoError(t, db.Create(&liveModels.LiveRecording{
		SessionID:   session.ID,
		AssetID:     "asset-1",
		Title:       session.Title,
		PlaybackURL: "https://storage.example.com/asset-1.mp4",
		IsAvailable: true,
	}).Error)
	require.NoError(t, db.Create(&liveModels.LiveRecording{
		SessionID:   session.ID,
		AssetID:     "asset-hidden",
		Title:       session.Title,
		PlaybackURL: "https://storage.example.com/asset-hidden.mp4",
		IsAvailable: false,
	}).Error)

	resp := doJSON(t, app, "GET", "/live/recordings", nil, userTok)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	recordings := body["data"].([]interface{})
	require.Len(t, recordings, 1)
	assert.Equal(t, "asset-1", recordings[0].(map[string]interface{})["asset_id"])
}
