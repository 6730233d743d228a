package liveController

import (
	"log"
	"time"

	"gradus/database"
	"gradus/middleware"
	"gradus/models"
	courseModels "gradus/models/course"
	liveModels "gradus/models/live"
	"gradus/utils"

	"github.com/gofiber/fiber/v2"
)

// enrolledRecipients collects the email and name of every active enrolled
// user of a course, for session notifications.
func enrolledRecipients(courseID uint) []models.User {
	db := database.Database.Db

	var enrollments []courseModels.Enrollment
	if err := db.Where("course_id = ? AND status = ? AND is_deleted = ?", courseID, "ACTIVE", false).
		Find(&enrollments).Error; err != nil {
		log.Printf("Error fetching enrollments for course %d: %v", courseID, err)
		return nil
	}

	var recipients []models.User
	for _, enrollment := range enrollments {
		var user models.User
		if err := db.Select("name, email").Where("id = ? AND is_deleted = ?", enrollment.UserID, false).
			First(&user).Error; err != nil {
			continue
		}
		recipients = append(recipients, user)
	}
	return recipients
}

// AdminCreateSession schedules a live class and provisions the video room
func AdminCreateSession(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedSession").(*struct {
		CourseID    *uint     `json:"courseId"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Instructor  string    `json:"instructor"`
		ScheduledAt time.Time `json:"scheduledAt"`
		Duration    int       `json:"duration"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid session data!", nil)
	}

	db := database.Database.Db

	if reqData.CourseID != nil {
		var course courseModels.Course
		if err := db.Where("id = ? AND is_deleted = ?", *reqData.CourseID, false).First(&course).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
	}

	roomID, err := utils.CreateVideoRoom(reqData.Title, reqData.Description)
	if err != nil {
		log.Printf("Error creating video room: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create video room!", nil)
	}

	roomCode, err := utils.CreateRoomCode(roomID)
	if err != nil {
		log.Printf("Error creating room code: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create room code!", nil)
	}

	session := liveModels.LiveSession{
		CourseID:    reqData.CourseID,
		Title:       reqData.Title,
		Description: reqData.Description,
		Instructor:  reqData.Instructor,
		RoomID:      roomID,
		RoomCode:    roomCode,
		ScheduledAt: reqData.ScheduledAt,
		Status:      "SCHEDULED",
	}
	if reqData.Duration > 0 {
		session.Duration = reqData.Duration
	}

	if err := db.Create(&session).Error; err != nil {
		log.Printf("Error creating live session: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create live session!", nil)
	}

	if session.CourseID != nil {
		go func(courseID uint, title string, scheduledAt time.Time) {
			for _, user := range enrolledRecipients(courseID) {
				utils.SendLiveClassEmail(user.Email, user.Name, title, scheduledAt)
			}
		}(*session.CourseID, session.Title, session.ScheduledAt)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Live session created successfully!", session)
}

// AdminUpdateSession edits or reschedules a session that has not started yet
func AdminUpdateSession(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sessionID, ok := c.Locals("sessionID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Session ID!", nil)
	}

	reqData, ok := c.Locals("validatedSession").(*struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Instructor  *string    `json:"instructor"`
		ScheduledAt *time.Time `json:"scheduledAt"`
		Duration    *int       `json:"duration"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid session data!", nil)
	}

	db := database.Database.Db

	var session liveModels.LiveSession
	if err := db.Where("id = ? AND is_deleted = ?", sessionID, false).First(&session).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Session not found!", nil)
	}

	if session.Status != "SCHEDULED" {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Only scheduled sessions can be updated!", nil)
	}

	if reqData.Title != nil {
		session.Title = *reqData.Title
	}
	if reqData.Description != nil {
		session.Description = *reqData.Description
	}
	if reqData.Instructor != nil {
		session.Instructor = *reqData.Instructor
	}
	if reqData.ScheduledAt != nil {
		session.ScheduledAt = *reqData.ScheduledAt
	}
	if reqData.Duration != nil && *reqData.Duration > 0 {
		session.Duration = *reqData.Duration
	}

	if err := db.Save(&session).Error; err != nil {
		log.Printf("Error updating live session: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update live session!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Live session updated successfully!", session)
}

// AdminGetAllSessions lists sessions with optional status filter
func AdminGetAllSessions(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedSessionList").(*struct {
		Page   int    `query:"page"`
		Limit  int    `query:"limit"`
		Status string `query:"status"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
	}

	db := database.Database.Db

	query := db.Model(&liveModels.LiveSession{}).Where("is_deleted = ?", false)
	if reqData.Status != "" {
		query = query.Where("status = ?", reqData.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("Error counting live sessions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch live sessions!", nil)
	}

	var sessions []liveModels.LiveSession
	offset := (reqData.Page - 1) * reqData.Limit
	if err := query.Order("scheduled_at desc").Offset(offset).Limit(reqData.Limit).Find(&sessions).Error; err != nil {
		log.Printf("Error fetching live sessions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch live sessions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Live sessions fetched successfully!", fiber.Map{
		"sessions": sessions,
		"total":    total,
		"page":     reqData.Page,
		"limit":    reqData.Limit,
	})
}

// AdminStartSession moves a scheduled session live
func AdminStartSession(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sessionID, ok := c.Locals("sessionID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Session ID!", nil)
	}

	db := database.Database.Db

	var session liveModels.LiveSession
	if err := db.Where("id = ? AND is_deleted = ?", sessionID, false).First(&session).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Session not found!", nil)
	}

	if session.Status != "SCHEDULED" {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Only scheduled sessions can be started!", nil)
	}

	now := time.Now()
	session.Status = "LIVE"
	session.StartedAt = &now

	if err := db.Save(&session).Error; err != nil {
		log.Printf("Error starting live session: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start live session!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Live session started successfully!", session)
}

// AdminEndSession ends a live session, closes open attendance spans and
// pulls recordings from the provider.
func AdminEndSession(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sessionID, ok := c.Locals("sessionID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Session ID!", nil)
	}

	db := database.Database.Db

	var session liveModels.LiveSession
	if err := db.Where("id = ? AND is_deleted = ?", sessionID, false).First(&session).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Session not found!", nil)
	}

	if session.Status != "LIVE" {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Only live sessions can be ended!", nil)
	}

	now := time.Now()
	session.Status = "ENDED"
	session.EndedAt = &now

	if err := db.Save(&session).Error; err != nil {
		log.Printf("Error ending live session: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to end live session!", nil)
	}

	closeOpenAttendance(session.ID, now)

	if err := utils.EndVideoRoom(session.RoomID); err != nil {
		// The room expires on its own, a failed disable is not fatal
		log.Printf("Error ending video room %s: %v", session.RoomID, err)
	}

	synced := syncSessionRecordings(session)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Live session ended successfully!", fiber.Map{
		"session":           session,
		"recordings_synced": synced,
	})
}

// closeOpenAttendance stamps left_at on spans still open when a session ends
func closeOpenAttendance(sessionID uint, endedAt time.Time) {
	db := database.Database.Db

	var open []liveModels.LiveAttendance
	if err := db.Where("session_id = ? AND left_at IS NULL AND is_deleted = ?", sessionID, false).
		Find(&open).Error; err != nil {
		log.Printf("Error fetching open attendance for session %d: %v", sessionID, err)
		return
	}

	for _, attendance := range open {
		left := endedAt
		attendance.LeftAt = &left
		attendance.Duration = int(endedAt.Sub(attendance.JoinedAt).Minutes())
		if attendance.Duration < 0 {
			attendance.Duration = 0
		}
		if err := db.Save(&attendance).Error; err != nil {
			log.Printf("Error closing attendance %d: %v", attendance.ID, err)
		}
	}
}

// syncSessionRecordings upserts provider recordings by asset id and
// returns how many rows were written.
func syncSessionRecordings(session liveModels.LiveSession) int {
	db := database.Database.Db

	providerRecordings, err := utils.FetchRecordings(session.RoomID)
	if err != nil {
		log.Printf("Error fetching recordings for room %s: %v", session.RoomID, err)
		return 0
	}

	synced := 0
	for _, rec := range providerRecordings {
		var existing liveModels.LiveRecording
		err := db.Where("session_id = ? AND asset_id = ?", session.ID, rec.AssetID).First(&existing).Error
		if err == nil {
			existing.Duration = rec.Duration
			existing.PlaybackURL = rec.PlaybackURL
			if err := db.Save(&existing).Error; err != nil {
				log.Printf("Error updating recording %s: %v", rec.AssetID, err)
				continue
			}
			synced++
			continue
		}

		recording := liveModels.LiveRecording{
			SessionID:   session.ID,
			AssetID:     rec.AssetID,
			Title:       session.Title,
			Duration:    rec.Duration,
			PlaybackURL: rec.PlaybackURL,
			IsAvailable: true,
		}
		if err := db.Create(&recording).Error; err != nil {
			log.Printf("Error saving recording %s: %v", rec.AssetID, err)
			continue
		}
		synced++
	}
	return synced
}

// AdminCancelSession cancels a session and notifies enrolled users
func AdminCancelSession(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sessionID, ok := c.Locals("sessionID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Session ID!", nil)
	}

	db := database.Database.Db

	var session liveModels.LiveSession
	if err := db.Where("id = ? AND is_deleted = ?", sessionID, false).First(&session).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Session not found!", nil)
	}

	if session.Status == "ENDED" || session.Status == "CANCELLED" {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Session is already over!", nil)
	}

	session.Status = "CANCELLED"

	if err := db.Save(&session).Error; err != nil {
		log.Printf("Error cancelling live session: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to cancel live session!", nil)
	}

	if err := utils.EndVideoRoom(session.RoomID); err != nil {
		log.Printf("Error ending video room %s: %v", session.RoomID, err)
	}

	if session.CourseID != nil {
		go func(courseID uint, title string) {
			for _, user := range enrolledRecipients(courseID) {
				utils.SendLiveClassCancelledEmail(user.Email, user.Name, title)
			}
		}(*session.CourseID, session.Title)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Live session cancelled successfully!", session)
}

// AttendanceWithUser is an attendance span joined with basic user info
type AttendanceWithUser struct {
	liveModels.LiveAttendance
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// AdminGetAttendance returns the attendance sheet of a session
func AdminGetAttendance(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sessionID, ok := c.Locals("sessionID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Session ID!", nil)
	}

	db := database.Database.Db

	var session liveModels.LiveSession
	if err := db.Where("id = ? AND is_deleted = ?", sessionID, false).First(&session).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Session not found!", nil)
	}

	var attendance []liveModels.LiveAttendance
	if err := db.Where("session_id = ? AND is_deleted = ?", session.ID, false).
		Order("joined_at asc").Find(&attendance).Error; err != nil {
		log.Printf("Error fetching attendance: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attendance!", nil)
	}

	var sheet []AttendanceWithUser
	for _, span := range attendance {
		entry := AttendanceWithUser{LiveAttendance: span}

		var user models.User
		if err := db.Select("name, email").Where("id = ?", span.UserID).First(&user).Error; err == nil {
			entry.UserName = user.Name
			entry.UserEmail = user.Email
		}
		sheet = append(sheet, entry)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attendance fetched successfully!", fiber.Map{
		"session":    session,
		"attendance": sheet,
		"total":      len(sheet),
	})
}

// AdminSyncRecordings re-fetches recordings from the provider for a session
func AdminSyncRecordings(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sessionID, ok := c.Locals("sessionID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Session ID!", nil)
	}

	db := database.Database.Db

	var session liveModels.LiveSession
	if err := db.Where("id = ? AND is_deleted = ?", sessionID, false).First(&session).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Session not found!", nil)
	}

	if session.Status != "ENDED" {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Recordings can only be synced for ended sessions!", nil)
	}

	synced := syncSessionRecordings(session)

	var recordings []liveModels.LiveRecording
	if err := db.Where("session_id = ? AND is_deleted = ?", session.ID, false).Find(&recordings).Error; err != nil {
		log.Printf("Error fetching recordings: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch recordings!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Recordings synced successfully!", fiber.Map{
		"recordings": recordings,
		"synced":     synced,
	})
}

// AdminUpdateRecording edits recording title or availability
func AdminUpdateRecording(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	recordingID, ok := c.Locals("recordingID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Recording ID!", nil)
	}

	reqData, ok := c.Locals("validatedRecording").(*struct {
		Title     *string `json:"title"`
		Available *bool   `json:"available"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid recording data!", nil)
	}

	db := database.Database.Db

	var recording liveModels.LiveRecording
	if err := db.Where("id = ? AND is_deleted = ?", recordingID, false).First(&recording).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Recording not found!", nil)
	}

	if reqData.Title != nil {
		recording.Title = *reqData.Title
	}
	if reqData.Available != nil {
		recording.IsAvailable = *reqData.Available
	}

	if err := db.Save(&recording).Error; err != nil {
		log.Printf("Error updating recording: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update recording!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Recording updated successfully!", recording)
}

// AdminDeleteRecording soft deletes a recording
func AdminDeleteRecording(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	recordingID, ok := c.Locals("recordingID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Recording ID!", nil)
	}

	db := database.Database.Db

	var recording liveModels.LiveRecording
	if err := db.Where("id = ? AND is_deleted = ?", recordingID, false).First(&recording).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Recording not found!", nil)
	}

	recording.IsDeleted = true
	recording.IsAvailable = false

	if err := db.Save(&recording).Error; err != nil {
		log.Printf("Error deleting recording: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete recording!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Recording deleted successfully!", nil)
}

// HandRaiseWithUser is a hand raise joined with basic user info
type HandRaiseWithUser struct {
	liveModels.LiveHandRaise
	UserName string `json:"user_name"`
}

// AdminGetHandRaises lists active hand raises for a session, oldest first
func AdminGetHandRaises(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sessionID, ok := c.Locals("sessionID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Session ID!", nil)
	}

	db := database.Database.Db

	var hands []liveModels.LiveHandRaise
	if err := db.Where("session_id = ? AND is_lowered = ? AND is_deleted = ?", sessionID, false, false).
		Order("raised_at asc").Find(&hands).Error; err != nil {
		log.Printf("Error fetching hand raises: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch hand raises!", nil)
	}

	var result []HandRaiseWithUser
	for _, hand := range hands {
		entry := HandRaiseWithUser{LiveHandRaise: hand}

		var user models.User
		if err := db.Select("name").Where("id = ?", hand.UserID).First(&user).Error; err == nil {
			entry.UserName = user.Name
		}
		result = append(result, entry)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Hand raises fetched successfully!", result)
}

// AdminAcknowledgeHand marks a raised hand as acknowledged
func AdminAcknowledgeHand(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	handID, ok := c.Locals("handID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Hand Raise ID!", nil)
	}

	db := database.Database.Db

	var hand liveModels.LiveHandRaise
	if err := db.Where("id = ? AND is_deleted = ?", handID, false).First(&hand).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Hand raise not found!", nil)
	}

	if hand.IsAcknowledged {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Hand raise is already acknowledged!", nil)
	}

	now := time.Now()
	hand.IsAcknowledged = true
	hand.AcknowledgedAt = &now

	if err := db.Save(&hand).Error; err != nil {
		log.Printf("Error acknowledging hand raise: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to acknowledge hand raise!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Hand raise acknowledged successfully!", hand)
}
