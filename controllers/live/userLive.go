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

// joinWindow is how early before the scheduled time a user may join
const joinWindow = 10 * time.Minute

// canAccessSession reports whether a user may see a session. Open sessions
// have no course binding, everything else requires an active enrollment.
func canAccessSession(userID uint, session liveModels.LiveSession) bool {
	if session.CourseID == nil {
		return true
	}

	var count int64
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND status = ? AND is_deleted = ?", userID, *session.CourseID, "ACTIVE", false).
		Count(&count)
	return count > 0
}

// enrolledCourseIDs returns the ids of courses the user is actively enrolled in
func enrolledCourseIDs(userID uint) []uint {
	var enrollments []courseModels.Enrollment
	database.Database.Db.Where("user_id = ? AND status = ? AND is_deleted = ?", userID, "ACTIVE", false).
		Find(&enrollments)

	ids := make([]uint, 0, len(enrollments))
	for _, enrollment := range enrollments {
		ids = append(ids, enrollment.CourseID)
	}
	return ids
}

// GetUpcomingSessions lists sessions visible to the user, soonest first
func GetUpcomingSessions(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	courseIDs := enrolledCourseIDs(userId)

	query := db.Where("is_deleted = ? AND status IN ?", false, []string{"SCHEDULED", "LIVE"})
	if len(courseIDs) > 0 {
		query = query.Where("course_id IS NULL OR course_id IN ?", courseIDs)
	} else {
		query = query.Where("course_id IS NULL")
	}

	var sessions []liveModels.LiveSession
	if err := query.Order("scheduled_at asc").Find(&sessions).Error; err != nil {
		log.Printf("Error fetching upcoming sessions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch upcoming sessions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Upcoming sessions fetched successfully!", sessions)
}

// GetJoinToken issues a join token for a session and records the join.
// Scheduled sessions open a few minutes early, everything else must be live.
func GetJoinToken(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
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

	switch session.Status {
	case "LIVE":
	case "SCHEDULED":
		if time.Now().Before(session.ScheduledAt.Add(-joinWindow)) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Session has not started yet!", nil)
		}
	default:
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Session is not live!", nil)
	}

	if !canAccessSession(userId, session) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	token, err := utils.GenerateJoinToken(session.RoomID, userId, "guest")
	if err != nil {
		log.Printf("Error generating join token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate join token!", nil)
	}

	// Reuse an open span so re-fetching a token does not double count
	var open liveModels.LiveAttendance
	err = db.Where("session_id = ? AND user_id = ? AND left_at IS NULL AND is_deleted = ?", session.ID, userId, false).
		First(&open).Error
	if err != nil {
		attendance := liveModels.LiveAttendance{
			SessionID: session.ID,
			UserID:    userId,
			JoinedAt:  time.Now(),
		}
		if err := db.Create(&attendance).Error; err != nil {
			log.Printf("Error recording attendance: %v", err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Join token generated successfully!", fiber.Map{
		"token":     token,
		"room_code": session.RoomCode,
		"session":   session,
	})
}

// LeaveSession closes the user's open attendance span
func LeaveSession(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sessionID, ok := c.Locals("sessionID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Session ID!", nil)
	}

	db := database.Database.Db

	var attendance liveModels.LiveAttendance
	if err := db.Where("session_id = ? AND user_id = ? AND left_at IS NULL AND is_deleted = ?", sessionID, userId, false).
		First(&attendance).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No active attendance found!", nil)
	}

	now := time.Now()
	attendance.LeftAt = &now
	attendance.Duration = int(now.Sub(attendance.JoinedAt).Minutes())
	if attendance.Duration < 0 {
		attendance.Duration = 0
	}

	if err := db.Save(&attendance).Error; err != nil {
		log.Printf("Error closing attendance: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record leave!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Left session successfully!", attendance)
}

// PostChatMessage posts a chat message to a live session
func PostChatMessage(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sessionID, ok := c.Locals("sessionID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Session ID!", nil)
	}

	reqData, ok := c.Locals("validatedChat").(*struct {
		Message string `json:"message"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid chat data!", nil)
	}

	db := database.Database.Db

	var session liveModels.LiveSession
	if err := db.Where("id = ? AND is_deleted = ?", sessionID, false).First(&session).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Session not found!", nil)
	}

	if session.Status != "LIVE" {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Chat is only open while the session is live!", nil)
	}

	if !canAccessSession(userId, session) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	var user models.User
	if err := db.Select("name").Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	message := liveModels.LiveChatMessage{
		SessionID:  session.ID,
		UserID:     userId,
		SenderName: user.Name,
		Message:    reqData.Message,
	}

	if err := db.Create(&message).Error; err != nil {
		log.Printf("Error saving chat message: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to post message!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Message posted successfully!", message)
}

// GetChatMessages returns session chat, newest first
func GetChatMessages(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sessionID, ok := c.Locals("sessionID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Session ID!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 50)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	db := database.Database.Db

	var session liveModels.LiveSession
	if err := db.Where("id = ? AND is_deleted = ?", sessionID, false).First(&session).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Session not found!", nil)
	}

	if !canAccessSession(userId, session) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	query := db.Model(&liveModels.LiveChatMessage{}).Where("session_id = ? AND is_deleted = ?", session.ID, false)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("Error counting chat messages: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch messages!", nil)
	}

	var messages []liveModels.LiveChatMessage
	if err := query.Order("created_at desc").Offset((page - 1) * limit).Limit(limit).Find(&messages).Error; err != nil {
		log.Printf("Error fetching chat messages: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch messages!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Messages fetched successfully!", fiber.Map{
		"messages": messages,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// RaiseHand raises the user's hand in a live session
func RaiseHand(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
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
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Hands can only be raised while the session is live!", nil)
	}

	if !canAccessSession(userId, session) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	var existing liveModels.LiveHandRaise
	err := db.Where("session_id = ? AND user_id = ? AND is_lowered = ? AND is_deleted = ?", session.ID, userId, false, false).
		First(&existing).Error
	if err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Hand is already raised!", nil)
	}

	hand := liveModels.LiveHandRaise{
		SessionID: session.ID,
		UserID:    userId,
		RaisedAt:  time.Now(),
	}

	if err := db.Create(&hand).Error; err != nil {
		log.Printf("Error raising hand: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to raise hand!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Hand raised successfully!", hand)
}

// LowerHand lowers the user's raised hand
func LowerHand(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sessionID, ok := c.Locals("sessionID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Session ID!", nil)
	}

	db := database.Database.Db

	var hand liveModels.LiveHandRaise
	if err := db.Where("session_id = ? AND user_id = ? AND is_lowered = ? AND is_deleted = ?", sessionID, userId, false, false).
		First(&hand).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No raised hand found!", nil)
	}

	hand.IsLowered = true

	if err := db.Save(&hand).Error; err != nil {
		log.Printf("Error lowering hand: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to lower hand!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Hand lowered successfully!", hand)
}

// GetMyRecordings lists available recordings for sessions the user can access
func GetMyRecordings(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	courseIDs := enrolledCourseIDs(userId)

	query := db.Where("is_deleted = ? AND status = ?", false, "ENDED")
	if len(courseIDs) > 0 {
		query = query.Where("course_id IS NULL OR course_id IN ?", courseIDs)
	} else {
		query = query.Where("course_id IS NULL")
	}

	var sessions []liveModels.LiveSession
	if err := query.Find(&sessions).Error; err != nil {
		log.Printf("Error fetching ended sessions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch recordings!", nil)
	}

	if len(sessions) == 0 {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Recordings fetched successfully!", []liveModels.LiveRecording{})
	}

	sessionIDs := make([]uint, 0, len(sessions))
	for _, session := range sessions {
		sessionIDs = append(sessionIDs, session.ID)
	}

	var recordings []liveModels.LiveRecording
	if err := db.Where("session_id IN ? AND is_available = ? AND is_deleted = ?", sessionIDs, true, false).
		Order("created_at desc").Find(&recordings).Error; err != nil {
		log.Printf("Error fetching recordings: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch recordings!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Recordings fetched successfully!", recordings)
}
