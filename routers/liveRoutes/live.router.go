package liveRoutes

import (
	liveControllers "gradus/controllers/live"
	"gradus/middleware"
	liveValidators "gradus/validators/live"

	"github.com/gofiber/fiber/v2"
)

func SetupLiveRoutes(app *fiber.App) {
	liveGroup := app.Group("/live")

	// User session access
	liveGroup.Get("/upcoming", middleware.JWTMiddleware, liveControllers.GetUpcomingSessions)
	liveGroup.Get("/recordings", middleware.JWTMiddleware, liveControllers.GetMyRecordings)
	liveGroup.Get("/:id/token", middleware.JWTMiddleware, liveValidators.SessionID(), liveControllers.GetJoinToken)
	liveGroup.Post("/:id/leave", middleware.JWTMiddleware, liveValidators.SessionID(), liveControllers.LeaveSession)

	// Chat and hand raises
	liveGroup.Post("/:id/chat", middleware.JWTMiddleware, liveValidators.ChatMessage(), liveControllers.PostChatMessage)
	liveGroup.Get("/:id/chat", middleware.JWTMiddleware, liveValidators.SessionID(), liveControllers.GetChatMessages)
	liveGroup.Post("/:id/hand/raise", middleware.JWTMiddleware, liveValidators.SessionID(), liveControllers.RaiseHand)
	liveGroup.Post("/:id/hand/lower", middleware.JWTMiddleware, liveValidators.SessionID(), liveControllers.LowerHand)

	adminGroup := app.Group("/admin/live")
	manageLive := middleware.CheckPermissionMiddleware("manage-live")

	// Session management
	adminGroup.Post("/create", middleware.AdminJWTMiddleware, manageLive, liveValidators.CreateSession(), liveControllers.AdminCreateSession)
	adminGroup.Get("/list", middleware.AdminJWTMiddleware, manageLive, liveValidators.SessionList(), liveControllers.AdminGetAllSessions)
	adminGroup.Put("/:id", middleware.AdminJWTMiddleware, manageLive, liveValidators.UpdateSession(), liveControllers.AdminUpdateSession)
	adminGroup.Post("/:id/start", middleware.AdminJWTMiddleware, manageLive, liveValidators.SessionID(), liveControllers.AdminStartSession)
	adminGroup.Post("/:id/end", middleware.AdminJWTMiddleware, manageLive, liveValidators.SessionID(), liveControllers.AdminEndSession)
	adminGroup.Post("/:id/cancel", middleware.AdminJWTMiddleware, manageLive, liveValidators.SessionID(), liveControllers.AdminCancelSession)

	// Attendance, recordings and hand raises
	adminGroup.Get("/:id/attendance", middleware.AdminJWTMiddleware, manageLive, liveValidators.SessionID(), liveControllers.AdminGetAttendance)
	adminGroup.Post("/:id/recordings/sync", middleware.AdminJWTMiddleware, manageLive, liveValidators.SessionID(), liveControllers.AdminSyncRecordings)
	adminGroup.Put("/recording/:id", middleware.AdminJWTMiddleware, manageLive, liveValidators.UpdateRecording(), liveControllers.AdminUpdateRecording)
	adminGroup.Delete("/recording/:id", middleware.AdminJWTMiddleware, manageLive, liveValidators.RecordingID(), liveControllers.AdminDeleteRecording)
	adminGroup.Get("/:id/hands", middleware.AdminJWTMiddleware, manageLive, liveValidators.SessionID(), liveControllers.AdminGetHandRaises)
	adminGroup.Post("/hand/:id/acknowledge", middleware.AdminJWTMiddleware, manageLive, liveValidators.HandID(), liveControllers.AdminAcknowledgeHand)
}
