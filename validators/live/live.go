package liveValidator

import (
	"strconv"
	"strings"
	"time"

	"gradus/middleware"

	"github.com/gofiber/fiber/v2"
)

// CreateSession validates a live session creation request
func CreateSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID    *uint     `json:"courseId"`
			Title       string    `json:"title"`
			Description string    `json:"description"`
			Instructor  string    `json:"instructor"`
			ScheduledAt time.Time `json:"scheduledAt"`
			Duration    int       `json:"duration"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Instructor = strings.TrimSpace(reqData.Instructor)

		if len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters!"
		}

		if reqData.ScheduledAt.IsZero() {
			errors["scheduledAt"] = "Scheduled time is required!"
		} else if reqData.ScheduledAt.Before(time.Now()) {
			errors["scheduledAt"] = "Scheduled time must be in the future!"
		}

		if reqData.Duration < 0 {
			errors["duration"] = "Duration cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSession", reqData)
		return c.Next()
	}
}

// UpdateSession validates a live session update request
func UpdateSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionIDStr := strings.TrimSpace(c.Params("id"))
		sessionID, err := strconv.Atoi(sessionIDStr)
		if err != nil || sessionID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Session ID!", nil)
		}

		reqData := new(struct {
			Title       *string    `json:"title"`
			Description *string    `json:"description"`
			Instructor  *string    `json:"instructor"`
			ScheduledAt *time.Time `json:"scheduledAt"`
			Duration    *int       `json:"duration"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != nil && len(strings.TrimSpace(*reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters!"
		}
		if reqData.ScheduledAt != nil && reqData.ScheduledAt.Before(time.Now()) {
			errors["scheduledAt"] = "Scheduled time must be in the future!"
		}
		if reqData.Duration != nil && *reqData.Duration < 0 {
			errors["duration"] = "Duration cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("sessionID", sessionID)
		c.Locals("validatedSession", reqData)
		return c.Next()
	}
}

// SessionID validates the :id path param
func SessionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionIDStr := strings.TrimSpace(c.Params("id"))
		sessionID, err := strconv.Atoi(sessionIDStr)
		if err != nil || sessionID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Session ID!", nil)
		}

		c.Locals("sessionID", sessionID)
		return c.Next()
	}
}

// ChatMessage validates a chat message posted to a session
func ChatMessage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionIDStr := strings.TrimSpace(c.Params("id"))
		sessionID, err := strconv.Atoi(sessionIDStr)
		if err != nil || sessionID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Session ID!", nil)
		}

		reqData := new(struct {
			Message string `json:"message"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Message = strings.TrimSpace(reqData.Message)

		if reqData.Message == "" {
			errors["message"] = "Message is required!"
		} else if len(reqData.Message) > 500 {
			errors["message"] = "Message cannot exceed 500 characters!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("sessionID", sessionID)
		c.Locals("validatedChat", reqData)
		return c.Next()
	}
}

// RecordingID validates the :id path param for recording routes
func RecordingID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		recordingIDStr := strings.TrimSpace(c.Params("id"))
		recordingID, err := strconv.Atoi(recordingIDStr)
		if err != nil || recordingID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Recording ID!", nil)
		}

		c.Locals("recordingID", recordingID)
		return c.Next()
	}
}

// UpdateRecording validates a recording metadata update
func UpdateRecording() fiber.Handler {
	return func(c *fiber.Ctx) error {
		recordingIDStr := strings.TrimSpace(c.Params("id"))
		recordingID, err := strconv.Atoi(recordingIDStr)
		if err != nil || recordingID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Recording ID!", nil)
		}

		reqData := new(struct {
			Title     *string `json:"title"`
			Available *bool   `json:"available"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != nil && strings.TrimSpace(*reqData.Title) == "" {
			errors["title"] = "Title cannot be empty!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("recordingID", recordingID)
		c.Locals("validatedRecording", reqData)
		return c.Next()
	}
}

// HandID validates the :id path param for hand raise routes
func HandID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		handIDStr := strings.TrimSpace(c.Params("id"))
		handID, err := strconv.Atoi(handIDStr)
		if err != nil || handID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Hand Raise ID!", nil)
		}

		c.Locals("handID", handID)
		return c.Next()
	}
}

// SessionList validates pagination params for session listings
func SessionList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page   int    `query:"page"`
			Limit  int    `query:"limit"`
			Status string `query:"status"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		if reqData.Page <= 0 {
			errors["page"] = "Page must be a positive number!"
		}
		if reqData.Limit <= 0 {
			errors["limit"] = "Limit must be a positive number!"
		}
		if reqData.Status != "" {
			validStatus := map[string]bool{"SCHEDULED": true, "LIVE": true, "ENDED": true, "CANCELLED": true}
			if !validStatus[reqData.Status] {
				errors["status"] = "Status must be SCHEDULED, LIVE, ENDED or CANCELLED!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSessionList", reqData)
		return c.Next()
	}
}
