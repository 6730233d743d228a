package courseValidator

import (
	"regexp"
	"strconv"
	"strings"

	"gradus/middleware"

	"github.com/gofiber/fiber/v2"
)

// ============ Course Validators ============

// CreateCourseAdmin validates admin course creation request
func CreateCourseAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title         string      `json:"title"`
			Description   string      `json:"description"`
			Category      string      `json:"category"`
			Instructor    string      `json:"instructor"`
			Price         float64     `json:"price"`
			DiscountPrice float64     `json:"discount_price"`
			Duration      int64       `json:"duration"`
			Level         string      `json:"level"`
			ThumbnailURL  string      `json:"thumbnail_url"`
			Syllabus      interface{} `json:"syllabus"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)
		reqData.Instructor = strings.TrimSpace(reqData.Instructor)

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.Description == "" {
			errors["description"] = "Description is required!"
		} else if len(reqData.Description) < 5 {
			errors["description"] = "Description must be at least 5 characters long!"
		}

		if reqData.Instructor == "" {
			errors["instructor"] = "Instructor is required!"
		} else if len(reqData.Instructor) < 3 {
			errors["instructor"] = "Instructor must be at least 3 characters long!"
		} else if matched, _ := regexp.MatchString(`[<>{}]`, reqData.Instructor); matched {
			errors["instructor"] = "Instructor name contains invalid characters!"
		}

		if reqData.Duration <= 0 {
			errors["duration"] = "Duration must be a positive number!"
		}

		if reqData.Price < 0 {
			errors["price"] = "Price cannot be negative!"
		}
		if reqData.DiscountPrice < 0 || reqData.DiscountPrice > reqData.Price {
			errors["discount_price"] = "Discount price must be between 0 and the price!"
		}

		if reqData.Level != "" && reqData.Level != "BEGINNER" && reqData.Level != "INTERMEDIATE" && reqData.Level != "ADVANCED" {
			errors["level"] = "Level must be BEGINNER, INTERMEDIATE or ADVANCED!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourseAdmin validates admin course update request
func UpdateCourseAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(struct {
			Title         *string     `json:"title"`
			Description   *string     `json:"description"`
			Category      *string     `json:"category"`
			Instructor    *string     `json:"instructor"`
			Price         *float64    `json:"price"`
			DiscountPrice *float64    `json:"discount_price"`
			Duration      *int64      `json:"duration"`
			Level         *string     `json:"level"`
			ThumbnailURL  *string     `json:"thumbnail_url"`
			Syllabus      interface{} `json:"syllabus"`
			IsFeatured    *bool       `json:"is_featured"`
			Status        *string     `json:"status"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != nil && len(strings.TrimSpace(*reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if reqData.Description != nil && len(strings.TrimSpace(*reqData.Description)) < 5 {
			errors["description"] = "Description must be at least 5 characters long!"
		}
		if reqData.Duration != nil && *reqData.Duration <= 0 {
			errors["duration"] = "Duration must be a positive number!"
		}
		if reqData.Price != nil && *reqData.Price < 0 {
			errors["price"] = "Price cannot be negative!"
		}
		if reqData.Level != nil && *reqData.Level != "BEGINNER" && *reqData.Level != "INTERMEDIATE" && *reqData.Level != "ADVANCED" {
			errors["level"] = "Level must be BEGINNER, INTERMEDIATE or ADVANCED!"
		}
		if reqData.Status != nil && *reqData.Status != "DRAFT" && *reqData.Status != "ACTIVE" && *reqData.Status != "INACTIVE" {
			errors["status"] = "Status must be DRAFT, ACTIVE or INACTIVE!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// PublishCourse validates the publish toggle request
func PublishCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(struct {
			Publish *bool `json:"publish"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Publish == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"publish": "Publish flag is required!"})
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedPublish", reqData)
		return c.Next()
	}
}

// AdminCourseList validates the admin listing query params
func AdminCourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page   *int   `json:"page"`
			Limit  *int   `json:"limit"`
			Search string `json:"search"`
			Status string `json:"status"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		if reqData.Page == nil || *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}
		if reqData.Limit == nil || *reqData.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}
		if reqData.Status != "" && reqData.Status != "DRAFT" && reqData.Status != "ACTIVE" && reqData.Status != "INACTIVE" {
			errors["status"] = "Status must be DRAFT, ACTIVE or INACTIVE!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

// GetCourseEnrollments validates the :id path param plus listing query
func GetCourseEnrollments() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(struct {
			Page   *int   `json:"page"`
			Limit  *int   `json:"limit"`
			Search string `json:"search"`
			Status string `json:"status"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		if reqData.Page == nil || *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}
		if reqData.Limit == nil || *reqData.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}
		if reqData.Status != "" && reqData.Status != "PAID" && reqData.Status != "PENDING" {
			errors["status"] = "Status must be PAID or PENDING!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

// UpdateEnrollmentAdmin validates the enrollment status update request
func UpdateEnrollmentAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		enrollmentIDStr := strings.TrimSpace(c.Params("id"))
		enrollmentID, err := strconv.Atoi(enrollmentIDStr)
		if err != nil || enrollmentID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Enrollment ID!", nil)
		}

		reqData := new(struct {
			Status        *string `json:"status"`
			PaymentStatus *string `json:"payment_status"`
			PaymentRef    *string `json:"payment_ref"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Status == nil && reqData.PaymentStatus == nil {
			errors["status"] = "Nothing to update!"
		}
		if reqData.Status != nil && *reqData.Status != "ACTIVE" && *reqData.Status != "INACTIVE" {
			errors["status"] = "Status must be ACTIVE or INACTIVE!"
		}
		if reqData.PaymentStatus != nil && *reqData.PaymentStatus != "PAID" && *reqData.PaymentStatus != "PENDING" {
			errors["payment_status"] = "Payment status must be PAID or PENDING!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("enrollmentID", enrollmentID)
		c.Locals("validatedEnrollment", reqData)
		return c.Next()
	}
}
