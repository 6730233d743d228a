package testimonialValidator

import (
	"strconv"
	"strings"

	"gradus/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CreateTestimonial validates testimonial creation request
func CreateTestimonial() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			AuthorName  string `json:"author_name"`
			AuthorTitle string `json:"author_title"`
			AvatarURL   string `json:"avatar_url"`
			Quote       string `json:"quote"`
			Rating      uint   `json:"rating"`
			OrderIndex  int    `json:"order_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.AuthorName = strings.TrimSpace(reqData.AuthorName)
		reqData.Quote = strings.TrimSpace(reqData.Quote)

		if reqData.AuthorName == "" {
			errors["author_name"] = "Author name is required!"
		}

		if reqData.Quote == "" {
			errors["quote"] = "Quote is required!"
		} else if len(reqData.Quote) < 10 {
			errors["quote"] = "Quote must be at least 10 characters long!"
		}

		if reqData.Rating < 1 || reqData.Rating > 5 {
			errors["rating"] = "Rating must be between 1 and 5!"
		}

		if reqData.AvatarURL != "" {
			if err := validate.Var(reqData.AvatarURL, "url"); err != nil {
				errors["avatar_url"] = "Avatar URL must be a valid URL!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTestimonial", reqData)
		return c.Next()
	}
}

// UpdateTestimonial validates testimonial update request
func UpdateTestimonial() fiber.Handler {
	return func(c *fiber.Ctx) error {
		testimonialIDStr := strings.TrimSpace(c.Params("id"))
		testimonialID, err := strconv.Atoi(testimonialIDStr)
		if err != nil || testimonialID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Testimonial ID!", nil)
		}

		reqData := new(struct {
			AuthorName  *string `json:"author_name"`
			AuthorTitle *string `json:"author_title"`
			AvatarURL   *string `json:"avatar_url"`
			Quote       *string `json:"quote"`
			Rating      *uint   `json:"rating"`
			OrderIndex  *int    `json:"order_index"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.AuthorName != nil && strings.TrimSpace(*reqData.AuthorName) == "" {
			errors["author_name"] = "Author name cannot be empty!"
		}
		if reqData.Quote != nil && len(strings.TrimSpace(*reqData.Quote)) < 10 {
			errors["quote"] = "Quote must be at least 10 characters long!"
		}
		if reqData.Rating != nil && (*reqData.Rating < 1 || *reqData.Rating > 5) {
			errors["rating"] = "Rating must be between 1 and 5!"
		}
		if reqData.AvatarURL != nil && *reqData.AvatarURL != "" {
			if err := validate.Var(*reqData.AvatarURL, "url"); err != nil {
				errors["avatar_url"] = "Avatar URL must be a valid URL!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("testimonialID", testimonialID)
		c.Locals("validatedTestimonial", reqData)
		return c.Next()
	}
}

// TestimonialID validates the :id path param
func TestimonialID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		testimonialIDStr := strings.TrimSpace(c.Params("id"))
		testimonialID, err := strconv.Atoi(testimonialIDStr)
		if err != nil || testimonialID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Testimonial ID!", nil)
		}

		c.Locals("testimonialID", testimonialID)
		return c.Next()
	}
}

// ApproveTestimonial validates the approve toggle request
func ApproveTestimonial() fiber.Handler {
	return func(c *fiber.Ctx) error {
		testimonialIDStr := strings.TrimSpace(c.Params("id"))
		testimonialID, err := strconv.Atoi(testimonialIDStr)
		if err != nil || testimonialID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Testimonial ID!", nil)
		}

		reqData := new(struct {
			Approved *bool `json:"approved"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Approved == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"approved": "Approved flag is required!"})
		}

		c.Locals("testimonialID", testimonialID)
		c.Locals("validatedApprove", reqData)
		return c.Next()
	}
}
