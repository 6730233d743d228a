package landingValidator

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"gradus/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// CreateLandingPage validates landing page creation request
func CreateLandingPage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Slug         string      `json:"slug"`
			Title        string      `json:"title"`
			Headline     string      `json:"headline"`
			Subheadline  string      `json:"subheadline"`
			HeroImageURL string      `json:"hero_image_url"`
			Sections     interface{} `json:"sections"`
			EventDate    *time.Time  `json:"event_date"`
			Capacity     int         `json:"capacity"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Slug = strings.TrimSpace(reqData.Slug)
		reqData.Title = strings.TrimSpace(reqData.Title)

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		}

		if reqData.Slug != "" && !slugPattern.MatchString(reqData.Slug) {
			errors["slug"] = "Slug may only contain lowercase letters, digits and dashes!"
		}

		if reqData.HeroImageURL != "" {
			if err := validate.Var(reqData.HeroImageURL, "url"); err != nil {
				errors["hero_image_url"] = "Hero image URL must be a valid URL!"
			}
		}

		if reqData.Capacity < 0 {
			errors["capacity"] = "Capacity cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLandingPage", reqData)
		return c.Next()
	}
}

// UpdateLandingPage validates landing page update request
func UpdateLandingPage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		pageIDStr := strings.TrimSpace(c.Params("id"))
		pageID, err := strconv.Atoi(pageIDStr)
		if err != nil || pageID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Landing Page ID!", nil)
		}

		reqData := new(struct {
			Title              *string     `json:"title"`
			Headline           *string     `json:"headline"`
			Subheadline        *string     `json:"subheadline"`
			HeroImageURL       *string     `json:"hero_image_url"`
			Sections           interface{} `json:"sections"`
			EventDate          *time.Time  `json:"event_date"`
			Capacity           *int        `json:"capacity"`
			IsRegistrationOpen *bool       `json:"is_registration_open"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != nil && strings.TrimSpace(*reqData.Title) == "" {
			errors["title"] = "Title cannot be empty!"
		}
		if reqData.HeroImageURL != nil && *reqData.HeroImageURL != "" {
			if err := validate.Var(*reqData.HeroImageURL, "url"); err != nil {
				errors["hero_image_url"] = "Hero image URL must be a valid URL!"
			}
		}
		if reqData.Capacity != nil && *reqData.Capacity < 0 {
			errors["capacity"] = "Capacity cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("pageID", pageID)
		c.Locals("validatedLandingPage", reqData)
		return c.Next()
	}
}

// LandingPageID validates the :id path param
func LandingPageID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		pageIDStr := strings.TrimSpace(c.Params("id"))
		pageID, err := strconv.Atoi(pageIDStr)
		if err != nil || pageID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Landing Page ID!", nil)
		}

		c.Locals("pageID", pageID)
		return c.Next()
	}
}

// PublishLandingPage validates the publish toggle request
func PublishLandingPage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		pageIDStr := strings.TrimSpace(c.Params("id"))
		pageID, err := strconv.Atoi(pageIDStr)
		if err != nil || pageID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Landing Page ID!", nil)
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

		c.Locals("pageID", pageID)
		c.Locals("validatedPublish", reqData)
		return c.Next()
	}
}

// Register validates a public registration submission
func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name   string `json:"name"`
			Email  string `json:"email"`
			Mobile string `json:"mobile"`
			Note   string `json:"note"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Name = strings.TrimSpace(reqData.Name)

		if reqData.Name == "" {
			errors["name"] = "Name is required!"
		}

		if reqData.Email == "" {
			errors["email"] = "Email is required!"
		} else if err := validate.Var(reqData.Email, "email"); err != nil {
			errors["email"] = "Invalid email!"
		}

		if reqData.Mobile != "" {
			if matched, _ := regexp.MatchString(`^\d{10}$`, reqData.Mobile); !matched {
				errors["mobile"] = "Invalid mobile number!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRegistration", reqData)
		return c.Next()
	}
}
