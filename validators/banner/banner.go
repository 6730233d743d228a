package bannerValidator

import (
	"strconv"
	"strings"

	"gradus/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CreateBanner validates banner creation request
func CreateBanner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title      string `json:"title"`
			Subtitle   string `json:"subtitle"`
			ImageURL   string `json:"image_url"`
			LinkURL    string `json:"link_url"`
			OrderIndex int    `json:"order_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		}

		if reqData.ImageURL == "" {
			errors["image_url"] = "Image URL is required!"
		} else if err := validate.Var(reqData.ImageURL, "url"); err != nil {
			errors["image_url"] = "Image URL must be a valid URL!"
		}

		if reqData.LinkURL != "" {
			if err := validate.Var(reqData.LinkURL, "url"); err != nil {
				errors["link_url"] = "Link URL must be a valid URL!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedBanner", reqData)
		return c.Next()
	}
}

// UpdateBanner validates banner update request
func UpdateBanner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		bannerIDStr := strings.TrimSpace(c.Params("id"))
		bannerID, err := strconv.Atoi(bannerIDStr)
		if err != nil || bannerID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Banner ID!", nil)
		}

		reqData := new(struct {
			Title      *string `json:"title"`
			Subtitle   *string `json:"subtitle"`
			ImageURL   *string `json:"image_url"`
			LinkURL    *string `json:"link_url"`
			OrderIndex *int    `json:"order_index"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != nil && strings.TrimSpace(*reqData.Title) == "" {
			errors["title"] = "Title cannot be empty!"
		}
		if reqData.ImageURL != nil {
			if err := validate.Var(*reqData.ImageURL, "url"); err != nil {
				errors["image_url"] = "Image URL must be a valid URL!"
			}
		}
		if reqData.LinkURL != nil && *reqData.LinkURL != "" {
			if err := validate.Var(*reqData.LinkURL, "url"); err != nil {
				errors["link_url"] = "Link URL must be a valid URL!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("bannerID", bannerID)
		c.Locals("validatedBanner", reqData)
		return c.Next()
	}
}

// BannerID validates the :id path param
func BannerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		bannerIDStr := strings.TrimSpace(c.Params("id"))
		bannerID, err := strconv.Atoi(bannerIDStr)
		if err != nil || bannerID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Banner ID!", nil)
		}

		c.Locals("bannerID", bannerID)
		return c.Next()
	}
}

// ActivateBanner validates the activate toggle request
func ActivateBanner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		bannerIDStr := strings.TrimSpace(c.Params("id"))
		bannerID, err := strconv.Atoi(bannerIDStr)
		if err != nil || bannerID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Banner ID!", nil)
		}

		reqData := new(struct {
			Active *bool `json:"active"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Active == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"active": "Active flag is required!"})
		}

		c.Locals("bannerID", bannerID)
		c.Locals("validatedActivate", reqData)
		return c.Next()
	}
}

// ReorderBanners validates the reorder request
func ReorderBanners() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			IDs []uint `json:"ids"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if len(reqData.IDs) == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"ids": "Banner IDs are required!"})
		}

		c.Locals("validatedReorder", reqData)
		return c.Next()
	}
}
