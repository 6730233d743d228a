package uploadValidator

import (
	"strings"

	"gradus/middleware"

	"github.com/gofiber/fiber/v2"
)

var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
	"video/mp4":       true,
}

// SignUpload validates a signed upload URL request
func SignUpload() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Filename    string `json:"filename"`
			ContentType string `json:"contentType"`
			Dir         string `json:"dir"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Filename = strings.TrimSpace(reqData.Filename)
		reqData.ContentType = strings.TrimSpace(reqData.ContentType)

		if reqData.Filename == "" {
			errors["filename"] = "Filename is required!"
		}

		if reqData.ContentType == "" {
			errors["contentType"] = "Content type is required!"
		} else if !allowedContentTypes[reqData.ContentType] {
			errors["contentType"] = "Content type is not allowed!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSign", reqData)
		return c.Next()
	}
}
