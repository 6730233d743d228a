package blogValidator

import (
	"strconv"
	"strings"

	"gradus/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CreateBlog validates blog creation request
func CreateBlog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title         string   `json:"title"`
			Author        string   `json:"author"`
			CoverImageURL string   `json:"cover_image_url"`
			Excerpt       string   `json:"excerpt"`
			Content       string   `json:"content"`
			Tags          []string `json:"tags"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Author = strings.TrimSpace(reqData.Author)
		reqData.Content = strings.TrimSpace(reqData.Content)

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.Author == "" {
			errors["author"] = "Author is required!"
		}

		if reqData.Content == "" {
			errors["content"] = "Content is required!"
		} else if len(reqData.Content) < 20 {
			errors["content"] = "Content must be at least 20 characters long!"
		}

		if reqData.CoverImageURL != "" {
			if err := validate.Var(reqData.CoverImageURL, "url"); err != nil {
				errors["cover_image_url"] = "Cover image URL must be a valid URL!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedBlog", reqData)
		return c.Next()
	}
}

// UpdateBlog validates blog update request
func UpdateBlog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		blogIDStr := strings.TrimSpace(c.Params("id"))
		blogID, err := strconv.Atoi(blogIDStr)
		if err != nil || blogID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Blog ID!", nil)
		}

		reqData := new(struct {
			Title         *string   `json:"title"`
			Author        *string   `json:"author"`
			CoverImageURL *string   `json:"cover_image_url"`
			Excerpt       *string   `json:"excerpt"`
			Content       *string   `json:"content"`
			Tags          *[]string `json:"tags"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != nil && len(strings.TrimSpace(*reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if reqData.Content != nil && len(strings.TrimSpace(*reqData.Content)) < 20 {
			errors["content"] = "Content must be at least 20 characters long!"
		}
		if reqData.CoverImageURL != nil && *reqData.CoverImageURL != "" {
			if err := validate.Var(*reqData.CoverImageURL, "url"); err != nil {
				errors["cover_image_url"] = "Cover image URL must be a valid URL!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("blogID", blogID)
		c.Locals("validatedBlog", reqData)
		return c.Next()
	}
}

// BlogID validates the :id path param
func BlogID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		blogIDStr := strings.TrimSpace(c.Params("id"))
		blogID, err := strconv.Atoi(blogIDStr)
		if err != nil || blogID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Blog ID!", nil)
		}

		c.Locals("blogID", blogID)
		return c.Next()
	}
}

// PublishBlog validates the publish toggle request
func PublishBlog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		blogIDStr := strings.TrimSpace(c.Params("id"))
		blogID, err := strconv.Atoi(blogIDStr)
		if err != nil || blogID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Blog ID!", nil)
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

		c.Locals("blogID", blogID)
		c.Locals("validatedPublish", reqData)
		return c.Next()
	}
}

// CreateComment validates a public comment submission
func CreateComment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		blogIDStr := strings.TrimSpace(c.Params("id"))
		blogID, err := strconv.Atoi(blogIDStr)
		if err != nil || blogID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Blog ID!", nil)
		}

		reqData := new(struct {
			AuthorName string `json:"author_name"`
			Email      string `json:"email"`
			Body       string `json:"body"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.AuthorName = strings.TrimSpace(reqData.AuthorName)
		reqData.Body = strings.TrimSpace(reqData.Body)

		if reqData.AuthorName == "" {
			errors["author_name"] = "Name is required!"
		}

		if reqData.Email == "" {
			errors["email"] = "Email is required!"
		} else if err := validate.Var(reqData.Email, "email"); err != nil {
			errors["email"] = "Invalid email!"
		}

		if reqData.Body == "" {
			errors["body"] = "Comment body is required!"
		} else if len(reqData.Body) > 2000 {
			errors["body"] = "Comment is too long (max 2000 characters)!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("blogID", blogID)
		c.Locals("validatedComment", reqData)
		return c.Next()
	}
}

// CommentID validates the :id path param for comment moderation
func CommentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		commentIDStr := strings.TrimSpace(c.Params("id"))
		commentID, err := strconv.Atoi(commentIDStr)
		if err != nil || commentID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Comment ID!", nil)
		}

		c.Locals("commentID", commentID)
		return c.Next()
	}
}
