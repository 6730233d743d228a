package adminValidator

import (
	"strconv"
	"strings"

	"gradus/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// AdminLogin validates back office login credentials
func AdminLogin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Email = strings.TrimSpace(reqData.Email)

		if reqData.Email == "" {
			errors["email"] = "Email is required!"
		} else if err := validate.Var(reqData.Email, "email"); err != nil {
			errors["email"] = "Invalid email!"
		}

		if reqData.Password == "" {
			errors["password"] = "Password is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAdminLogin", reqData)
		return c.Next()
	}
}

// CreateAdmin validates a request to create a back office account
func CreateAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name        string   `json:"name"`
			Email       string   `json:"email"`
			Role        string   `json:"role"`
			Permissions []string `json:"permissions"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Name = strings.TrimSpace(reqData.Name)
		reqData.Email = strings.TrimSpace(reqData.Email)

		if len(reqData.Name) < 3 {
			errors["name"] = "Name must be at least 3 characters!"
		}

		if reqData.Email == "" {
			errors["email"] = "Email is required!"
		} else if err := validate.Var(reqData.Email, "email"); err != nil {
			errors["email"] = "Invalid email!"
		}

		if reqData.Role == "" {
			reqData.Role = "ADMIN"
		} else if reqData.Role != "ADMIN" && reqData.Role != "SUPER_ADMIN" {
			errors["role"] = "Role must be ADMIN or SUPER_ADMIN!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAdmin", reqData)
		return c.Next()
	}
}

// ChangeAdminPassword validates a back office password change
func ChangeAdminPassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CurrentPassword string `json:"currentPassword"`
			NewPassword     string `json:"newPassword"`
			CnfPassword     string `json:"cnfPassword"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.CurrentPassword == "" {
			errors["currentPassword"] = "Current password is required!"
		}

		if len(reqData.NewPassword) < 8 {
			errors["newPassword"] = "Password must be at least 8 characters!"
		}

		if reqData.NewPassword != reqData.CnfPassword {
			errors["cnfPassword"] = "Passwords do not match!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPassword", reqData)
		return c.Next()
	}
}

// AdminUserID validates the :id path param
func AdminUserID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminIDStr := strings.TrimSpace(c.Params("id"))
		adminID, err := strconv.Atoi(adminIDStr)
		if err != nil || adminID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Admin ID!", nil)
		}

		c.Locals("targetAdminID", adminID)
		return c.Next()
	}
}

// UserID validates the :id path param for website user routes
func UserID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
		}

		c.Locals("targetID", id)
		return c.Next()
	}
}

// GrantPermission validates a permission grant or revoke request
func GrantPermission() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminIDStr := strings.TrimSpace(c.Params("id"))
		adminID, err := strconv.Atoi(adminIDStr)
		if err != nil || adminID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Admin ID!", nil)
		}

		reqData := new(struct {
			Permission string `json:"permission"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Permission = strings.TrimSpace(reqData.Permission)

		if reqData.Permission == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{"permission": "Permission is required!"})
		}

		c.Locals("targetAdminID", adminID)
		c.Locals("validatedPermission", reqData)
		return c.Next()
	}
}

// BlockToggle validates a block or unblock request
func BlockToggle() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid ID!", nil)
		}

		reqData := new(struct {
			Blocked *bool `json:"blocked"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Blocked == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"blocked": "Blocked flag is required!"})
		}

		c.Locals("targetID", id)
		c.Locals("validatedBlock", reqData)
		return c.Next()
	}
}

// ListQuery validates pagination and search params used across admin listings
func ListQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page   int    `query:"page"`
			Limit  int    `query:"limit"`
			Search string `query:"search"`
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

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

// SyncJobID validates the :id path param for sync queue operations
func SyncJobID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		jobIDStr := strings.TrimSpace(c.Params("id"))
		jobID, err := strconv.Atoi(jobIDStr)
		if err != nil || jobID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Job ID!", nil)
		}

		c.Locals("jobID", jobID)
		return c.Next()
	}
}
