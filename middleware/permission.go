package middleware

import (
	"gradus/database"
	"gradus/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CheckPermissionMiddleware returns a middleware that checks if the admin has the required permission.
// SUPER_ADMIN accounts pass every check.
func CheckPermissionMiddleware(requiredPermission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get admin ID from context (set by AdminJWTMiddleware)
		adminID, ok := c.Locals("adminId").(uint)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  false,
				"message": "Unauthorized: Admin ID not found",
				"data":    nil,
			})
		}

		if role, ok := c.Locals("adminRole").(string); ok && role == "SUPER_ADMIN" {
			return c.Next()
		}

		var permission models.AdminPermission
		err := database.Database.Db.Where("admin_user_id = ? AND permission = ? AND is_deleted = false",
			adminID, requiredPermission).First(&permission).Error

		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"status":  false,
					"message": "You do not have permission to access this resource!",
					"data":    nil,
				})
			}
			// Other DB error
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  false,
				"message": "Server error while checking permissions!",
				"data":    nil,
			})
		}

		// Permission found, proceed
		return c.Next()
	}
}

// SuperAdminOnly restricts a route to SUPER_ADMIN accounts
func SuperAdminOnly(c *fiber.Ctx) error {
	role, ok := c.Locals("adminRole").(string)
	if !ok || role != "SUPER_ADMIN" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  false,
			"message": "Access denied! Super admin only.",
			"data":    nil,
		})
	}
	return c.Next()
}
