package adminController

import (
	"log"
	"time"

	"gradus/config"
	"gradus/database"
	"gradus/middleware"
	"gradus/models"
	"gradus/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminLogin authenticates a back office account and issues an admin JWT
func AdminLogin(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedAdminLogin").(*struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid login data!", nil)
	}

	db := database.Database.Db

	var admin models.AdminUser
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&admin).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email credentials!", nil)
	}

	if admin.IsBlocked {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Your account has been blocked!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Wrong Password", nil)
	}

	admin.LastLogin = time.Now()
	if err := db.Save(&admin).Error; err != nil {
		log.Printf("Error updating admin last login: %v", err)
	}

	token, err := middleware.GenerateAdminJWT(admin.ID, admin.Name, admin.Role, admin.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	admin.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"admin": admin,
		"token": token,
	})
}

// GetAdminProfile returns the logged in admin with granted permissions
func GetAdminProfile(c *fiber.Ctx) error {
	adminId, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var admin models.AdminUser
	if err := db.Where("id = ? AND is_deleted = ?", adminId, false).First(&admin).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Admin not found!", nil)
	}

	var permissions []models.AdminPermission
	if err := db.Where("admin_user_id = ? AND is_deleted = ?", admin.ID, false).Find(&permissions).Error; err != nil {
		log.Printf("Error fetching admin permissions: %v", err)
	}

	granted := make([]string, 0, len(permissions))
	for _, p := range permissions {
		granted = append(granted, p.Permission)
	}

	admin.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Admin profile fetched successfully!", fiber.Map{
		"admin":       admin,
		"permissions": granted,
	})
}

// ChangeAdminPassword lets an admin change their own password
func ChangeAdminPassword(c *fiber.Ctx) error {
	adminId, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedPassword").(*struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
		CnfPassword     string `json:"cnfPassword"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid password data!", nil)
	}

	db := database.Database.Db

	var admin models.AdminUser
	if err := db.Where("id = ? AND is_deleted = ?", adminId, false).First(&admin).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Admin not found!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(reqData.CurrentPassword)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Current password is incorrect!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.AdminUser{}).Where("id = ?", admin.ID).
			Update("password", string(hashedPassword)).Error
	})
	if err != nil {
		log.Printf("Error updating admin password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to change password!", nil)
	}

	utils.SendPasswordChangedEmail(admin.Email, admin.Name)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password changed successfully!", nil)
}
