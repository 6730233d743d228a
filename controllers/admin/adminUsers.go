package adminController

import (
	"log"
	"strings"

	"gradus/config"
	"gradus/database"
	"gradus/middleware"
	"gradus/models"
	"gradus/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// permissionCatalog is every permission the back office understands
var permissionCatalog = []string{
	"manage-courses",
	"manage-banners",
	"manage-testimonials",
	"manage-landing-pages",
	"manage-blogs",
	"manage-live",
	"manage-users",
	"manage-admins",
	"view-dashboard",
	"manage-sync",
}

func isKnownPermission(permission string) bool {
	for _, p := range permissionCatalog {
		if p == permission {
			return true
		}
	}
	return false
}

// getDefaultPermissions returns the permissions a fresh account starts with.
// SUPER_ADMIN bypasses permission checks so it needs no rows.
func getDefaultPermissions(role string) []string {
	if role == "SUPER_ADMIN" {
		return nil
	}
	return []string{
		"view-dashboard",
		"manage-courses",
		"manage-banners",
		"manage-testimonials",
		"manage-landing-pages",
		"manage-blogs",
	}
}

// SeedPermissions grants a set of permissions to an admin account
func SeedPermissions(db *gorm.DB, adminUserID uint, grantedBy uint, permissions []string) error {
	if len(permissions) == 0 {
		return nil
	}

	var records []models.AdminPermission
	for _, p := range permissions {
		records = append(records, models.AdminPermission{
			AdminUserID: adminUserID,
			Permission:  p,
			GrantedBy:   grantedBy,
		})
	}

	return db.Create(&records).Error
}

// AdminCreateAdmin creates a back office account with a generated password
func AdminCreateAdmin(c *fiber.Ctx) error {
	adminId, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedAdmin").(*struct {
		Name        string   `json:"name"`
		Email       string   `json:"email"`
		Role        string   `json:"role"`
		Permissions []string `json:"permissions"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid admin data!", nil)
	}

	db := database.Database.Db

	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&models.AdminUser{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	permissions := reqData.Permissions
	if len(permissions) == 0 {
		permissions = getDefaultPermissions(reqData.Role)
	}
	for _, p := range permissions {
		if !isKnownPermission(p) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unknown permission: "+p, nil)
		}
	}

	tempPassword := utils.GenerateTempPassword()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(tempPassword), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newAdmin := models.AdminUser{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: string(hashedPassword),
		Role:     reqData.Role,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newAdmin).Error; err != nil {
			return err
		}
		return SeedPermissions(tx, newAdmin.ID, adminId, permissions)
	})
	if err != nil {
		log.Printf("Error creating admin: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create admin!", nil)
	}

	utils.SendAdminInviteEmail(newAdmin.Email, newAdmin.Name, tempPassword)

	newAdmin.Password = ""

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Admin created successfully!", fiber.Map{
		"admin":       newAdmin,
		"permissions": permissions,
	})
}

// AdminListAdmins lists back office accounts with search and pagination
func AdminListAdmins(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedList").(*struct {
		Page   int    `query:"page"`
		Limit  int    `query:"limit"`
		Search string `query:"search"`
		Status string `query:"status"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
	}

	db := database.Database.Db

	query := db.Model(&models.AdminUser{}).Where("is_deleted = ?", false)

	if search := strings.TrimSpace(reqData.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}
	switch reqData.Status {
	case "BLOCKED":
		query = query.Where("is_blocked = ?", true)
	case "ACTIVE":
		query = query.Where("is_blocked = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("Error counting admins: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch admins!", nil)
	}

	var admins []models.AdminUser
	offset := (reqData.Page - 1) * reqData.Limit
	if err := query.Order("created_at desc").Offset(offset).Limit(reqData.Limit).Find(&admins).Error; err != nil {
		log.Printf("Error fetching admins: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch admins!", nil)
	}

	for i := range admins {
		admins[i].Password = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Admins fetched successfully!", fiber.Map{
		"admins": admins,
		"total":  total,
		"page":   reqData.Page,
		"limit":  reqData.Limit,
	})
}

// AdminGetAdmin returns one back office account with its permissions
func AdminGetAdmin(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetID, ok := c.Locals("targetAdminID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Admin ID!", nil)
	}

	db := database.Database.Db

	var admin models.AdminUser
	if err := db.Where("id = ? AND is_deleted = ?", targetID, false).First(&admin).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Admin not found!", nil)
	}

	var permissions []models.AdminPermission
	if err := db.Where("admin_user_id = ? AND is_deleted = ?", admin.ID, false).Find(&permissions).Error; err != nil {
		log.Printf("Error fetching permissions: %v", err)
	}

	granted := make([]string, 0, len(permissions))
	for _, p := range permissions {
		granted = append(granted, p.Permission)
	}

	admin.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Admin fetched successfully!", fiber.Map{
		"admin":       admin,
		"permissions": granted,
	})
}

// AdminGrantPermission grants a catalog permission to an admin account
func AdminGrantPermission(c *fiber.Ctx) error {
	adminId, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetID, ok := c.Locals("targetAdminID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Admin ID!", nil)
	}

	reqData, ok := c.Locals("validatedPermission").(*struct {
		Permission string `json:"permission"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid permission data!", nil)
	}

	if !isKnownPermission(reqData.Permission) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unknown permission: "+reqData.Permission, nil)
	}

	db := database.Database.Db

	var admin models.AdminUser
	if err := db.Where("id = ? AND is_deleted = ?", targetID, false).First(&admin).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Admin not found!", nil)
	}

	var existing models.AdminPermission
	err := db.Where("admin_user_id = ? AND permission = ? AND is_deleted = ?", admin.ID, reqData.Permission, false).
		First(&existing).Error
	if err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Permission already granted!", nil)
	}

	grant := models.AdminPermission{
		AdminUserID: admin.ID,
		Permission:  reqData.Permission,
		GrantedBy:   adminId,
	}

	if err := db.Create(&grant).Error; err != nil {
		log.Printf("Error granting permission: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grant permission!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Permission granted successfully!", grant)
}

// AdminRevokePermission revokes a granted permission from an admin account
func AdminRevokePermission(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetID, ok := c.Locals("targetAdminID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Admin ID!", nil)
	}

	permission := strings.TrimSpace(c.Params("permission"))
	if permission == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Permission is required!", nil)
	}

	db := database.Database.Db

	var grant models.AdminPermission
	if err := db.Where("admin_user_id = ? AND permission = ? AND is_deleted = ?", targetID, permission, false).
		First(&grant).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Permission not found!", nil)
	}

	grant.IsDeleted = true

	if err := db.Save(&grant).Error; err != nil {
		log.Printf("Error revoking permission: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to revoke permission!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Permission revoked successfully!", nil)
}

// AdminBlockAdmin blocks or unblocks a back office account
func AdminBlockAdmin(c *fiber.Ctx) error {
	adminId, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetID, ok := c.Locals("targetID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Admin ID!", nil)
	}

	reqData, ok := c.Locals("validatedBlock").(*struct {
		Blocked *bool `json:"blocked"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid block data!", nil)
	}

	if uint(targetID) == adminId {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You cannot block your own account!", nil)
	}

	db := database.Database.Db

	var admin models.AdminUser
	if err := db.Where("id = ? AND is_deleted = ?", targetID, false).First(&admin).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Admin not found!", nil)
	}

	admin.IsBlocked = *reqData.Blocked

	if err := db.Save(&admin).Error; err != nil {
		log.Printf("Error updating admin block status: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update admin!", nil)
	}

	admin.Password = ""

	message := "Admin unblocked successfully!"
	if admin.IsBlocked {
		message = "Admin blocked successfully!"
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, admin)
}

// AdminDeleteAdmin soft deletes a back office account and its permissions
func AdminDeleteAdmin(c *fiber.Ctx) error {
	adminId, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetID, ok := c.Locals("targetAdminID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Admin ID!", nil)
	}

	if uint(targetID) == adminId {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You cannot delete your own account!", nil)
	}

	db := database.Database.Db

	var admin models.AdminUser
	if err := db.Where("id = ? AND is_deleted = ?", targetID, false).First(&admin).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Admin not found!", nil)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.AdminUser{}).Where("id = ?", admin.ID).
			Update("is_deleted", true).Error; err != nil {
			return err
		}
		return tx.Model(&models.AdminPermission{}).Where("admin_user_id = ?", admin.ID).
			Update("is_deleted", true).Error
	})
	if err != nil {
		log.Printf("Error deleting admin: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete admin!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Admin deleted successfully!", nil)
}
