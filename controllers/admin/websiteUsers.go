package adminController

import (
	"log"
	"strings"

	"gradus/database"
	"gradus/middleware"
	"gradus/models"
	courseModels "gradus/models/course"

	"github.com/gofiber/fiber/v2"
)

// AdminGetAllUsers lists website users with search and pagination
func AdminGetAllUsers(c *fiber.Ctx) error {
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

	query := db.Model(&models.User{}).Where("is_deleted = ?", false)

	if search := strings.TrimSpace(reqData.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ? OR mobile ILIKE ?", pattern, pattern, pattern)
	}
	switch reqData.Status {
	case "BLOCKED":
		query = query.Where("is_blocked = ?", true)
	case "ACTIVE":
		query = query.Where("is_blocked = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("Error counting users: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	var users []models.User
	offset := (reqData.Page - 1) * reqData.Limit
	if err := query.Order("created_at desc").Offset(offset).Limit(reqData.Limit).Find(&users).Error; err != nil {
		log.Printf("Error fetching users: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	for i := range users {
		users[i].Password = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", fiber.Map{
		"users": users,
		"total": total,
		"page":  reqData.Page,
		"limit": reqData.Limit,
	})
}

// AdminGetUserDetails returns one website user with their enrollments
func AdminGetUserDetails(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetID, ok := c.Locals("targetID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", targetID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var enrollments []courseModels.Enrollment
	if err := db.Preload("Course").Where("user_id = ? AND is_deleted = ?", user.ID, false).
		Order("created_at desc").Find(&enrollments).Error; err != nil {
		log.Printf("Error fetching user enrollments: %v", err)
	}

	user.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully!", fiber.Map{
		"user":        user,
		"enrollments": enrollments,
	})
}

// AdminBlockUser blocks or unblocks a website user
func AdminBlockUser(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetID, ok := c.Locals("targetID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
	}

	reqData, ok := c.Locals("validatedBlock").(*struct {
		Blocked *bool `json:"blocked"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid block data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", targetID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	user.IsBlocked = *reqData.Blocked
	if !user.IsBlocked {
		user.BlockedUntil = nil
		user.FailedLoginAttempts = 0
	}

	if err := db.Save(&user).Error; err != nil {
		log.Printf("Error updating user block status: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	user.Password = ""

	message := "User unblocked successfully!"
	if user.IsBlocked {
		message = "User blocked successfully!"
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, user)
}

// AdminDeleteUser soft deletes a website user
func AdminDeleteUser(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetID, ok := c.Locals("targetID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", targetID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	user.IsDeleted = true

	if err := db.Save(&user).Error; err != nil {
		log.Printf("Error deleting user: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully!", nil)
}
