package adminController

import (
	"log"

	"gradus/database"
	"gradus/middleware"
	"gradus/models"
	courseModels "gradus/models/course"
	liveModels "gradus/models/live"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

// AdminDashboardStats returns the headline numbers for the back office home
func AdminDashboardStats(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var totalUsers int64
	db.Model(&models.User{}).Where("is_deleted = ?", false).Count(&totalUsers)

	var totalCourses int64
	db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&totalCourses)

	var publishedCourses int64
	db.Model(&courseModels.Course{}).Where("is_deleted = ? AND is_published = ?", false, true).Count(&publishedCourses)

	var totalEnrollments int64
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ?", false).Count(&totalEnrollments)

	var paidEnrollments int64
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ? AND payment_status = ?", false, "PAID").Count(&paidEnrollments)

	var pendingEnrollments int64
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ? AND payment_status = ?", false, "PENDING").Count(&pendingEnrollments)

	var totalRevenue float64
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ? AND payment_status = ?", false, "PAID").
		Select("COALESCE(SUM(amount), 0)").Scan(&totalRevenue)

	today := now.BeginningOfDay()
	tomorrow := today.AddDate(0, 0, 1)

	var enrollmentsToday int64
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ? AND created_at >= ? AND created_at < ?", false, today, tomorrow).
		Count(&enrollmentsToday)

	var sessionsToday int64
	db.Model(&liveModels.LiveSession{}).
		Where("is_deleted = ? AND scheduled_at >= ? AND scheduled_at < ? AND status IN ?", false, today, tomorrow, []string{"SCHEDULED", "LIVE"}).
		Count(&sessionsToday)

	var totalBlogs int64
	db.Model(&models.Blog{}).Where("is_deleted = ?", false).Count(&totalBlogs)

	var pendingComments int64
	db.Model(&models.BlogComment{}).Where("is_deleted = ? AND is_approved = ?", false, false).Count(&pendingComments)

	var totalRegistrations int64
	db.Model(&models.LandingPageRegistration{}).Where("is_deleted = ?", false).Count(&totalRegistrations)

	var failedSyncJobs int64
	db.Model(&models.SheetsSyncJob{}).Where("status = ?", "failed").Count(&failedSyncJobs)

	var pendingSyncJobs int64
	db.Model(&models.SheetsSyncJob{}).Where("status = ?", "pending").Count(&pendingSyncJobs)

	type RecentEnrollment struct {
		ID            uint    `json:"id"`
		UserName      string  `json:"user_name"`
		CourseName    string  `json:"course_name"`
		Amount        float64 `json:"amount"`
		PaymentStatus string  `json:"payment_status"`
	}

	var recent []courseModels.Enrollment
	if err := db.Where("is_deleted = ?", false).Order("created_at desc").Limit(5).Find(&recent).Error; err != nil {
		log.Printf("Error fetching recent enrollments: %v", err)
	}

	recentEnrollments := make([]RecentEnrollment, len(recent))
	for i, e := range recent {
		var user models.User
		db.Select("name").Where("id = ?", e.UserID).First(&user)

		var course courseModels.Course
		db.Select("title").Where("id = ?", e.CourseID).First(&course)

		recentEnrollments[i] = RecentEnrollment{
			ID:            e.ID,
			UserName:      user.Name,
			CourseName:    course.Title,
			Amount:        e.Amount,
			PaymentStatus: e.PaymentStatus,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", fiber.Map{
		"users": fiber.Map{
			"total": totalUsers,
		},
		"courses": fiber.Map{
			"total":     totalCourses,
			"published": publishedCourses,
		},
		"enrollments": fiber.Map{
			"total":   totalEnrollments,
			"paid":    paidEnrollments,
			"pending": pendingEnrollments,
			"today":   enrollmentsToday,
			"revenue": totalRevenue,
		},
		"live_sessions": fiber.Map{
			"today": sessionsToday,
		},
		"blogs": fiber.Map{
			"total":            totalBlogs,
			"pending_comments": pendingComments,
		},
		"registrations": fiber.Map{
			"total": totalRegistrations,
		},
		"sync_queue": fiber.Map{
			"pending": pendingSyncJobs,
			"failed":  failedSyncJobs,
		},
		"recent_enrollments": recentEnrollments,
	})
}
