package courseRoutes

import (
	controllers "gradus/controllers/course"
	"gradus/middleware"
	validators "gradus/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course")
	manageCourses := middleware.CheckPermissionMiddleware("manage-courses")

	// Course CRUD
	adminGroup.Post("/create", middleware.AdminJWTMiddleware, manageCourses, validators.CreateCourseAdmin(), controllers.AdminCreateCourse)
	adminGroup.Get("/list", middleware.AdminJWTMiddleware, manageCourses, validators.AdminCourseList(), controllers.AdminGetAllCourses)
	adminGroup.Put("/:id", middleware.AdminJWTMiddleware, manageCourses, validators.UpdateCourseAdmin(), controllers.AdminUpdateCourse)
	adminGroup.Delete("/:id", middleware.AdminJWTMiddleware, manageCourses, validators.CourseID(), controllers.AdminDeleteCourse)
	adminGroup.Get("/:id", middleware.AdminJWTMiddleware, manageCourses, validators.CourseID(), controllers.AdminGetCourseDetails)
	adminGroup.Post("/:id/publish", middleware.AdminJWTMiddleware, manageCourses, validators.PublishCourse(), controllers.AdminPublishCourse)

	// Enrollment management
	adminGroup.Get("/:id/enrollments", middleware.AdminJWTMiddleware, manageCourses, validators.GetCourseEnrollments(), controllers.AdminGetCourseEnrollments)

	enrollmentGroup := app.Group("/admin/enrollment")
	enrollmentGroup.Put("/:id", middleware.AdminJWTMiddleware, manageCourses, validators.UpdateEnrollmentAdmin(), controllers.AdminUpdateEnrollment)
}
