package testimonialRoutes

import (
	testimonialControllers "gradus/controllers/testimonial"
	"gradus/middleware"
	testimonialValidators "gradus/validators/testimonial"

	"github.com/gofiber/fiber/v2"
)

func SetupTestimonialRoutes(app *fiber.App) {
	// Public testimonials for the landing site
	app.Get("/testimonials", testimonialControllers.GetApprovedTestimonials)

	adminGroup := app.Group("/admin/testimonial")
	manageTestimonials := middleware.CheckPermissionMiddleware("manage-testimonials")

	adminGroup.Get("/list", middleware.AdminJWTMiddleware, manageTestimonials, testimonialControllers.AdminGetAllTestimonials)
	adminGroup.Post("/create", middleware.AdminJWTMiddleware, manageTestimonials, testimonialValidators.CreateTestimonial(), testimonialControllers.AdminCreateTestimonial)
	adminGroup.Put("/:id", middleware.AdminJWTMiddleware, manageTestimonials, testimonialValidators.UpdateTestimonial(), testimonialControllers.AdminUpdateTestimonial)
	adminGroup.Delete("/:id", middleware.AdminJWTMiddleware, manageTestimonials, testimonialValidators.TestimonialID(), testimonialControllers.AdminDeleteTestimonial)
	adminGroup.Patch("/:id/approve", middleware.AdminJWTMiddleware, manageTestimonials, testimonialValidators.ApproveTestimonial(), testimonialControllers.AdminApproveTestimonial)
}
