package landingRoutes

import (
	landingControllers "gradus/controllers/landing"
	"gradus/middleware"
	landingValidators "gradus/validators/landing"

	"github.com/gofiber/fiber/v2"
)

func SetupLandingRoutes(app *fiber.App) {
	landingGroup := app.Group("/landing")

	// Public landing pages and event registration
	landingGroup.Get("/:slug", landingControllers.GetLandingPageBySlug)
	landingGroup.Post("/:slug/register", landingValidators.Register(), landingControllers.Register)

	adminGroup := app.Group("/admin/landing")
	manageLanding := middleware.CheckPermissionMiddleware("manage-landing-pages")

	adminGroup.Get("/list", middleware.AdminJWTMiddleware, manageLanding, landingControllers.AdminGetAllLandingPages)
	adminGroup.Post("/create", middleware.AdminJWTMiddleware, manageLanding, landingValidators.CreateLandingPage(), landingControllers.AdminCreateLandingPage)
	adminGroup.Put("/:id", middleware.AdminJWTMiddleware, manageLanding, landingValidators.UpdateLandingPage(), landingControllers.AdminUpdateLandingPage)
	adminGroup.Delete("/:id", middleware.AdminJWTMiddleware, manageLanding, landingValidators.LandingPageID(), landingControllers.AdminDeleteLandingPage)
	adminGroup.Post("/:id/publish", middleware.AdminJWTMiddleware, manageLanding, landingValidators.PublishLandingPage(), landingControllers.AdminPublishLandingPage)
	adminGroup.Get("/:id/registrations", middleware.AdminJWTMiddleware, manageLanding, landingValidators.LandingPageID(), landingControllers.AdminGetRegistrations)
}
