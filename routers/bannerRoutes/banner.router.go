package bannerRoutes

import (
	bannerControllers "gradus/controllers/banner"
	"gradus/middleware"
	bannerValidators "gradus/validators/banner"

	"github.com/gofiber/fiber/v2"
)

func SetupBannerRoutes(app *fiber.App) {
	// Public banners for the landing site
	app.Get("/banners", bannerControllers.GetActiveBanners)

	adminGroup := app.Group("/admin/banner")
	manageBanners := middleware.CheckPermissionMiddleware("manage-banners")

	adminGroup.Get("/list", middleware.AdminJWTMiddleware, manageBanners, bannerControllers.AdminGetAllBanners)
	adminGroup.Post("/create", middleware.AdminJWTMiddleware, manageBanners, bannerValidators.CreateBanner(), bannerControllers.AdminCreateBanner)
	adminGroup.Put("/reorder", middleware.AdminJWTMiddleware, manageBanners, bannerValidators.ReorderBanners(), bannerControllers.AdminReorderBanners)
	adminGroup.Put("/:id", middleware.AdminJWTMiddleware, manageBanners, bannerValidators.UpdateBanner(), bannerControllers.AdminUpdateBanner)
	adminGroup.Delete("/:id", middleware.AdminJWTMiddleware, manageBanners, bannerValidators.BannerID(), bannerControllers.AdminDeleteBanner)
	adminGroup.Patch("/:id/activate", middleware.AdminJWTMiddleware, manageBanners, bannerValidators.ActivateBanner(), bannerControllers.AdminActivateBanner)
}
