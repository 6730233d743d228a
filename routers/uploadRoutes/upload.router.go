package uploadRoutes

import (
	uploadControllers "gradus/controllers/upload"
	"gradus/middleware"
	uploadValidators "gradus/validators/upload"

	"github.com/gofiber/fiber/v2"
)

func SetupUploadRoutes(app *fiber.App) {
	uploadGroup := app.Group("/admin/upload")

	uploadGroup.Post("/image", middleware.AdminJWTMiddleware, uploadControllers.UploadImage)
	uploadGroup.Post("/sign", middleware.AdminJWTMiddleware, uploadValidators.SignUpload(), uploadControllers.SignUpload)
}
