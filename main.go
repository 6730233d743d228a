package main

import (
	"log"

	"gradus/config"
	"gradus/database"
	adminRoutes "gradus/routers/adminRoutes"
	authRoutes "gradus/routers/authRoutes"
	bannerRoutes "gradus/routers/bannerRoutes"
	blogRoutes "gradus/routers/blogRoutes"
	courseRoutes "gradus/routers/courseRoutes"
	landingRoutes "gradus/routers/landingRoutes"
	liveRoutes "gradus/routers/liveRoutes"
	testimonialRoutes "gradus/routers/testimonialRoutes"
	uploadRoutes "gradus/routers/uploadRoutes"
	"gradus/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",  // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files from the public folder
	app.Static("/", "./public")

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	bannerRoutes.SetupBannerRoutes(app)
	testimonialRoutes.SetupTestimonialRoutes(app)
	blogRoutes.SetupBlogRoutes(app)
	landingRoutes.SetupLandingRoutes(app)
	liveRoutes.SetupLiveRoutes(app)
	adminRoutes.SetupAdminRoutes(app)
	uploadRoutes.SetupUploadRoutes(app)

	// Background spreadsheet sync and cleanup jobs
	utils.InitializeSyncSchedulers()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
