package blogRoutes

import (
	blogControllers "gradus/controllers/blog"
	"gradus/middleware"
	blogValidators "gradus/validators/blog"

	"github.com/gofiber/fiber/v2"
)

func SetupBlogRoutes(app *fiber.App) {
	blogGroup := app.Group("/blog")

	// Public blog reading
	blogGroup.Get("/list", blogControllers.GetPublishedBlogs)
	blogGroup.Get("/:slug", blogControllers.GetBlogBySlug)
	blogGroup.Post("/:id/comment", blogValidators.CreateComment(), blogControllers.CreateComment)

	adminGroup := app.Group("/admin/blog")
	manageBlogs := middleware.CheckPermissionMiddleware("manage-blogs")

	adminGroup.Get("/list", middleware.AdminJWTMiddleware, manageBlogs, blogControllers.AdminGetAllBlogs)
	adminGroup.Post("/create", middleware.AdminJWTMiddleware, manageBlogs, blogValidators.CreateBlog(), blogControllers.AdminCreateBlog)
	adminGroup.Get("/comments/pending", middleware.AdminJWTMiddleware, manageBlogs, blogControllers.AdminGetPendingComments)
	adminGroup.Put("/:id", middleware.AdminJWTMiddleware, manageBlogs, blogValidators.UpdateBlog(), blogControllers.AdminUpdateBlog)
	adminGroup.Delete("/:id", middleware.AdminJWTMiddleware, manageBlogs, blogValidators.BlogID(), blogControllers.AdminDeleteBlog)
	adminGroup.Post("/:id/publish", middleware.AdminJWTMiddleware, manageBlogs, blogValidators.PublishBlog(), blogControllers.AdminPublishBlog)
	adminGroup.Get("/:id/comments", middleware.AdminJWTMiddleware, manageBlogs, blogValidators.BlogID(), blogControllers.AdminGetBlogComments)
	adminGroup.Patch("/comment/:id/approve", middleware.AdminJWTMiddleware, manageBlogs, blogValidators.CommentID(), blogControllers.AdminApproveComment)
	adminGroup.Delete("/comment/:id", middleware.AdminJWTMiddleware, manageBlogs, blogValidators.CommentID(), blogControllers.AdminDeleteComment)
}
