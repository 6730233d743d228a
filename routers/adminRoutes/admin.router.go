package adminRoutes

import (
	adminControllers "gradus/controllers/admin"
	"gradus/middleware"
	adminValidators "gradus/validators/admin"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up back office auth, account management, website
// user management, dashboard and sync queue routes.
func SetupAdminRoutes(app *fiber.App) {
	authGroup := app.Group("/admin/auth")

	authGroup.Post("/login", adminValidators.AdminLogin(), adminControllers.AdminLogin)
	authGroup.Get("/profile", middleware.AdminJWTMiddleware, adminControllers.GetAdminProfile)
	authGroup.Put("/password", middleware.AdminJWTMiddleware, adminValidators.ChangeAdminPassword(), adminControllers.ChangeAdminPassword)

	// Back office account management, super admin only
	usersGroup := app.Group("/admin/users")

	usersGroup.Post("/create", middleware.AdminJWTMiddleware, middleware.SuperAdminOnly, adminValidators.CreateAdmin(), adminControllers.AdminCreateAdmin)
	usersGroup.Get("/list", middleware.AdminJWTMiddleware, middleware.SuperAdminOnly, adminValidators.ListQuery(), adminControllers.AdminListAdmins)
	usersGroup.Get("/:id", middleware.AdminJWTMiddleware, middleware.SuperAdminOnly, adminValidators.AdminUserID(), adminControllers.AdminGetAdmin)
	usersGroup.Patch("/:id/block", middleware.AdminJWTMiddleware, middleware.SuperAdminOnly, adminValidators.BlockToggle(), adminControllers.AdminBlockAdmin)
	usersGroup.Delete("/:id", middleware.AdminJWTMiddleware, middleware.SuperAdminOnly, adminValidators.AdminUserID(), adminControllers.AdminDeleteAdmin)
	usersGroup.Get("/:id/permissions", middleware.AdminJWTMiddleware, middleware.SuperAdminOnly, adminValidators.AdminUserID(), adminControllers.AdminGetAdmin)
	usersGroup.Post("/:id/permissions", middleware.AdminJWTMiddleware, middleware.SuperAdminOnly, adminValidators.GrantPermission(), adminControllers.AdminGrantPermission)
	usersGroup.Delete("/:id/permissions/:permission", middleware.AdminJWTMiddleware, middleware.SuperAdminOnly, adminValidators.AdminUserID(), adminControllers.AdminRevokePermission)

	// Website user management
	websiteGroup := app.Group("/admin/website-users")
	manageUsers := middleware.CheckPermissionMiddleware("manage-users")

	websiteGroup.Get("/list", middleware.AdminJWTMiddleware, manageUsers, adminValidators.ListQuery(), adminControllers.AdminGetAllUsers)
	websiteGroup.Get("/:id", middleware.AdminJWTMiddleware, manageUsers, adminValidators.UserID(), adminControllers.AdminGetUserDetails)
	websiteGroup.Patch("/:id/block", middleware.AdminJWTMiddleware, manageUsers, adminValidators.BlockToggle(), adminControllers.AdminBlockUser)
	websiteGroup.Delete("/:id", middleware.AdminJWTMiddleware, manageUsers, adminValidators.UserID(), adminControllers.AdminDeleteUser)

	// Dashboard
	dashboardGroup := app.Group("/admin/dashboard")
	dashboardGroup.Get("/stats", middleware.AdminJWTMiddleware, middleware.CheckPermissionMiddleware("view-dashboard"), adminControllers.AdminDashboardStats)

	// Spreadsheet sync queue
	syncGroup := app.Group("/admin/sync")
	manageSync := middleware.CheckPermissionMiddleware("manage-sync")

	syncGroup.Get("/queue", middleware.AdminJWTMiddleware, manageSync, adminValidators.ListQuery(), adminControllers.AdminGetSyncJobs)
	syncGroup.Post("/queue/:id/retry", middleware.AdminJWTMiddleware, manageSync, adminValidators.SyncJobID(), adminControllers.AdminRetrySyncJob)
}
