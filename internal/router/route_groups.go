package router

import (
	"inventory_backend/internal/handlers"
	"inventory_backend/internal/middleware"
	"inventory_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes. Login and code
// verification are public; profile and logout require a token.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/verify-mfa", authHandler.VerifyMFA)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(middleware.AuthMiddleware())
		{
			authRequiredRoutes.POST("/logout", authHandler.Logout)
			authRequiredRoutes.GET("/me", authHandler.GetProfile)
		}
	}
}

// SetupUserRoutes sets up the user management routes.
func SetupUserRoutes(authenticatedGroup *gin.RouterGroup, userHandler *handlers.UserHandler) {
	userRoutes := authenticatedGroup.Group("/users")
	userRoutes.Use(middleware.RequirePermission(services.ActionManageUsers))
	{
		userRoutes.GET("", userHandler.GetUsers)
		userRoutes.POST("", userHandler.CreateUser)
		userRoutes.PUT("/:id", userHandler.UpdateUser)
		userRoutes.DELETE("/:id", userHandler.DeleteUser)
	}
}

// SetupCategoryRoutes sets up the category routes. Listing is open to any
// role that can view products; mutations need the manage permission.
func SetupCategoryRoutes(authenticatedGroup *gin.RouterGroup, categoryHandler *handlers.CategoryHandler) {
	categoryRoutes := authenticatedGroup.Group("/categories")
	{
		categoryRoutes.GET("", middleware.RequirePermission(services.ActionViewProducts), categoryHandler.GetCategories)
		categoryRoutes.POST("", middleware.RequirePermission(services.ActionManageCategories), categoryHandler.CreateCategory)
		categoryRoutes.PUT("/:id", middleware.RequirePermission(services.ActionManageCategories), categoryHandler.UpdateCategory)
		categoryRoutes.DELETE("/:id", middleware.RequirePermission(services.ActionManageCategories), categoryHandler.DeleteCategory)
	}
}

// SetupProductRoutes sets up the product routes.
func SetupProductRoutes(authenticatedGroup *gin.RouterGroup, productHandler *handlers.ProductHandler) {
	productRoutes := authenticatedGroup.Group("/products")
	{
		productRoutes.GET("", middleware.RequirePermission(services.ActionViewProducts), productHandler.GetProducts)
		productRoutes.GET("/:id", middleware.RequirePermission(services.ActionViewProducts), productHandler.GetProductByID)
		productRoutes.POST("", middleware.RequirePermission(services.ActionManageProducts), productHandler.CreateProduct)
		productRoutes.PUT("/:id", middleware.RequirePermission(services.ActionManageProducts), productHandler.UpdateProduct)
		productRoutes.DELETE("/:id", middleware.RequirePermission(services.ActionManageProducts), productHandler.DeleteProduct)
		productRoutes.POST("/:id/image", middleware.RequirePermission(services.ActionManageProducts), productHandler.UploadProductImage)
	}
}

// SetupSaleRoutes sets up the sale routes.
func SetupSaleRoutes(authenticatedGroup *gin.RouterGroup, saleHandler *handlers.SaleHandler) {
	saleRoutes := authenticatedGroup.Group("/sales")
	{
		saleRoutes.POST("", middleware.RequirePermission(services.ActionRecordSale), saleHandler.RecordSale)
		saleRoutes.DELETE("/:id", middleware.RequirePermission(services.ActionUndoSale), saleHandler.UndoSale)
	}
}

// SetupReportRoutes sets up the reporting and inventory monitoring routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := authenticatedGroup.Group("/reports")
	reportRoutes.Use(middleware.RequirePermission(services.ActionViewReports))
	{
		reportRoutes.GET("/sales", reportHandler.GetSalesReport)
		reportRoutes.GET("/sales/export", reportHandler.ExportSalesReport)
		reportRoutes.GET("/low-stock", reportHandler.GetLowStockItems)
		reportRoutes.GET("/expiring", reportHandler.GetExpiringItems)
		reportRoutes.GET("/inventory-history", reportHandler.GetInventoryHistory)
	}
}

// SetupAuditRoutes sets up the activity log routes.
func SetupAuditRoutes(authenticatedGroup *gin.RouterGroup, auditHandler *handlers.AuditHandler) {
	auditRoutes := authenticatedGroup.Group("/logs")
	{
		auditRoutes.GET("", middleware.RequirePermission(services.ActionViewLogs), auditHandler.GetLogs)
		auditRoutes.DELETE("", middleware.RequirePermission(services.ActionPruneLogs), auditHandler.ClearLogs)
	}
}
