package router

import (
	"database/sql"

	"inventory_backend/internal/config"
	"inventory_backend/internal/handlers"
	"inventory_backend/internal/middleware"
	"inventory_backend/internal/repositories"
	"inventory_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB, cfg *config.Config) {
	// Initialize Repositories
	userRepo := repositories.NewUserRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)
	saleRepo := repositories.NewSaleRepository(db)
	logRepo := repositories.NewActivityLogRepository(db)

	// Initialize Services
	mfaService := services.NewMFAService(cfg.MFA, nil)
	authService := services.NewAuthService(userRepo, mfaService)
	userService := services.NewUserService(userRepo, db)
	categoryService := services.NewCategoryService(categoryRepo, db)
	productService := services.NewProductService(productRepo, saleRepo, db)
	saleService := services.NewSaleService(saleRepo, productRepo, db)
	inventoryService := services.NewInventoryService(productRepo)
	reportService := services.NewReportService(saleRepo)
	auditService := services.NewAuditService(logRepo)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService, auditService)
	userHandler := handlers.NewUserHandler(userService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	productHandler := handlers.NewProductHandler(productService, auditService, cfg.Storage.ProductImageDir)
	saleHandler := handlers.NewSaleHandler(saleService, auditService)
	reportHandler := handlers.NewReportHandler(reportService, inventoryService)
	auditHandler := handlers.NewAuditHandler(auditService)

	apiV1 := engine.Group("/api/v1")

	SetupAuthRoutes(apiV1, authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupUserRoutes(authenticated, userHandler)
		SetupCategoryRoutes(authenticated, categoryHandler)
		SetupProductRoutes(authenticated, productHandler)
		SetupSaleRoutes(authenticated, saleHandler)
		SetupReportRoutes(authenticated, reportHandler)
		SetupAuditRoutes(authenticated, auditHandler)
	}
}
