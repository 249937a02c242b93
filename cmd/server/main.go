package main

import (
	"log"
	"net/http"

	"inventory_backend/internal/config"
	"inventory_backend/internal/database"
	router_pkg "inventory_backend/internal/router"
	"inventory_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize Logger
	utils.InitLogger()

	cfg := config.Load()
	utils.InitJWT(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiration)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		utils.LogError(err, "Failed to connect to database")
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		utils.LogError(err, "Failed to ensure database schema")
		log.Fatalf("Failed to ensure database schema: %v", err)
	}
	if err := database.Seed(db); err != nil {
		utils.LogError(err, "Failed to seed database")
		log.Fatalf("Failed to seed database: %v", err)
	}
	utils.LogInfo("Database initialized", map[string]interface{}{"name": cfg.Database.Name})

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Setup all application routes
	router_pkg.Setup(engine, db, cfg)

	utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Server.Port})
	if err := engine.Run(":" + cfg.Server.Port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
