package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kafaa-plus/kafaa-maintenance-api/config"
	"github.com/kafaa-plus/kafaa-maintenance-api/controllers"
	"github.com/kafaa-plus/kafaa-maintenance-api/middleware"
	"github.com/kafaa-plus/kafaa-maintenance-api/models"
	"github.com/kafaa-plus/kafaa-maintenance-api/services"
	"github.com/kafaa-plus/kafaa-maintenance-api/store"
)

func main() {
	// Basic logging
	log.Println("Starting Kafaa Maintenance API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(&models.UserProfile{}, &models.MaintenanceRequest{}, &models.Message{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize stores
	store.InitRequestStore(db)
	store.InitProfileStore(db)

	// Initialize the estimation collaborator. It degrades to fixed
	// fallback values when unreachable, so a missing API key only costs
	// estimate quality.
	services.InitEstimationService()
	if cfg.GeminiAPIKey == "" {
		log.Println("GEMINI_API_KEY not set, cost estimation will use fallback values")
	}

	// Initialize media storage when a bucket is configured
	if cfg.AWSS3Bucket != "" {
		if _, err := services.InitS3Service(); err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
	} else {
		log.Println("AWS_S3_BUCKET not set, media uploads are disabled")
	}

	// Initialize Gin router
	router := setupRouter()

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the full route tree
func setupRouter() *gin.Engine {
	router := gin.Default()

	// CORS for the dashboard clients
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, middleware.SessionHeader)
	router.Use(cors.New(corsConfig))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Session routes
		session := v1.Group("/session")
		{
			session.POST("/login", controllers.Login)
			session.POST("/onboarding", middleware.SessionRequired(), controllers.CompleteOnboarding)
			session.GET("/me", middleware.SessionRequired(), middleware.ActorRequired(), controllers.GetMyProfile)
		}

		// Request collection routes, all role-scoped
		requests := v1.Group("/requests", middleware.SessionRequired(), middleware.ActorRequired())
		{
			requests.GET("", controllers.ListRequests)
			requests.POST("", controllers.CreateRequest)
			requests.PATCH("/:id/status", controllers.UpdateRequestStatus)
			requests.POST("/:id/payment", controllers.SettleRequestPayment)
			requests.PUT("/:id", controllers.UpdateRequest)
			requests.GET("/:id/messages", controllers.ListMessages)
			requests.POST("/:id/messages", controllers.SendMessage)
		}

		// Technician diagnosis
		v1.POST("/diagnosis", middleware.SessionRequired(), middleware.ActorRequired(), controllers.Diagnose)

		// Media uploads
		v1.POST("/uploads", middleware.SessionRequired(), middleware.ActorRequired(), controllers.UploadMedia)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Kafaa Maintenance API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
