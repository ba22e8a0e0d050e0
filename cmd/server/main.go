package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/mtsuda/groupware-api/internal/config"
	"github.com/mtsuda/groupware-api/internal/constants"
	"github.com/mtsuda/groupware-api/internal/database"
	"github.com/mtsuda/groupware-api/internal/handlers"
	"github.com/mtsuda/groupware-api/internal/middleware"
	"github.com/mtsuda/groupware-api/internal/repository"
	"github.com/mtsuda/groupware-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(cfg); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	reportRepo := repository.NewReportRepository(db)
	stampRepo := repository.NewStampRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	identityService := services.NewIdentityService(userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo)
	reportService := services.NewReportService(reportRepo)
	stampService := services.NewStampService(stampRepo, userRepo, identityService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(identityService)
	taskHandler := handlers.NewTaskHandler(taskService, authService)
	reportHandler := handlers.NewReportHandler(reportService)
	stampHandler := handlers.NewStampHandler(stampService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Groupware API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// User routes (protected)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.GET("", userHandler.GetUser)
			users.POST("", userHandler.RegisterUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.PostTasks)
		}

		// My-task routes (protected)
		myTasks := api.Group("/my-tasks")
		myTasks.Use(middleware.RequireAuth())
		{
			myTasks.GET("", taskHandler.ListMyTasks)
			myTasks.PATCH("", taskHandler.UpdateMyTaskProgress)
		}

		// Report routes (protected)
		reports := api.Group("/reports")
		reports.Use(middleware.RequireAuth())
		{
			reports.GET("", reportHandler.ListReports)
			reports.DELETE("", reportHandler.DeleteReports)
		}

		// Stamp routes (protected)
		stamps := api.Group("/stamps")
		stamps.Use(middleware.RequireAuth())
		{
			stamps.GET("", stampHandler.ListStamps)
			stamps.POST("", stampHandler.PostStamp)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
