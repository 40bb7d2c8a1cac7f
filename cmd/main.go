package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"feed-service/internal/config"
	"feed-service/internal/database"
	"feed-service/internal/handlers"
	"feed-service/internal/middleware"
	"feed-service/internal/models"
	"feed-service/internal/refcatalog"
	"feed-service/internal/repository"
	"feed-service/internal/scheduler"
	"feed-service/internal/services"
)

func main() {
	// Load .env in development; ignore when absent
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	logger := logrus.New()
	if cfg.Environment == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate owned models; products and categories belong to the store
	if err := db.AutoMigrate(&models.FeedConfig{}); err != nil {
		log.Printf("Warning: Auto-migration failed: %v", err)
	}
	log.Println("Database models migrated")

	// Optional redis cache for the category tree
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: invalid REDIS_URL, cache disabled: %v", err)
		} else {
			redisClient = redis.NewClient(opts)
		}
	}

	// Initialize repositories
	feedRepo := repository.NewFeedRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db, redisClient)

	// Reference catalogs
	catalogs := refcatalog.NewService(cfg.PhoneCatalogPath, cfg.LaptopCatalogPath, logger)
	if err := catalogs.Load(); err != nil {
		log.Printf("Warning: reference catalogs degraded: %v", err)
	}

	// Generation pipeline
	guard := scheduler.NewRunGuard(&scheduler.GuardConfig{
		MaxConcurrentRuns: cfg.MaxConcurrentRuns,
		RunTimeout:        cfg.RunTimeout,
	})
	generationService := services.NewGenerationService(
		feedRepo, productRepo, categoryRepo, catalogs, guard,
		services.GeneratorConfig{
			TemplateDirs:          cfg.TemplateDirs,
			SecondaryTemplatePath: cfg.SecondaryTemplatePath,
			NotebookSheetName:     cfg.NotebookSheetName,
			OutputDir:             cfg.OutputDir,
			PublicBasePath:        cfg.PublicBasePath,
		},
		logger,
	)

	// Scheduler: one cron entry per enabled feed
	cron := scheduler.New(generationService.RunScheduled, logger)
	feedService := services.NewFeedService(feedRepo, cron, logger)
	if err := feedService.SyncSchedules(context.Background()); err != nil {
		log.Printf("Warning: schedule sync failed: %v", err)
	}
	cron.Start()
	defer cron.Stop()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(guard)
	feedHandler := handlers.NewFeedHandler(feedService, generationService)
	catalogHandler := handlers.NewCatalogHandler(catalogs)

	// Setup router
	router := setupRouter(cfg, healthHandler, feedHandler, catalogHandler)

	// Start server
	log.Printf("Feed Service starting on port %s (env: %s)", cfg.Port, cfg.Environment)
	go func() {
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down, waiting for in-flight generations")
}

// setupRouter configures the HTTP router
func setupRouter(
	cfg *config.Config,
	healthHandler *handlers.HealthHandler,
	feedHandler *handlers.FeedHandler,
	catalogHandler *handlers.CatalogHandler,
) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	// Health check
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Generated feeds are served at a predictable URL
	router.Static(cfg.PublicBasePath, cfg.OutputDir)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimit(cfg.DefaultRateLimit))
	{
		feeds := v1.Group("/feeds")
		{
			feeds.GET("", feedHandler.List)
			feeds.POST("", feedHandler.Create)
			feeds.GET("/:id", feedHandler.Get)
			feeds.PATCH("/:id", feedHandler.Update)
			feeds.DELETE("/:id", feedHandler.Delete)
			feeds.POST("/:id/generate", feedHandler.Generate)
			feeds.GET("/:id/report", feedHandler.Report)
		}

		catalogs := v1.Group("/catalogs")
		{
			catalogs.POST("/reload", catalogHandler.Reload)
		}
	}

	return router
}
