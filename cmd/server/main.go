package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"skywatch/internal/analysis"
	"skywatch/internal/auth"
	"skywatch/internal/config"
	"skywatch/internal/database"
	"skywatch/internal/fetch"
	"skywatch/internal/handlers"
	"skywatch/internal/ingest"
	"skywatch/internal/llm"
	"skywatch/internal/notifications"
	"skywatch/internal/sources"
	"skywatch/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(database.LoadConfig())
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close(db)

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Build the collection pipeline
	registry := sources.NewRegistry(nil)
	pipeline := ingest.NewPipeline(db, fetch.NewAggregator(buildAdapters(cfg)), registry)

	// Claim analysis is optional; without an API key the engine reports
	// itself disabled and the analysis job becomes a no-op.
	var client llm.Client
	if cfg.OpenAIKey != "" {
		llmConfig := llm.DefaultConfig()
		llmConfig.APIKey = cfg.OpenAIKey
		if cfg.OpenAIModel != "" {
			llmConfig.Model = cfg.OpenAIModel
		}
		openaiClient, err := llm.NewOpenAIClient(llmConfig)
		if err != nil {
			log.Fatal("Failed to create LLM client:", err)
		}
		client = openaiClient
		log.Printf("Claim analysis enabled (model %s)", llmConfig.Model)
	} else {
		log.Println("OPENAI_API_KEY not set, claim analysis disabled")
	}
	engine := analysis.NewEngine(db, client)

	// Notifications
	hub := notifications.NewHub()
	notifier := notifications.NewService(db, hub)

	// Initialize and start background workers
	workerService := worker.NewWorkerService(db, cfg, pipeline, engine, notifier)
	if err := workerService.Start(); err != nil {
		log.Fatal("Failed to start background workers:", err)
	}

	setupGracefulShutdown(db, workerService)
	setupServer(db, cfg, workerService, notifier, hub)
}

// buildAdapters assembles the fetch adapters for every upstream that is
// usable with the current configuration
func buildAdapters(cfg *config.Config) []fetch.Adapter {
	aliases := []string{cfg.ObjectName, "interstellar"}

	adapters := []fetch.Adapter{
		fetch.NewRSSAdapter("NASA", "https://www.nasa.gov/news-release/feed/", aliases),
		fetch.NewRSSAdapter("ESA", "https://www.esa.int/rssfeed/Our_Activities/Space_Science", aliases),
		fetch.NewRSSAdapter("Sky & Telescope", "https://skyandtelescope.org/astronomy-news/feed/", aliases),
		fetch.NewRSSAdapter("Astronomy Now", "https://astronomynow.com/feed/", aliases),
		fetch.NewSpaceflightAdapter(cfg.ObjectName),
		fetch.NewArxivAdapter(cfg.ObjectName),
	}

	if cfg.NewsAPIKey != "" {
		adapters = append(adapters, fetch.NewNewsAPIAdapter(cfg.ObjectName, cfg.NewsAPIKey))
	} else {
		log.Println("NEWSAPI_KEY not set, skipping NewsAPI adapter")
	}

	return adapters
}

func setupGracefulShutdown(db *gorm.DB, workerService *worker.WorkerService) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Received shutdown signal, gracefully shutting down...")

		workerService.Stop()
		database.Close(db)

		log.Println("Shutdown complete")
		os.Exit(0)
	}()
}

func setupServer(db *gorm.DB, cfg *config.Config, workerService *worker.WorkerService, notifier *notifications.Service, hub *notifications.Hub) {
	// Set Gin mode based on environment
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	tokens := auth.NewTokenService(cfg.JWTSecret)

	// Initialize handlers
	articlesHandler := handlers.NewArticlesHandler(db, workerService)
	notificationsHandler := handlers.NewNotificationsHandler(notifier)
	adminHandler := handlers.NewAdminHandler(db, workerService, tokens)
	wsHandler := handlers.NewWSHandler(tokens, hub)
	docsHandler := handlers.NewDocsHandler()

	// Health check
	r.GET("/health", articlesHandler.HealthCheck)

	// Serve Markdown documentation as HTML
	r.GET("/doc/:doc", docsHandler.ServeMarkdownAsHTML)

	// Live notification stream
	r.GET("/ws", wsHandler.Serve)

	// API routes
	api := r.Group("/api")
	{
		articles := api.Group("/articles")
		{
			articles.GET("", articlesHandler.GetLatest)
			articles.GET("/category/:category", articlesHandler.GetByCategory)
			articles.GET("/source/:id", articlesHandler.GetBySource)
			articles.GET("/:id/claims", articlesHandler.GetClaims)
		}

		api.GET("/sources", articlesHandler.GetSources)
		api.GET("/contradictions", articlesHandler.GetContradictions)
		api.GET("/worker/status", articlesHandler.WorkerStatus)

		// Per-user routes require a bearer token
		user := api.Group("", tokens.Middleware())
		{
			user.GET("/notifications", notificationsHandler.List)
			user.POST("/notifications", notificationsHandler.Create)
			user.POST("/notifications/:id/read", notificationsHandler.MarkRead)
			user.POST("/notifications/:id/dismiss", notificationsHandler.Dismiss)
			user.GET("/notifications/preferences", notificationsHandler.GetPreferences)
			user.PUT("/notifications/preferences", notificationsHandler.UpdatePreferences)
			user.GET("/alerts", notificationsHandler.RecentAlerts)
		}
	}

	// Admin routes (password protected)
	admin := r.Group("/admin", gin.BasicAuth(gin.Accounts{
		"admin": cfg.AdminPassword,
	}))
	{
		admin.GET("/dashboard", adminHandler.Dashboard)
		admin.PUT("/sources/:id/prior", adminHandler.UpdateSourcePrior)
		admin.POST("/ingest", adminHandler.TriggerIngestion)
		admin.POST("/tokens", adminHandler.IssueToken)
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
