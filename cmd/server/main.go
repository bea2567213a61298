package main

import (
	"github.com/alex-clyr/clyr-gpts/internal/access"
	"github.com/alex-clyr/clyr-gpts/internal/handler"
	"github.com/alex-clyr/clyr-gpts/internal/middleware"
	"github.com/alex-clyr/clyr-gpts/internal/model"
	"github.com/alex-clyr/clyr-gpts/internal/orchestrator"
	"github.com/alex-clyr/clyr-gpts/internal/store"
	"github.com/alex-clyr/clyr-gpts/pkg/config"
	"github.com/alex-clyr/clyr-gpts/pkg/database"
	"github.com/alex-clyr/clyr-gpts/pkg/jwtutil"
	"github.com/alex-clyr/clyr-gpts/pkg/logger"

	"github.com/alex-clyr/clyr-gpts/prometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load("clyrai-platform")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting Clyrai platform service...", cfg.LogConfig()...)

	// Select the data path once, at startup: live backend with fallback, or
	// the canned demo data set.
	var dataStore store.Store
	if cfg.Backend.Configured() {
		db, err := database.InitDB(&cfg.Backend)
		if err != nil {
			log.Fatal("Failed to initialize database", zap.Error(err))
		}
		if err := database.MigrateModels(
			&model.User{},
			&model.Assistant{},
			&model.Thread{},
			&model.Message{},
			&model.Subscription{},
		); err != nil {
			log.Fatal("Failed to run migrations", zap.Error(err))
		}
		log.Info("Database connection established")
		dataStore = store.NewResilient(store.NewGormStore(db), store.NewDemoStore(), log)
	} else {
		log.Warn("Backend not configured, serving demo data; writes are disabled")
		dataStore = store.NewDemoStore()
	}
	defer dataStore.Close()

	// Select the orchestrator the same way: live assistant API or simulated
	// replies.
	var orch orchestrator.Orchestrator
	if cfg.OpenAI.Configured() {
		orch = orchestrator.NewOpenAIOrchestrator(
			cfg.OpenAI.APIKey,
			cfg.OpenAI.PollInterval,
			cfg.OpenAI.RunTimeout,
			log,
		)
		log.Info("Assistant API client initialized",
			zap.Duration("poll_interval", cfg.OpenAI.PollInterval),
			zap.Duration("run_timeout", cfg.OpenAI.RunTimeout))
	} else {
		log.Warn("OpenAI API key not configured, assistant replies are simulated")
		orch = orchestrator.NewSimulatedOrchestrator(log)
	}

	// Initialize JWT utility
	jwtUtil := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      cfg.JWT.SigningKey,
		ExpirationHours: cfg.JWT.ExpirationHours,
	})

	checker := access.NewChecker(dataStore, cfg.Access.FailOpen, log)

	authHandler := handler.NewAuthHandler(dataStore, jwtUtil)
	oauthHandler := handler.NewOAuthHandler(dataStore, jwtUtil, &cfg.OAuth)
	assistantHandler := handler.NewAssistantHandler(dataStore, checker)
	chatHandler := handler.NewChatHandler(dataStore, orch, checker)
	subscriptionHandler := handler.NewSubscriptionHandler(dataStore)
	adminHandler := handler.NewAdminHandler(dataStore)

	// Initialize Echo framework
	e := echo.New()
	e.HideBanner = true

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/oauth/google", oauthHandler.GoogleLogin)
	auth.GET("/oauth/google/callback", oauthHandler.GoogleCallback)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(jwtUtil))

	api.GET("/auth/session", authHandler.Session)

	// Assistant catalog
	assistants := api.Group("/assistants")
	assistants.GET("", assistantHandler.List)
	assistants.GET("/:id", assistantHandler.Get)
	assistants.GET("/:id/access", assistantHandler.CheckAccess)

	// Chat threads and messages
	threads := api.Group("/threads")
	threads.GET("", chatHandler.ListThreads)
	threads.POST("", chatHandler.CreateThread)
	threads.GET("/:id/messages", chatHandler.ListMessages)
	threads.POST("/:id/messages", chatHandler.SendMessage)

	// Subscriptions (read-only; grants come from the billing collaborator)
	api.GET("/subscriptions", subscriptionHandler.ListMine)

	// Admin dashboard - requires the admin role
	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin)
	admin.GET("/assistants", adminHandler.ListAssistants)
	admin.POST("/assistants", adminHandler.CreateAssistant)
	admin.PATCH("/assistants/:id", adminHandler.UpdateAssistant)
	admin.DELETE("/assistants/:id", adminHandler.DeactivateAssistant)
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/subscriptions", adminHandler.ListSubscriptions)
	admin.GET("/stats", adminHandler.Stats)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
