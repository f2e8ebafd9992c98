package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/replaygear/replay_api/internal/cache"
	"github.com/replaygear/replay_api/internal/config"
	"github.com/replaygear/replay_api/internal/database"
	"github.com/replaygear/replay_api/internal/handler"
	"github.com/replaygear/replay_api/internal/middleware"
	"github.com/replaygear/replay_api/internal/repository"
	"github.com/replaygear/replay_api/internal/service"
	"github.com/replaygear/replay_api/internal/sse"
	"github.com/replaygear/replay_api/internal/worker"
)

// main is the application entrypoint for the ReplayGear marketplace API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting replay api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize catalog cache
	catalogCache := cache.NewCatalogCache(redisClient, cfg.Cache.CatalogTTL)

	// 4. Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	sellRequestRepo := repository.NewSellRequestRepository(db)

	// 5. Initialize SSE hub for admin notifications
	hub := sse.NewHub()
	notifier := sse.NewHubNotifier(hub)

	// 6. Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	catalogSvc := service.NewCatalogService(productRepo, catalogCache)
	sellRequestSvc := service.NewSellRequestService(sellRequestRepo, notifier)
	reviewSvc := service.NewReviewService(sellRequestRepo, catalogCache, notifier)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:            handler.NewHealthHandler(db),
		Auth:              handler.NewAuthHandler(authSvc),
		Product:           handler.NewProductHandler(catalogSvc),
		ProductManagement: handler.NewProductManagementHandler(catalogSvc),
		SellRequest:       handler.NewSellRequestHandler(sellRequestSvc),
		Review:            handler.NewReviewHandler(reviewSvc),
		SSE:               handler.NewSSEHandler(hub, cfg.JWTSecret),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware(cfg.JWTSecret)

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewReviewReminderWorker(
		sellRequestRepo,
		cfg.Worker.ReviewReminderInterval,
		cfg.Worker.ReviewReminderMaxAge,
	).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health            *handler.HealthHandler
	Auth              *handler.AuthHandler
	Product           *handler.ProductHandler
	ProductManagement *handler.ProductManagementHandler
	SellRequest       *handler.SellRequestHandler
	Review            *handler.ReviewHandler
	SSE               *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Auth
	auth := router.Group("/v1/auth")
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
	}

	// Public catalog
	products := router.Group("/v1/products")
	{
		products.GET("", handlers.Product.List)
		products.GET("/categories", handlers.Product.Categories)
		products.GET("/:id", handlers.Product.Get)
	}

	// Seller routes (any authenticated user)
	sellRequests := router.Group("/v1/sell-requests")
	sellRequests.Use(jwtMiddleware.Handle())
	{
		sellRequests.POST("", handlers.SellRequest.Submit)
		sellRequests.GET("/mine", handlers.SellRequest.ListMine)
	}

	// Admin routes
	admin := router.Group("/v1/admin")
	// SSE uses token query param (EventSource cannot set headers); the
	// handler validates the token and role itself.
	admin.GET("/events", handlers.SSE.Stream)
	admin.Use(jwtMiddleware.RequireAdmin())
	{
		// Sell request review
		admin.GET("/sell-requests", handlers.SellRequest.ListAll)
		admin.GET("/sell-requests/:id", handlers.SellRequest.Get)
		admin.POST("/sell-requests/:id/review", handlers.Review.Review)

		// Catalog management
		admin.GET("/products", handlers.ProductManagement.List)
		admin.POST("/products", handlers.ProductManagement.Create)
		admin.GET("/products/:id", handlers.ProductManagement.Get)
		admin.PUT("/products/:id", handlers.ProductManagement.Update)
		admin.DELETE("/products/:id", handlers.ProductManagement.Delete)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
