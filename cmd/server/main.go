package main // Entry point package

import (
	"log" // startup logging before zap is ready

	"github.com/joho/godotenv"    // optional .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework
	"go.uber.org/zap"             // structured logging

	"github.com/BnamoRS/ecommerce-api/internal/auth"       // token service
	"github.com/BnamoRS/ecommerce-api/internal/config"     // internal config loader
	"github.com/BnamoRS/ecommerce-api/internal/database"   // MySQL pool
	"github.com/BnamoRS/ecommerce-api/internal/handler"    // HTTP handlers
	"github.com/BnamoRS/ecommerce-api/internal/middleware" // rate limiting
	"github.com/BnamoRS/ecommerce-api/internal/queue"      // review event consumer
	"github.com/BnamoRS/ecommerce-api/internal/repository" // data access layer
	"github.com/BnamoRS/ecommerce-api/internal/router"     // route registration
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	tokens := auth.NewTokenService(cfg.JWTSecret)

	users := repository.NewUserRepo(db)
	categories := repository.NewCategoryRepo(db)
	products := repository.NewProductRepo(db)
	reviews := repository.NewReviewRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()

	// Rate limiting is fail-open: a missing Redis leaves the API unthrottled.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable, rate limiting disabled")
	}
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), tokens)
	router.RegisterPermission(e, handler.NewPermissionHandler(users), tokens)
	router.RegisterCatalog(e, handler.NewProductHandler(products, categories), handler.NewCategoryHandler(categories), tokens)
	router.RegisterReviews(e, handler.NewReviewHandler(reviews, logger), tokens)

	// Audit consumer runs for the lifetime of the process and reconnects
	// on broker failures.
	go queue.StartReviewConsumer(logger)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))

	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
