package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/agrodesk/farmstock/internal/adapter/http"
	"github.com/agrodesk/farmstock/internal/adapter/http/handler"
	"github.com/agrodesk/farmstock/internal/adapter/http/middleware"
	postgresRepo "github.com/agrodesk/farmstock/internal/adapter/repository/postgres"
	redisRepo "github.com/agrodesk/farmstock/internal/adapter/repository/redis"
	"github.com/agrodesk/farmstock/internal/infrastructure/auth"
	"github.com/agrodesk/farmstock/internal/infrastructure/config"
	"github.com/agrodesk/farmstock/internal/infrastructure/logger"
	"github.com/agrodesk/farmstock/internal/infrastructure/postgres"
	"github.com/agrodesk/farmstock/internal/infrastructure/redis"
	"github.com/agrodesk/farmstock/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	farmRepo := postgresRepo.NewFarmRepository(pool)
	membershipRepo := postgresRepo.NewMembershipRepository(pool)
	permissionRepo := postgresRepo.NewPermissionRepository(pool)
	itemRepo := postgresRepo.NewItemRepository(pool)
	stockRepo := postgresRepo.NewStockTransactionRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(appLogger)

	// Initialize use cases
	userUC := usecase.NewUserUseCase(userRepo, auditRepo, idGen)
	farmUC := usecase.NewFarmUseCase(txManager, farmRepo, membershipRepo, idGen)
	accessUC := usecase.NewAccessUseCase(txManager, farmRepo, membershipRepo, permissionRepo, userRepo, auditRepo, idGen, appLogger)
	itemUC := usecase.NewItemUseCase(itemRepo, idGen, cache)
	stockUC := usecase.NewStockUseCase(txManager, itemRepo, stockRepo, idGen, retrier)

	// Initialize handlers
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	authHandler := handler.NewAuthHandler(userUC, jwtManager)
	userHandler := handler.NewUserHandler(userUC)
	farmHandler := handler.NewFarmHandler(farmUC)
	accessHandler := handler.NewAccessHandler(accessUC)
	itemHandler := handler.NewItemHandler(itemUC, stockUC)
	stockHandler := handler.NewStockHandler(stockUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:      authHandler,
		UserHandler:      userHandler,
		FarmHandler:      farmHandler,
		AccessHandler:    accessHandler,
		ItemHandler:      itemHandler,
		StockHandler:     stockHandler,
		HealthHandler:    healthHandler,
		JWTManager:       jwtManager,
		AccessChecker:    accessUC,
		IdempotencyStore: idempotencyStore,
		RateLimiter:      rateLimiter,
		Logger:           appLogger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
