package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/betavietvn/leadtrack/internal/config"
	"github.com/betavietvn/leadtrack/internal/handler"
	"github.com/betavietvn/leadtrack/internal/logger"
	"github.com/betavietvn/leadtrack/internal/middleware"
	"github.com/betavietvn/leadtrack/internal/repository/postgres"
	"github.com/betavietvn/leadtrack/internal/service"
	redisStore "github.com/betavietvn/leadtrack/internal/store/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if err := logger.Initialize(logger.Config{
		Service:    "collector",
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		OutputPath: cfg.Log.OutputPath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	appLog := logger.Get()
	appLog.Info("Starting lead tracking collector",
		"port", cfg.Server.Port,
		"log_level", cfg.Log.Level,
	)

	dbPool, err := setupDatabase(cfg)
	if err != nil {
		appLog.Error("Failed to setup database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	redisClient, err := redisStore.NewClient(cfg.Redis)
	if err != nil {
		appLog.Error("Failed to setup redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	ingestRepo := postgres.NewIngestRepository(dbPool)
	if err := ingestRepo.Migrate(context.Background()); err != nil {
		appLog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	ingestService := service.NewIngestService(ingestRepo)

	ingestHandler := handler.NewIngestHandler(ingestService)
	healthHandler := handler.NewHealthHandler(dbPool, redisClient)

	router := setupRouter(ingestHandler, healthHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLog.Info("Server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	gracefulShutdown(srv, cfg.Server.ShutdownTimeout, dbPool, redisClient, appLog)
}

func setupDatabase(cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)

	return pgxpool.NewWithConfig(context.Background(), poolConfig)
}

func setupRouter(ingestHandler *handler.IngestHandler, healthHandler *handler.HealthHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger())

	// health check
	router.GET("/healthz", healthHandler.Healthz)
	router.GET("/readyz", healthHandler.Readyz)

	api := router.Group("/api")
	{
		api.POST("/analytics", ingestHandler.IngestEvents)
		api.POST("/contact-tracking", ingestHandler.IngestContact)
		api.POST("/fraud-detection", ingestHandler.IngestFraudReport)
		api.POST("/tracking", ingestHandler.IngestSnapshot)

		api.GET("/sessions/:sessionID/stats", ingestHandler.GetSessionStats)
	}

	return router
}

func gracefulShutdown(srv *http.Server, timeout time.Duration, dbPool *pgxpool.Pool, redisClient *redis.Client, log *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Info("Shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", "error", err)
	}

	dbPool.Close()
	log.Info("Database connection closed")

	if err := redisClient.Close(); err != nil {
		log.Error("Error closing Redis", "error", err)
	}

	log.Info("Graceful shutdown completed")
}
