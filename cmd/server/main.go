package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/course-service/internal/cache"
	"github.com/SAP-F-2025/course-service/internal/config"
	"github.com/SAP-F-2025/course-service/internal/handlers"
	"github.com/SAP-F-2025/course-service/internal/middleware"
	"github.com/SAP-F-2025/course-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/course-service/internal/services"
	"github.com/SAP-F-2025/course-service/internal/utils"
	"github.com/SAP-F-2025/course-service/internal/validator"
	"github.com/SAP-F-2025/course-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run returns instead of exiting so deferred cleanup always happens
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.NewLogger("development").Error("Failed to load configuration", "error", err)
		return err
	}

	logger := utils.NewLogger(cfg.Environment)
	logger.Info("Starting course service", "port", cfg.Port, "environment", cfg.Environment)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.LogError(err, "Failed to connect to PostgreSQL")
		return err
	}
	defer func() {
		if err := pkg.CloseDatabase(db); err != nil {
			logger.LogError(err, "Failed to close database")
		}
	}()

	// Cache is optional; requests fall through to the database without it
	var cacheService cache.CacheService
	rdb, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, caching disabled", "error", err)
	} else {
		defer rdb.Close()
		cacheService = cache.NewRedisCache(rdb, logger.Slog())
	}

	publisher, err := cfg.Events.CreateEventPublisher(logger.Slog())
	if err != nil {
		logger.LogError(err, "Failed to create event publisher")
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.LogError(err, "Failed to close event publisher")
		}
	}()

	authenticator, err := middleware.NewAuthenticator(cfg.Auth)
	if err != nil {
		logger.LogError(err, "Failed to configure authentication")
		return err
	}

	serviceManager := services.NewServiceManager(services.Dependencies{
		Repo:      postgres.NewRepository(db),
		Cache:     cacheService,
		CacheTTL:  cfg.CacheTTL,
		Publisher: publisher,
		Validator: validator.New(),
		Logger:    logger.Slog(),
	})

	handlerManager := handlers.NewHandlerManager(serviceManager, authenticator, cfg.Features, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlerManager.NewRouter(cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return serve(srv, quit, logger)
}

// serve runs srv until it fails or a signal arrives on quit, then shuts it down
func serve(srv *http.Server, quit <-chan os.Signal, logger utils.Logger) error {
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		logger.LogError(err, "Server error")
		return err
	case sig := <-quit:
		logger.Info("Shutting down gracefully", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.LogError(err, "HTTP server shutdown error")
		return err
	}

	logger.Info("Server stopped")
	return nil
}

const shutdownTimeout = 5 * time.Second
