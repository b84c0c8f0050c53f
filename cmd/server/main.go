package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"upwatch/internal/config"
	"upwatch/internal/handlers"
	"upwatch/internal/services"
	"upwatch/internal/store"

	"github.com/gin-gonic/gin"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func Run(ctx context.Context) error {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Setup Logger
	var handler slog.Handler
	if cfg.AppEnv == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// 3. Initialize Store
	st, err := openStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	// 4. Initialize Services
	auditService := services.NewAuditService(st, logger)
	tokenService := services.NewTokenService(st, auditService, logger)
	accountService := services.NewAccountService(st, tokenService, auditService, logger)
	checkService := services.NewCheckService(st, tokenService, auditService, logger, cfg.MaxChecks)
	rateLimiter := services.NewIPRateLimiter(5, 10, logger)

	// 5. Initialize Handler
	h := handlers.NewHandler(cfg, logger, accountService, tokenService, checkService)

	// 6. Setup Router
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := h.SetupRouter(rateLimiter)

	// 7. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Background Context for workers
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	// Start Background Workers
	go auditService.Start(workerCtx)
	rateLimiter.StartCleanup(workerCtx, 10*time.Minute)

	// Initializing server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for context cancellation or server error
	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	// Graceful shutdown timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	workerCancel()
	// Wait a tiny bit for workers
	time.Sleep(100 * time.Millisecond)

	logger.Info("Server exiting")
	return nil
}

func openStore(cfg config.Config, logger *slog.Logger) (store.Store, error) {
	switch cfg.StoreDriver {
	case "redis":
		rdb, err := store.InitRedis(cfg.RedisURL, cfg.RedisPassword, 0)
		if err != nil {
			return nil, err
		}
		return store.NewRedisStore(rdb), nil
	case "file":
		return store.NewFileStore(cfg.DataDir)
	case "database", "":
		db, err := store.InitDB(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(cfg.DatabaseURL, "postgres") {
			logger.Info("Running database migrations...")
			if err := store.RunMigrations(cfg.DatabaseURL, ""); err != nil {
				return nil, fmt.Errorf("migration failed: %w", err)
			}
		}
		return store.NewGormStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.StoreDriver)
	}
}
