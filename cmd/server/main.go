package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rohits-web03/zipdrop/internal/api"
	"github.com/rohits-web03/zipdrop/internal/api/handlers"
	"github.com/rohits-web03/zipdrop/internal/api/middleware"
	"github.com/rohits-web03/zipdrop/internal/api/services"
	"github.com/rohits-web03/zipdrop/internal/auth"
	"github.com/rohits-web03/zipdrop/internal/config"
	"github.com/rohits-web03/zipdrop/internal/repositories"
)

// @title ZipDrop API
// @version 1.0
// @description Register, log in and upload ZIP archives that carry A.txt and B.txt.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.Load()
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := repositories.ConnectDatabase(cfg.DB_URL, logger)
	if err != nil {
		return err
	}
	if err := repositories.Migrate(db); err != nil {
		return err
	}
	logger.Info("Successfully connected to database")

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	users := services.NewUserService(repositories.NewUserRepository(db))
	uploads := services.NewUploadService(repositories.NewUploadRecordRepository(db), users, logger)

	loginLimiter := middleware.NewIPRateLimiter(middleware.PerMinute(cfg.LoginRatePerMin), cfg.LoginBurst, logger)
	loginLimiter.StartCleanup(ctx, 10*time.Minute)

	h := handlers.NewHandler(logger, users, uploads, tokens, cfg.MaxUploadBytes)
	mux := api.SetupRouter(h, api.RouterOptions{
		Logger:       logger,
		Tokens:       tokens,
		Users:        users,
		LoginLimiter: loginLimiter,
		Cors:         cfg.CorsConfig,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: mux,
		// Uploads can be large, so reads get more time than the other phases.
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting ZipDrop server", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not listen on port %s: %w", cfg.Port, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err = g.Wait()

	if sqlDB, dbErr := db.DB(); dbErr == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Server exiting")
	return err
}

func newLogger(cfg config.Config) *slog.Logger {
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.New(handler)
}
