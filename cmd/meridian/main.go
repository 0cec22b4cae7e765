package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meridian-api/meridian/internal/app"
	"github.com/meridian-api/meridian/internal/auth"
	"github.com/meridian-api/meridian/internal/observability"
	"github.com/meridian-api/meridian/internal/platform/cache"
	"github.com/meridian-api/meridian/internal/platform/db"
	"github.com/meridian-api/meridian/internal/users"
	"github.com/meridian-api/meridian/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	enqueuer := jobs.NewEnqueuer(cfg.RedisAddr)
	defer func() {
		if err := enqueuer.Close(); err != nil {
			logger.Warn("enqueuer close", slog.Any("error", err))
		}
	}()

	guard := auth.Guard{Verifier: buildVerifier(cfg, redisClient, logger), Logger: logger}

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo, enqueuer, logger)
	usersHandler := users.NewHandler(logger, usersService)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:       logger,
		Config:       cfg,
		Guard:        guard,
		UsersHandler: usersHandler,
		Metrics:      metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

// buildVerifier picks the token verifier for this deployment. Test mode
// short-circuits to allow-all so suites never depend on a live provider.
func buildVerifier(cfg *app.Config, redisClient *redis.Client, logger *slog.Logger) auth.TokenVerifier {
	if app.InTestMode() {
		return auth.AllowAll{}
	}
	if cfg.AuthIntrospectURL != "" {
		return auth.NewIntrospectionVerifier(cfg.AuthIntrospectURL, cfg.AuthClientID, cfg.AuthClientSecret, redisClient, cfg.AuthCacheTTL, logger)
	}
	return auth.NewJWTVerifier(cfg.AuthJWTSecret)
}
