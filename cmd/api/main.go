// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Inkpost HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables (and CONFIG_FILE).
//  3. Apply database migrations (idempotent).
//  4. Open the store selected by DATABASE_URL (pgxpool or sqlite).
//  5. Connect to Redis when REDIS_URL is set.
//  6. Wire services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/inkpost/internal/api"
	"github.com/taibuivan/inkpost/internal/blog/post"
	"github.com/taibuivan/inkpost/internal/platform/config"
	"github.com/taibuivan/inkpost/internal/platform/constants"
	"github.com/taibuivan/inkpost/internal/platform/migration"
	pgstore "github.com/taibuivan/inkpost/internal/platform/postgres"
	redisstore "github.com/taibuivan/inkpost/internal/platform/redis"
	"github.com/taibuivan/inkpost/internal/platform/sec"
	"github.com/taibuivan/inkpost/internal/platform/sqlite"
	"github.com/taibuivan/inkpost/internal/users/auth"
	"github.com/taibuivan/inkpost/pkg/markdown"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("database_driver", cfg.DatabaseDriver()),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), constants.StartupTimeout)
	defer startupCancel()

	// ── 3. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, log), "run migrations")

	// ── 4. Store ──────────────────────────────────────────────────────────
	stores, err := openStore(startupCtx, cfg, log)
	must(log, err, "open database")
	defer stores.close()

	// ── 5. Redis (optional) ───────────────────────────────────────────────
	var (
		throttle   auth.SigninThrottle
		checkCache func(ctx context.Context) error
	)
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer closeRedis(log, rdb)

		throttle = auth.NewRedisSigninThrottle(rdb)
		checkCache = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
	} else {
		log.Warn("redis_disabled", slog.String("effect", "signin throttling off"))
	}

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	tokenService, err := sec.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	must(log, err, "initialize token service")

	authService := auth.NewService(stores.users, throttle, auth.ThrottlePolicy{
		MaxAttempts: cfg.SigninMaxAttempts,
		Window:      cfg.SigninWindow,
	}, tokenService)
	postService := post.NewService(stores.posts, authService, markdown.NewRenderer())

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: stores.ping,
		CheckCache:    checkCache,
	}, log)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Users:     auth.NewHandler(authService, tokenService),
		Posts:     post.NewHandler(postService, tokenService),
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// store bundles the repositories for the configured driver with its lifecycle hooks.
type store struct {
	users auth.UserRepository
	posts post.Repository
	ping  func(ctx context.Context) error
	close func()
}

func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (*store, error) {
	if cfg.DatabaseDriver() == config.DriverSQLite {
		db, err := sqlite.Open(ctx, cfg.SQLitePath(), log)
		if err != nil {
			return nil, err
		}
		return &store{
			users: auth.NewSQLiteUserRepository(db),
			posts: post.NewSQLiteRepository(db),
			ping:  func(ctx context.Context) error { return sqlite.Ping(ctx, db) },
			close: func() {
				log.Info("closing_sqlite_database")
				_ = db.Close()
			},
		}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}
	return &store{
		users: auth.NewPostgresUserRepository(pool),
		posts: post.NewPostgresRepository(pool),
		ping:  func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		close: func() {
			log.Info("closing_postgres_pool")
			pool.Close()
		},
	}, nil
}

func closeRedis(log *slog.Logger, client *goredis.Client) {
	log.Info("closing_redis_client")
	if err := client.Close(); err != nil {
		log.Error("redis_close_error", slog.Any("error", err))
	}
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", "inkpost"))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
// It is limited to startup wiring.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
