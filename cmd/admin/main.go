// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command admin is the operator CLI for an Inkpost deployment.
//
// It reads the same environment (and CONFIG_FILE overlay) as the API server.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/taibuivan/inkpost/internal/platform/config"
	"github.com/taibuivan/inkpost/internal/platform/migration"
	pgstore "github.com/taibuivan/inkpost/internal/platform/postgres"
	redisstore "github.com/taibuivan/inkpost/internal/platform/redis"
	"github.com/taibuivan/inkpost/internal/platform/sec"
	"github.com/taibuivan/inkpost/internal/platform/sqlite"
	"github.com/taibuivan/inkpost/internal/platform/validate"
)

const pingTimeout = 10 * time.Second

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}

	switch command {
	case "migrate":
		err = cmdMigrate(cfg)
	case "token":
		err = cmdToken(cfg, args)
	case "ping":
		err = cmdPing(cfg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	yellow := color.New(color.FgYellow)

	fmt.Println("Usage: admin <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  migrate             Apply pending migrations to DATABASE_URL")
	fmt.Println("  token <user-id>     Issue a session token signed with JWT_SECRET")
	fmt.Println("  ping                Check database and redis reachability")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  DATABASE_URL        postgres://... or sqlite://<path> (required)")
	fmt.Println("  JWT_SECRET          HS256 signing secret (required)")
	fmt.Println("  JWT_TTL             Token lifetime, 0 for unbounded")
	fmt.Println("  REDIS_URL           Optional signin throttle store")
	fmt.Println("  CONFIG_FILE         Optional YAML overlay of the variables above")
	fmt.Println()
}

func cmdMigrate(cfg *config.Config) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	if err := migration.RunUp(cfg.DatabaseURL, logger); err != nil {
		return err
	}
	color.Green("Migrations applied (%s)\n", cfg.DatabaseDriver())
	return nil
}

func cmdToken(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: admin token <user-id>")
	}
	userID := args[0]
	if !validate.IsUUID(userID) {
		return fmt.Errorf("user id %q is not a UUID", userID)
	}

	tokens, err := sec.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return err
	}
	token, err := tokens.Issue(userID)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}

func cmdPing(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	failed := false

	report := func(name string, err error) {
		if err != nil {
			failed = true
			color.Red("  %-10s FAIL  %v\n", name, err)
			return
		}
		color.Green("  %-10s OK\n", name)
	}

	report(cfg.DatabaseDriver(), pingDatabase(ctx, cfg, quiet))

	if cfg.RedisURL == "" {
		color.Yellow("  %-10s SKIP  REDIS_URL not set\n", "redis")
	} else {
		client, err := redisstore.NewClient(ctx, cfg.RedisURL, quiet)
		if err == nil {
			_ = client.Close()
		}
		report("redis", err)
	}

	if failed {
		return fmt.Errorf("one or more dependencies are unreachable")
	}
	return nil
}

func pingDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.DatabaseDriver() == config.DriverSQLite {
		db, err := sqlite.Open(ctx, cfg.SQLitePath(), logger)
		if err != nil {
			return err
		}
		return db.Close()
	}

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	pool.Close()
	return nil
}
