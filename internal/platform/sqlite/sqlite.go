// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sqlite opens the embedded database used for local development and
// tests. It registers the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

const pingTimeout = 2 * time.Second

// Open creates (if needed) and opens the database file at path.
//
// Foreign keys are enforced and a busy timeout is applied on every pooled
// connection through DSN pragmas, and WAL journaling is enabled once.
func Open(ctx context.Context, path string, logger *slog.Logger) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: enabling WAL mode: %w", err)
	}

	if err := Ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("sqlite_database_opened", slog.String("path", path))
	return db, nil
}

// DSN builds the driver connection string for path.
func DSN(path string) string {
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Ping verifies the database handle is usable.
func Ping(ctx context.Context, db *sql.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("sqlite: ping failed: %w", err)
	}
	return nil
}
