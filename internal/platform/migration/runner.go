// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies the embedded schema migrations with golang-migrate.
//
// # Architecture
//
// The SQL files are compiled into the binary, one directory per dialect, so the
// server and the admin CLI can migrate a fresh database without a checkout of
// the repository. The dialect is chosen from the database URL scheme.
package migration

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers the "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// sqlite driver registers the "sqlite" scheme (modernc.org/sqlite).
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/postgres/*.sql sql/sqlite/*.sql
var files embed.FS

const (
	pgx5Prefix   = "pgx5://"
	sqlitePrefix = "sqlite://"
)

// RunUp applies all pending UP migrations.
//
// # Parameters
//   - databaseURL: A postgres://, postgresql:// or sqlite:// URL.
//   - logger: Structured logger for migration events.
func RunUp(databaseURL string, logger *slog.Logger) error {
	sourceDir, migrateURL, err := resolve(databaseURL)
	if err != nil {
		return err
	}

	source, err := iofs.New(files, sourceDir)
	if err != nil {
		return fmt.Errorf("migration: failed to open embedded source: %w", err)
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", source, migrateURL)
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	defer func() {
		sourceError, dbError := migrator.Close()
		if sourceError != nil {
			logger.Error("migration_source_close_failed", slog.Any("error", sourceError))
		}
		if dbError != nil {
			logger.Error("migration_db_close_failed", slog.Any("error", dbError))
		}
	}()

	migrator.Log = &migrateLogger{logger: logger}

	currentVersion, isDirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: failed to get current version: %w", err)
	}
	if isDirty {
		return fmt.Errorf("migration: database is in a dirty state at version %d (manual intervention required)", currentVersion)
	}

	logger.Info("migration_started",
		slog.String("dialect", sourceDir),
		slog.Int("current_version", int(currentVersion)),
	)

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_already_up_to_date")
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	newVersion, _, _ := migrator.Version()
	logger.Info("migration_successful",
		slog.Int("from_version", int(currentVersion)),
		slog.Int("to_version", int(newVersion)),
	)

	return nil
}

// resolve maps databaseURL to its embedded source directory and the URL form
// golang-migrate expects.
func resolve(databaseURL string) (sourceDir, migrateURL string, err error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"):
		return "sql/postgres", pgx5Prefix + strings.TrimPrefix(databaseURL, "postgres://"), nil
	case strings.HasPrefix(databaseURL, "postgresql://"):
		return "sql/postgres", pgx5Prefix + strings.TrimPrefix(databaseURL, "postgresql://"), nil
	case strings.HasPrefix(databaseURL, pgx5Prefix):
		return "sql/postgres", databaseURL, nil
	case strings.HasPrefix(databaseURL, sqlitePrefix):
		return "sql/sqlite", databaseURL, nil
	}
	return "", "", fmt.Errorf("migration: unsupported database url scheme")
}

// migrateLogger adapts golang-migrate's logger interface to slog.
type migrateLogger struct {
	logger *slog.Logger
}

// Printf implements migrate.Logger.
func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Verbose implements migrate.Logger.
func (l *migrateLogger) Verbose() bool {
	return false
}
