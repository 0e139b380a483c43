// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package testdb provides migrated throwaway databases for tests.
package testdb

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/taibuivan/inkpost/internal/platform/migration"
	"github.com/taibuivan/inkpost/internal/platform/sqlite"
)

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SQLite returns an SQLite database in t's temp dir with all migrations
// applied. It is closed when the test ends.
func SQLite(t testing.TB) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "inkpost.db")
	if err := migration.RunUp("sqlite://"+path, Logger()); err != nil {
		t.Fatalf("testdb: migrate: %v", err)
	}

	db, err := sqlite.Open(context.Background(), path, Logger())
	if err != nil {
		t.Fatalf("testdb: open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}
