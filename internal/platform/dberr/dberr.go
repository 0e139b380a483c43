// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Both store backends (pgx and SQLite) funnel their errors through [Classify],
// which reduces them to a closed set of [Kind] values. [Wrap] then maps each
// kind to exactly one [apperr.AppError] constructor.
package dberr

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/taibuivan/inkpost/internal/platform/apperr"
)

// Kind is the persistence-agnostic classification of a storage error.
type Kind int

const (
	// KindUnknown covers connectivity failures, syntax errors and anything unexpected.
	KindUnknown Kind = iota
	// KindNotFound means the queried row does not exist.
	KindNotFound
	// KindConflict means a unique constraint rejected the write.
	KindConflict
	// KindForeignKey means a referenced row does not exist.
	KindForeignKey
)

// PostgreSQL SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Classify reduces err to a [Kind].
func Classify(err error) Kind {
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return KindNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return KindConflict
		case pgForeignKeyViolation:
			return KindForeignKey
		}
		return KindUnknown
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return KindConflict
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return KindForeignKey
		}
	}

	return KindUnknown
}

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// resource names the entity in NotFound messages (e.g. "Post").
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	switch Classify(err) {
	case KindNotFound:
		return apperr.NotFound(resource)
	case KindConflict:
		return apperr.Conflict("A record with this data already exists").WithCause(err)
	case KindForeignKey:
		return apperr.ValidationError("Referenced record does not exist").WithCause(err)
	default:
		return apperr.Internal(err)
	}
}
