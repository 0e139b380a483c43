// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/taibuivan/inkpost/internal/platform/database/schema"
	"github.com/taibuivan/inkpost/internal/platform/dberr"
	"github.com/taibuivan/inkpost/internal/platform/sqlite"
)

// SQLiteUserRepository implements [UserRepository] on the embedded database.
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewSQLiteUserRepository creates an SQLite implementation of [UserRepository].
func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

var (
	liteSelectUser = fmt.Sprintf(`SELECT %s FROM %s`,
		schema.List(schema.UserAccount.Columns()...), schema.UserAccount.Table)

	liteInsertUser = fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?)`,
		schema.UserAccount.Table, schema.List(schema.UserAccount.Columns()...))
)

// FindByID retrieves a user record by its ID.
func (repository *SQLiteUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := liteSelectUser + fmt.Sprintf(` WHERE %s = ?`, schema.UserAccount.ID)
	return repository.findOne(context, query, id)
}

// FindByEmail retrieves a user record by its unique email address.
func (repository *SQLiteUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := liteSelectUser + fmt.Sprintf(` WHERE %s = ?`, schema.UserAccount.Email)
	return repository.findOne(context, query, email)
}

func (repository *SQLiteUserRepository) findOne(context context.Context, query string, argument string) (*User, error) {
	var (
		user      = &User{}
		name      sql.NullString
		createdAt string
		updatedAt string
	)

	err := repository.db.QueryRowContext(context, query, argument).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&name,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	if name.Valid {
		user.Name = &name.String
	}
	if user.CreatedAt, err = sqlite.ParseTime(createdAt); err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	if user.UpdatedAt, err = sqlite.ParseTime(updatedAt); err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return user, nil
}

// Create persists a new user record.
func (repository *SQLiteUserRepository) Create(context context.Context, user *User) error {
	_, err := repository.db.ExecContext(context, liteInsertUser,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		sqlite.FormatTime(user.CreatedAt),
		sqlite.FormatTime(user.UpdatedAt),
	)
	if err != nil {
		return dberr.Wrap(err, "User")
	}

	return nil
}
