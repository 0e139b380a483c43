// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/inkpost/internal/platform/database/schema"
	"github.com/taibuivan/inkpost/internal/platform/dberr"
)

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository creates a PostgreSQL implementation of [UserRepository].
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

var (
	pgSelectUser = fmt.Sprintf(`SELECT %s FROM %s`,
		schema.List(schema.UserAccount.Columns()...), schema.UserAccount.Table)

	pgInsertUser = fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.UserAccount.Table, schema.List(schema.UserAccount.Columns()...))
)

// FindByID retrieves a user record by its ID.
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := pgSelectUser + fmt.Sprintf(` WHERE %s = $1`, schema.UserAccount.ID)
	return repository.findOne(context, query, id)
}

// FindByEmail retrieves a user record by its unique email address.
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := pgSelectUser + fmt.Sprintf(` WHERE %s = $1`, schema.UserAccount.Email)
	return repository.findOne(context, query, email)
}

func (repository *PostgresUserRepository) findOne(context context.Context, query string, argument string) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(context, query, argument).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return user, nil
}

// Create persists a new user record.
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	_, err := repository.pool.Exec(context, pgInsertUser,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "User")
	}

	return nil
}
