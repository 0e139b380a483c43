// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/inkpost/internal/platform/database/schema"
	"github.com/taibuivan/inkpost/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL implementation of [Repository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var (
	pgFindPost = fmt.Sprintf(`SELECT %s FROM %s WHERE p.%s = $1`,
		selectPostColumns, fromPostWithAuthor, schema.BlogPost.ID)

	pgInsertPost = fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.BlogPost.Table, schema.List(schema.BlogPost.Columns()...))

	pgUpdatePost = fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5 WHERE %s = $1`,
		schema.BlogPost.Table,
		schema.BlogPost.Title, schema.BlogPost.Content, schema.BlogPost.Published, schema.BlogPost.UpdatedAt,
		schema.BlogPost.ID)

	pgDeletePost = fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.BlogPost.Table, schema.BlogPost.ID)
)

// FindByID retrieves a post and its author summary.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Post, error) {
	post, err := scanPostgresPost(repository.pool.QueryRow(context, pgFindPost, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Post")
	}
	return post, nil
}

// List returns one page of posts matching filter and the total match count.
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Post, int, error) {
	pageQuery, countQuery, pageArgs, countArgs := postgresDialect.listQueries(filter, limit, offset)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_posts")
	}

	rows, err := repository.pool.Query(context, pageQuery, pageArgs...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_posts")
	}
	defer rows.Close()

	posts := make([]*Post, 0, limit)
	for rows.Next() {
		post, err := scanPostgresPost(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_post")
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_posts")
	}

	return posts, total, nil
}

// Create persists a new post.
func (repository *PostgresRepository) Create(context context.Context, post *Post) error {
	_, err := repository.pool.Exec(context, pgInsertPost,
		post.ID,
		post.Title,
		post.Content,
		post.Published,
		post.AuthorID,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Post")
	}
	return nil
}

// Update overwrites the mutable columns of post.
func (repository *PostgresRepository) Update(context context.Context, post *Post) error {
	tag, err := repository.pool.Exec(context, pgUpdatePost,
		post.ID,
		post.Title,
		post.Content,
		post.Published,
		post.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Post")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Post")
	}
	return nil
}

// Delete removes a post.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	tag, err := repository.pool.Exec(context, pgDeletePost, id)
	if err != nil {
		return dberr.Wrap(err, "Post")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Post")
	}
	return nil
}

func scanPostgresPost(row pgx.Row) (*Post, error) {
	post := &Post{Author: &Author{}}
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Published,
		&post.AuthorID,
		&post.CreatedAt,
		&post.UpdatedAt,
		&post.Author.ID,
		&post.Author.Email,
		&post.Author.Name,
	)
	if err != nil {
		return nil, err
	}
	return post, nil
}
