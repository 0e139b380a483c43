// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/taibuivan/inkpost/internal/platform/database/schema"
	"github.com/taibuivan/inkpost/internal/platform/dberr"
	"github.com/taibuivan/inkpost/internal/platform/sqlite"
)

// SQLiteRepository implements [Repository] on the embedded database.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates an SQLite implementation of [Repository].
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

var (
	liteFindPost = fmt.Sprintf(`SELECT %s FROM %s WHERE p.%s = ?`,
		selectPostColumns, fromPostWithAuthor, schema.BlogPost.ID)

	liteInsertPost = fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		schema.BlogPost.Table, schema.List(schema.BlogPost.Columns()...))

	liteUpdatePost = fmt.Sprintf(`UPDATE %s SET %s = ?, %s = ?, %s = ?, %s = ? WHERE %s = ?`,
		schema.BlogPost.Table,
		schema.BlogPost.Title, schema.BlogPost.Content, schema.BlogPost.Published, schema.BlogPost.UpdatedAt,
		schema.BlogPost.ID)

	liteDeletePost = fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, schema.BlogPost.Table, schema.BlogPost.ID)
)

// FindByID retrieves a post and its author summary.
func (repository *SQLiteRepository) FindByID(context context.Context, id string) (*Post, error) {
	post, err := scanSQLitePost(repository.db.QueryRowContext(context, liteFindPost, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Post")
	}
	return post, nil
}

// List returns one page of posts matching filter and the total match count.
func (repository *SQLiteRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Post, int, error) {
	pageQuery, countQuery, pageArgs, countArgs := sqliteDialect.listQueries(filter, limit, offset)

	var total int
	if err := repository.db.QueryRowContext(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_posts")
	}

	rows, err := repository.db.QueryContext(context, pageQuery, pageArgs...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_posts")
	}
	defer rows.Close()

	posts := make([]*Post, 0, limit)
	for rows.Next() {
		post, err := scanSQLitePost(rows)
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
func (repository *SQLiteRepository) Create(context context.Context, post *Post) error {
	_, err := repository.db.ExecContext(context, liteInsertPost,
		post.ID,
		post.Title,
		post.Content,
		post.Published,
		post.AuthorID,
		sqlite.FormatTime(post.CreatedAt),
		sqlite.FormatTime(post.UpdatedAt),
	)
	if err != nil {
		return dberr.Wrap(err, "Post")
	}
	return nil
}

// Update overwrites the mutable columns of post.
func (repository *SQLiteRepository) Update(context context.Context, post *Post) error {
	result, err := repository.db.ExecContext(context, liteUpdatePost,
		post.Title,
		post.Content,
		post.Published,
		sqlite.FormatTime(post.UpdatedAt),
		post.ID,
	)
	if err != nil {
		return dberr.Wrap(err, "Post")
	}
	return requireAffected(result)
}

// Delete removes a post.
func (repository *SQLiteRepository) Delete(context context.Context, id string) error {
	result, err := repository.db.ExecContext(context, liteDeletePost, id)
	if err != nil {
		return dberr.Wrap(err, "Post")
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return dberr.Wrap(err, "Post")
	}
	if affected == 0 {
		return dberr.Wrap(sql.ErrNoRows, "Post")
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLitePost(row rowScanner) (*Post, error) {
	var (
		post       = &Post{Author: &Author{}}
		authorName sql.NullString
		createdAt  string
		updatedAt  string
	)

	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Published,
		&post.AuthorID,
		&createdAt,
		&updatedAt,
		&post.Author.ID,
		&post.Author.Email,
		&authorName,
	)
	if err != nil {
		return nil, err
	}

	if authorName.Valid {
		post.Author.Name = &authorName.String
	}
	if post.CreatedAt, err = sqlite.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if post.UpdatedAt, err = sqlite.ParseTime(updatedAt); err != nil {
		return nil, err
	}

	return post, nil
}
