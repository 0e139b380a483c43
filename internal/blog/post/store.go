// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"fmt"
	"strings"

	"github.com/taibuivan/inkpost/internal/platform/database/schema"
)

// # Post Data Access

// Repository defines the data access contract for posts.
//
// Lookups and writes against absent rows return an [apperr.AppError] with
// code NOT_FOUND. Reads hydrate [Post.Author].
type Repository interface {

	/*
		FindByID returns the post with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Post: Hydrated entity with author summary
		  - error: NOT_FOUND or database failures
	*/
	FindByID(context context.Context, id string) (*Post, error)

	/*
		List returns one page of posts matching filter, newest first, and the
		total number of matches.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - limit, offset: int

		Returns:
		  - []*Post: Page of posts
		  - int: Total matches
		  - error: Database failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Post, int, error)

	/*
		Create persists a new post.

		Parameters:
		  - context: context.Context
		  - post: *Post

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, post *Post) error

	/*
		Update overwrites title, content, published and updated timestamp.
		Concurrent updates are last-write-wins.

		Parameters:
		  - context: context.Context
		  - post: *Post

		Returns:
		  - error: NOT_FOUND or persistence failures
	*/
	Update(context context.Context, post *Post) error

	/*
		Delete removes the post with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: NOT_FOUND or persistence failures
	*/
	Delete(context context.Context, id string) error
}

// # Shared Query Building

// dialect captures the SQL differences between the two backends.
type dialect struct {
	placeholder func(position int) string
	like        string
}

var (
	postgresDialect = dialect{
		placeholder: func(position int) string { return fmt.Sprintf("$%d", position) },
		like:        "ILIKE",
	}

	// SQLite LIKE is case-insensitive for ASCII.
	sqliteDialect = dialect{
		placeholder: func(int) string { return "?" },
		like:        "LIKE",
	}
)

// selectPostColumns selects the post columns followed by the author summary.
var selectPostColumns = schema.Qualified("p", schema.BlogPost.Columns()...) + ", " +
	schema.Qualified("u", schema.UserAccount.ID, schema.UserAccount.Email, schema.UserAccount.Name)

// fromPostWithAuthor joins each post to its author.
var fromPostWithAuthor = fmt.Sprintf(`%s p JOIN %s u ON u.%s = p.%s`,
	schema.BlogPost.Table, schema.UserAccount.Table, schema.UserAccount.ID, schema.BlogPost.AuthorID)

// where renders filter as a WHERE clause. Arguments are numbered from 1.
func (d dialect) where(filter Filter) (string, []any) {
	var (
		conditions []string
		arguments  []any
	)

	next := func(value any) string {
		arguments = append(arguments, value)
		return d.placeholder(len(arguments))
	}

	switch {
	case filter.AuthorID != "":
		conditions = append(conditions, fmt.Sprintf("p.%s = %s", schema.BlogPost.AuthorID, next(filter.AuthorID)))
	case filter.ReadableBy != "":
		conditions = append(conditions, fmt.Sprintf("(p.%s = %s OR p.%s = %s)",
			schema.BlogPost.Published, next(true), schema.BlogPost.AuthorID, next(filter.ReadableBy)))
	default:
		conditions = append(conditions, fmt.Sprintf("p.%s = %s", schema.BlogPost.Published, next(true)))
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		conditions = append(conditions, fmt.Sprintf(`(p.%s %s %s ESCAPE '\' OR p.%s %s %s ESCAPE '\')`,
			schema.BlogPost.Title, d.like, next(pattern),
			schema.BlogPost.Content, d.like, next(pattern)))
	}

	return " WHERE " + strings.Join(conditions, " AND "), arguments
}

// listQueries builds the page and count statements for filter.
func (d dialect) listQueries(filter Filter, limit, offset int) (pageQuery, countQuery string, pageArgs, countArgs []any) {
	whereClause, arguments := d.where(filter)

	countQuery = fmt.Sprintf(`SELECT COUNT(*) FROM %s p%s`, schema.BlogPost.Table, whereClause)
	countArgs = arguments

	pageArgs = append(append([]any{}, arguments...), limit, offset)
	pageQuery = fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY p.%s DESC, p.%s DESC LIMIT %s OFFSET %s`,
		selectPostColumns, fromPostWithAuthor, whereClause,
		schema.BlogPost.CreatedAt, schema.BlogPost.ID,
		d.placeholder(len(arguments)+1), d.placeholder(len(arguments)+2))

	return pageQuery, countQuery, pageArgs, countArgs
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}
