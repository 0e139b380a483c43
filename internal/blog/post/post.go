// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package post implements blog posts: storage, visibility rules and the HTTP API.

# Visibility

A post is either published or a draft. Drafts are visible to their author only,
and to everyone else a hidden draft looks exactly like a missing post. Only the
author may update or delete a post. See [CanRead] and [CanMutate].
*/
package post

import "time"

// # Domain Entities

// Post is a single blog entry.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"contentHtml"`
	Published   bool      `json:"published"`
	AuthorID    string    `json:"authorId"`
	Author      *Author   `json:"author,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Author is the public summary of a post's owner.
type Author struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

// Filter narrows a post listing.
type Filter struct {
	// ReadableBy limits results to posts that caller may read: every published
	// post plus the caller's own drafts. Empty means published posts only.
	ReadableBy string

	// AuthorID limits results to one author, drafts included. It overrides
	// ReadableBy.
	AuthorID string

	// Search matches title or content case-insensitively.
	Search string
}

// # Field Identifiers

const (
	FieldID        = "id"
	FieldTitle     = "title"
	FieldContent   = "content"
	FieldPublished = "published"
)

// # Input Bounds

const (
	TitleMaxLength   = 255
	ContentMaxLength = 100000
	SearchMaxLength  = 100
)
