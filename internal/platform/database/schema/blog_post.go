// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// BlogPostTable represents the 'blog_post' table
type BlogPostTable struct {
	Table     string
	ID        string
	Title     string
	Content   string
	Published string
	AuthorID  string
	CreatedAt string
	UpdatedAt string
}

// BlogPost is the schema definition for blog_post
var BlogPost = BlogPostTable{
	Table:     "blog_post",
	ID:        "id",
	Title:     "title",
	Content:   "content",
	Published: "published",
	AuthorID:  "authorid",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t BlogPostTable) Columns() []string {
	return []string{t.ID, t.Title, t.Content, t.Published, t.AuthorID, t.CreatedAt, t.UpdatedAt}
}
