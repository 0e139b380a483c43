// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

// CanRead reports whether callerID may see post. An empty callerID is an
// anonymous caller.
func CanRead(post *Post, callerID string) bool {
	return post.Published || isAuthor(post, callerID)
}

// CanMutate reports whether callerID may update or delete post.
func CanMutate(post *Post, callerID string) bool {
	return isAuthor(post, callerID)
}

func isAuthor(post *Post, callerID string) bool {
	return callerID != "" && callerID == post.AuthorID
}
