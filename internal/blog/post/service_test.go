// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/inkpost/internal/blog/post"
	"github.com/taibuivan/inkpost/internal/platform/apperr"
	"github.com/taibuivan/inkpost/internal/platform/sec"
	"github.com/taibuivan/inkpost/internal/platform/testdb"
	"github.com/taibuivan/inkpost/internal/users/auth"
	"github.com/taibuivan/inkpost/pkg/markdown"
	"github.com/taibuivan/inkpost/pkg/pagination"
	"github.com/taibuivan/inkpost/pkg/pointer"
	"github.com/taibuivan/inkpost/pkg/uuid"
)

type serviceFixture struct {
	posts *post.Service
	alice string
	bob   string
}

func newServiceFixture(t *testing.T) serviceFixture {
	t.Helper()

	db := testdb.SQLite(t)
	tokens, err := sec.NewTokenService("post-service-test-secret", 0)
	require.NoError(t, err)

	users := auth.NewService(auth.NewSQLiteUserRepository(db), nil, auth.ThrottlePolicy{}, tokens)
	alice, err := users.Signup(context.Background(), auth.SignupInput{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	bob, err := users.Signup(context.Background(), auth.SignupInput{Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)

	return serviceFixture{
		posts: post.NewService(post.NewSQLiteRepository(db), users, markdown.NewRenderer()),
		alice: alice.User.ID,
		bob:   bob.User.ID,
	}
}

/*
TestService_CreateDefaultsToPublished checks defaults, ownership and rendering.
*/
func TestService_CreateDefaultsToPublished(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.posts.Create(ctx, f.alice, post.CreateInput{Title: "Hi", Content: "Hello **world**"})
	require.NoError(t, err)

	assert.True(t, created.Published)
	assert.Equal(t, f.alice, created.AuthorID)
	assert.Equal(t, "alice@example.com", created.Author.Email)
	assert.Contains(t, created.ContentHTML, "<strong>world</strong>")
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.True(t, uuidLike(created.ID))

	fetched, err := f.posts.Get(ctx, "", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
}

/*
TestService_CreateRequiresExistingAuthor rejects tokens for deleted accounts.
*/
func TestService_CreateRequiresExistingAuthor(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.posts.Create(context.Background(), uuid.New(), post.CreateInput{Title: "t", Content: "c"})
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidToken))
}

/*
TestService_DraftIsIndistinguishableFromMissing compares the error for a hidden
draft with the error for an absent post.
*/
func TestService_DraftIsIndistinguishableFromMissing(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	draft, err := f.posts.Create(ctx, f.alice, post.CreateInput{Title: "Draft", Content: "c", Published: pointer.To(false)})
	require.NoError(t, err)

	_, hiddenAnon := f.posts.Get(ctx, "", draft.ID)
	_, hiddenBob := f.posts.Get(ctx, f.bob, draft.ID)
	_, missing := f.posts.Get(ctx, "", uuid.New())
	_, malformed := f.posts.Get(ctx, "", "not-a-uuid")

	for _, err := range []error{hiddenAnon, hiddenBob, missing, malformed} {
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
		assert.Equal(t, missing.Error(), err.Error())
	}

	own, err := f.posts.Get(ctx, f.alice, draft.ID)
	require.NoError(t, err)
	assert.False(t, own.Published)
}

/*
TestService_UpdateOwnership checks 404/403 ordering and field application.
*/
func TestService_UpdateOwnership(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	draft, err := f.posts.Create(ctx, f.alice, post.CreateInput{Title: "Hi", Content: "Hello world", Published: pointer.To(false)})
	require.NoError(t, err)

	_, err = f.posts.Update(ctx, f.bob, draft.ID, post.UpdateInput{Published: pointer.To(true)})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, err = f.posts.Update(ctx, f.alice, uuid.New(), post.UpdateInput{})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	updated, err := f.posts.Update(ctx, f.alice, draft.ID, post.UpdateInput{Title: pointer.To("Hi again"), Published: pointer.To(true)})
	require.NoError(t, err)
	assert.Equal(t, "Hi again", updated.Title)
	assert.Equal(t, "Hello world", updated.Content)
	assert.True(t, updated.Published)

	public, err := f.posts.Get(ctx, "", draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hi again", public.Title)
}

/*
TestService_NoOpUpdateRefreshesTimestamp keeps author and creation time but bumps updatedAt.
*/
func TestService_NoOpUpdateRefreshesTimestamp(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.posts.Create(ctx, f.alice, post.CreateInput{Title: "Hi", Content: "Hello"})
	require.NoError(t, err)

	first, err := f.posts.Update(ctx, f.alice, created.ID, post.UpdateInput{})
	require.NoError(t, err)
	second, err := f.posts.Update(ctx, f.alice, created.ID, post.UpdateInput{})
	require.NoError(t, err)

	assert.Equal(t, created.AuthorID, second.AuthorID)
	assert.True(t, created.CreatedAt.Equal(second.CreatedAt))
	assert.True(t, first.UpdatedAt.After(created.UpdatedAt))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Equal(t, "Hi", second.Title)
}

/*
TestService_Delete removes only the caller's own posts.
*/
func TestService_Delete(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.posts.Create(ctx, f.alice, post.CreateInput{Title: "Bye", Content: "soon gone"})
	require.NoError(t, err)

	assert.True(t, apperr.HasCode(f.posts.Delete(ctx, f.bob, created.ID), apperr.CodeForbidden))
	assert.True(t, apperr.HasCode(f.posts.Delete(ctx, "", created.ID), apperr.CodeForbidden))
	require.NoError(t, f.posts.Delete(ctx, f.alice, created.ID))
	assert.True(t, apperr.HasCode(f.posts.Delete(ctx, f.alice, created.ID), apperr.CodeNotFound))
}

/*
TestService_Listings checks the feed and the author listing with pagination meta.
*/
func TestService_Listings(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	for _, input := range []post.CreateInput{
		{Title: "A1", Content: "c"},
		{Title: "A2 draft", Content: "c", Published: pointer.To(false)},
		{Title: "A3", Content: "c"},
	} {
		_, err := f.posts.Create(ctx, f.alice, input)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	feed, meta, err := f.posts.List(ctx, "", "", pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"A3", "A1"}, titles(feed))
	assert.Equal(t, 2, meta.Total)
	assert.NotEmpty(t, feed[0].ContentHTML)

	feed, _, err = f.posts.List(ctx, f.alice, "", pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"A3", "A2 draft", "A1"}, titles(feed))

	mine, meta, err := f.posts.ListMine(ctx, f.alice, pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"A1"}, titles(mine))
	assert.Equal(t, 3, meta.Total)
	assert.Equal(t, 2, meta.TotalPages)
	assert.True(t, meta.HasPrev)
	assert.False(t, meta.HasNext)

	none, meta, err := f.posts.ListMine(ctx, f.bob, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.Zero(t, meta.Total)
}

func uuidLike(id string) bool {
	return len(id) == 36 && id[14] == '7'
}
