// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/inkpost/internal/platform/apperr"
	"github.com/taibuivan/inkpost/internal/platform/ctxutil"
	"github.com/taibuivan/inkpost/internal/platform/validate"
	"github.com/taibuivan/inkpost/internal/users/auth"
	"github.com/taibuivan/inkpost/pkg/markdown"
	"github.com/taibuivan/inkpost/pkg/pagination"
	"github.com/taibuivan/inkpost/pkg/pointer"
	"github.com/taibuivan/inkpost/pkg/uuid"
)

// # Contracts & Types

// UserLookup resolves the account behind a caller id.
type UserLookup interface {
	Lookup(context context.Context, userID string) (*auth.User, error)
}

// Service implements post use cases and enforces [CanRead] and [CanMutate].
type Service struct {
	repository Repository
	users      UserLookup
	renderer   *markdown.Renderer
}

// NewService constructs a new [Service].
func NewService(repository Repository, users UserLookup, renderer *markdown.Renderer) *Service {
	return &Service{repository: repository, users: users, renderer: renderer}
}

// CreateInput holds a validated create request. Published defaults to true.
type CreateInput struct {
	Title     string
	Content   string
	Published *bool
}

// UpdateInput holds a validated update request. Nil fields are left unchanged.
type UpdateInput struct {
	Title     *string
	Content   *string
	Published *bool
}

// errPostNotFound is returned for missing posts and for drafts hidden from the caller.
func errPostNotFound() *apperr.AppError {
	return apperr.NotFound("Post")
}

// # Commands

/*
Create stores a new post authored by callerID.

Parameters:
  - context: context.Context
  - callerID: string (authenticated user)
  - input: CreateInput

Returns:
  - *Post: Created entity with author summary
  - error: InvalidToken if the caller no longer exists, or storage errors
*/
func (service *Service) Create(context context.Context, callerID string, input CreateInput) (*Post, error) {
	author, err := service.users.Lookup(context, callerID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.InvalidToken()
		}
		return nil, err
	}

	published := pointer.ValueOr(input.Published, true)

	now := time.Now().UTC().Truncate(time.Microsecond)
	post := &Post{
		ID:        uuid.New(),
		Title:     input.Title,
		Content:   input.Content,
		Published: published,
		AuthorID:  author.ID,
		Author:    &Author{ID: author.ID, Email: author.Email, Name: author.Name},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.repository.Create(context, post); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "post_created",
		slog.String("post_id", post.ID),
		slog.Bool("published", post.Published),
	)

	return service.render(post)
}

/*
Update applies input to a post owned by callerID.

Description: Absent posts yield 404 and posts owned by someone else yield 403.
The updated timestamp is refreshed even when input changes nothing.

Parameters:
  - context: context.Context
  - callerID: string
  - id: string
  - input: UpdateInput

Returns:
  - *Post: Updated entity
  - error: NotFound, Forbidden, or storage errors
*/
func (service *Service) Update(context context.Context, callerID, id string, input UpdateInput) (*Post, error) {
	post, err := service.findForMutation(context, callerID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.Published != nil {
		post.Published = *input.Published
	}
	post.UpdatedAt = nextTimestamp(post.UpdatedAt)

	if err := service.repository.Update(context, post); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "post_updated",
		slog.String("post_id", post.ID),
		slog.Bool("published", post.Published),
	)

	return service.render(post)
}

/*
Delete removes a post owned by callerID.

Parameters:
  - context: context.Context
  - callerID: string
  - id: string

Returns:
  - error: NotFound, Forbidden, or storage errors
*/
func (service *Service) Delete(context context.Context, callerID, id string) error {
	post, err := service.findForMutation(context, callerID, id)
	if err != nil {
		return err
	}

	if err := service.repository.Delete(context, post.ID); err != nil {
		return err
	}

	ctxutil.GetLogger(context).InfoContext(context, "post_deleted", slog.String("post_id", post.ID))
	return nil
}

func (service *Service) findForMutation(context context.Context, callerID, id string) (*Post, error) {
	post, err := service.find(context, id)
	if err != nil {
		return nil, err
	}

	if !CanMutate(post, callerID) {
		return nil, apperr.Forbidden("You can only modify your own posts")
	}

	return post, nil
}

// # Queries

/*
Get returns a post if callerID may read it.

Description: Drafts hidden from the caller are reported exactly like missing posts.

Parameters:
  - context: context.Context
  - callerID: string ("" for anonymous)
  - id: string

Returns:
  - *Post: The post
  - error: NotFound or storage errors
*/
func (service *Service) Get(context context.Context, callerID, id string) (*Post, error) {
	post, err := service.find(context, id)
	if err != nil {
		return nil, err
	}

	if !CanRead(post, callerID) {
		return nil, errPostNotFound()
	}

	return service.render(post)
}

/*
List returns a page of posts readable by callerID: all published posts plus
the caller's own drafts.

Parameters:
  - context: context.Context
  - callerID: string ("" for anonymous)
  - search: string (optional title/content match)
  - params: pagination.Params

Returns:
  - []*Post: Page of posts, newest first
  - pagination.Meta: Page metadata
  - error: Storage errors
*/
func (service *Service) List(context context.Context, callerID, search string, params pagination.Params) ([]*Post, pagination.Meta, error) {
	filter := Filter{Search: search}
	if validate.IsUUID(callerID) {
		filter.ReadableBy = callerID
	}
	return service.list(context, filter, params)
}

/*
ListMine returns a page of posts authored by callerID, drafts included.

Parameters:
  - context: context.Context
  - callerID: string (authenticated user)
  - params: pagination.Params

Returns:
  - []*Post: Page of posts, newest first
  - pagination.Meta: Page metadata
  - error: Storage errors
*/
func (service *Service) ListMine(context context.Context, callerID string, params pagination.Params) ([]*Post, pagination.Meta, error) {
	if !validate.IsUUID(callerID) {
		return []*Post{}, pagination.NewMeta(params.Page, params.Limit, 0), nil
	}
	return service.list(context, Filter{AuthorID: callerID}, params)
}

func (service *Service) list(context context.Context, filter Filter, params pagination.Params) ([]*Post, pagination.Meta, error) {
	posts, total, err := service.repository.List(context, filter, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	for _, post := range posts {
		if _, err := service.render(post); err != nil {
			return nil, pagination.Meta{}, err
		}
	}

	return posts, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// # Helpers

// find loads a post. Ids that are not UUIDs cannot exist and skip the query.
func (service *Service) find(context context.Context, id string) (*Post, error) {
	if !validate.IsUUID(id) {
		return nil, errPostNotFound()
	}
	return service.repository.FindByID(context, id)
}

// render fills ContentHTML from the markdown content.
func (service *Service) render(post *Post) (*Post, error) {
	html, err := service.renderer.Render(post.Content)
	if err != nil {
		return nil, fmt.Errorf("post_service_render_failed: %w", err)
	}
	post.ContentHTML = html
	return post, nil
}

// nextTimestamp returns the current time, nudged past previous if the clock
// has not advanced.
func nextTimestamp(previous time.Time) time.Time {
	now := time.Now().UTC().Truncate(time.Microsecond)
	if !now.After(previous) {
		now = previous.Add(time.Microsecond)
	}
	return now
}
