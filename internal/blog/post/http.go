// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/inkpost/internal/platform/constants"
	"github.com/taibuivan/inkpost/internal/platform/middleware"
	requestutil "github.com/taibuivan/inkpost/internal/platform/request"
	"github.com/taibuivan/inkpost/internal/platform/respond"
	"github.com/taibuivan/inkpost/internal/platform/validate"
	"github.com/taibuivan/inkpost/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the blog post HTTP endpoints.
type Handler struct {
	postService *Service
	verifier    middleware.TokenVerifier
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, verifier middleware.TokenVerifier) *Handler {
	return &Handler{postService: service, verifier: verifier}
}

// Routes returns a [chi.Router] with the post routes.
//
// # Endpoints
//   - GET    /bulk : Public feed (optional auth adds the caller's drafts).
//   - GET    /{id} : Single post (optional auth).
//   - POST   /     : Create (required auth).
//   - GET    /my   : Caller's posts, drafts included (required auth).
//   - PUT    /{id} : Update (required auth, author only).
//   - DELETE /{id} : Delete (required auth, author only).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(handler.verifier))
		r.Get("/bulk", handler.listPosts)
		r.Get("/{id}", handler.getPost)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(handler.verifier))
		r.Post("/", handler.createPost)
		r.Get("/my", handler.listMyPosts)
		r.Put("/{id}", handler.updatePost)
		r.Delete("/{id}", handler.deletePost)
	})

	return router
}

// # Request Payloads

type createRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published *bool  `json:"published"`
}

type updateRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Published *bool   `json:"published"`
}

/*
CreatePost publishes or drafts a new post for the caller.

POST /api/v1/blog

Request:
  - Body: createRequest (Title, Content, Published?)

Response:
  - 201: Post
  - 400: VALIDATION_ERROR
  - 401: MISSING_CREDENTIAL / INVALID_TOKEN
*/
func (handler *Handler) createPost(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, TitleMaxLength).
		Required(FieldContent, input.Content).
		MaxLen(FieldContent, input.Content, ContentMaxLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.postService.Create(request.Context(), callerID, CreateInput{
		Title:     input.Title,
		Content:   input.Content,
		Published: input.Published,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, post)
}

/*
ListPosts returns the public feed.

GET /api/v1/blog/bulk?page=1&limit=10&search=go

Response:
  - 200: []Post with pagination meta
  - 400: VALIDATION_ERROR (search too long)
*/
func (handler *Handler) listPosts(writer http.ResponseWriter, request *http.Request) {
	search := request.URL.Query().Get("search")

	validator := &validate.Validator{}
	validator.MaxLen("search", search, SearchMaxLength)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	posts, meta, err := handler.postService.List(request.Context(), requestutil.CallerID(request), search, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, meta)
}

/*
ListMyPosts returns the caller's own posts, drafts included.

GET /api/v1/blog/my?page=1&limit=10

Response:
  - 200: []Post with pagination meta
  - 401: MISSING_CREDENTIAL / INVALID_TOKEN
*/
func (handler *Handler) listMyPosts(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	posts, meta, err := handler.postService.ListMine(request.Context(), callerID, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, meta)
}

/*
GetPost returns a single post.

GET /api/v1/blog/{id}

Response:
  - 200: Post
  - 404: NOT_FOUND (missing, malformed id, or a draft hidden from the caller)
*/
func (handler *Handler) getPost(writer http.ResponseWriter, request *http.Request) {
	post, err := handler.postService.Get(request.Context(), requestutil.CallerID(request), requestutil.Param(request, FieldID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, post)
}

/*
UpdatePost changes title, content or visibility of the caller's post.

PUT /api/v1/blog/{id}

Request:
  - Body: updateRequest (all fields optional, unknown fields ignored)

Response:
  - 200: Post
  - 400: VALIDATION_ERROR
  - 401: MISSING_CREDENTIAL / INVALID_TOKEN
  - 403: FORBIDDEN: Not the author
  - 404: NOT_FOUND
*/
func (handler *Handler) updatePost(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.NotBlank(FieldTitle, input.Title).
		NotBlank(FieldContent, input.Content)
	if input.Title != nil {
		validator.MaxLen(FieldTitle, *input.Title, TitleMaxLength)
	}
	if input.Content != nil {
		validator.MaxLen(FieldContent, *input.Content, ContentMaxLength)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.postService.Update(request.Context(), callerID, requestutil.Param(request, FieldID), UpdateInput{
		Title:     input.Title,
		Content:   input.Content,
		Published: input.Published,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, post)
}

/*
DeletePost removes the caller's post.

DELETE /api/v1/blog/{id}

Response:
  - 200: {message}
  - 401: MISSING_CREDENTIAL / INVALID_TOKEN
  - 403: FORBIDDEN: Not the author
  - 404: NOT_FOUND
*/
func (handler *Handler) deletePost(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.postService.Delete(request.Context(), callerID, requestutil.Param(request, FieldID)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{constants.FieldMessage: "Post deleted"})
}
