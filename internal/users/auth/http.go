// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/inkpost/internal/platform/middleware"
	requestutil "github.com/taibuivan/inkpost/internal/platform/request"
	"github.com/taibuivan/inkpost/internal/platform/respond"
	"github.com/taibuivan/inkpost/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the account HTTP endpoints.
type Handler struct {
	authService *Service
	verifier    middleware.TokenVerifier
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, verifier middleware.TokenVerifier) *Handler {
	return &Handler{authService: service, verifier: verifier}
}

// Routes returns a [chi.Router] with the account routes.
//
// # Endpoints
//   - POST /signup : Creates an account and returns a token.
//   - POST /signin : Exchanges credentials for a token.
//   - GET  /me     : Returns the authenticated account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.signup)
	router.Post("/signin", handler.signin)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(handler.verifier))
		r.Get("/me", handler.me)
	})

	return router
}

// # Request Payloads

type signupRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
Signup handles the creation of a new account.

POST /api/v1/user/signup

Request:
  - Body: signupRequest (Email, Password, Name?)

Response:
  - 201: Session: Token and created user
  - 400: VALIDATION_ERROR
  - 409: CONFLICT: Email already registered
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validateCredentials(validator, input.Email, input.Password)
	if input.Name != nil {
		validator.MaxLen(FieldName, *input.Name, NameMaxLength)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Signup(request.Context(), SignupInput{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, session)
}

/*
Signin exchanges credentials for a session token.

POST /api/v1/user/signin

Request:
  - Body: signinRequest (Email, Password)

Response:
  - 200: Session: Token and user
  - 400: VALIDATION_ERROR
  - 401: UNAUTHORIZED: Invalid credentials
  - 429: RATE_LIMITED: Too many failed attempts
*/
func (handler *Handler) signin(writer http.ResponseWriter, request *http.Request) {
	var input signinRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validateCredentials(validator, input.Email, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Signin(request.Context(), SigninInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

/*
Me returns the account of the authenticated caller.

GET /api/v1/user/me

Response:
  - 200: User
  - 401: MISSING_CREDENTIAL / INVALID_TOKEN
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Me(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

func validateCredentials(validator *validate.Validator, email, password string) {
	validator.Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldPassword, password).
		MinLen(FieldPassword, password, PasswordMinLength).
		MaxLen(FieldPassword, password, PasswordMaxLength).
		MaxBytes(FieldPassword, password, PasswordMaxBytes)
}
