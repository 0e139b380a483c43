// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error handling framework for Inkpost.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable Code and a client-safe message.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be an [AppError] (or wrap one)
so that [respond.Error] can render it without inspecting arbitrary error values.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Error Codes

// Machine-readable codes returned in the "code" field of error envelopes.
const (
	CodeMissingCredential = "MISSING_CREDENTIAL"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeRouteNotFound     = "ROUTE_NOT_FOUND"
	CodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	CodeConflict          = "CONFLICT"
	CodeValidation        = "VALIDATION_ERROR"
	CodeRateLimited       = "RATE_LIMITED"
	CodeInternal          = "INTERNAL_ERROR"
)

// AppError is the canonical error type for the Inkpost API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "CONFLICT").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an [*AppError] carrying the same Code.
//
// This lets callers write errors.Is(err, apperr.NotFound("")) without caring
// about the message.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// WithCause returns a copy of the error carrying cause for server-side logging.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func newError(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// # Authentication Errors (401)

// MissingCredential is returned when a protected route receives no bearer token.
func MissingCredential() *AppError {
	return newError(http.StatusUnauthorized, CodeMissingCredential, "Unauthorized - Token required")
}

// InvalidToken covers malformed Authorization headers and tokens that fail
// signature or shape verification.
func InvalidToken() *AppError {
	return newError(http.StatusUnauthorized, CodeInvalidToken, "Unauthorized - Invalid token")
}

// Unauthorized is the generic 401, used for rejected credentials.
func Unauthorized(msg string) *AppError {
	return newError(http.StatusUnauthorized, CodeUnauthorized, msg)
}

// # Client Errors (4xx)

// NotFound reports a missing resource, e.g. NotFound("Post") reads "Post not found".
func NotFound(resource string) *AppError {
	return newError(http.StatusNotFound, CodeNotFound, resource+" not found")
}

// RouteNotFound is served for paths no handler is registered on.
func RouteNotFound() *AppError {
	return newError(http.StatusNotFound, CodeRouteNotFound, "Route not found")
}

// MethodNotAllowed is served for known paths hit with the wrong verb.
func MethodNotAllowed() *AppError {
	return newError(http.StatusMethodNotAllowed, CodeMethodNotAllowed, "Method not allowed")
}

// Forbidden rejects an authenticated caller acting on someone else's resource.
func Forbidden(msg string) *AppError {
	return newError(http.StatusForbidden, CodeForbidden, msg)
}

// Conflict reports a unique-constraint violation.
func Conflict(msg string) *AppError {
	return newError(http.StatusConflict, CodeConflict, msg)
}

// ValidationError is a 400 with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	err := newError(http.StatusBadRequest, CodeValidation, msg)
	err.Details = details
	return err
}

// RateLimited is a 429 telling the client when to retry.
func RateLimited(retryAfterSeconds int) *AppError {
	return newError(http.StatusTooManyRequests, CodeRateLimited,
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
}

// # Server Errors (5xx)

// Internal hides cause behind a generic message. The cause is kept for logs.
func Internal(cause error) *AppError {
	err := newError(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred")
	err.Cause = cause
	return err
}

// # Helpers

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err's chain contains an [*AppError] with the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
