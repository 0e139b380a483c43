// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil stores and retrieves the request-scoped values the HTTP
// chain attaches to a [context.Context]: correlation id, logger and caller.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/inkpost/internal/platform/sec"
)

// Distinct struct types keep the keys private to this package.
type (
	requestIDKey struct{}
	loggerKey    struct{}
	callerKey    struct{}
)

func lookup[T any](ctx context.Context, key any) (T, bool) {
	value, ok := ctx.Value(key).(T)
	return value, ok
}

// # Request Tracing

// WithRequestID attaches the X-Request-ID correlation value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// GetRequestID returns the correlation value, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := lookup[string](ctx, requestIDKey{})
	return id
}

// # Structured Logging

// WithLogger attaches a request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger returns the request-scoped logger, falling back to [slog.Default]
// outside of an HTTP request.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := lookup[*slog.Logger](ctx, loggerKey{}); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Caller Identity

// WithAuthUser attaches verified token claims. Only the auth gate calls it.
func WithAuthUser(ctx context.Context, claims *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, callerKey{}, claims)
}

// GetAuthUser returns the verified claims, or nil for anonymous requests.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, _ := lookup[*sec.AuthClaims](ctx, callerKey{})
	return claims
}

// GetUserID returns the authenticated caller's id, or "" for anonymous requests.
func GetUserID(ctx context.Context) string {
	if claims := GetAuthUser(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}
