// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/inkpost/internal/platform/apperr"
	"github.com/taibuivan/inkpost/internal/platform/constants"
	"github.com/taibuivan/inkpost/internal/platform/ctxutil"
	"github.com/taibuivan/inkpost/internal/platform/respond"
	"github.com/taibuivan/inkpost/internal/platform/sec"
)

// TokenVerifier is the part of the token service the auth gate depends on.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

var (
	errNoCredential    = errors.New("no bearer credential")
	errMalformedHeader = errors.New("malformed authorization header")
)

// RequireAuth rejects any request without a valid bearer token.
//
// # Flow
//  1. Missing Authorization header: 401 MISSING_CREDENTIAL.
//  2. Header not of the form "Bearer <token>", or verification fails: 401 INVALID_TOKEN.
//  3. Otherwise the claims are attached to the request context.
//
// The downstream handler is never invoked on failure.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims, err := authenticate(verifier, request)
			if err != nil {
				if errors.Is(err, errNoCredential) {
					respond.Error(writer, request, apperr.MissingCredential())
					return
				}
				respond.Error(writer, request, apperr.InvalidToken().WithCause(err))
				return
			}

			next.ServeHTTP(writer, withIdentity(request, claims))
		})
	}
}

// OptionalAuth attaches the caller identity when a valid token is presented and
// otherwise lets the request through anonymously.
func OptionalAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims, err := authenticate(verifier, request)
			if err != nil {
				if !errors.Is(err, errNoCredential) {
					ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "optional_auth_ignored",
						slog.String("reason", err.Error()),
					)
				}
				next.ServeHTTP(writer, request)
				return
			}

			next.ServeHTTP(writer, withIdentity(request, claims))
		})
	}
}

// authenticate extracts and verifies the bearer token of request.
func authenticate(verifier TokenVerifier, request *http.Request) (*sec.AuthClaims, error) {
	tokenString, err := bearerToken(request.Header.Get(constants.HeaderAuthorization))
	if err != nil {
		return nil, err
	}
	return verifier.VerifyToken(tokenString)
}

// bearerToken parses an Authorization header value. The scheme is matched
// case-insensitively.
func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", errNoCredential
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, constants.AuthScheme) {
		return "", errMalformedHeader
	}

	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", errMalformedHeader
	}

	return token, nil
}

func withIdentity(request *http.Request, claims *sec.AuthClaims) *http.Request {
	ctx := ctxutil.WithAuthUser(request.Context(), claims)
	recordCaller(ctx, claims.UserID)
	return request.WithContext(ctx)
}
