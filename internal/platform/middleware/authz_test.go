// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/inkpost/internal/platform/apperr"
	"github.com/taibuivan/inkpost/internal/platform/ctxutil"
	"github.com/taibuivan/inkpost/internal/platform/middleware"
	"github.com/taibuivan/inkpost/internal/platform/sec"
)

const gateSecret = "auth-gate-test-secret-key"

type probe struct {
	calls  int
	caller string
}

func (p *probe) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	p.calls++
	p.caller = ctxutil.GetUserID(request.Context())
	writer.WriteHeader(http.StatusNoContent)
}

func newVerifier(t *testing.T) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService(gateSecret, 0)
	require.NoError(t, err)
	return service
}

func serve(handler http.Handler, authorization string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		request.Header.Set("Authorization", authorization)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body.Code
}

/*
TestRequireAuth_Rejections checks every failure mode short-circuits with 401.
*/
func TestRequireAuth_Rejections(t *testing.T) {
	verifier := newVerifier(t)

	other, err := sec.NewTokenService("another-secret-entirely", 0)
	require.NoError(t, err)
	foreign, err := other.Issue("user-1")
	require.NoError(t, err)

	valid, err := verifier.Issue("user-1")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing_header", "", apperr.CodeMissingCredential},
		{"blank_header", "   ", apperr.CodeMissingCredential},
		{"no_scheme", valid, apperr.CodeInvalidToken},
		{"wrong_scheme", "Basic " + valid, apperr.CodeInvalidToken},
		{"scheme_only", "Bearer", apperr.CodeInvalidToken},
		{"empty_token", "Bearer   ", apperr.CodeInvalidToken},
		{"extra_segments", "Bearer " + valid + " extra", apperr.CodeInvalidToken},
		{"garbage_token", "Bearer not-a-token", apperr.CodeInvalidToken},
		{"foreign_secret", "Bearer " + foreign, apperr.CodeInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			downstream := &probe{}
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()

			middleware.RequireAuth(verifier)(downstream).ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Equal(t, tt.code, decodeCode(t, recorder))
			assert.Zero(t, downstream.calls)
		})
	}
}

/*
TestRequireAuth_AttachesIdentity checks a valid token reaches the handler with its user id.
*/
func TestRequireAuth_AttachesIdentity(t *testing.T) {
	verifier := newVerifier(t)
	token, err := verifier.Issue("user-42")
	require.NoError(t, err)

	for _, header := range []string{"Bearer " + token, "bearer " + token} {
		downstream := &probe{}
		recorder := serve(middleware.RequireAuth(verifier)(downstream), header)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Equal(t, 1, downstream.calls)
		assert.Equal(t, "user-42", downstream.caller)
	}
}

/*
TestOptionalAuth_PassThrough checks that failures continue anonymously.
*/
func TestOptionalAuth_PassThrough(t *testing.T) {
	verifier := newVerifier(t)
	token, err := verifier.Issue("user-7")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		caller string
	}{
		{"anonymous", "", ""},
		{"malformed", "Token abc", ""},
		{"invalid", "Bearer abc.def.ghi", ""},
		{"valid", "Bearer " + token, "user-7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			downstream := &probe{}
			recorder := serve(middleware.OptionalAuth(verifier)(downstream), tt.header)

			assert.Equal(t, http.StatusNoContent, recorder.Code)
			assert.Equal(t, 1, downstream.calls)
			assert.Equal(t, tt.caller, downstream.caller)
		})
	}
}

/*
TestAuthGate_IdentityIsRequestScoped interleaves authenticated and anonymous
requests through one handler and checks no identity leaks between them.
*/
func TestAuthGate_IdentityIsRequestScoped(t *testing.T) {
	verifier := newVerifier(t)
	token, err := verifier.Issue("user-9")
	require.NoError(t, err)

	handler := middleware.OptionalAuth(verifier)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(ctxutil.GetUserID(request.Context())))
	}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(authenticated bool) {
			defer wg.Done()

			header := ""
			want := ""
			if authenticated {
				header = "Bearer " + token
				want = "user-9"
			}

			recorder := serve(handler, header)
			assert.Equal(t, want, recorder.Body.String())
		}(i%2 == 0)
	}
	wg.Wait()
}
