// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/inkpost/internal/api"
	"github.com/taibuivan/inkpost/internal/blog/post"
	"github.com/taibuivan/inkpost/internal/platform/apperr"
	"github.com/taibuivan/inkpost/internal/platform/config"
	"github.com/taibuivan/inkpost/internal/platform/sec"
	"github.com/taibuivan/inkpost/internal/platform/sqlite"
	"github.com/taibuivan/inkpost/internal/platform/testdb"
	"github.com/taibuivan/inkpost/internal/users/auth"
	"github.com/taibuivan/inkpost/pkg/markdown"
)

type testClient struct {
	t       *testing.T
	handler http.Handler
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	db := testdb.SQLite(t)
	tokens, err := sec.NewTokenService("api-scenario-test-secret", 0)
	require.NoError(t, err)

	users := auth.NewService(auth.NewSQLiteUserRepository(db), nil, auth.ThrottlePolicy{}, tokens)
	posts := post.NewService(post.NewSQLiteRepository(db), users, markdown.NewRenderer())

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return sqlite.Ping(ctx, db) },
	}, testdb.Logger())

	server := api.NewServer(ctx, &config.Config{ServerPort: "0", Environment: "test"}, testdb.Logger(), api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Users:     auth.NewHandler(users, tokens),
		Posts:     post.NewHandler(posts, tokens),
	})

	return &testClient{t: t, handler: server.Handler()}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	Code  string          `json:"code"`
}

func (c *testClient) do(method, path, token string, body any) (int, envelope) {
	c.t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&payload).Encode(body))
	}

	request := httptest.NewRequest(method, path, &payload)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	c.handler.ServeHTTP(recorder, request)

	var decoded envelope
	if recorder.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	}
	return recorder.Code, decoded
}

func (c *testClient) signup(email string) (token, userID string) {
	c.t.Helper()

	status, body := c.do(http.MethodPost, "/api/v1/user/signup", "", map[string]any{"email": email, "password": "secret1"})
	require.Equal(c.t, http.StatusCreated, status)

	var session auth.Session
	require.NoError(c.t, json.Unmarshal(body.Data, &session))
	return session.Token, session.User.ID
}

func decodePost(t *testing.T, body envelope) post.Post {
	t.Helper()
	var decoded post.Post
	require.NoError(t, json.Unmarshal(body.Data, &decoded))
	return decoded
}

/*
TestScenario_DraftVisibilityAndOwnership walks a draft from creation to
publication across two accounts and an anonymous reader.
*/
func TestScenario_DraftVisibilityAndOwnership(t *testing.T) {
	client := newTestClient(t)

	aliceToken, aliceID := client.signup("alice@example.com")
	bobToken, _ := client.signup("bob@example.com")

	status, body := client.do(http.MethodPost, "/api/v1/blog", aliceToken, map[string]any{
		"title": "Hi", "content": "Hello world", "published": false,
	})
	require.Equal(t, http.StatusCreated, status)
	draft := decodePost(t, body)
	assert.Equal(t, aliceID, draft.AuthorID)
	assert.False(t, draft.Published)

	status, body = client.do(http.MethodGet, "/api/v1/blog/"+draft.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apperr.CodeNotFound, body.Code)

	status, _ = client.do(http.MethodGet, "/api/v1/blog/"+draft.ID, aliceToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = client.do(http.MethodPut, "/api/v1/post/"+draft.ID, bobToken, map[string]any{"published": true})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, apperr.CodeForbidden, body.Code)

	status, body = client.do(http.MethodPut, "/api/v1/post/"+draft.ID, aliceToken, map[string]any{"published": true})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decodePost(t, body).Published)

	status, body = client.do(http.MethodGet, "/api/v1/post/"+draft.ID, "", nil)
	require.Equal(t, http.StatusOK, status)
	published := decodePost(t, body)
	assert.Equal(t, "Hi", published.Title)
	assert.Equal(t, "alice@example.com", published.Author.Email)
}

/*
TestScenario_AuthGate checks how each gate mode treats bad credentials.
*/
func TestScenario_AuthGate(t *testing.T) {
	client := newTestClient(t)
	token, userID := client.signup("carol@example.com")

	status, body := client.do(http.MethodPost, "/api/v1/blog", "", map[string]any{"title": "t", "content": "c"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperr.CodeMissingCredential, body.Code)

	status, body = client.do(http.MethodPost, "/api/v1/blog", "garbage", map[string]any{"title": "t", "content": "c"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperr.CodeInvalidToken, body.Code)

	// The optional gate serves a bad token as anonymous.
	status, _ = client.do(http.MethodGet, "/api/v1/blog/bulk", "garbage", nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = client.do(http.MethodGet, "/api/v1/user/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	var me auth.User
	require.NoError(t, json.Unmarshal(body.Data, &me))
	assert.Equal(t, userID, me.ID)
}

/*
TestScenario_SigninAndFeed signs in again and reads the public feed.
*/
func TestScenario_SigninAndFeed(t *testing.T) {
	client := newTestClient(t)
	client.signup("dave@example.com")

	status, body := client.do(http.MethodPost, "/api/v1/user/signin", "", map[string]any{"email": "DAVE@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, status)
	var session auth.Session
	require.NoError(t, json.Unmarshal(body.Data, &session))

	for _, input := range []map[string]any{
		{"title": "one", "content": "c"},
		{"title": "two", "content": "c", "published": false},
	} {
		status, _ = client.do(http.MethodPost, "/api/v1/blog", session.Token, input)
		require.Equal(t, http.StatusCreated, status)
	}

	status, body = client.do(http.MethodGet, "/api/v1/blog/bulk", "", nil)
	require.Equal(t, http.StatusOK, status)
	var feed []post.Post
	require.NoError(t, json.Unmarshal(body.Data, &feed))
	require.Len(t, feed, 1)
	assert.Equal(t, "one", feed[0].Title)

	status, body = client.do(http.MethodGet, "/api/v1/blog/my", session.Token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body.Data, &feed))
	assert.Len(t, feed, 2)

	status, body = client.do(http.MethodPost, "/api/v1/user/signin", "", map[string]any{"email": "dave@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperr.CodeUnauthorized, body.Code)
}

/*
TestScenario_PasswordByteLimit rejects passwords bcrypt cannot hash as a
validation failure and accepts one at the limit.
*/
func TestScenario_PasswordByteLimit(t *testing.T) {
	client := newTestClient(t)

	tests := []struct {
		name     string
		email    string
		password string
		status   int
	}{
		{"ascii_80", "long@example.com", strings.Repeat("p", 80), http.StatusBadRequest},
		{"multibyte_30_runes", "wide@example.com", strings.Repeat("ü€", 15), http.StatusBadRequest},
		{"ascii_72", "edge@example.com", strings.Repeat("p", 72), http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := client.do(http.MethodPost, "/api/v1/user/signup", "", map[string]any{"email": tt.email, "password": tt.password})
			assert.Equal(t, tt.status, status)
			if tt.status == http.StatusBadRequest {
				assert.Equal(t, apperr.CodeValidation, body.Code)
			}
		})
	}

	status, body := client.do(http.MethodPost, "/api/v1/user/signin", "", map[string]any{"email": "edge@example.com", "password": strings.Repeat("p", 80)})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperr.CodeValidation, body.Code)
}

func TestRouter_Fallbacks(t *testing.T) {
	client := newTestClient(t)

	status, body := client.do(http.MethodGet, "/api/v1/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apperr.CodeRouteNotFound, body.Code)

	status, body = client.do(http.MethodPatch, "/health", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.Equal(t, apperr.CodeMethodNotAllowed, body.Code)
}

func TestHealthEndpoints(t *testing.T) {
	client := newTestClient(t)

	status, body := client.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body.Data), `"status":"ok"`)

	status, body = client.do(http.MethodGet, "/ready", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body.Data), `"ready"`)
}

func TestReadiness_Degraded(t *testing.T) {
	_, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(context.Context) error { return nil },
		CheckCache:    func(context.Context) error { return errors.New("connection refused") },
	}, testdb.Logger())

	recorder := httptest.NewRecorder()
	readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"degraded"`)
	assert.Contains(t, recorder.Body.String(), "connection refused")
}
