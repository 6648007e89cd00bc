package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codexlib/libraryd/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	mr := miniredis.RunT(t)

	cfg := &config.Config{
		AppEnv:          "test",
		JWTSecret:       "test-secret",
		TokenTTL:        time.Hour,
		BootstrapUsers:  "user:user:USER,admin:admin:ADMIN",
		RedisAddr:       mr.Addr(),
		ShutdownTimeout: time.Second,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	return srv
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	return res
}

func login(t *testing.T, h http.Handler, username, password string) string {
	t.Helper()
	res := doJSON(t, h, http.MethodPost, "/v1/auth", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, res.Code)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestLoginIssuesToken(t *testing.T) {
	srv := newTestServer(t)
	login(t, srv.Handler(), "user", "user")
}

func TestLoginFailureIsOpaque(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	wrongPass := doJSON(t, h, http.MethodPost, "/v1/auth", "", map[string]string{
		"username": "user", "password": "wrong",
	})
	unknownUser := doJSON(t, h, http.MethodPost, "/v1/auth", "", map[string]string{
		"username": "nobody", "password": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	// Bodies must be identical so the responses leak nothing.
	assert.Equal(t, wrongPass.Body.String(), unknownUser.Body.String())
	assert.Empty(t, wrongPass.Body.String())
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	srv := newTestServer(t)
	res := doJSON(t, srv.Handler(), http.MethodGet, "/v1/books", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestExemptPathsOpen(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	res := doJSON(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, res.Code)

	res = doJSON(t, h, http.MethodGet, "/v3/api-docs", "", nil)
	assert.Equal(t, http.StatusOK, res.Code)

	res = doJSON(t, h, http.MethodGet, "/swagger-ui/index.html", "", nil)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestBookCRUDFlow(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()
	userToken := login(t, h, "user", "user")
	adminToken := login(t, h, "admin", "admin")

	// Create as regular user.
	res := doJSON(t, h, http.MethodPost, "/v1/books", userToken, map[string]string{
		"title": "Dune", "author": "Frank Herbert", "isbn": "978-0441013593", "category": "sci-fi",
	})
	require.Equal(t, http.StatusOK, res.Code)
	var created struct {
		ID       int64 `json:"id"`
		Borrowed bool  `json:"borrowed"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &created))
	require.NotZero(t, created.ID)
	assert.False(t, created.Borrowed)

	// List and fetch.
	res = doJSON(t, h, http.MethodGet, "/v1/books", userToken, nil)
	assert.Equal(t, http.StatusOK, res.Code)

	res = doJSON(t, h, http.MethodGet, "/v1/books/1", userToken, nil)
	assert.Equal(t, http.StatusOK, res.Code)

	// Update.
	res = doJSON(t, h, http.MethodPut, "/v1/books/1", userToken, map[string]string{
		"title": "Dune Messiah", "author": "Frank Herbert", "isbn": "978-0441013593", "category": "sci-fi",
	})
	assert.Equal(t, http.StatusOK, res.Code)

	// Borrow then return.
	res = doJSON(t, h, http.MethodPost, "/v1/books/borrow/1", userToken, nil)
	assert.Equal(t, http.StatusOK, res.Code)
	res = doJSON(t, h, http.MethodPost, "/v1/books/borrow/1", userToken, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	res = doJSON(t, h, http.MethodPost, "/v1/books/return/1", userToken, nil)
	assert.Equal(t, http.StatusOK, res.Code)

	// Delete is admin-only.
	res = doJSON(t, h, http.MethodDelete, "/v1/books/1", userToken, nil)
	assert.Equal(t, http.StatusForbidden, res.Code)
	res = doJSON(t, h, http.MethodDelete, "/v1/books/1", adminToken, nil)
	assert.Equal(t, http.StatusOK, res.Code)

	// Gone now.
	res = doJSON(t, h, http.MethodGet, "/v1/books/1", userToken, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestCreateBookValidation(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()
	token := login(t, h, "user", "user")

	res := doJSON(t, h, http.MethodPost, "/v1/books", token, map[string]string{
		"title": "No Author",
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestUnknownRouteRequiresAuthOnly(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	// No token: rejected by the default rule.
	res := doJSON(t, h, http.MethodGet, "/v1/members", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	// Any authenticated principal passes authorization; the router
	// then reports the route does not exist.
	token := login(t, h, "user", "user")
	res = doJSON(t, h, http.MethodGet, "/v1/members", token, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestMetricsEndpointProtected(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	res := doJSON(t, h, http.MethodGet, "/v1/metrics", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	token := login(t, h, "user", "user")
	res = doJSON(t, h, http.MethodGet, "/v1/metrics", token, nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "total_requests")
}

func TestLoginRateLimited(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	// The login rule allows a burst of 5 per client key.
	var last int
	for i := 0; i < 6; i++ {
		res := doJSON(t, h, http.MethodPost, "/v1/auth", "", map[string]string{
			"username": "user", "password": "wrong",
		})
		last = res.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
