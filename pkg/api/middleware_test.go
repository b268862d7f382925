package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-reach/pkg/auth"
	"github.com/dd0wney/cluso-reach/pkg/config"
	"github.com/dd0wney/cluso-reach/pkg/logging"
)

const (
	testJWTSecret = "0123456789abcdef0123456789abcdef"
	testAPIKey    = "sesame-key"
)

// setupAuthServer creates a server with bearer-token auth enabled and,
// optionally, API key auth.
func setupAuthServer(t *testing.T, withAPIKey bool) *Server {
	t.Helper()

	cfg := config.Default()
	cfg.Server.JWTSecret = testJWTSecret
	if withAPIKey {
		hash, err := auth.HashAPIKey(testAPIKey)
		require.NoError(t, err)
		cfg.Server.APIKeyHash = hash
	}

	server, err := NewServer(cfg, logging.NopLogger{})
	require.NoError(t, err)
	return server
}

func TestRequireAuth_OpenMode(t *testing.T) {
	server := setupTestServer(t)

	rr := doJSON(t, server, http.MethodPost, "/graph/random", map[string]any{
		"vertices": 5,
	})
	assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

func TestRequireAuth_MissingCredentials(t *testing.T) {
	server := setupAuthServer(t, false)

	rr := doJSON(t, server, http.MethodPost, "/graph/random", map[string]any{
		"vertices": 5,
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireAuth_ValidBearer(t *testing.T) {
	server := setupAuthServer(t, false)

	token, err := server.jwt.GenerateToken("tester")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/graph/random",
		strings.NewReader(`{"vertices": 5}`))
	req.Header.Set("Authorization", "Bearer "+token)

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

func TestRequireAuth_InvalidBearer(t *testing.T) {
	server := setupAuthServer(t, false)

	req := httptest.NewRequest(http.MethodPost, "/graph/random",
		strings.NewReader(`{"vertices": 5}`))
	req.Header.Set("Authorization", "Bearer not-a-real-token")

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireAuth_APIKey(t *testing.T) {
	server := setupAuthServer(t, true)

	req := httptest.NewRequest(http.MethodPost, "/graph/random",
		strings.NewReader(`{"vertices": 5}`))
	req.Header.Set("X-API-Key", testAPIKey)

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/graph/random",
		strings.NewReader(`{"vertices": 5}`))
	req.Header.Set("X-API-Key", "wrong-key")

	rr = httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireAuth_ReadsStayOpen(t *testing.T) {
	server := setupAuthServer(t, false)

	rr := doJSON(t, server, http.MethodGet, "/graph", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, server, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestTokenEndpoint(t *testing.T) {
	server := setupAuthServer(t, true)

	req := httptest.NewRequest(http.MethodPost, "/auth/token", nil)
	req.Header.Set("X-API-Key", testAPIKey)

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := decodeBody[TokenResponse](t, rr)
	require.NotEmpty(t, resp.Token)
	assert.False(t, resp.ExpiresAt.IsZero())

	// The issued token must work as a bearer credential
	req = httptest.NewRequest(http.MethodPost, "/graph/random",
		strings.NewReader(`{"vertices": 5}`))
	req.Header.Set("Authorization", "Bearer "+resp.Token)

	rr = httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

func TestTokenEndpoint_BodyKey(t *testing.T) {
	server := setupAuthServer(t, true)

	rr := doJSON(t, server, http.MethodPost, "/auth/token", TokenRequest{APIKey: testAPIKey})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := decodeBody[TokenResponse](t, rr)
	assert.NotEmpty(t, resp.Token)
}

func TestTokenEndpoint_InvalidKey(t *testing.T) {
	server := setupAuthServer(t, true)

	req := httptest.NewRequest(http.MethodPost, "/auth/token", nil)
	req.Header.Set("X-API-Key", "wrong-key")

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestTokenEndpoint_Unconfigured(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/token", nil)
	req.Header.Set("X-API-Key", testAPIKey)

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/graph", nil)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "X-API-Key")
}

func TestMethodNotAllowed(t *testing.T) {
	server := setupTestServer(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPut, "/graph"},
		{http.MethodDelete, "/sweep"},
		{http.MethodGet, "/auth/token"},
		{http.MethodDelete, "/graph/random"},
		{http.MethodPost, "/graph/matrix"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := doJSON(t, server, tt.method, tt.path, nil)
			assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
		})
	}
}

func TestBodyLimit(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/graph", strings.NewReader("3"))
	req.ContentLength = maxBodyBytes + 1

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	server := setupTestServer(t)

	handler := server.recoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestClaimsFromContext(t *testing.T) {
	server := setupAuthServer(t, false)

	token, err := server.jwt.GenerateToken("tester")
	require.NoError(t, err)

	var subject string
	handler := server.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		if claims := ClaimsFromContext(r.Context()); claims != nil {
			subject = claims.Subject
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "tester", subject)
}
