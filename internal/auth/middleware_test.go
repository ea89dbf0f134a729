package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newGatedRouter(v TokenVerifier, public PublicPaths) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequireBearer(v, public))
	r.GET("/users", func(c *gin.Context) {
		c.String(http.StatusOK, "subject=%s", SubjectFromContext(c))
	})
	r.GET("/public/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestRequireBearer(t *testing.T) {
	const secret = "gate-secret"
	r := newGatedRouter(NewHS256Verifier(secret, ""), NewPublicPaths())
	valid := signHS256(t, secret, validClaims())

	tests := []struct {
		name   string
		path   string
		header string
		code   int
		body   string
	}{
		{"no header", "/users", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "/users", "Basic " + valid, http.StatusUnauthorized, ""},
		{"empty token", "/users", "Bearer   ", http.StatusUnauthorized, ""},
		{"invalid token", "/users", "Bearer not.a.jwt", http.StatusUnauthorized, ""},
		{"foreign signature", "/users", "Bearer " + signHS256(t, "other", validClaims()), http.StatusUnauthorized, ""},
		{"valid token", "/users", "Bearer " + valid, http.StatusOK, "subject=user-1"},
		{"scheme is case-insensitive", "/users", "bearer " + valid, http.StatusOK, "subject=user-1"},
		{"unknown private path still gated", "/nowhere", "", http.StatusUnauthorized, ""},
		{"public route without token", "/public/ping", "", http.StatusOK, "pong"},
		{"public route with bad token", "/public/ping", "Bearer garbage", http.StatusOK, "pong"},
		{"unknown public path is 404 not 401", "/public/anything", "", http.StatusNotFound, ""},
		{"health is public", "/health", "", http.StatusOK, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
			if tt.code == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"authorization required"}`, w.Body.String())
				assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
			}
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestPublicPaths_Match(t *testing.T) {
	p := NewPublicPaths("/status/")

	for _, path := range []string{
		"/public/", "/public", "/public/x/y",
		"/swagger", "/swagger/index.html", "/swagger-doc.json", "/swagger-ui.html",
		"/swagger-ui/index.html", "/v3/api-docs", "/v3/api-docs/swagger-config",
		"/health", "/version", "/metrics", "/status/live",
	} {
		assert.True(t, p.Match(path), path)
	}
	for _, path := range []string{
		"/", "/users", "/users/1", "/publicity", "/public/../users", "/healthz", "/statuses",
	} {
		assert.False(t, p.Match(path), path)
	}
}

func TestRequireBearer_NilVerifierPanics(t *testing.T) {
	assert.Panics(t, func() { RequireBearer(nil, NewPublicPaths()) })
}
