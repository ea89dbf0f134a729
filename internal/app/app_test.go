package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"userapi/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() config.Config {
	return config.Config{
		App:   config.AppConfig{Env: "test", Version: "test"},
		Store: config.StoreConfig{Driver: config.StoreMemory},
		Auth:  config.AuthConfig{HS256Secret: testSecret},
	}
}

func TestNew_MemoryStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a, err := New(memoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+token(t))
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestNew_WithRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)

	cfg := memoryConfig()
	cfg.Redis.Addr = mr.Addr()
	cfg.Auth.JWKSURL = "http://127.0.0.1:1/jwks"

	a, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, a.redis)
	assert.NoError(t, a.Close(context.Background()))
}

func TestNew_RedisUnreachable(t *testing.T) {
	cfg := memoryConfig()
	cfg.Redis.Addr = "127.0.0.1:1"

	_, err := New(cfg)
	assert.ErrorContains(t, err, "redis ping")
}

func TestNew_UnknownStore(t *testing.T) {
	cfg := memoryConfig()
	cfg.Store.Driver = "cassandra"

	_, err := New(cfg)
	assert.ErrorContains(t, err, "unknown store driver")
}
