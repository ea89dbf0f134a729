package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*KeySetCache, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewKeySetCache(rdb, ttl), s
}

func TestKeySetCache_MissSetGet(t *testing.T) {
	ctx := context.Background()
	c, s := newTestCache(t, time.Minute)
	const url = "https://issuer.example.com/jwks"

	got, err := c.Get(ctx, url)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, url, []byte(`{"keys":[]}`)))
	got, err = c.Get(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, `{"keys":[]}`, string(got))
	assert.Equal(t, time.Minute, s.TTL(keyPrefix+url))
}

func TestKeySetCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, s := newTestCache(t, 10*time.Second)
	const url = "https://issuer.example.com/jwks"

	require.NoError(t, c.Set(ctx, url, []byte(`{}`)))
	s.FastForward(11 * time.Second)

	got, err := c.Get(ctx, url)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestKeySetCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, time.Minute)
	const url = "https://issuer.example.com/jwks"

	require.NoError(t, c.Set(ctx, url, []byte(`{}`)))
	require.NoError(t, c.Invalidate(ctx, url))
	got, err := c.Get(ctx, url)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestKeySetCache_ServerDown(t *testing.T) {
	ctx := context.Background()
	c, s := newTestCache(t, time.Minute)
	s.Close()

	_, err := c.Get(ctx, "u")
	assert.Error(t, err)
	assert.Error(t, c.Set(ctx, "u", []byte(`{}`)))
}
