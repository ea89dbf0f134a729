package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "jwks:"

// KeySetCache stores raw JWKS documents in Redis so replicas share one copy
// of the issuer's signing keys.
type KeySetCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewKeySetCache returns a new KeySetCache.
func NewKeySetCache(rdb *redis.Client, ttl time.Duration) *KeySetCache {
	return &KeySetCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached document for url or nil if miss.
func (c *KeySetCache) Get(ctx context.Context, url string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, keyPrefix+url).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Set stores the document for url.
func (c *KeySetCache) Set(ctx context.Context, url string, raw []byte) error {
	return c.rdb.Set(ctx, keyPrefix+url, raw, c.ttl).Err()
}

// Invalidate drops the document for url, used when it no longer verifies tokens.
func (c *KeySetCache) Invalidate(ctx context.Context, url string) error {
	return c.rdb.Del(ctx, keyPrefix+url).Err()
}
