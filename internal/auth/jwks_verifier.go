package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"userapi/internal/logger"
	"userapi/internal/metrics"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"golang.org/x/sync/singleflight"
)

const maxJWKSBytes = 1 << 20

// KeySetStore shares raw JWKS documents between processes.
// Get returns nil, nil on a miss.
type KeySetStore interface {
	Get(ctx context.Context, url string) ([]byte, error)
	Set(ctx context.Context, url string, raw []byte) error
	Invalidate(ctx context.Context, url string) error
}

type JWKSOptions struct {
	// URL of the issuer's JSON Web Key Set.
	URL string
	// Issuer, when set, must equal the token's iss claim.
	Issuer string
	// Client defaults to a client with a 5s timeout.
	Client *http.Client
	// Store is optional. Consulted on a cold start and written after each issuer fetch.
	Store KeySetStore
	// MinRefresh is the minimum gap between two fetch attempts, failed ones included.
	MinRefresh time.Duration
}

// JWKSVerifier checks RSA-signed tokens against the issuer's published keys,
// selected by the token's kid header.
type JWKSVerifier struct {
	opt JWKSOptions
	now func() time.Time

	mu          sync.RWMutex
	keys        map[string]*rsa.PublicKey
	lastAttempt time.Time

	sf singleflight.Group
}

// NewJWKSVerifier returns a verifier. Keys are loaded lazily on the first token.
func NewJWKSVerifier(opt JWKSOptions) *JWKSVerifier {
	if opt.Client == nil {
		opt.Client = &http.Client{Timeout: 5 * time.Second}
	}
	return &JWKSVerifier{opt: opt, now: time.Now}
}

var rsaMethods = []string{
	jwt.SigningMethodRS256.Alg(),
	jwt.SigningMethodRS384.Alg(),
	jwt.SigningMethodRS512.Alg(),
}

func (v *JWKSVerifier) Verify(ctx context.Context, raw string) (Claims, error) {
	return parseRegistered(raw, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		return v.keyFor(ctx, kid)
	}, rsaMethods, v.opt.Issuer)
}

func (v *JWKSVerifier) lookup(kid string) (*rsa.PublicKey, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	k, ok := v.keys[kid]
	return k, ok
}

func (v *JWKSVerifier) keyFor(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if k, ok := v.lookup(kid); ok {
		return k, nil
	}
	// Concurrent misses share a single load.
	if _, err, _ := v.sf.Do("load", func() (any, error) {
		return nil, v.load(ctx, kid)
	}); err != nil {
		return nil, err
	}
	if k, ok := v.lookup(kid); ok {
		return k, nil
	}
	return nil, ErrUnknownKey
}

func (v *JWKSVerifier) load(ctx context.Context, kid string) error {
	if _, ok := v.lookup(kid); ok {
		return nil
	}

	v.mu.RLock()
	cold := v.keys == nil
	last := v.lastAttempt
	v.mu.RUnlock()

	if cold && v.opt.Store != nil && v.loadFromStore(ctx, kid) {
		return nil
	}
	if !last.IsZero() && v.now().Sub(last) < v.opt.MinRefresh {
		return nil
	}

	raw, err := v.fetch(ctx)
	var keys map[string]*rsa.PublicKey
	if err == nil {
		keys, err = parseJWKS(raw)
	}
	metrics.RecordJWKSRefresh("issuer", err)

	// Failed attempts also start the MinRefresh window.
	v.mu.Lock()
	v.lastAttempt = v.now()
	if err == nil {
		v.keys = keys
	}
	v.mu.Unlock()

	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("url", v.opt.URL).Msg("jwks fetch failed")
		return err
	}

	if v.opt.Store != nil {
		if err := v.opt.Store.Set(ctx, v.opt.URL, raw); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("jwks cache write failed")
		}
	}
	return nil
}

// loadFromStore installs the shared key set and reports whether it holds kid.
func (v *JWKSVerifier) loadFromStore(ctx context.Context, kid string) bool {
	raw, err := v.opt.Store.Get(ctx, v.opt.URL)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("jwks cache read failed")
		return false
	}
	if raw == nil {
		return false
	}
	keys, err := parseJWKS(raw)
	metrics.RecordJWKSRefresh("cache", err)
	if err != nil {
		_ = v.opt.Store.Invalidate(ctx, v.opt.URL)
		return false
	}

	v.mu.Lock()
	v.keys = keys
	v.mu.Unlock()

	_, ok := keys[kid]
	return ok
}

func (v *JWKSVerifier) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.opt.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("jwks request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	res, err := v.opt.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jwks get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jwks get: unexpected status %d", res.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(res.Body, maxJWKSBytes))
	if err != nil {
		return nil, fmt.Errorf("jwks read: %w", err)
	}
	return raw, nil
}

// parseJWKS keeps the RSA signing keys of a JWKS document. Other key types
// and malformed entries are skipped; a set with no usable key is an error.
func parseJWKS(raw []byte) (map[string]*rsa.PublicKey, error) {
	set, err := jwk.Parse(raw, jwk.WithIgnoreParseError(true))
	if err != nil {
		return nil, fmt.Errorf("jwks decode: %w", err)
	}
	keys := make(map[string]*rsa.PublicKey, set.Len())
	for i := 0; i < set.Len(); i++ {
		k, ok := set.Key(i)
		if !ok || k.KeyType() != jwa.RSA {
			continue
		}
		if use := k.KeyUsage(); use != "" && use != string(jwk.ForSignature) {
			continue
		}
		var material any
		if err := k.Raw(&material); err != nil {
			continue
		}
		pub, ok := material.(*rsa.PublicKey)
		if !ok {
			continue
		}
		keys[k.KeyID()] = pub
	}
	if len(keys) == 0 {
		return nil, errors.New("jwks: no usable RSA signing keys")
	}
	return keys, nil
}
