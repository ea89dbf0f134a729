package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// HS256Verifier checks tokens signed with a shared secret.
type HS256Verifier struct {
	secret []byte
	issuer string
}

// NewHS256Verifier returns a verifier for secret. A non-empty issuer must match iss exactly.
func NewHS256Verifier(secret, issuer string) *HS256Verifier {
	return &HS256Verifier{secret: []byte(secret), issuer: issuer}
}

func (v *HS256Verifier) Verify(_ context.Context, raw string) (Claims, error) {
	return parseRegistered(raw, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, []string{jwt.SigningMethodHS256.Alg()}, v.issuer)
}
