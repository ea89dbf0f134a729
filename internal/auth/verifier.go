package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
	ErrUnknownKey   = errors.New("signing key not found")
)

// Claims is the part of a verified token the service cares about.
type Claims struct {
	Subject   string
	Issuer    string
	ExpiresAt time.Time
}

// TokenVerifier validates a raw bearer token.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (Claims, error)
}

// parseRegistered runs the jwt parser and maps its errors onto ours.
func parseRegistered(raw string, keyFunc jwt.Keyfunc, methods []string, issuer string) (Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods(methods)}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	var rc jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(raw, &rc, keyFunc, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if !token.Valid {
		return Claims{}, ErrTokenInvalid
	}

	out := Claims{Subject: rc.Subject, Issuer: rc.Issuer}
	if rc.ExpiresAt != nil {
		out.ExpiresAt = rc.ExpiresAt.Time
	}
	return out, nil
}

// ChainVerifier accepts a token if any of its verifiers does.
type ChainVerifier []TokenVerifier

func (c ChainVerifier) Verify(ctx context.Context, raw string) (Claims, error) {
	err := ErrTokenInvalid
	for _, v := range c {
		claims, verr := v.Verify(ctx, raw)
		if verr == nil {
			return claims, nil
		}
		if errors.Is(verr, ErrTokenExpired) {
			err = ErrTokenExpired
		}
	}
	return Claims{}, err
}
