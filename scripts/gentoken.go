// One-off: go run scripts/gentoken.go [subject] [ttl]
// Mints an HS256 token signed with AUTH_HS256_SECRET for local testing.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	secret := os.Getenv("AUTH_HS256_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "AUTH_HS256_SECRET is not set")
		os.Exit(1)
	}
	subject := "dev"
	if len(os.Args) > 1 {
		subject = os.Args[1]
	}
	ttl := time.Hour
	if len(os.Args) > 2 {
		d, err := time.ParseDuration(os.Args[2])
		if err != nil {
			panic(err)
		}
		ttl = d
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	if iss := os.Getenv("AUTH_ISSUER"); iss != "" {
		claims.Issuer = iss
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		panic(err)
	}
	fmt.Print(s)
}
