// Gen-jwt prints an HS256 token for local testing. Run from project root:
//
//	go run ./scripts/gen-jwt --sub alice --ttl 24h
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"todo-app/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/pflag"
)

var errNoSecret = errors.New("JWT_SECRET is not set; the server rejects tokens signed with any other key")

func main() {
	sub := pflag.String("sub", "test-user", "subject claim (the user identity)")
	ttl := pflag.Duration("ttl", 24*time.Hour, "token lifetime")
	pflag.Parse()

	_ = config.LoadEnvFile(".env")
	signed, err := sign(config.Load().JWTSecret, *sub, *ttl, time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, "gen-jwt:", err)
		os.Exit(1)
	}
	fmt.Println(signed)
}

func sign(secret, sub string, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", errNoSecret
	}
	claims := jwt.RegisteredClaims{
		Subject:   sub,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
