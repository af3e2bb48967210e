package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/scholark/scholark-backend/internal/config"
	"github.com/scholark/scholark-backend/internal/middleware"
)

// mint-token signs a staff JWT for local development and testing.
func main() {
	var (
		subject = flag.String("subject", "staff-1", "Token subject (staff account identifier)")
		name    = flag.String("name", "Dev Staff", "Display name recorded in audit fields")
		role    = flag.String("role", "staff", "Role claim: staff or admin")
	)
	flag.Parse()

	if *role != "staff" && *role != "admin" {
		log.Fatalf("invalid role %q: must be staff or admin", *role)
	}

	cfg := config.Load()
	now := time.Now()

	claims := middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   *subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.JWTExpiry)),
		},
		Name: *name,
		Role: *role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}

	fmt.Println(signed)
}
