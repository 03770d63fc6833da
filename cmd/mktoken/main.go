package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"feedback-backend/internal/auth"

	"github.com/joho/godotenv"
)

// mktoken mints a signed bearer token for local testing. Production tokens
// come from the external identity provider; this CLI exists so the API can be
// exercised without it.
func main() {
	uid := flag.String("uid", "", "user uid (required)")
	name := flag.String("name", "", "display name claim")
	email := flag.String("email", "", "email claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()

	if *uid == "" {
		flag.Usage()
		os.Exit(2)
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("❌ JWT_SECRET is required")
	}

	token, err := auth.IssueToken(secret, auth.Identity{
		UID:   *uid,
		Name:  *name,
		Email: *email,
	}, *ttl)
	if err != nil {
		log.Fatalf("❌ Failed to sign token: %v", err)
	}
	fmt.Println(token)
}
