package config

import (
	"errors"
	"os"
)

// Config is built once at startup and injected into the constructors that
// need it. No package holds configuration globals.
type Config struct {
	MongoURI     string
	DBName       string
	JWTSecret    string
	Port         string
	ResendAPIKey string
	FromEmail    string
}

func Load() (Config, error) {
	cfg := Config{
		MongoURI:     os.Getenv("MONGODB_URI"),
		DBName:       getEnv("DB_NAME", "feedback_app"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		Port:         getEnv("PORT", "8080"),
		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		FromEmail:    os.Getenv("FROM_EMAIL"),
	}

	if cfg.MongoURI == "" {
		return cfg, errors.New("MONGODB_URI is required")
	}
	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
