package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds the service level settings read from the environment.
type Config struct {
	Addr          string
	StoreBackend  string // postgres or memory
	JWTSecret     []byte
	TokenIssuer   string
	TokenTTL      time.Duration
	AdminUsername string
	AdminPassword string
}

// ConfigFromEnv reads HTTP_ADDR, STORE_BACKEND, JWT_SECRET, JWT_ISSUER, TOKEN_TTL,
// ADMIN_USERNAME and ADMIN_PASSWORD.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		Addr:          getenv("HTTP_ADDR", "0.0.0.0:8431"),
		StoreBackend:  getenv("STORE_BACKEND", "postgres"),
		JWTSecret:     []byte(os.Getenv("JWT_SECRET")),
		TokenIssuer:   getenv("JWT_ISSUER", "barter-hub"),
		TokenTTL:      12 * time.Hour,
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("TOKEN_TTL: invalid duration %q", v)
		}
		cfg.TokenTTL = d
	}
	switch cfg.StoreBackend {
	case "postgres", "memory":
	default:
		return cfg, fmt.Errorf("STORE_BACKEND: want postgres or memory, got %q", cfg.StoreBackend)
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
