// Package config loads board configuration from the environment.
// A .env file is honored when present so local runs need no exported vars.
package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup.
type Config struct {
	// Port the HTTP server listens on.
	Port string
	// DatabaseURL selects the storage backend; "sqlite://" or "postgres://".
	DatabaseURL string
	// CORSOrigin is the allowed frontend origin ("*" for local dev).
	CORSOrigin string
	// AdminTags is the legacy flat administrator set: identity tags that
	// are treated as admins regardless of role assignments.
	AdminTags []string
	// AdminSeed, when set, has an admin role assignment upserted for its
	// derived tag at startup.
	AdminSeed string
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Load reads the .env file (if any) and assembles the configuration.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "sqlite://board.db"),
		CORSOrigin:  getEnv("CORS_ORIGIN", "*"),
		AdminTags:   getEnvList("ADMIN_IDS"),
		AdminSeed:   getEnv("ADMIN_SEED", ""),
	}
}
