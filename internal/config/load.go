package config

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/workout_tracker/pkg/config"
)

type ServiceConfig struct {
	config.Config
}

// Load reads .env when present, then the environment. It exits when a
// required value is missing.
func Load() ServiceConfig {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := config.Load()

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	return ServiceConfig{Config: cfg}
}
