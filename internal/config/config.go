package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	defaultDBPath = "./kmapin.db"
	defaultPort   = "8080"
	defaultEnv    = "development"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env           string
	LogLevel      string
	AdminEmail    string
	AdminPassword string
	SessionSecret string
	DBPath        string
	Port          string
}

// Load reads the optional .env file, then the process environment.
// The .env load is best-effort: production should use real env injection.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Env:           os.Getenv("APP_ENV"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		DBPath:        os.Getenv("DB_PATH"),
		Port:          os.Getenv("PORT"),
	}

	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	return cfg
}

// IsDev reports whether the application runs in development mode.
func (c Config) IsDev() bool {
	return c.Env == defaultEnv || c.Env == "dev"
}

// MissingSecrets names the credentials that were not provided; main logs a
// warning for each.
func (c Config) MissingSecrets() []string {
	var missing []string
	if c.AdminEmail == "" {
		missing = append(missing, "ADMIN_EMAIL")
	}
	if c.AdminPassword == "" {
		missing = append(missing, "ADMIN_PASSWORD")
	}
	if c.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}
	return missing
}
