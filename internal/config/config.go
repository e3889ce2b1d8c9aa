package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds the application configuration. All settings are read once at
// startup and injected into the components that need them; nothing else in
// the application reads the environment.
type Config struct {
	ServerPort      int           `env:"PORT" envDefault:"8080"`
	DatabasePath    string        `env:"DATABASE_PATH" envDefault:"./warbler.db"`
	SessionSecret   string        `env:"SESSION_SECRET" envDefault:"dev-secret-change-me"`
	SessionValidity time.Duration `env:"SESSION_VALIDITY" envDefault:"24h"`
	AppEnv          string        `env:"APP_ENV" envDefault:"development"`
	AllowedOrigin   string        `env:"ALLOWED_ORIGIN" envDefault:"http://localhost:3000"`
}

// Load loads configuration from environment variables, reading a .env file
// first when one exists in the working directory.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("loading .env file: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration from environment: %w", err)
	}
	return &cfg, nil
}

// IsProduction reports whether the app runs in production mode. Controls the
// Secure flag on session cookies.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
