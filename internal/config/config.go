// Package config loads application settings from the environment.
//
// Settings come from env vars (with a .env file honoured in development,
// which is how the original deployment configured itself too). The env
// struct tags drive github.com/caarlos0/env: each field names its variable
// and an optional default, and Parse fills the struct in one call — no
// os.Getenv scattered around the codebase.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds every tunable the server reads at startup. It is loaded once
// in main and passed down by value — nothing re-reads the environment later.
type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"` // debug | info | warn | error

	DBPath string `env:"DB_PATH" envDefault:"data/gameshelf.db"`

	TemplateDir string `env:"TEMPLATE_DIR" envDefault:"web/templates"`
	StaticDir   string `env:"STATIC_DIR" envDefault:"web/static"`

	// External game APIs. The catalog key is optional — the default catalog
	// doesn't require one, but a keyed upstream can be dropped in via env.
	CatalogBaseURL string        `env:"CATALOG_BASE_URL" envDefault:"https://www.cheapshark.com/api/1.0"`
	StoreBaseURL   string        `env:"STORE_BASE_URL" envDefault:"https://store.steampowered.com/api"`
	CatalogAPIKey  string        `env:"CATALOG_API_KEY"`
	CatalogTimeout time.Duration `env:"CATALOG_TIMEOUT" envDefault:"15s"`

	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h"` // 7 days
}

// Load reads the .env file (when one exists) and then the environment.
//
// The .env file never overrides real environment variables — godotenv only
// fills in what's unset, so `PORT=9000 go run ./cmd/server` still wins over
// a PORT line in .env.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("config: loading .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}

	return cfg, nil
}
