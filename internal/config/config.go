package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"
)

// Config holds the application configuration.
type Config struct {
	ServerPort     int           `env:"PORT" envDefault:"8080"`
	BackendURL     string        `env:"BACKEND_URL" envDefault:"http://127.0.0.1:5000"`
	DatabasePath   string        `env:"DATABASE_PATH" envDefault:"./portal.db"`
	SessionKeyHex  string        `env:"SESSION_KEY"` // 32 bytes, hex encoded
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SweepSchedule  string        `env:"SESSION_SWEEP_SCHEDULE" envDefault:"*/5 * * * *"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
	Environment    string        `env:"APP_ENV" envDefault:"development"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`

	// SessionKey is decoded from SessionKeyHex, or random when that is unset.
	SessionKey []byte
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) finish() error {
	c.BackendURL = strings.TrimRight(c.BackendURL, "/")
	if c.BackendURL == "" {
		return fmt.Errorf("BACKEND_URL must not be empty")
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.ServerPort)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if _, err := cron.ParseStandard(c.SweepSchedule); err != nil {
		return fmt.Errorf("SESSION_SWEEP_SCHEDULE: %w", err)
	}

	if c.SessionKeyHex == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return fmt.Errorf("generate session key: %w", err)
		}
		c.SessionKey = key
		return nil
	}
	key, err := hex.DecodeString(c.SessionKeyHex)
	if err != nil {
		return fmt.Errorf("SESSION_KEY: %w", err)
	}
	if len(key) != 32 {
		return fmt.Errorf("SESSION_KEY must be 32 bytes, got %d", len(key))
	}
	c.SessionKey = key
	return nil
}
