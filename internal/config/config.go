// Package config loads process configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable the server reads at startup.
type Config struct {
	Port   int    `env:"PORT" envDefault:"8080"`
	DBPath string `env:"DB_PATH" envDefault:"./data/cashtrackr.db"`

	// JWTSecret signs session tokens. It has no default on purpose:
	// a guessable signing key silently breaks every auth guarantee.
	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	// ActionTokenTTL bounds how long confirmation and password reset
	// codes stay valid.
	ActionTokenTTL time.Duration `env:"ACTION_TOKEN_TTL" envDefault:"15m"`

	// AuthRateRPS / AuthRateBurst throttle the unauthenticated account
	// endpoints per client IP.
	AuthRateRPS   float64 `env:"AUTH_RATE_RPS" envDefault:"1"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST" envDefault:"5"`

	// SMTP relay for account emails. When SMTPHost is empty the server
	// logs notifications instead of sending them.
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM" envDefault:"CashTrackr <admin@cashtrackr.com>"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}

	return cfg, nil
}

// SMTPAddr returns the relay address in host:port form.
func (c *Config) SMTPAddr() string {
	return fmt.Sprintf("%s:%d", c.SMTPHost, c.SMTPPort)
}
