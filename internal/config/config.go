package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	apperrors "github.com/taskjarvis/web-gateway/internal/errors"
)

// minSecretLength is the minimum session secret length. The codec derives a
// 256-bit key from the secret, so anything shorter gives a false sense of
// entropy.
const minSecretLength = 32

// Config holds all environment-based configuration for the gateway.
type Config struct {
	AppName string `env:"APP_NAME" envDefault:"TaskJarvis Gateway"`
	Env     string `env:"ENV" envDefault:"DEV"`
	Port    string `env:"PORT" envDefault:"8080"`

	// UpstreamURL is the base URL of the TaskJarvis API (e.g. "http://localhost:8000")
	UpstreamURL     string        `env:"UPSTREAM_API_URL"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"30s"`

	// SessionSecret seals the session cookie. Required, at least 32 characters.
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"168h"` // matches the upstream's 7-day refresh tokens
	SecureCookies bool          `env:"SECURE_COOKIES" envDefault:"false"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// Load reads configuration from the environment, with an optional .env file
// for local development. Validation failures are fatal - the gateway never
// starts with a missing secret or upstream URL.
func Load() (Config, error) {
	_ = godotenv.Load() // .env is optional

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("[config.Load] parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the configuration invariants that must hold at startup.
func (c Config) Validate() error {
	if strings.TrimSpace(c.SessionSecret) == "" {
		return apperrors.ErrNoSessionSecret
	}
	if len(c.SessionSecret) < minSecretLength {
		return fmt.Errorf("%w: %d chars, need at least %d",
			apperrors.ErrSessionSecretShort, len(c.SessionSecret), minSecretLength)
	}
	if strings.TrimSpace(c.UpstreamURL) == "" {
		return apperrors.ErrNoUpstreamURL
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// IsDev reports whether the gateway is running in development mode.
func (c Config) IsDev() bool {
	return c.Env == "DEV"
}

// IsAllowedOrigin reports whether the given origin may make cross-origin
// requests to the /api surface.
func (c Config) IsAllowedOrigin(origin string) bool {
	for _, o := range c.AllowedOrigins {
		if o == origin || o == "*" {
			return true
		}
	}
	return false
}
