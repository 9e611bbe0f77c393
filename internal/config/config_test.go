package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskjarvis/web-gateway/internal/config"
	apperrors "github.com/taskjarvis/web-gateway/internal/errors"
)

func validConfig() config.Config {
	return config.Config{
		Port:          "8080",
		UpstreamURL:   "http://localhost:8000",
		SessionSecret: strings.Repeat("s", 32),
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	t.Run("missing secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.SessionSecret = ""
		require.ErrorIs(t, cfg.Validate(), apperrors.ErrNoSessionSecret)
	})

	t.Run("whitespace secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.SessionSecret = "   "
		require.ErrorIs(t, cfg.Validate(), apperrors.ErrNoSessionSecret)
	})

	t.Run("short secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.SessionSecret = "too-short"
		require.ErrorIs(t, cfg.Validate(), apperrors.ErrSessionSecretShort)
	})

	t.Run("missing upstream URL", func(t *testing.T) {
		cfg := validConfig()
		cfg.UpstreamURL = ""
		require.ErrorIs(t, cfg.Validate(), apperrors.ErrNoUpstreamURL)
	})
}

func TestConfig_Load(t *testing.T) {
	t.Run("loads from environment", func(t *testing.T) {
		t.Setenv("SESSION_SECRET", strings.Repeat("k", 40))
		t.Setenv("UPSTREAM_API_URL", "http://api.internal:8000")
		t.Setenv("PORT", "9090")
		t.Setenv("ALLOWED_ORIGINS", "https://app.example.com,https://staging.example.com")

		cfg, err := config.Load()
		require.NoError(t, err)
		require.Equal(t, ":9090", cfg.Addr())
		require.Equal(t, "http://api.internal:8000", cfg.UpstreamURL)
		require.True(t, cfg.IsAllowedOrigin("https://app.example.com"))
		require.False(t, cfg.IsAllowedOrigin("https://evil.example.com"))
	})

	t.Run("fails without secret", func(t *testing.T) {
		t.Setenv("SESSION_SECRET", "")
		t.Setenv("UPSTREAM_API_URL", "http://localhost:8000")

		_, err := config.Load()
		require.ErrorIs(t, err, apperrors.ErrNoSessionSecret)
	})
}

func TestConfig_Addr(t *testing.T) {
	cfg := validConfig()
	require.Equal(t, ":8080", cfg.Addr())

	cfg.Port = ":3000"
	require.Equal(t, ":3000", cfg.Addr())
}
