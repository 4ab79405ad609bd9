package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Reads environment variables and applies defaults", func(t *testing.T) {
		// Given: only the required variables are set
		t.Setenv("DATABASE_URL", "postgres://localhost/pairplay")
		t.Setenv("JWT_SECRET", "s3cret")

		// When: loading the configuration
		err := LoadConfig()

		// Then: required values come from the environment, the rest from defaults
		require.NoError(t, err)
		assert.Equal(t, "postgres://localhost/pairplay", AppConfig.DatabaseURL)
		assert.Equal(t, "s3cret", AppConfig.JWTSecret)
		assert.Equal(t, ":8080", AppConfig.HTTPAddr)
		assert.Equal(t, 24*time.Hour, AppConfig.TokenTTL)
		assert.Equal(t, "info", AppConfig.LogLevel)
		assert.Equal(t, "pairplay", AppConfig.MetricsNamespace)
	})

	t.Run("Parses durations", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/pairplay")
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("TOKEN_TTL", "90m")
		t.Setenv("HTTP_ADDR", ":9090")

		require.NoError(t, LoadConfig())

		assert.Equal(t, 90*time.Minute, AppConfig.TokenTTL)
		assert.Equal(t, ":9090", AppConfig.HTTPAddr)
	})

	t.Run("Requires a JWT secret", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/pairplay")
		t.Setenv("JWT_SECRET", "")

		err := LoadConfig()

		assert.ErrorIs(t, err, ErrMissingJWTSecret)
	})

	t.Run("Requires a database URL", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("JWT_SECRET", "s3cret")

		err := LoadConfig()

		assert.ErrorIs(t, err, ErrMissingDatabaseURL)
	})
}
