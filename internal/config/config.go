package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"pairplay/backend/internal/logger"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	JWTSecret        string        `mapstructure:"JWT_SECRET"`
	HTTPAddr         string        `mapstructure:"HTTP_ADDR"`
	TokenTTL         time.Duration `mapstructure:"TOKEN_TTL"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	GinMode          string        `mapstructure:"GIN_MODE"`
	MetricsNamespace string        `mapstructure:"METRICS_NAMESPACE"`
}

var AppConfig *Config

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")
	ErrMissingJWTSecret   = errors.New("JWT_SECRET is required")
)

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() error {
	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName(".env")
	v.SetConfigType("env")

	// Every key needs a default so AutomaticEnv picks it up on Unmarshal.
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("METRICS_NAMESPACE", "pairplay")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		logger.Log.Warn("Warning: .env file not found, loading from environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unable to decode into struct: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if cfg.JWTSecret == "" {
		return ErrMissingJWTSecret
	}

	AppConfig = &cfg
	return nil
}
