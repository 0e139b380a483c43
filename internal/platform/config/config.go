// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, TokenService) via constructors.
  - File Overlay: When CONFIG_FILE points to a YAML document of VAR: value pairs,
    those values act as a base layer. Real environment variables always win.
*/
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// # Database Drivers

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// EnvConfigFile names the variable holding the optional YAML overlay path.
const EnvConfigFile = "CONFIG_FILE"

// # Configuration Schema

// Config holds all runtime configuration for the Inkpost API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// DatabaseURL selects the store: postgres://... (pgx) or sqlite://<path> (embedded).
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// RedisURL is optional. When empty, signin throttling is disabled.
	RedisURL string `env:"REDIS_URL"`

	// JWTSecret signs HS256 session tokens.
	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`
	// JWTTTL bounds token lifetime. Zero issues time-unbounded tokens.
	JWTTTL time.Duration `env:"JWT_TTL" envDefault:"0s"`

	// Cross-Origin Resource Sharing
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// Signin brute-force throttling (requires Redis)
	SigninMaxAttempts int           `env:"SIGNIN_MAX_ATTEMPTS" envDefault:"10"`
	SigninWindow      time.Duration `env:"SIGNIN_WINDOW"       envDefault:"15m"`
}

// # Configuration Loading

// Load parses environment variables (and the optional CONFIG_FILE overlay)
// into a [Config] struct.
func Load() (*Config, error) {
	environment, err := overlay(os.Getenv(EnvConfigFile), env.ToMap(os.Environ()))
	if err != nil {
		return nil, err
	}

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environment}); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// overlay merges the YAML file at path underneath the process environment.
func overlay(path string, environment map[string]string) (map[string]string, error) {
	if path == "" {
		return environment, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	fileValues := map[string]string{}
	if err := yaml.Unmarshal(raw, &fileValues); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	merged := make(map[string]string, len(fileValues)+len(environment))
	for key, value := range fileValues {
		merged[key] = value
	}
	for key, value := range environment {
		merged[key] = value
	}

	return merged, nil
}

// validate performs cross-field checks that struct tags cannot express.
func (c *Config) validate() error {
	if c.DatabaseDriver() == "" {
		return fmt.Errorf("config: DATABASE_URL must start with postgres://, postgresql:// or sqlite://")
	}
	if c.JWTTTL < 0 {
		return fmt.Errorf("config: JWT_TTL must not be negative")
	}
	if c.SigninMaxAttempts < 1 {
		return fmt.Errorf("config: SIGNIN_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

// DatabaseDriver reports which store implementation DatabaseURL selects.
// It returns "" for unsupported schemes.
func (c *Config) DatabaseDriver() string {
	switch {
	case strings.HasPrefix(c.DatabaseURL, "postgres://"), strings.HasPrefix(c.DatabaseURL, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(c.DatabaseURL, "sqlite://"):
		return DriverSQLite
	default:
		return ""
	}
}

// SQLitePath returns the file path portion of a sqlite:// DatabaseURL.
func (c *Config) SQLitePath() string {
	return strings.TrimPrefix(c.DatabaseURL, "sqlite://")
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ExtraOrigins returns the configured CORS origins beyond the built-in defaults.
func (c *Config) ExtraOrigins() []string {
	return c.AllowedOrigins
}
