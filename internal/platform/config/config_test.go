// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/inkpost/internal/platform/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvConfigFile, "")
	t.Setenv("DATABASE_URL", "sqlite:///tmp/inkpost.db")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
}

/*
TestLoad_Defaults verifies default values when only required variables are set.
*/
func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, time.Duration(0), cfg.JWTTTL)
	assert.Equal(t, 10, cfg.SigninMaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.SigninWindow)
	assert.Equal(t, config.DriverSQLite, cfg.DatabaseDriver())
	assert.Equal(t, "/tmp/inkpost.db", cfg.SQLitePath())
}

/*
TestLoad_MissingRequired fails fast without a signing secret.
*/
func TestLoad_MissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

/*
TestLoad_UnsupportedDatabase rejects unknown DATABASE_URL schemes.
*/
func TestLoad_UnsupportedDatabase(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_URL", "mysql://localhost/blog")

	_, err := config.Load()
	assert.Error(t, err)
}

/*
TestLoad_FileOverlay checks that the YAML file is a base layer under the environment.
*/
func TestLoad_FileOverlay(t *testing.T) {
	setRequired(t)

	path := filepath.Join(t.TempDir(), "inkpost.yaml")
	content := "SERVER_PORT: \"9090\"\nJWT_TTL: 24h\nALLOWED_ORIGINS: https://a.example,https://b.example\nENVIRONMENT: production\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv(config.EnvConfigFile, path)
	t.Setenv("ENVIRONMENT", "staging")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.ExtraOrigins())
	assert.Equal(t, "staging", cfg.Environment)
}
