package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  dsn: "file::memory:"
auth:
  jwt_secret: secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Server.CacheTTL)
	assert.Equal(t, "session", cfg.Auth.CookieName)
	assert.Equal(t, 14*24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
	assert.Equal(t, 16, cfg.WorkerPool.QueueSize)
	assert.Equal(t, time.Hour, cfg.Importer.Interval)
	assert.False(t, cfg.Push.Enabled())
}

func TestLoad_EnvSecretOverridesFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	path := writeConfig(t, `
database:
  driver: postgres
  dsn: "host=db"
auth:
  jwt_secret: from-file
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
}

func TestVerify(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"missing dsn", func(c *Config) { c.Database.DSN = "" }},
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"importer without source", func(c *Config) { c.Importer.Enabled = true }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{
				Database: DatabaseConfig{Driver: "sqlite", DSN: "file::memory:"},
				Auth:     AuthConfig{JWTSecret: "secret"},
			}
			cfg.ApplyDefaults()
			require.NoError(t, cfg.Verify())

			tc.mutate(&cfg)
			assert.Error(t, cfg.Verify())
		})
	}
}
