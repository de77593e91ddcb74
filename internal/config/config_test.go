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

// inTempDir keeps a developer's .env out of the test.
func inTempDir(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadConfigDefaultsAndYAML(t *testing.T) {
	inTempDir(t)
	path := writeConfig(t, `
backend:
  base_url: https://school.example.org/
session:
  secret: s3cret
  ttl: 2h
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "https://school.example.org", cfg.BackendBaseURL())
	assert.Equal(t, 15*time.Second, cfg.BackendTimeout())
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL())
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Equal(t, "portal_session", cfg.Session.CookieName)
	assert.False(t, cfg.IsProduction())
}

func TestEnvOverridesYAML(t *testing.T) {
	inTempDir(t)
	path := writeConfig(t, `
session:
  secret: from-file
`)
	t.Setenv("SESSION_SECRET", "from-env")
	t.Setenv("SESSION_COOKIE_SECURE", "true")
	t.Setenv("DB_MAX_OPEN_CONNS", "25")
	t.Setenv("SERVER_MODE", "production")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Session.Secret)
	assert.True(t, cfg.Session.Secure)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.IsProduction())
}

func TestMissingFileUsesEnvironment(t *testing.T) {
	inTempDir(t)
	t.Setenv("SESSION_SECRET", "x")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.BackendBaseURL())
}

func TestInvalidConfig(t *testing.T) {
	inTempDir(t)
	tests := []struct {
		name string
		yaml string
	}{
		{"no secret", "session: {secret: ''}"},
		{"relative backend", "session: {secret: x}\nbackend: {base_url: /api}"},
		{"bad timeout", "session: {secret: x}\nbackend: {timeout: soon}"},
		{"bad ttl", "session: {secret: x, ttl: forever}"},
		{"unknown store", "session: {secret: x, store: redis}"},
		{"postgres without host", "session: {secret: x, store: postgres}\ndatabase: {host: ''}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestMalformedEnvValue(t *testing.T) {
	inTempDir(t)
	t.Setenv("SESSION_SECRET", "x")
	t.Setenv("DB_MAX_IDLE_CONNS", "many")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_MAX_IDLE_CONNS")
}

func TestPostgresConnectionString(t *testing.T) {
	cfg := &Config{}
	cfg.Database.User = "portal"
	cfg.Database.Password = "pw"
	cfg.Database.Host = "db"
	cfg.Database.Port = "5432"
	cfg.Database.DBName = "school"

	assert.Equal(t, "postgres://portal:pw@db:5432/school?sslmode=disable", cfg.GetPostgresConnectionString())
}
