package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invoicegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("PORT", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenLifetime)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	assert.Equal(t, 24*time.Hour, cfg.Storage.PresignTTL)
	assert.False(t, cfg.StorageEnabled())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
server:
  port: 8080
  allowed_origins: ["https://app.example.com"]
database:
  url: postgres://localhost/invoices
auth:
  jwt_secret: file-secret
  token_lifetime: 48h
ai:
  model: gemini-pro
  insights_ttl: 5m
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "postgres://localhost/invoices", cfg.Database.URL)
	assert.Equal(t, 48*time.Hour, cfg.Auth.TokenLifetime)
	assert.Equal(t, 5*time.Minute, cfg.AI.InsightsTTL)
	assert.Equal(t, "gemini-pro", cfg.AI.Model)
	// untouched sections keep defaults
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_EnvWins(t *testing.T) {
	path := writeFile(t, "auth:\n  jwt_secret: file-secret\n")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("CORS_ORIGINS", "https://a.test, https://b.test")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Storage.UseSSL)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Server.AllowedOrigins)
}

func TestLoad_EnvConfigPath(t *testing.T) {
	path := writeFile(t, "log:\n  level: debug\n")
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "server: [unclosed"))
	assert.Error(t, err)

	t.Setenv("PORT", "not-a-port")
	_, err = Load(writeFile(t, ""))
	assert.Error(t, err)
}

func TestValidateServe(t *testing.T) {
	cfg := Default()
	assert.ErrorIs(t, cfg.ValidateServe(), ErrMissingSetting)

	cfg.Database.URL = "postgres://x"
	err := cfg.ValidateServe()
	assert.ErrorIs(t, err, ErrMissingSetting)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg.Auth.JWTSecret = "s"
	assert.NoError(t, cfg.ValidateServe())

	cfg.Server.APISunset = "next spring"
	assert.ErrorContains(t, cfg.ValidateServe(), "API_SUNSET")
}

func TestAPISunsetDate(t *testing.T) {
	cfg := Default()
	sunset, err := cfg.APISunsetDate()
	require.NoError(t, err)
	assert.Nil(t, sunset)

	t.Setenv("API_SUNSET", "2027-01-31")
	t.Setenv("API_MESSAGE", "Moving to v2")
	t.Chdir(t.TempDir())
	t.Setenv(EnvConfigPath, "")
	cfg, err = Load("")
	require.NoError(t, err)

	sunset, err = cfg.APISunsetDate()
	require.NoError(t, err)
	require.NotNil(t, sunset)
	assert.Equal(t, time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC), *sunset)
	assert.Equal(t, "Moving to v2", cfg.Server.APIMessage)
}
