package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_NAME", "REDIS_HOST", "DIGEST_SEND_HOUR", "DIGEST_LINK_TTL", "EMAIL_API_KEY"} {
		t.Setenv(k, "")
	}

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 6, cfg.Digest.SendHour)
	assert.Equal(t, 7*24*time.Hour, cfg.Digest.LinkTTL)
	assert.Equal(t, 10*time.Second, cfg.Email.Timeout)
	assert.Empty(t, cfg.Database.DSN(), "no DB_NAME means no database")
	assert.Empty(t, cfg.Redis.Host)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_PASSWORD", "p")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "circles")
	t.Setenv("DIGEST_SEND_HOUR", "7")
	t.Setenv("RATE_WINDOW", "30s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.RateWindow)
	assert.Equal(t, 7, cfg.Digest.SendHour)
	assert.Equal(t, "postgres://u:p@db:5433/circles?sslmode=disable", cfg.Database.DSN())
}

func TestLoad_DotEnvFile(t *testing.T) {
	t.Setenv("EMAIL_FROM", "")
	os.Unsetenv("EMAIL_FROM")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("EMAIL_FROM=pastor@church.test\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pastor@church.test", cfg.Email.From)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("Fail: Bad duration", func(t *testing.T) {
		t.Setenv("DIGEST_LINK_TTL", "a week")
		_, err := Load("")
		assert.ErrorContains(t, err, "DIGEST_LINK_TTL")
	})

	t.Run("Fail: Hour out of range", func(t *testing.T) {
		t.Setenv("DIGEST_SEND_HOUR", "24")
		_, err := Load("")
		assert.ErrorContains(t, err, "DIGEST_SEND_HOUR")
	})

	t.Run("Success: Missing .env file is ignored", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.NoError(t, err)
	})
}
