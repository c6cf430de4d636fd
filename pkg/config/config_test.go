package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1.0", cfg.API.Prefix)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 2, cfg.API.MaxRetries)
	assert.Equal(t, 24*time.Hour, cfg.Session.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.RefreshTTL)
	assert.Equal(t, 8943, cfg.Payment.RedirectPort)
	assert.Equal(t, "/payment/redirect", cfg.Payment.RedirectPath)
	assert.Equal(t, 10*time.Minute, cfg.Payment.RedirectTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://staging.example.com/")
	t.Setenv("ACCESS_TOKEN_TTL", "1h")
	t.Setenv("PAYMENT_REDIRECT_PORT", "9001")

	cfg, err := Load()
	require.NoError(t, err)

	// Trailing slash is stripped so path joins stay clean.
	assert.Equal(t, "https://staging.example.com", cfg.API.BaseURL)
	assert.Equal(t, time.Hour, cfg.Session.AccessTTL)
	assert.Equal(t, 9001, cfg.Payment.RedirectPort)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 5*time.Second, parseDuration("", 5*time.Second))
	assert.Equal(t, 5*time.Second, parseDuration("garbage", 5*time.Second))
	assert.Equal(t, 2*time.Minute, parseDuration("2m", 5*time.Second))
}
