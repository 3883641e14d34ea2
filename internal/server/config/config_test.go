package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{orig[0]}, args...)
	t.Cleanup(func() { os.Args = orig })
}

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	assert.Equal(t, 24*time.Hour, cfg.SessionValidity)
	assert.Equal(t, int64(500), cfg.MaxTokensPerUser)
	assert.Empty(t, cfg.RedisAddr, "cache is off by default")
	assert.Empty(t, cfg.SMTPAddr, "mail defaults to the log notifier")
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	withArgs(t)
	t.Setenv("ENDPOINT_ADDR_HTTP", ":9090")
	t.Setenv("MAX_TOKENS_PER_USER", "10")
	t.Setenv("SESSION_VALIDITY", "1h")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.EndpointAddrHTTP)
	assert.Equal(t, int64(10), cfg.MaxTokensPerUser)
	assert.Equal(t, time.Hour, cfg.SessionValidity)
	// Untouched fields keep their defaults.
	assert.Equal(t, "secretKey", cfg.SessionSecret)
}

func TestLoadConfig_FlagOverride(t *testing.T) {
	withArgs(t, "-a", ":7070", "-s", "flag-secret", "-v", "2h", "-m", "42")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.EndpointAddrHTTP)
	assert.Equal(t, "flag-secret", cfg.SessionSecret)
	assert.Equal(t, 2*time.Hour, cfg.SessionValidity)
	assert.Equal(t, int64(42), cfg.MaxTokensPerUser)
}

func TestLoadConfig_FlagsBeatEnv(t *testing.T) {
	withArgs(t, "-a", ":7070")
	t.Setenv("ENDPOINT_ADDR_HTTP", ":9090")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.EndpointAddrHTTP)
}
