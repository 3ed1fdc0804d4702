package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{configPathEnv, apiURLEnv, apiTimeoutEnv, listenAddrEnv, ginModeEnv, logLevelEnv, logFormatEnv} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, "http://localhost:8000", cfg.Predictor.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Predictor.Timeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowOrigins)
	assert.Equal(t, 30*time.Minute, cfg.Sessions.TTL)
	assert.Equal(t, 10000, cfg.Sessions.MaxSessions)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(apiURLEnv, "http://classifier:9000")
	t.Setenv(apiTimeoutEnv, "5s")
	t.Setenv(listenAddrEnv, "127.0.0.1:3000")
	t.Setenv(logLevelEnv, "debug")

	cfg := Load()

	assert.Equal(t, "http://classifier:9000", cfg.Predictor.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Predictor.Timeout)
	assert.Equal(t, "127.0.0.1:3000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadInvalidTimeoutKeepsDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv(apiTimeoutEnv, "soon")

	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.Predictor.Timeout)
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
predictor:
  baseUrl: http://file-host:8000
  timeout: 12s
server:
  allowOrigins: ["http://localhost:5173"]
sessions:
  ttl: 5m
  maxSessions: 50
logging:
  format: json
`)
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	t.Setenv(configPathEnv, path)
	t.Setenv(apiURLEnv, "http://env-host:8000")

	cfg := Load()

	assert.Equal(t, "http://env-host:8000", cfg.Predictor.BaseURL, "env wins over file")
	assert.Equal(t, 12*time.Second, cfg.Predictor.Timeout)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowOrigins)
	assert.Equal(t, 5*time.Minute, cfg.Sessions.TTL)
	assert.Equal(t, time.Minute, cfg.Sessions.SweepInterval)
	assert.Equal(t, 50, cfg.Sessions.MaxSessions)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadBrokenFileFallsBack(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("predictor: [oops"), 0o600))
	t.Setenv(configPathEnv, path)

	cfg := Load()

	assert.Equal(t, defaultConfig(), cfg)
}
