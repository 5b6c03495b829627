package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "ws://localhost:8081/ws", cfg.ServerURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, time.Hour, cfg.ReconnectTTL)
	assert.Equal(t, 50*time.Millisecond, cfg.TickInterval)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "server_url: wss://play.example.com/ws\nname: ana\nlog_format: json\nsend_burst: 10\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "wss://play.example.com/ws", cfg.ServerURL)
	assert.Equal(t, "ana", cfg.Name)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10, cfg.SendBurst)
	// untouched keys keep their defaults
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0o600))
	t.Setenv("NIGHTFALL_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("bad url scheme", func(t *testing.T) {
		t.Setenv("NIGHTFALL_SERVER_URL", "http://example.com")
		_, err := Load("")
		assert.Error(t, err)
	})
	t.Run("bad log format", func(t *testing.T) {
		t.Setenv("NIGHTFALL_LOG_FORMAT", "xml")
		_, err := Load("")
		assert.Error(t, err)
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
