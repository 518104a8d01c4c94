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

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Monitor.Paths)
	assert.Equal(t, []string{".js", ".html", ".htm", ".py", ".ps1"}, cfg.Monitor.Extensions)
	assert.Equal(t, time.Second, cfg.Monitor.DebounceWindow)
	assert.Equal(t, 20.0, cfg.Monitor.MaxEventsPerSec)
	assert.Equal(t, 256, cfg.Monitor.QueueSize)
	assert.Equal(t, 64, cfg.Monitor.SubscriberQueue)
	assert.Equal(t, 200, cfg.Analysis.MaxMatchLength)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sentinel-scan.yaml")
	yaml := `
log_level: debug
monitor:
  paths:
    - /srv/uploads
  extensions: [".js", ".ps1"]
  debounce_window: 2s
  queue_size: 32
analysis:
  max_match_length: 100
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"/srv/uploads"}, cfg.Monitor.Paths)
	assert.Equal(t, []string{".js", ".ps1"}, cfg.Monitor.Extensions)
	assert.Equal(t, 2*time.Second, cfg.Monitor.DebounceWindow)
	assert.Equal(t, 32, cfg.Monitor.QueueSize)
	assert.Equal(t, 100, cfg.Analysis.MaxMatchLength)
	// Untouched keys keep their defaults.
	assert.Equal(t, 20.0, cfg.Monitor.MaxEventsPerSec)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SENTINEL_LOG_LEVEL", "warn")
	t.Setenv("SENTINEL_MONITOR_QUEUE_SIZE", "512")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 512, cfg.Monitor.QueueSize)
}
