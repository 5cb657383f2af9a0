package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	require.Equal(t, "local", cfg.Env)
	require.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	require.Equal(t, 30*time.Second, cfg.API.Timeout)
	require.Equal(t, "drop-agent.db", cfg.StoragePath)
	require.Empty(t, cfg.Runtime)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "console", cfg.Log.Format)
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
env: prod
api:
  base_url: https://api.dropwire.example
  timeout: 5s
storage_path: /var/lib/drop-agent/state.db
runtime: web
log:
  level: debug
  format: json
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "https://api.dropwire.example", cfg.API.BaseURL)
	require.Equal(t, 5*time.Second, cfg.API.Timeout)
	require.Equal(t, "/var/lib/drop-agent/state.db", cfg.StoragePath)
	require.Equal(t, "web", cfg.Runtime)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("DROP_API_BASE_URL", "https://staging.dropwire.example")
	t.Setenv("DROP_RUNTIME", "native")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, "https://staging.dropwire.example", cfg.API.BaseURL)
	require.Equal(t, "native", cfg.Runtime)
}
