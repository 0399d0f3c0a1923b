package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.ListenAddr)
	require.Equal(t, "http://localhost:8180", cfg.AuthBaseURL)
	require.Equal(t, 5*time.Second, cfg.AuthTimeout)
	require.True(t, cfg.SeedEnabled)
	require.Equal(t, 10, cfg.SeedClients)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"listen_addr: \":9090\"\nauth_timeout: 2s\nseed_clients: 3\n",
	), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.ListenAddr)
	require.Equal(t, 2*time.Second, cfg.AuthTimeout)
	require.Equal(t, 3, cfg.SeedClients)
	// Untouched keys keep their defaults.
	require.Equal(t, "http://localhost:8180", cfg.AuthBaseURL)
}

func TestLoad_EnvironmentWinsOverYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: \":9090\"\n"), 0o600))

	t.Setenv("LISTEN_ADDR", ":7070")
	t.Setenv("SEED_ENABLED", "false")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":7070", cfg.ListenAddr)
	require.False(t, cfg.SeedEnabled)
}

func TestLoad_Validation(t *testing.T) {
	t.Setenv("AUTH_TIMEOUT", "-1s")
	_, err := Load("")
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
