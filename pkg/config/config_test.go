package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PRICE_BASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.CLI.BaseURL)
	assert.Equal(t, 30, cfg.CLI.RequestTimeout)
	assert.Equal(t, 100, cfg.CLI.FetchThrottle)
	assert.Equal(t, 5000, cfg.Stub.Port)

	path, err := ConfigPath()
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err, "default config file is written on first load")
}

func TestSaveAndReload(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PRICE_BASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	cfg.CLI.BaseURL = "http://tracker.local:8080"
	cfg.CLI.FetchThrottle = 250
	require.NoError(t, Save(cfg))

	reloaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://tracker.local:8080", reloaded.CLI.BaseURL)
	assert.Equal(t, 250, reloaded.CLI.FetchThrottle)
	// Untouched values keep their defaults.
	assert.Equal(t, 30, reloaded.CLI.RequestTimeout)
}

func TestEnvOverridesBaseURL(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PRICE_BASE_URL", "http://override:9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://override:9000", cfg.CLI.BaseURL)
}
