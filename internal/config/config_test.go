package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 10, cfg.UI.PageSize)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout())
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: http://proxy.local/api\n  timeout_secs: 20\nui:\n  search_limit: 25\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://proxy.local/api", cfg.API.BaseURL)
	assert.Equal(t, 20*time.Second, cfg.API.Timeout())
	assert.Equal(t, 10, cfg.UI.PageSize)
	assert.Equal(t, 25, cfg.UI.SearchLimit)
	assert.NotEmpty(t, cfg.Log.File)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ui:\n  page_size: 9000\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: chatty\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("api: [\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(envAPIURL, "http://10.0.0.5:8000")
	t.Setenv(envPageSize, "25")
	t.Setenv(envLogFile, "/tmp/hl.log")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:8000", cfg.API.BaseURL)
	assert.Equal(t, 25, cfg.UI.PageSize)
	assert.Equal(t, "/tmp/hl.log", cfg.Log.File)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.UI.PageSize = 50
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, loaded.UI.PageSize)
}

func TestLoadDefaultWritesUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, path, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "highlights", "config.yaml"), path)
	assert.FileExists(t, path)
	assert.Equal(t, 10, cfg.UI.PageSize)
}
