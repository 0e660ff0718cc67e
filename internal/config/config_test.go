package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	want := Default()
	assert.Equal(t, want.Width, cfg.Width)
	assert.Equal(t, want.Height, cfg.Height)
	assert.Equal(t, "public", cfg.AssetRoot)
	assert.Equal(t, "127.0.0.1:8089", cfg.Listen)
	assert.Equal(t, 0, cfg.Workers)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devlog2video.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: 720\nheight: 1280\nasset_root: assets\nshow_stats: true\n"), 0644))

	t.Setenv("DEVLOG2VIDEO_ASSET_ROOT", "/srv/static")
	t.Setenv("DEVLOG2VIDEO_WORKERS", "3")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 720, cfg.Width)
	assert.Equal(t, 1280, cfg.Height)
	assert.True(t, cfg.ShowStats)
	assert.Equal(t, "/srv/static", cfg.AssetRoot)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Width = 0
	cfg.Workers = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "canvas")
	assert.Contains(t, err.Error(), "workers")
}
