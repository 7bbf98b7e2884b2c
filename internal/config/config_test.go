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

	assert.Equal(t, DefaultOutputDir(), cfg.OutputDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogJSON)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ENDPOINT_OUTPUT_DIR", `D:\InventoryDrops`)
	t.Setenv("ENDPOINT_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, `D:\InventoryDrops`, cfg.OutputDir)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.yaml")
	content := "output_dir: /srv/reports\nlog_json: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/reports", cfg.OutputDir)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadExplicitConfigFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "no-such-file.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestDefaultOutputDirNotEmpty(t *testing.T) {
	assert.NotEmpty(t, DefaultOutputDir())
}
