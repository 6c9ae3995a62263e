package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Log.Colored)
	assert.Equal(t, DefaultTimeLayout, cfg.Log.TimeLayout)
	assert.Equal(t, 4, cfg.Compute.Workers)

	kind, file, err := cfg.Data.StoreLocation()
	require.NoError(t, err)
	assert.Equal(t, StoreNone, kind)
	assert.Empty(t, file)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("TASDK_LOG_LEVEL", "debug")
	t.Setenv("TASDK_COMPUTE_WORKERS", "8")
	t.Setenv("TASDK_DATA_STORE", "bunt:bars.db")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Compute.Workers)

	kind, file, err := cfg.Data.StoreLocation()
	require.NoError(t, err)
	assert.Equal(t, StoreBunt, kind)
	assert.Equal(t, "bars.db", file)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasdk.yaml")
	content := "log:\n  json: true\ndata:\n  timeframe: 4h\n  store: sqlite:bars.sqlite\ncompute:\n  max_bars: 500\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, 500, cfg.Compute.MaxBars)

	window, err := cfg.Data.Window()
	require.NoError(t, err)
	assert.Equal(t, "4h0m0s", window.String())
}

func TestLoad_InvalidStore(t *testing.T) {
	v := New()
	v.Set("data.store", "redis:localhost")
	_, err := Load(v, "")
	assert.ErrorIs(t, err, ErrInvalidStore)

	_, err = Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
