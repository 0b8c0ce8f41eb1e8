package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestEnv(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	return home
}

func TestManager_Load_CreatesDefaultConfig(t *testing.T) {
	home := setupTestEnv(t)

	manager, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, manager.Load())

	configFile := filepath.Join(home, ".config", "snipp", "config.json")
	data, err := os.ReadFile(configFile)
	require.NoError(t, err)

	var onDisk Config
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, "Cmd+Shift+2", onDisk.Hotkeys.Capture)
	assert.Equal(t, DefaultHistoryMaxEntries, onDisk.History.MaxEntries)

	cfg := manager.Get()
	assert.Equal(t, filepath.Join(home, "Desktop"), cfg.Capture.DefaultSaveLocation)
	assert.Equal(t, DefaultThumbnailMaxSize, cfg.Thumbnails.MaxSize)
	assert.True(t, cfg.Capture.AutoCopyAfterEdit)
	assert.False(t, cfg.Capture.AutoCopyAfterCapture)
}

func TestManager_Load_ReadsExistingConfig(t *testing.T) {
	home := setupTestEnv(t)

	configDir := filepath.Join(home, ".config", "snipp")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	existing := `{
  "capture": {
    "default_save_location": "/tmp/shots",
    "auto_copy_after_capture": true
  },
  "thumbnails": {
    "max_size": 128
  }
}`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.json"), []byte(existing), 0644))

	manager, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, manager.Load())

	cfg := manager.Get()
	assert.Equal(t, "/tmp/shots", cfg.Capture.DefaultSaveLocation)
	assert.True(t, cfg.Capture.AutoCopyAfterCapture)
	assert.Equal(t, 128, cfg.Thumbnails.MaxSize)

	// Unspecified fields keep their defaults.
	assert.Equal(t, "Cmd+Comma", cfg.Hotkeys.Preferences)
	assert.Equal(t, DefaultHistoryMaxEntries, cfg.History.MaxEntries)
}

func TestManager_Update_Persists(t *testing.T) {
	home := setupTestEnv(t)

	manager, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, manager.Load())

	cfg := manager.Get()
	cfg.Capture.DefaultSaveLocation = "/somewhere/else"
	require.NoError(t, manager.Update(cfg))

	assert.Equal(t, "/somewhere/else", manager.Get().Capture.DefaultSaveLocation)

	data, err := os.ReadFile(filepath.Join(home, ".config", "snipp", "config.json"))
	require.NoError(t, err)

	var onDisk Config
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, "/somewhere/else", onDisk.Capture.DefaultSaveLocation)
}

func TestManager_Get_ReturnsCopy(t *testing.T) {
	setupTestEnv(t)

	manager, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, manager.Load())

	cfg := manager.Get()
	cfg.Capture.DefaultSaveLocation = "/mutated"

	assert.NotEqual(t, "/mutated", manager.Get().Capture.DefaultSaveLocation)
}

func TestManager_EnvOverride(t *testing.T) {
	setupTestEnv(t)
	t.Setenv("SNIPP_CAPTURE_SAVE_LOCATION", "/env/override")

	manager, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, manager.Load())

	assert.Equal(t, "/env/override", manager.Get().Capture.DefaultSaveLocation)
}
