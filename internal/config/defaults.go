// Package config provides default configuration values for snipp.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Default configuration constants
const (
	// DefaultHistoryMaxEntries is the retention cap of the history store.
	DefaultHistoryMaxEntries = 50
	// DefaultThumbnailMaxSize is the longest thumbnail side in pixels.
	DefaultThumbnailMaxSize = 64

	// Hotkey defaults (macOS conventions)
	defaultCaptureHotkey     = "Cmd+Shift+2"
	defaultFullscreenHotkey  = "Cmd+Shift+3"
	defaultPreferencesHotkey = "Cmd+Comma"
)

// getDefaultSaveLocation returns the default save directory, falls back to
// empty string on error (filled in again at load time).
func getDefaultSaveLocation() string {
	saveDir, err := GetDefaultSaveDir()
	if err != nil {
		return ""
	}
	return saveDir
}

// DefaultConfig returns the default configuration values for snipp.
func DefaultConfig() *Config {
	return &Config{
		Capture: CaptureConfig{
			DefaultSaveLocation:  getDefaultSaveLocation(),
			AutoCopyAfterCapture: false,
			AutoCopyAfterEdit:    true,
		},
		Hotkeys: HotkeysConfig{
			Capture:     defaultCaptureHotkey,
			Fullscreen:  defaultFullscreenHotkey,
			Preferences: defaultPreferencesHotkey,
		},
		History: HistoryConfig{
			MaxEntries: DefaultHistoryMaxEntries,
		},
		Thumbnails: ThumbnailsConfig{
			MaxSize: DefaultThumbnailMaxSize,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	// Capture defaults
	m.viper.SetDefault("capture.default_save_location", defaults.Capture.DefaultSaveLocation)
	m.viper.SetDefault("capture.auto_copy_after_capture", defaults.Capture.AutoCopyAfterCapture)
	m.viper.SetDefault("capture.auto_copy_after_edit", defaults.Capture.AutoCopyAfterEdit)

	// Hotkey defaults
	m.viper.SetDefault("hotkeys.capture", defaults.Hotkeys.Capture)
	m.viper.SetDefault("hotkeys.fullscreen", defaults.Hotkeys.Fullscreen)
	m.viper.SetDefault("hotkeys.preferences", defaults.Hotkeys.Preferences)

	// History defaults
	m.viper.SetDefault("history.max_entries", defaults.History.MaxEntries)

	// Thumbnail defaults
	m.viper.SetDefault("thumbnails.max_size", defaults.Thumbnails.MaxSize)

	// Logging defaults
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
}

// createDefaultConfig creates a default configuration file.
func (m *Manager) createDefaultConfig() error {
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}

	defaultConfig := DefaultConfig()

	configData, err := json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	if err := os.WriteFile(configFile, configData, filePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// Generate the JSON schema next to the config so editors can validate it.
	if err := GenerateSchemaFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to generate config schema: %v\n", err)
	}

	return nil
}

// persistLocked writes the given configuration to disk. Caller holds m.mu.
func (m *Manager) persistLocked(config *Config) error {
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}

	configData, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, configData, filePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
