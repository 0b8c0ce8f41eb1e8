// Package config provides configuration management for snipp with Viper integration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// File permission constants
const (
	dirPerm  = 0755 // Standard directory permissions (rwxr-xr-x)
	filePerm = 0644 // Standard file permissions (rw-r--r--)
)

// Config represents the complete configuration for snipp.
type Config struct {
	Capture    CaptureConfig    `mapstructure:"capture" yaml:"capture" json:"capture"`
	Hotkeys    HotkeysConfig    `mapstructure:"hotkeys" yaml:"hotkeys" json:"hotkeys"`
	History    HistoryConfig    `mapstructure:"history" yaml:"history" json:"history"`
	Thumbnails ThumbnailsConfig `mapstructure:"thumbnails" yaml:"thumbnails" json:"thumbnails"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging" json:"logging"`
}

// CaptureConfig holds capture and disposition preferences.
type CaptureConfig struct {
	// DefaultSaveLocation is the directory screenshots are saved into.
	DefaultSaveLocation string `mapstructure:"default_save_location" yaml:"default_save_location" json:"default_save_location"`
	// AutoCopyAfterCapture copies every capture to the clipboard immediately.
	AutoCopyAfterCapture bool `mapstructure:"auto_copy_after_capture" yaml:"auto_copy_after_capture" json:"auto_copy_after_capture"`
	// AutoCopyAfterEdit copies edited screenshots to the clipboard on save.
	AutoCopyAfterEdit bool `mapstructure:"auto_copy_after_edit" yaml:"auto_copy_after_edit" json:"auto_copy_after_edit"`
}

// HotkeysConfig holds global hotkey bindings.
// Registration happens in the UI shell; this subsystem only stores them.
type HotkeysConfig struct {
	Capture     string `mapstructure:"capture" yaml:"capture" json:"capture"`
	Fullscreen  string `mapstructure:"fullscreen" yaml:"fullscreen" json:"fullscreen"`
	Preferences string `mapstructure:"preferences" yaml:"preferences" json:"preferences"`
}

// HistoryConfig holds history-related configuration.
type HistoryConfig struct {
	MaxEntries int `mapstructure:"max_entries" yaml:"max_entries" json:"max_entries"`
}

// ThumbnailsConfig holds thumbnail generation configuration.
type ThumbnailsConfig struct {
	// MaxSize is the longest side of generated thumbnails, in pixels.
	MaxSize int `mapstructure:"max_size" yaml:"max_size" json:"max_size"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	v := viper.New()

	// Configure Viper - supports yaml, json, toml automatically
	v.SetConfigName("config") // Will find config.yaml, config.json, config.toml, etc.

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // Current directory for development

	// Set up environment variable support
	v.SetEnvPrefix("SNIPP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific environment variables
	bindings := map[string]string{
		"capture.default_save_location":   "CAPTURE_SAVE_LOCATION",
		"capture.auto_copy_after_capture": "CAPTURE_AUTO_COPY",
		"capture.auto_copy_after_edit":    "CAPTURE_AUTO_COPY_EDIT",
		"hotkeys.capture":                 "HOTKEY_CAPTURE",
		"hotkeys.fullscreen":              "HOTKEY_FULLSCREEN",
		"hotkeys.preferences":             "HOTKEY_PREFERENCES",
		"history.max_entries":             "HISTORY_MAX_ENTRIES",
		"thumbnails.max_size":             "THUMBNAILS_MAX_SIZE",
		"logging.level":                   "LOGGING_LEVEL",
		"logging.format":                  "LOGGING_FORMAT",
	}

	for key, env := range bindings {
		if err := v.BindEnv(key, "SNIPP_"+env); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable %s: %w", env, err)
		}
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Ensure directories exist
	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	// Set defaults
	m.setDefaults()

	// Read config file if it exists
	if err := m.viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create default one
			if err := m.createDefaultConfig(); err != nil {
				return fmt.Errorf("failed to create default config: %w", err)
			}
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into config struct
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Fill in the save location when the file leaves it empty
	if config.Capture.DefaultSaveLocation == "" {
		saveDir, err := GetDefaultSaveDir()
		if err != nil {
			return fmt.Errorf("failed to get default save directory: %w", err)
		}
		config.Capture.DefaultSaveLocation = saveDir
	}

	m.config = config
	return nil
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Return a copy to prevent external modification
	configCopy := *m.config
	return &configCopy
}

// Update replaces the current configuration and persists it.
func (m *Manager) Update(config *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.config = config
	return m.persistLocked(config)
}

// Watch starts watching the config file for changes and reloads automatically.
func (m *Manager) Watch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return nil // Already watching
	}

	m.viper.WatchConfig()
	m.viper.OnConfigChange(func(_ fsnotify.Event) {
		// Reload config
		if err := m.reload(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to reload config: %v\n", err)
			return
		}

		// Notify callbacks
		m.mu.RLock()
		config := m.config
		callbacks := make([]func(*Config), len(m.callbacks))
		copy(callbacks, m.callbacks)
		m.mu.RUnlock()

		for _, callback := range callbacks {
			callback(config)
		}
	})

	m.watching = true
	return nil
}

// OnConfigChange registers a callback function to be called when config changes.
func (m *Manager) OnConfigChange(callback func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
}

// reload reloads the configuration (internal method).
func (m *Manager) reload() error {
	if err := m.viper.ReadInConfig(); err != nil {
		return err
	}

	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return err
	}

	if config.Capture.DefaultSaveLocation == "" {
		saveDir, err := GetDefaultSaveDir()
		if err != nil {
			return fmt.Errorf("failed to get default save directory: %w", err)
		}
		config.Capture.DefaultSaveLocation = saveDir
	}

	m.mu.Lock()
	m.config = config
	m.mu.Unlock()
	return nil
}

// Global manager instance
var (
	globalManager *Manager
	managerOnce   sync.Once
	managerErr    error
)

// Init initializes the global configuration manager and loads the config.
func Init() error {
	managerOnce.Do(func() {
		globalManager, managerErr = NewManager()
		if managerErr != nil {
			return
		}
		managerErr = globalManager.Load()
	})
	return managerErr
}

// Get returns the global configuration. Init must have been called first;
// otherwise defaults are returned.
func Get() *Config {
	if globalManager == nil || globalManager.config == nil {
		return DefaultConfig()
	}
	return globalManager.Get()
}

// GetManager returns the global configuration manager, initializing if needed.
func GetManager() (*Manager, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	return globalManager, nil
}
