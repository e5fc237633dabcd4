package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default values
const (
	// Cache defaults
	DefaultCachePolicy = "forever"

	// HTTP defaults
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"

	// EnvPrefix prefixes environment overrides, as in STYLEKIT_OFFLINE
	EnvPrefix = "STYLEKIT"

	appName = "stylekit"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(home, "."+appName)
}

// CacheDir returns the default cache root, under the XDG cache home
func CacheDir() string {
	return filepath.Join(xdg.CacheHome, appName)
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Offline: false,
		Cache: CacheConfig{
			Policy:    DefaultCachePolicy,
			Directory: CacheDir(),
		},
		HTTP: HTTPConfig{
			Timeout:    DefaultTimeout,
			MaxRetries: DefaultMaxRetries,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
