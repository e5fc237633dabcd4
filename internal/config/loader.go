package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load loads configuration from file, environment, and defaults
// Uses the global viper instance to access CLI flag bindings
func Load() (*Config, error) {
	return load(viper.GetViper(), "")
}

// LoadFile loads configuration from an explicit file instead of the
// search path. Environment overrides still apply.
func LoadFile(path string) (*Config, error) {
	return load(viper.GetViper(), path)
}

// LoadWithViper loads configuration into a fresh viper instance and
// returns it, so callers can merge flags later
func LoadWithViper(path string) (*Config, *viper.Viper, error) {
	v := viper.New()
	cfg, err := load(v, path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

func load(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// Environment variables (STYLEKIT_*)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("offline", false)

	// Cache defaults
	v.SetDefault("cache.policy", DefaultCachePolicy)
	v.SetDefault("cache.directory", CacheDir())

	// HTTP defaults
	v.SetDefault("http.timeout", DefaultTimeout)
	v.SetDefault("http.max_retries", DefaultMaxRetries)
	v.SetDefault("http.user_agent", "")

	v.SetDefault("github.token", "")
	v.SetDefault("files.base_dir", "")

	// Logging defaults
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}

// Save writes cfg as YAML to path, creating parent directories
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	return os.MkdirAll(ConfigDir(), 0755)
}
