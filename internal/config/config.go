package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/quantmind-br/stylekit/internal/cache"
	"github.com/quantmind-br/stylekit/internal/domain"
)

// Config represents the application configuration
type Config struct {
	Offline bool          `mapstructure:"offline" yaml:"offline"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	HTTP    HTTPConfig    `mapstructure:"http" yaml:"http"`
	GitHub  GitHubConfig  `mapstructure:"github" yaml:"github"`
	Files   FilesConfig   `mapstructure:"files" yaml:"files"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// CacheConfig contains cache settings
type CacheConfig struct {
	// Policy is "forever", "never", "<n> <unit>" or a Go duration
	Policy    string `mapstructure:"policy" yaml:"policy" validate:"cachepolicy"`
	Directory string `mapstructure:"directory" yaml:"directory" validate:"required"`
}

// HTTPConfig contains settings for network fetches
type HTTPConfig struct {
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gte=1s"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries" validate:"gte=0,lte=10"`
	UserAgent  string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// GitHubConfig contains GitHub settings
type GitHubConfig struct {
	// Token is used for gh:// styles that carry none; GITHUB_TOKEN is the fallback
	Token string `mapstructure:"token" yaml:"token"`
}

// FilesConfig contains local style settings
type FilesConfig struct {
	BaseDir string `mapstructure:"base_dir" yaml:"base_dir"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn warning error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=pretty json"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("cachepolicy", func(fl validator.FieldLevel) bool {
		return cache.ParsePolicy(fl.Field().String()).Valid
	})
	return v
}

// Validate repairs missing values with defaults, then checks the rest
func (c *Config) Validate() error {
	if c.Cache.Directory == "" {
		c.Cache.Directory = CacheDir()
	}
	if c.HTTP.Timeout <= 0 {
		c.HTTP.Timeout = DefaultTimeout
	}
	if c.HTTP.MaxRetries < 0 {
		c.HTTP.MaxRetries = DefaultMaxRetries
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &domain.ValidationError{
				Field:   strings.TrimPrefix(fe.Namespace(), "Config."),
				Message: fmt.Sprintf("value %v fails %q", fe.Value(), fe.Tag()),
			}
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// CachePolicy returns the parsed cache policy
func (c *Config) CachePolicy() cache.Policy {
	return cache.ParsePolicy(c.Cache.Policy)
}
