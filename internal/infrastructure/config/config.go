package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Target   TargetConfig
	Snapshot SnapshotConfig
	Sender   SenderConfig
	Log      LogConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// TargetConfig holds the target store connection settings
type TargetConfig struct {
	BaseURL        string `validate:"required,url"`
	ConsumerKey    string `validate:"required"`
	ConsumerSecret string `validate:"required"`
}

// SnapshotConfig holds the snapshot input settings
type SnapshotConfig struct {
	Path       string `validate:"required"`
	BundleDirs []string
}

// SenderConfig holds HTTP sender tuning
type SenderConfig struct {
	Timeout           time.Duration `validate:"gt=0"`
	MaxAttempts       int           `validate:"gte=1"`
	InitialInterval   time.Duration `validate:"gt=0"`
	MaxInterval       time.Duration `validate:"gt=0"`
	RequestsPerSecond float64       `validate:"gt=0"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with MIGRATOR_ prefix (e.g., MIGRATOR_TARGET_CONSUMER_SECRET)
// 2. config.toml
// 3. Built-in defaults
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/migrator")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("MIGRATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Target: TargetConfig{
			BaseURL:        v.GetString("target.base_url"),
			ConsumerKey:    v.GetString("target.consumer_key"),
			ConsumerSecret: v.GetString("target.consumer_secret"),
		},
		Snapshot: SnapshotConfig{
			Path:       v.GetString("snapshot.path"),
			BundleDirs: v.GetStringSlice("snapshot.bundle_dirs"),
		},
		Sender: SenderConfig{
			Timeout:           v.GetDuration("sender.timeout"),
			MaxAttempts:       v.GetInt("sender.max_attempts"),
			InitialInterval:   v.GetDuration("sender.initial_interval"),
			MaxInterval:       v.GetDuration("sender.max_interval"),
			RequestsPerSecond: v.GetFloat64("sender.requests_per_second"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "store-migrator"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Sender.Timeout == 0 {
		cfg.Sender.Timeout = 30 * time.Second
	}
	if cfg.Sender.MaxAttempts == 0 {
		cfg.Sender.MaxAttempts = 5
	}
	if cfg.Sender.InitialInterval == 0 {
		cfg.Sender.InitialInterval = time.Second
	}
	if cfg.Sender.MaxInterval == 0 {
		cfg.Sender.MaxInterval = 30 * time.Second
	}
	if cfg.Sender.RequestsPerSecond == 0 {
		cfg.Sender.RequestsPerSecond = 4
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			first := errs[0]
			return fmt.Errorf("config: field %s failed %q validation", strings.ToLower(first.Namespace()), first.Tag())
		}
		return fmt.Errorf("config: %w", err)
	}

	if c.Sender.InitialInterval > c.Sender.MaxInterval {
		return fmt.Errorf("sender.initial_interval (%s) cannot exceed sender.max_interval (%s)",
			c.Sender.InitialInterval, c.Sender.MaxInterval)
	}
	if !strings.HasPrefix(c.Target.BaseURL, "http://") && !strings.HasPrefix(c.Target.BaseURL, "https://") {
		return fmt.Errorf("target.base_url must start with http:// or https://")
	}
	return nil
}
