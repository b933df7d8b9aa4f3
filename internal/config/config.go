// Package config loads tabcat defaults from a YAML file, a .env file and
// TABCAT_* environment variables.
//
// Precedence, lowest first: built-in defaults, the YAML file, the
// environment (including variables loaded from the .env file). Command
// line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "TABCAT"

// Config holds the defaults for a tabcat run.
type Config struct {
	Delimiter string `mapstructure:"delimiter" validate:"len=1"`
	Format    string `mapstructure:"format" validate:"oneof=jsonl json csv table template parquet"`
	LogLevel  string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"oneof=console json"`
	Limit     int    `mapstructure:"limit" validate:"gte=0"`
	TrimSpace bool   `mapstructure:"trim_space"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Delimiter: ",",
		Format:    "jsonl",
		LogLevel:  "warn",
		LogFormat: "console",
	}
}

// Delim returns the delimiter as a rune.
func (c *Config) Delim() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return ','
}

// LoaderConfig holds optional file overrides.
type LoaderConfig struct {
	ConfigFile string // YAML config file path (optional)
	EnvFile    string // .env file path (optional)
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads and validates the configuration.
//
// Without WithEnvFile a ".env" in the working directory is loaded when it
// exists. Explicitly named files must exist.
func Load(opts ...LoaderOption) (*Config, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}

	v := viper.New()
	def := Default()
	v.SetDefault("delimiter", def.Delimiter)
	v.SetDefault("format", def.Format)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
	v.SetDefault("limit", def.Limit)
	v.SetDefault("trim_space", def.TrimSpace)

	// 1. Load YAML config first (base configuration)
	if lc.ConfigFile != "" {
		v.SetConfigFile(lc.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", lc.ConfigFile, err)
		}
	}

	// 2. Load .env file into the process environment
	envFile := lc.EnvFile
	if envFile == "" {
		if _, err := os.Stat(".env"); err == nil {
			envFile = ".env"
		}
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	// 3. Environment variables override the file
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("invalid config: %s %q fails %s=%s", fe.Field(), fmt.Sprint(fe.Value()), fe.Tag(), fe.Param())
	}
	return fmt.Errorf("invalid config: %w", err)
}
