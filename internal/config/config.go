// config.go - Configuration for the verification tools.
//
// Values come from, in increasing priority: built-in defaults, an optional
// config file (any format viper understands), and YCASH_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"ycashcore/internal/consensus"
)

// EnvPrefix is prepended to every environment variable, e.g. YCASH_NETWORK.
const EnvPrefix = "YCASH"

const (
	NetworkKey        = "network"
	LogLevelKey       = "log_level"
	LogFileKey        = "log_file"
	SpendVKPathKey    = "spend_vk_path"
	OutputVKPathKey   = "output_vk_path"
	MaxConcurrencyKey = "max_concurrency"
	MetricsKey        = "metrics"
)

// Config represents the application configuration
type Config struct {
	// Consensus
	Network string `mapstructure:"network"`

	// Logging
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	// Verifying keys
	SpendVKPath  string `mapstructure:"spend_vk_path"`
	OutputVKPath string `mapstructure:"output_vk_path"`

	// Performance
	MaxConcurrency int `mapstructure:"max_concurrency"`

	Metrics bool `mapstructure:"metrics"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Network:        consensus.MainNet.String(),
		LogLevel:       zerolog.InfoLevel.String(),
		SpendVKPath:    filepath.Join("keys", "spend.vk"),
		OutputVKPath:   filepath.Join("keys", "output.vk"),
		MaxConcurrency: 4,
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault(NetworkKey, d.Network)
	v.SetDefault(LogLevelKey, d.LogLevel)
	v.SetDefault(LogFileKey, d.LogFile)
	v.SetDefault(SpendVKPathKey, d.SpendVKPath)
	v.SetDefault(OutputVKPathKey, d.OutputVKPath)
	v.SetDefault(MaxConcurrencyKey, d.MaxConcurrency)
	v.SetDefault(MetricsKey, d.Metrics)
	return v
}

// Load reads the configuration. An empty path skips the config file; a
// missing file is an error.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes c to path. The format follows the file extension.
func Save(c *Config, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	v := viper.New()
	v.Set(NetworkKey, c.Network)
	v.Set(LogLevelKey, c.LogLevel)
	v.Set(LogFileKey, c.LogFile)
	v.Set(SpendVKPathKey, c.SpendVKPath)
	v.Set(OutputVKPathKey, c.OutputVKPath)
	v.Set(MaxConcurrencyKey, c.MaxConcurrency)
	v.Set(MetricsKey, c.Metrics)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := consensus.ParseNetwork(c.Network); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	if c.MaxConcurrency <= 0 {
		return errors.New("max_concurrency must be positive")
	}
	return nil
}

// Params returns the configured network. Call it on a validated config.
func (c *Config) Params() consensus.Network {
	n, err := consensus.ParseNetwork(c.Network)
	if err != nil {
		return consensus.MainNet
	}
	return n
}
