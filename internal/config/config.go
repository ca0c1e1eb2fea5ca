// Package config loads flux settings from ~/.flux/config.yaml, a .env file
// and FLUX_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable flux reads.
const EnvPrefix = "FLUX"

// Config represents the flux configuration.
type Config struct {
	DataDir     string           `mapstructure:"data_dir" yaml:"data_dir" validate:"required"`
	DBPath      string           `mapstructure:"db_path" yaml:"db_path" validate:"required"`
	LogLevel    string           `mapstructure:"log_level" yaml:"log_level" validate:"required,oneof=trace debug info warn error"`
	Environment string           `mapstructure:"environment" yaml:"environment" validate:"required,oneof=development staging production"`
	HTTP        HTTPConfig       `mapstructure:"http" yaml:"http"`
	Prediction  PredictionConfig `mapstructure:"prediction" yaml:"prediction"`
	Backup      BackupConfig     `mapstructure:"backup" yaml:"backup"`
}

// HTTPConfig configures `flux serve`.
type HTTPConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr" validate:"required,hostname_port"`
}

// PredictionConfig configures the prediction engine.
type PredictionConfig struct {
	FertileWindow string `mapstructure:"fertile_window" yaml:"fertile_window" validate:"oneof=fixed scaled"`
}

// BackupConfig configures `flux backup export`.
type BackupConfig struct {
	Compress bool `mapstructure:"compress" yaml:"compress"`
}

var validate = validator.New()

// DefaultDataDir returns ~/.flux.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".flux"), nil
}

// Load reads the configuration. An explicit path must exist; otherwise
// config.yaml in the data directory is used when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	dataDir, err := DefaultDataDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("data_dir", dataDir)
	v.SetDefault("db_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("environment", "development")
	v.SetDefault("http.addr", "localhost:7878")
	v.SetDefault("prediction.fertile_window", "fixed")
	v.SetDefault("backup.compress", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(v.GetString("data_dir"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "flux.db")
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// YAML renders cfg the way it would appear in config.yaml.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
