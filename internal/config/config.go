// Package config loads and validates the application configuration from an
// optional YAML file overlaid with OPO_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

const envPrefix = "OPO"

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Source   SourceConfig   `yaml:"source"`
	Labels   LabelsConfig   `yaml:"labels"`
	Security SecurityConfig `yaml:"security"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `yaml:"port" envconfig:"SERVER_PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

// Address returns the host:port listen address.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"LOG_OUTPUT" default:"stdout" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"LOG_FILE_PATH" default:"logs/opotracker.log"`
}

// SourceConfig describes the upstream CSV dataset.
type SourceConfig struct {
	CSVURL       string        `yaml:"csv_url" envconfig:"SOURCE_CSV_URL" validate:"required,url"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" envconfig:"SOURCE_FETCH_TIMEOUT" default:"30s" validate:"min=1s"`
}

// LabelsConfig holds the provisional-result literals used in the source data.
type LabelsConfig struct {
	Pass string `yaml:"pass" envconfig:"LABEL_PASS" default:"APTO/A" validate:"required"`
	Fail string `yaml:"fail" envconfig:"LABEL_FAIL" default:"NO APTO/A" validate:"required"`
}

// SecurityConfig groups request-hardening settings.
type SecurityConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	RateLimit      int      `yaml:"rate_limit" envconfig:"RATE_LIMIT" default:"100" validate:"min=1"`
	RateBurst      int      `yaml:"rate_burst" envconfig:"RATE_BURST" default:"20" validate:"min=1"`
}

// Load builds the configuration in three steps: defaults and OPO_*
// environment variables via envconfig, then an optional YAML overlay from
// path (missing files are skipped), then validation. Values in the file win
// over defaults and environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks the configuration against its declared constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
