package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all client configuration
type Config struct {
	// Backend
	APIBaseURL string `yaml:"api_base_url" validate:"required,url"`

	// Environment
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// Session storage
	SessionFile string `yaml:"session_file"`

	// Quiz behaviour
	FlashDelay time.Duration `yaml:"flash_delay"`

	// Optional debug metrics listener ("" disables it)
	MetricsAddr string `yaml:"metrics_addr"`
}

var validate = validator.New()

// Load reads configuration from environment variables, then overlays the
// optional YAML file named by MIRROR_CONFIG_FILE (file values win only
// for fields the file sets).
func Load() (*Config, error) {
	cfg := &Config{
		APIBaseURL:  getEnv("MIRROR_API_URL", "http://localhost:8000"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		SessionFile: getEnv("MIRROR_SESSION_FILE", ""),
		FlashDelay:  time.Duration(getEnvInt("MIRROR_FLASH_DELAY_MS", 600)) * time.Millisecond,
		MetricsAddr: getEnv("MIRROR_METRICS_ADDR", ""),
	}

	if path := os.Getenv("MIRROR_CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyFile overlays values from a YAML file onto the config.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.FlashDelay < 0 {
		return fmt.Errorf("flash_delay must not be negative")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
