package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/carebridge/rosterguard/pkg/core/model"
)

// StorageConfig selects where rosters and reference data live.
type StorageConfig struct {
	Driver      string `yaml:"driver" validate:"required,oneof=json postgres"`
	DataDir     string `yaml:"dataDir,omitempty"`
	PostgresURL string `yaml:"postgresURL,omitempty"`
}

// ValidationSettings carries the configuration layers chosen for validation.
// Custom holds field-level overrides applied on top of the preset.
type ValidationSettings struct {
	Preset string                `yaml:"preset,omitempty" validate:"omitempty,oneof=relaxed standard strict"`
	Custom *model.ConfigOverride `yaml:"custom,omitempty"`

	// TemplatesFile points at a YAML list of shift templates.
	TemplatesFile string `yaml:"templatesFile,omitempty"`
}

// CalendarConfig holds the Google Calendar export settings.
type CalendarConfig struct {
	CalendarID string `yaml:"calendarID" validate:"required"`
	Timezone   string `yaml:"timezone,omitempty"`
}

// Config represents the application configuration
type Config struct {
	Storage    StorageConfig      `yaml:"storage" validate:"required"`
	Validation ValidationSettings `yaml:"validation,omitempty"`
	Calendar   *CalendarConfig    `yaml:"calendar,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from rosterguard_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks driver-specific fields
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	switch cfg.Storage.Driver {
	case "json":
		if cfg.Storage.DataDir == "" {
			return fmt.Errorf("storage.dataDir is required for the json driver")
		}
	case "postgres":
		if cfg.Storage.PostgresURL == "" {
			return fmt.Errorf("storage.postgresURL is required for the postgres driver")
		}
	}

	return nil
}

// findConfigFile searches for rosterguard_config.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "rosterguard_config.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
