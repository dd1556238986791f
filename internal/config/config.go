package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level botica.yaml configuration.
type Config struct {
	Pharmacy PharmacyConfig `yaml:"pharmacy" validate:"required"`
	Database DatabaseConfig `yaml:"database" validate:"required"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// PharmacyConfig identifies the pharmacy and its organization scope.
type PharmacyConfig struct {
	Name           string `yaml:"name" validate:"required"`
	OrganizationID string `yaml:"organization_id"`
}

// DatabaseConfig locates the sqlite ledger database.
type DatabaseConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

var validate = validator.New()

// Load reads a botica.yaml file from disk. A BOTICA_DATABASE_PATH environment
// variable (optionally from a .env file) overrides the configured path.
func Load(path string) (*Config, error) {
	// Missing .env is fine; env vars may come from the shell.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if dbPath := os.Getenv("BOTICA_DATABASE_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(pharmacyName, organizationID string) *Config {
	return &Config{
		Pharmacy: PharmacyConfig{
			Name:           pharmacyName,
			OrganizationID: organizationID,
		},
		Database: DatabaseConfig{
			Path: "botica.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
