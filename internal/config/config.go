package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration. Geofence values and the
// admin identity are deliberately required with no defaults: deployments of
// this bot have historically drifted apart on radius and admin id, so the
// operator must state them.
type Config struct {
	BotToken      string `yaml:"botToken" validate:"required"`
	SpreadsheetID string `yaml:"spreadsheetID" validate:"required"`
	AdminID       int64  `yaml:"adminID" validate:"required"`

	OfficeLat     float64 `yaml:"officeLat" validate:"required,min=-90,max=90"`
	OfficeLon     float64 `yaml:"officeLon" validate:"required,min=-180,max=180"`
	OfficeRadiusM float64 `yaml:"officeRadiusM" validate:"required,gt=0"`

	// Timezone is the business timezone all "today" decisions resolve in,
	// never the process-local zone.
	Timezone string `yaml:"timezone" validate:"required"`

	AdminContactURL string `yaml:"adminContactURL,omitempty" validate:"omitempty,url"`
	CredentialsFile string `yaml:"credentialsFile,omitempty"`
	WebhookURL      string `yaml:"webhookURL,omitempty" validate:"omitempty,url"`

	GraceMinutes         int `yaml:"graceMinutes,omitempty" validate:"omitempty,min=0"`
	PendingTTLMinutes    int `yaml:"pendingTTLMinutes,omitempty" validate:"omitempty,min=1"`
	SheetsTimeoutSeconds int `yaml:"sheetsTimeoutSeconds,omitempty" validate:"omitempty,min=1"`
	Port                 int `yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
}

const configFileName = "attendance_config.yaml"

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads the configuration from attendance_config.yaml, looking in the
// current directory first and then in the user's home directory, applies
// environment overrides and validates the result.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	return nil
}

// Location resolves the configured business timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// GracePeriod returns the on-time grace as a duration.
func (c *Config) GracePeriod() time.Duration {
	return time.Duration(c.GraceMinutes) * time.Minute
}

// PendingTTL returns how long an unconfirmed action may live.
func (c *Config) PendingTTL() time.Duration {
	return time.Duration(c.PendingTTLMinutes) * time.Minute
}

// SheetsTimeout bounds every spreadsheet call.
func (c *Config) SheetsTimeout() time.Duration {
	return time.Duration(c.SheetsTimeoutSeconds) * time.Second
}

// applyEnv overrides config values from the environment. Deployment
// platforms inject secrets and the geofence this way.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		cfg.BotToken = v
	}
	if v := os.Getenv("SPREADSHEET_ID"); v != "" {
		cfg.SpreadsheetID = v
	}
	if v := os.Getenv("ADMIN_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ADMIN_ID %q: %w", v, err)
		}
		cfg.AdminID = id
	}
	if v := os.Getenv("OFFICE_LAT"); v != "" {
		lat, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid OFFICE_LAT %q: %w", v, err)
		}
		cfg.OfficeLat = lat
	}
	if v := os.Getenv("OFFICE_LON"); v != "" {
		lon, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid OFFICE_LON %q: %w", v, err)
		}
		cfg.OfficeLon = lon
	}
	if v := os.Getenv("OFFICE_RADIUS_M"); v != "" {
		radius, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid OFFICE_RADIUS_M %q: %w", v, err)
		}
		cfg.OfficeRadiusM = radius
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.GraceMinutes == 0 {
		cfg.GraceMinutes = 5
	}
	if cfg.PendingTTLMinutes == 0 {
		cfg.PendingTTLMinutes = 30
	}
	if cfg.SheetsTimeoutSeconds == 0 {
		cfg.SheetsTimeoutSeconds = 15
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
}

// findConfigFile searches for the config file in the current directory and
// then the home directory.
func findConfigFile() (string, error) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", configFileName)
}
