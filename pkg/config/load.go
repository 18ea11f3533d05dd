package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Decode on top of a fully defaulted config: absent keys keep their
	// defaults, explicit values win, including `enabled: false`.
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention FMSERVER_SECTION_FIELD (e.g., FMSERVER_SERVER_LISTEN_ADDRESS)
// and always take precedence over file values.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies FMSERVER_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("FMSERVER_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("FMSERVER_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("FMSERVER_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("FMSERVER_SERVER_MAX_BODY_BYTES"); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Server.MaxBodyBytes = n
		}
	}

	// Provider overrides
	if val := os.Getenv("FMSERVER_PROVIDER_BACKEND"); val != "" {
		cfg.Provider.Backend = val
	}
	if val := os.Getenv("FMSERVER_PROVIDER_OPENAI_MODEL"); val != "" {
		cfg.Provider.OpenAI.Model = val
	}
	if val := os.Getenv("FMSERVER_PROVIDER_OPENAI_API_KEY"); val != "" {
		cfg.Provider.OpenAI.APIKey = val
	}
	if val := os.Getenv("FMSERVER_PROVIDER_OPENAI_BASE_URL"); val != "" {
		cfg.Provider.OpenAI.BaseURL = val
	}

	// Gateway overrides
	if val := os.Getenv("FMSERVER_GATEWAY_BUSY_POLICY"); val != "" {
		cfg.Gateway.BusyPolicy = val
	}

	// Transcript overrides
	if val := os.Getenv("FMSERVER_TRANSCRIPT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Transcript.Enabled = b
		}
	}
	if val := os.Getenv("FMSERVER_TRANSCRIPT_PATH"); val != "" {
		cfg.Transcript.Path = val
	}

	// Telemetry overrides
	if val := os.Getenv("FMSERVER_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("FMSERVER_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("FMSERVER_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
}
