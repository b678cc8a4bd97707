package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	// CLI
	CLI struct {
		BaseURL        string `toml:"base_url"`        // Base URL of the price tracker backend
		RequestTimeout int    `toml:"request_timeout"` // Per-request timeout in seconds
		FetchThrottle  int    `toml:"fetch_throttle"`  // Pause between batch fetches in milliseconds
	} `toml:"cli"`

	// Stub (local development backend)
	Stub struct {
		Port int    `toml:"port"`
		Host string `toml:"host"`
	} `toml:"stub"`
}

// DefaultConfig returns a config with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.CLI.BaseURL = "http://localhost:5000"
	cfg.CLI.RequestTimeout = 30
	cfg.CLI.FetchThrottle = 100
	cfg.Stub.Port = 5000
	cfg.Stub.Host = "0.0.0.0"
	return cfg
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	configDir := filepath.Join(homeDir, ".config", "price-tracker")
	return filepath.Join(configDir, "config.toml"), nil
}

// Load reads configuration from ~/.config/price-tracker/config.toml.
// Creates the file with defaults if it doesn't exist.
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()

		// Override with environment variables if set (useful for Docker)
		if baseURL := os.Getenv("PRICE_BASE_URL"); baseURL != "" {
			cfg.CLI.BaseURL = baseURL
		}

		if err := Save(cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Merge with defaults for any missing values
	defaultCfg := DefaultConfig()
	if cfg.CLI.BaseURL == "" {
		cfg.CLI.BaseURL = defaultCfg.CLI.BaseURL
	}
	if cfg.CLI.RequestTimeout == 0 {
		cfg.CLI.RequestTimeout = defaultCfg.CLI.RequestTimeout
	}
	if cfg.CLI.FetchThrottle == 0 {
		cfg.CLI.FetchThrottle = defaultCfg.CLI.FetchThrottle
	}
	if cfg.Stub.Port == 0 {
		cfg.Stub.Port = defaultCfg.Stub.Port
	}
	if cfg.Stub.Host == "" {
		cfg.Stub.Host = defaultCfg.Stub.Host
	}

	if baseURL := os.Getenv("PRICE_BASE_URL"); baseURL != "" {
		cfg.CLI.BaseURL = baseURL
	}

	return &cfg, nil
}

// Save writes the configuration to the config file.
func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
