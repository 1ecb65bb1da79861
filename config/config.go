package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DemoKey is the public OpenFEC demo key. It works without registration
// but is heavily rate limited.
const DemoKey = "DEMO_KEY"

// Load loads the configuration from file, falling back to defaults and
// environment variables when no config file exists.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// The upstream key can come from the environment instead of a file.
	v.BindEnv("fec.api_key", "FEC_API_KEY", "OPENFEC_API_KEY")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".fecfetch"))
		}

		// Check /etc
		v.AddConfigPath("/etc/fecfetch/")
	}

	// Read config file; running from env vars and defaults alone is fine.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// The demo key keeps the tool usable out of the box; callers should
	// warn about its rate limits.
	if cfg.FEC.APIKey == "" {
		cfg.FEC.APIKey = DemoKey
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// OpenFEC defaults
	v.SetDefault("fec.base_url", "https://api.open.fec.gov/v1")
	v.SetDefault("fec.timeout", 30)
	v.SetDefault("fec.retry_attempts", 5)
	v.SetDefault("fec.retry_backoff", 1.5)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.FEC.BaseURL == "" {
		return fmt.Errorf("fec.base_url is required")
	}

	if cfg.FEC.Timeout <= 0 {
		return fmt.Errorf("fec.timeout must be positive")
	}

	if cfg.FEC.RetryAttempts <= 0 {
		return fmt.Errorf("fec.retry_attempts must be positive")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
