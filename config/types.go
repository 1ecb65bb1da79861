package config

// Config represents the complete configuration structure
type Config struct {
	FEC     FECConfig     `mapstructure:"fec"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// FECConfig holds OpenFEC API connection details
type FECConfig struct {
	APIKey        string  `mapstructure:"api_key"`
	BaseURL       string  `mapstructure:"base_url"`
	Timeout       int     `mapstructure:"timeout"` // seconds
	RetryAttempts int     `mapstructure:"retry_attempts"`
	RetryBackoff  float64 `mapstructure:"retry_backoff"` // seconds, scaled by attempt
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
