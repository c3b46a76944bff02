package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Auth     AuthConfig     `toml:"auth"`
	Database DatabaseConfig `toml:"database"`
	Cache    CacheConfig    `toml:"cache"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Logging  LoggingConfig  `toml:"logging"`
}

// APIConfig points the client at the backend.
type APIConfig struct {
	BaseURL string        `toml:"base_url"`
	Timeout time.Duration `toml:"timeout"`
}

// AuthConfig controls the browser login flow.
type AuthConfig struct {
	Provider     string        `toml:"provider"`      // OAuth provider registered on the backend
	CallbackPort int           `toml:"callback_port"` // Port the backend redirects to after login
	LoginTimeout time.Duration `toml:"login_timeout"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// CacheConfig contains local cache lifetimes.
type CacheConfig struct {
	FixturesTTL time.Duration `toml:"fixtures_ttl"`
}

// MetricsConfig controls the telemetry beacon.
type MetricsConfig struct {
	Enabled bool    `toml:"enabled"`
	Rate    float64 `toml:"rate"`  // Beacons per second
	Burst   int     `toml:"burst"` // Beacons allowed in a burst
}

// LoggingConfig contains log settings.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // Log destination while the TUI owns the terminal
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values the client cannot run without.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url is required", ErrInvalidConfig)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("%w: api.timeout must not be negative", ErrInvalidConfig)
	}
	if c.Auth.CallbackPort < 0 || c.Auth.CallbackPort > 65535 {
		return fmt.Errorf("%w: auth.callback_port %d out of range", ErrInvalidConfig, c.Auth.CallbackPort)
	}
	if c.Metrics.Enabled && c.Metrics.Rate <= 0 {
		return fmt.Errorf("%w: metrics.rate must be positive", ErrInvalidConfig)
	}
	return nil
}
