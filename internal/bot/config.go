package bot

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the bot configuration.
//
// Values come from an optional YAML file named by CONFIG_FILE, overridden by
// environment variables.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN" yaml:"discord_token"`

	LogLevel  string `env:"LOG_LEVEL"  yaml:"log_level"`
	LogFormat string `env:"LOG_FORMAT" yaml:"log_format"` // json or text
	LogFile   string `env:"LOG_FILE"   yaml:"log_file"`   // rotated copy of the log, optional

	// Per user and command: at most RateLimitCommands within RateLimitWindow.
	// Zero commands disables the limiter.
	RateLimitCommands int           `env:"RATE_LIMIT_COMMANDS" yaml:"rate_limit_commands"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW"   yaml:"rate_limit_window"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	return Config{
		LogLevel:          "info",
		LogFormat:         "json",
		RateLimitCommands: 5,
		RateLimitWindow:   10 * time.Second,
	}
}

// LoadConfig loads configuration from CONFIG_FILE (if set) and environment variables.
// Returns an error if required fields are missing.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DiscordToken == "" {
		return errors.New("DISCORD_TOKEN is required")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("unsupported log format %q", c.LogFormat)
	}
	if c.RateLimitCommands < 0 {
		return errors.New("RATE_LIMIT_COMMANDS must not be negative")
	}
	if c.RateLimitCommands > 0 && c.RateLimitWindow <= 0 {
		return errors.New("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}
