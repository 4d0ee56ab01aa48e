package music_player

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/application/usecases"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/domain"
)

// Config holds the music player module configuration.
type Config struct {
	LavalinkAddress  string `env:"LAVALINK_ADDRESS"  envDefault:"localhost:2333"`
	LavalinkPassword string `env:"LAVALINK_PASSWORD,notEmpty"`
	LavalinkSecure   bool   `env:"LAVALINK_SECURE"   envDefault:"false"`

	MaxQueueSize  int           `env:"MUSIC_MAX_QUEUE_SIZE"  envDefault:"100"`
	DefaultVolume int           `env:"MUSIC_DEFAULT_VOLUME"  envDefault:"50"`
	LeaveOnEmpty  bool          `env:"MUSIC_LEAVE_ON_EMPTY"  envDefault:"true"`
	LeaveTimeout  time.Duration `env:"MUSIC_LEAVE_TIMEOUT"   envDefault:"5m"`
	SearchPrefix  string        `env:"MUSIC_SEARCH_PREFIX"   envDefault:"ytsearch"`
}

// loadConfig parses the module configuration from environment variables.
func loadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DefaultVolume < 0 || c.DefaultVolume > 100 {
		return fmt.Errorf("MUSIC_DEFAULT_VOLUME must be between 0 and 100, got %d", c.DefaultVolume)
	}
	if c.LeaveOnEmpty && c.LeaveTimeout <= 0 {
		return fmt.Errorf("MUSIC_LEAVE_TIMEOUT must be positive, got %v", c.LeaveTimeout)
	}

	switch domain.SearchSource(c.SearchPrefix) {
	case domain.SourceYouTube, domain.SourceYouTubeMusic, domain.SourceSoundCloud:
	default:
		return fmt.Errorf("unsupported MUSIC_SEARCH_PREFIX %q", c.SearchPrefix)
	}

	return nil
}

// registryConfig maps the module configuration onto the session registry's.
func (c *Config) registryConfig() usecases.RegistryConfig {
	return usecases.RegistryConfig{
		MaxQueueSize:  c.MaxQueueSize,
		DefaultVolume: c.DefaultVolume,
		LeaveOnEmpty:  c.LeaveOnEmpty,
		IdleTimeout:   c.LeaveTimeout,
		SearchSource:  domain.SearchSource(c.SearchPrefix),
	}
}
