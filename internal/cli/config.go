package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/rankplay/pkg/errors"
	"github.com/matzehuels/rankplay/pkg/playback"
)

// Config is the optional TOML configuration. Command-line flags override it.
//
//	[player]
//	speed = "800ms"
//	alt_screen = true
//
//	[server]
//	addr = ":8080"
//	redis_addr = "localhost:6379"
//	cache_ttl = "24h"
//
//	[render]
//	detailed = true
type Config struct {
	Player PlayerConfig `toml:"player"`
	Server ServerConfig `toml:"server"`
	Render RenderConfig `toml:"render"`
}

// PlayerConfig configures the terminal players.
type PlayerConfig struct {
	Speed     time.Duration `toml:"speed"`
	AltScreen bool          `toml:"alt_screen"`
}

// ServerConfig configures rankplay serve.
type ServerConfig struct {
	Addr      string        `toml:"addr"`
	RedisAddr string        `toml:"redis_addr"`
	CacheTTL  time.Duration `toml:"cache_ttl"`
}

// RenderConfig configures frame rendering.
type RenderConfig struct {
	Detailed bool `toml:"detailed"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Player: PlayerConfig{Speed: playback.DefaultSpeed, AltScreen: true},
		Server: ServerConfig{Addr: ":8080", CacheTTL: 24 * time.Hour},
	}
}

// LoadConfig reads the configuration at path on top of the defaults. An
// empty path selects the default location, where a missing file is fine.
// An explicitly given path must exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Player.Speed < playback.MinSpeed || c.Player.Speed > playback.MaxSpeed {
		return errors.New(errors.ErrCodeInvalidConfig, "player.speed must be between %s and %s", playback.MinSpeed, playback.MaxSpeed)
	}
	if c.Server.CacheTTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.cache_ttl must not be negative")
	}
	return nil
}
