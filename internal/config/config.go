// Package config loads server configuration from an optional YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the server.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Lobby   LobbyConfig   `mapstructure:"lobby"`
}

// ServerConfig groups the network listeners.
type ServerConfig struct {
	WebSocket       WebSocketConfig `mapstructure:"websocket"`
	GRPC            GRPCConfig      `mapstructure:"grpc"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout"`
}

// WebSocketConfig configures the client transport.
type WebSocketConfig struct {
	Address         string   `mapstructure:"address"`
	Path            string   `mapstructure:"path"`
	ReadBufferSize  int      `mapstructure:"read_buffer_size"`
	WriteBufferSize int      `mapstructure:"write_buffer_size"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

// GRPCConfig configures the operational gRPC listener (health checks).
// An empty address disables it.
type GRPCConfig struct {
	Address string `mapstructure:"address"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GameConfig holds the tunable rule constants.
type GameConfig struct {
	MaxRounds          int   `mapstructure:"max_rounds"`
	ActionCubes        []int `mapstructure:"action_cubes"`
	BirdTraySize       int   `mapstructure:"bird_tray_size"`
	HandLimit          int   `mapstructure:"hand_limit"`
	DiscardLimit       int   `mapstructure:"discard_limit"`
	HabitatSlots       int   `mapstructure:"habitat_slots"`
	SetupBirds         int   `mapstructure:"setup_birds"`
	SetupBonusCards    int   `mapstructure:"setup_bonus_cards"`
	DiceCount          int   `mapstructure:"dice_count"`
	DefaultEggCapacity int   `mapstructure:"default_egg_capacity"`
	Seed               int64 `mapstructure:"seed"`

	// ReplayDir receives a replay file per finished game. Empty disables
	// recording.
	ReplayDir string `mapstructure:"replay_dir"`
}

// CatalogConfig selects where card definitions come from.
type CatalogConfig struct {
	// Source is one of "embedded", "dir" or "postgres".
	Source      string `mapstructure:"source"`
	Dir         string `mapstructure:"dir"`
	DatabaseURL string `mapstructure:"database_url"`
}

// LobbyConfig bounds lobby rooms.
type LobbyConfig struct {
	CodeLength int `mapstructure:"code_length"`
	MaxPlayers int `mapstructure:"max_players"`
}

// Load reads configuration from path. A missing file is not an error; defaults
// and WINGSPAN_* environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("WINGSPAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.websocket.address", ":8080")
	v.SetDefault("server.websocket.path", "/ws")
	v.SetDefault("server.websocket.read_buffer_size", 1024)
	v.SetDefault("server.websocket.write_buffer_size", 1024)
	v.SetDefault("server.websocket.allowed_origins", []string{})
	v.SetDefault("server.grpc.address", ":9090")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("game.max_rounds", 4)
	v.SetDefault("game.action_cubes", []int{8, 7, 6, 5})
	v.SetDefault("game.bird_tray_size", 3)
	v.SetDefault("game.hand_limit", 8)
	v.SetDefault("game.discard_limit", 5)
	v.SetDefault("game.habitat_slots", 5)
	v.SetDefault("game.setup_birds", 5)
	v.SetDefault("game.setup_bonus_cards", 2)
	v.SetDefault("game.dice_count", 5)
	v.SetDefault("game.default_egg_capacity", 6)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.replay_dir", "")

	v.SetDefault("catalog.source", "embedded")
	v.SetDefault("catalog.dir", "")
	v.SetDefault("catalog.database_url", "")

	v.SetDefault("lobby.code_length", 6)
	v.SetDefault("lobby.max_players", 5)
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	g := c.Game
	if g.MaxRounds <= 0 {
		return fmt.Errorf("game.max_rounds must be positive, got %d", g.MaxRounds)
	}
	if len(g.ActionCubes) < g.MaxRounds {
		return fmt.Errorf("game.action_cubes needs %d entries, got %d", g.MaxRounds, len(g.ActionCubes))
	}
	for i, cubes := range g.ActionCubes {
		if cubes <= 0 {
			return fmt.Errorf("game.action_cubes[%d] must be positive", i)
		}
	}
	if g.DiscardLimit > g.HandLimit {
		return fmt.Errorf("game.discard_limit (%d) exceeds game.hand_limit (%d)", g.DiscardLimit, g.HandLimit)
	}
	if g.HabitatSlots <= 0 || g.DiceCount <= 0 || g.BirdTraySize <= 0 {
		return fmt.Errorf("game.habitat_slots, game.dice_count and game.bird_tray_size must be positive")
	}

	switch c.Catalog.Source {
	case "embedded":
	case "dir":
		if c.Catalog.Dir == "" {
			return fmt.Errorf("catalog.dir is required when catalog.source is dir")
		}
	case "postgres":
		if c.Catalog.DatabaseURL == "" {
			return fmt.Errorf("catalog.database_url is required when catalog.source is postgres")
		}
	default:
		return fmt.Errorf("unknown catalog.source %q", c.Catalog.Source)
	}

	if c.Lobby.CodeLength < 4 {
		return fmt.Errorf("lobby.code_length must be at least 4")
	}
	if c.Lobby.MaxPlayers < 1 {
		return fmt.Errorf("lobby.max_players must be at least 1")
	}
	return nil
}
