package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.WebSocket.Address)
	assert.Equal(t, "/ws", cfg.Server.WebSocket.Path)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 4, cfg.Game.MaxRounds)
	assert.Equal(t, []int{8, 7, 6, 5}, cfg.Game.ActionCubes)
	assert.Equal(t, 3, cfg.Game.BirdTraySize)
	assert.Equal(t, 8, cfg.Game.HandLimit)
	assert.Equal(t, 5, cfg.Game.DiscardLimit)
	assert.Equal(t, "embedded", cfg.Catalog.Source)
	assert.Equal(t, 6, cfg.Lobby.CodeLength)
	assert.Empty(t, cfg.Game.ReplayDir)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  websocket:
    address: ":7000"
logging:
  level: debug
  format: json
game:
  max_rounds: 2
  action_cubes: [3, 2]
  replay_dir: replays
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.WebSocket.Address)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 2, cfg.Game.MaxRounds)
	assert.Equal(t, []int{3, 2}, cfg.Game.ActionCubes)
	assert.Equal(t, "replays", cfg.Game.ReplayDir)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("WINGSPAN_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.Game.ActionCubes = []int{8, 7}
	assert.ErrorContains(t, cfg.Validate(), "action_cubes")

	cfg = base()
	cfg.Game.DiscardLimit = 9
	assert.ErrorContains(t, cfg.Validate(), "discard_limit")

	cfg = base()
	cfg.Catalog.Source = "postgres"
	assert.ErrorContains(t, cfg.Validate(), "database_url")

	cfg = base()
	cfg.Catalog.Source = "s3"
	assert.ErrorContains(t, cfg.Validate(), "unknown catalog.source")

	cfg = base()
	cfg.Lobby.CodeLength = 2
	assert.Error(t, cfg.Validate())
}
