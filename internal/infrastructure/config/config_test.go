package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/farmsim-go/internal/infrastructure/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig_DefaultsApplied(t *testing.T) {
	cfg, err := config.LoadConfig(writeConfig(t, "simulation:\n  farm_type: organic\n"))

	require.NoError(t, err)
	assert.Equal(t, "organic", cfg.Simulation.FarmType)
	assert.Equal(t, 2500*time.Millisecond, cfg.Simulation.GameHour)
	assert.Equal(t, 20*time.Minute, cfg.Land.DeadRecovery)
	assert.Equal(t, 10*time.Minute, cfg.Land.HarvestedRecovery)
	assert.Equal(t, "wall", cfg.Land.RecoveryTimebase)
	assert.Equal(t, "spot", cfg.Economy.PriceMode)
	assert.Equal(t, "sqlite", cfg.Database.Type)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("FARM_ECONOMY_PRICE_MODE", "weekly")
	t.Setenv("FARM_LAND_RECOVERY_TIMEBASE", "sim")

	cfg, err := config.LoadConfig(writeConfig(t, "economy:\n  price_mode: spot\n"))

	require.NoError(t, err)
	assert.Equal(t, "weekly", cfg.Economy.PriceMode)
	assert.Equal(t, "sim", cfg.Land.RecoveryTimebase)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	_, err := config.LoadConfig(writeConfig(t, "simulation:\n  farm_type: hydroponic\n"))

	assert.Error(t, err)
}

func TestLoadConfig_RejectsNegativeDurations(t *testing.T) {
	_, err := config.LoadConfig(writeConfig(t, "simulation:\n  game_hour: -1s\n"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulation.game_hour")
	assert.Contains(t, err.Error(), `"positive"`)
}

func TestLoadConfig_HTTPProviderNeedsURL(t *testing.T) {
	_, err := config.LoadConfig(writeConfig(t, "environment:\n  provider: http\n"))

	assert.Error(t, err)
}

func TestLoadConfigOrDefault_FallsBack(t *testing.T) {
	cfg := config.LoadConfigOrDefault(writeConfig(t, "logging:\n  level: loud\n"))

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "smallholder", cfg.Simulation.FarmType)
}

func TestUserConfigHandler(t *testing.T) {
	h, err := config.NewUserConfigHandlerAt(t.TempDir())
	require.NoError(t, err)

	empty, err := h.Load()
	require.NoError(t, err)
	assert.Empty(t, empty.LastRunID)

	require.NoError(t, h.SetLastRun("run-42"))
	require.NoError(t, h.SetDefaultFarmType("industrial"))

	loaded, err := h.Load()
	require.NoError(t, err)
	assert.Equal(t, "run-42", loaded.LastRunID)
	assert.Equal(t, "industrial", loaded.DefaultFarmType)
}
