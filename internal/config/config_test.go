package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/systems"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, int64(0), cfg.Seed)
	assert.Equal(t, "normal", cfg.Difficulty)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, time.Duration(0), cfg.Server.TurnTimeout)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "tactics.db", cfg.Storage.DSN)
	assert.True(t, cfg.Storage.SaveOnShutdown)
	assert.Equal(t, "elimination", cfg.Mission.Type)
	assert.Equal(t, 12, cfg.Mission.TurnBudget)
	assert.Equal(t, "default", cfg.Mission.Layout)
	assert.Equal(t, 18, cfg.Mission.Width)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Empty(t, cfg.Log.Level, "logger keeps its environment setup")

	assert.Equal(t, systems.DefaultCombatTuning(), cfg.Combat)
	assert.Equal(t, systems.DefaultAITuning(), cfg.AI)
	assert.Equal(t, domain.DefaultProgressionTuning(), cfg.Progression)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	dir := t.TempDir()
	body := `{
		"seed": 1234,
		"difficulty": "hard",
		"server": { "port": "9000", "turnTimeout": "45s" },
		"mission": { "type": "boss_encounter", "turnBudget": 20 },
		"combat": { "halfCoverModifier": 0.8, "missDamagesCover": false },
		"progression": { "xpPerLevel": 150 }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tactics.json"), []byte(body), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, int64(1234), cfg.Seed)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 45*time.Second, cfg.Server.TurnTimeout)
	assert.Equal(t, 20, cfg.Mission.TurnBudget)
	assert.Equal(t, 0.8, cfg.Combat.HalfCoverModifier)
	assert.False(t, cfg.Combat.MissDamagesCover)
	// Не заданные в файле ключи берутся по умолчанию
	assert.Equal(t, 0.5, cfg.Combat.FullCoverModifier)
	assert.Equal(t, 150, cfg.Progression.XPPerLevel)
	assert.Equal(t, 50, cfg.Progression.KillExperience)

	mt, err := cfg.MissionType()
	require.NoError(t, err)
	assert.Equal(t, domain.MissionBossEncounter, mt)

	ec := cfg.Engine()
	assert.Equal(t, int64(1234), ec.Seed)
	assert.Equal(t, domain.DifficultyHard, ec.Difficulty)
	assert.Equal(t, 45*time.Second, ec.TurnTimeout)
	assert.Equal(t, 0.8, ec.Combat.HalfCoverModifier)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	body := "difficulty: easy\nstorage:\n  driver: postgres\n  dsn: host=db\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tactics.yaml"), []byte(body), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "host=db", cfg.Storage.DSN)
	assert.Equal(t, domain.DifficultyEasy, cfg.Engine().Difficulty)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TACTICS_SERVER_PORT", "7070")
	t.Setenv("TACTICS_MISSION_TYPE", "hack_terminal")
	t.Setenv("TACTICS_LOG_FORMAT", "json")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)

	mt, err := cfg.MissionType()
	require.NoError(t, err)
	assert.Equal(t, domain.MissionHackTerminal, mt)
}

func TestLoad_BrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tactics.json"), []byte(`{"seed": `), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestConfig_UnknownMission(t *testing.T) {
	cfg := Config{Mission: MissionConfig{Type: "sabotage"}}
	_, err := cfg.MissionType()
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)
}

func TestConfig_EngineRandomSeed(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.NotZero(t, cfg.Engine().Seed)
	assert.Equal(t, domain.DifficultyNormal, cfg.Engine().Difficulty)
}
