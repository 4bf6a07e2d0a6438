package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/engine"
	"github.com/BastardoSenpai/BootlegXCom/internal/systems"

	"github.com/spf13/viper"
)

// FileName - имя файла конфига без расширения (tactics.json, tactics.yaml, ...)
const FileName = "tactics"

// EnvPrefix - префикс переменных окружения: TACTICS_SERVER_PORT, TACTICS_COMBAT_CRITMULTIPLIER
const EnvPrefix = "TACTICS"

type ServerConfig struct {
	Port        string        `mapstructure:"port"`
	TurnTimeout time.Duration `mapstructure:"turnTimeout"`
}

type StorageConfig struct {
	Driver         string `mapstructure:"driver"` // sqlite | postgres
	DSN            string `mapstructure:"dsn"`
	SaveOnShutdown bool   `mapstructure:"saveOnShutdown"`
}

type MissionConfig struct {
	Type          string `mapstructure:"type"`
	TurnBudget    int    `mapstructure:"turnBudget"`
	RequiredKills int    `mapstructure:"requiredKills"`
	// Layout: "default" - встроенная карта, "generated" - случайная карта Width x Height
	Layout string `mapstructure:"layout"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
}

// LogConfig - уровень и формат pkg/logger. Пусто - как задали LOG_LEVEL и LOG_FORMAT.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"serviceName"`
}

// Config - все настройки процесса
type Config struct {
	Seed       int64  `mapstructure:"seed"` // 0 - случайный
	Difficulty string `mapstructure:"difficulty"`

	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Mission   MissionConfig   `mapstructure:"mission"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`

	Combat      systems.CombatTuning     `mapstructure:"combat"`
	AI          systems.AITuning         `mapstructure:"ai"`
	Progression domain.ProgressionTuning `mapstructure:"progression"`
}

// Load читает конфиг из каталога dir. Файла может не быть - тогда
// действуют значения по умолчанию и переменные окружения.
func Load(dir string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(FileName)
	if dir != "" {
		v.AddConfigPath(dir)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("seed", 0)
	v.SetDefault("difficulty", "normal")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.turnTimeout", "0s")

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.dsn", "tactics.db")
	v.SetDefault("storage.saveOnShutdown", true)

	v.SetDefault("mission.type", "elimination")
	v.SetDefault("mission.turnBudget", 12)
	v.SetDefault("mission.requiredKills", 0)
	v.SetDefault("mission.layout", "default")
	v.SetDefault("mission.width", 18)
	v.SetDefault("mission.height", 12)

	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("telemetry.serviceName", "tactics-server")

	v.SetDefault("log.level", "")
	v.SetDefault("log.format", "")

	combat := systems.DefaultCombatTuning()
	v.SetDefault("combat.halfCoverModifier", combat.HalfCoverModifier)
	v.SetDefault("combat.fullCoverModifier", combat.FullCoverModifier)
	v.SetDefault("combat.halfCoverDamageReduction", combat.HalfCoverDamageReduction)
	v.SetDefault("combat.fullCoverDamageReduction", combat.FullCoverDamageReduction)
	v.SetDefault("combat.heavyBonus", combat.HeavyBonus)
	v.SetDefault("combat.critMultiplier", combat.CritMultiplier)
	v.SetDefault("combat.maxAngle", combat.MaxAngle)
	v.SetDefault("combat.missDamagesCover", combat.MissDamagesCover)
	v.SetDefault("combat.missCoverDamageFactor", combat.MissCoverDamageFactor)

	ai := systems.DefaultAITuning()
	v.SetDefault("ai.defensiveThreshold", ai.DefensiveThreshold)
	v.SetDefault("ai.aggressiveThreshold", ai.AggressiveThreshold)
	v.SetDefault("ai.aggressiveAttackScale", ai.AggressiveAttackScale)
	v.SetDefault("ai.defensiveAttackScale", ai.DefensiveAttackScale)
	v.SetDefault("ai.abilityBaseline", ai.AbilityBaseline)
	v.SetDefault("ai.abilityAlignedScale", ai.AbilityAlignedScale)
	v.SetDefault("ai.fullCoverBonus", ai.FullCoverBonus)
	v.SetDefault("ai.halfCoverBonus", ai.HalfCoverBonus)
	v.SetDefault("ai.distanceWeight", ai.DistanceWeight)
	v.SetDefault("ai.patrolBand", ai.PatrolBand)
	v.SetDefault("ai.objectiveWeight", ai.ObjectiveWeight)
	v.SetDefault("ai.hazardPenalty", ai.HazardPenalty)

	prog := domain.DefaultProgressionTuning()
	v.SetDefault("progression.xpPerLevel", prog.XPPerLevel)
	v.SetDefault("progression.skillPointsPerLevel", prog.SkillPointsPerLevel)
	v.SetDefault("progression.healthPerLevel", prog.HealthPerLevel)
	v.SetDefault("progression.accuracyPerLevel", prog.AccuracyPerLevel)
	v.SetDefault("progression.killExperience", prog.KillExperience)
	v.SetDefault("progression.missionExperience", prog.MissionExperience)
}

// MissionType разбирает mission.type
func (c Config) MissionType() (domain.MissionType, error) {
	mt, ok := domain.ParseMissionType(c.Mission.Type)
	if !ok {
		return 0, fmt.Errorf("%w: unknown mission type %q", domain.ErrConfigurationMissing, c.Mission.Type)
	}
	return mt, nil
}

// Engine переводит конфиг в параметры боя
func (c Config) Engine() engine.Config {
	ec := engine.NewConfig()
	if c.Seed != 0 {
		ec.Seed = c.Seed
	}
	ec.Difficulty = domain.ParseDifficulty(c.Difficulty)
	ec.Combat = c.Combat
	ec.AI = c.AI
	ec.Progression = c.Progression
	ec.TurnTimeout = c.Server.TurnTimeout
	return ec
}
