package domain

import "strings"

// Difficulty - уровень сложности
type Difficulty uint8

const (
	DifficultyEasy Difficulty = iota
	DifficultyNormal
	DifficultyHard
	DifficultyImpossible
)

var difficultyStringToType = map[string]Difficulty{
	"EASY":       DifficultyEasy,
	"NORMAL":     DifficultyNormal,
	"HARD":       DifficultyHard,
	"IMPOSSIBLE": DifficultyImpossible,
}

var difficultyToString = map[Difficulty]string{
	DifficultyEasy:       "EASY",
	DifficultyNormal:     "NORMAL",
	DifficultyHard:       "HARD",
	DifficultyImpossible: "IMPOSSIBLE",
}

// ParseDifficulty - нечувствительно к регистру, неизвестное -> Normal
func ParseDifficulty(s string) Difficulty {
	if d, ok := difficultyStringToType[strings.ToUpper(s)]; ok {
		return d
	}
	return DifficultyNormal
}

func (d Difficulty) String() string {
	if s, ok := difficultyToString[d]; ok {
		return s
	}
	return "UNKNOWN"
}

// DifficultySettings - множители сложности. Передаются в конструкторы явно.
type DifficultySettings struct {
	PlayerHealthMultiplier   float64 `json:"playerHealthMultiplier"`
	PlayerAccuracyMultiplier float64 `json:"playerAccuracyMultiplier"`
	PlayerDamageMultiplier   float64 `json:"playerDamageMultiplier"`

	EnemyHealthMultiplier   float64 `json:"enemyHealthMultiplier"`
	EnemyAccuracyMultiplier float64 `json:"enemyAccuracyMultiplier"`
	EnemyDamageMultiplier   float64 `json:"enemyDamageMultiplier"`
	EnemyCountMultiplier    float64 `json:"enemyCountMultiplier"`

	MaxSquadSize          int     `json:"maxSquadSize"`
	MissionTimeMultiplier float64 `json:"missionTimeMultiplier"`
}

// Settings возвращает таблицу множителей для уровня
func (d Difficulty) Settings() DifficultySettings {
	switch d {
	case DifficultyEasy:
		return DifficultySettings{
			PlayerHealthMultiplier: 1.2, PlayerAccuracyMultiplier: 1.2, PlayerDamageMultiplier: 1.2,
			EnemyHealthMultiplier: 0.8, EnemyAccuracyMultiplier: 0.8, EnemyDamageMultiplier: 0.8,
			EnemyCountMultiplier: 0.8, MaxSquadSize: 6, MissionTimeMultiplier: 1.2,
		}
	case DifficultyHard:
		return DifficultySettings{
			PlayerHealthMultiplier: 0.9, PlayerAccuracyMultiplier: 0.9, PlayerDamageMultiplier: 0.9,
			EnemyHealthMultiplier: 1.2, EnemyAccuracyMultiplier: 1.1, EnemyDamageMultiplier: 1.1,
			EnemyCountMultiplier: 1.2, MaxSquadSize: 4, MissionTimeMultiplier: 0.9,
		}
	case DifficultyImpossible:
		return DifficultySettings{
			PlayerHealthMultiplier: 0.8, PlayerAccuracyMultiplier: 0.8, PlayerDamageMultiplier: 0.8,
			EnemyHealthMultiplier: 1.5, EnemyAccuracyMultiplier: 1.2, EnemyDamageMultiplier: 1.3,
			EnemyCountMultiplier: 1.5, MaxSquadSize: 4, MissionTimeMultiplier: 0.8,
		}
	default:
		return DifficultySettings{
			PlayerHealthMultiplier: 1, PlayerAccuracyMultiplier: 1, PlayerDamageMultiplier: 1,
			EnemyHealthMultiplier: 1, EnemyAccuracyMultiplier: 1, EnemyDamageMultiplier: 1,
			EnemyCountMultiplier: 1, MaxSquadSize: 4, MissionTimeMultiplier: 1,
		}
	}
}

// AccuracyFor - множитель точности атакующей стороны
func (s DifficultySettings) AccuracyFor(team Team) float64 {
	if team == TeamPlayer {
		return s.PlayerAccuracyMultiplier
	}
	return s.EnemyAccuracyMultiplier
}

// DamageFor - множитель урона атакующей стороны
func (s DifficultySettings) DamageFor(team Team) float64 {
	if team == TeamPlayer {
		return s.PlayerDamageMultiplier
	}
	return s.EnemyDamageMultiplier
}

func (s DifficultySettings) HealthFor(team Team) float64 {
	if team == TeamPlayer {
		return s.PlayerHealthMultiplier
	}
	return s.EnemyHealthMultiplier
}

// ScaleHealth применяет множитель здоровья при спавне (минимум 1)
func (s DifficultySettings) ScaleHealth(u *Unit) {
	m := s.HealthFor(u.Team)
	if m <= 0 {
		return
	}
	u.MaxHealth = int(float64(u.MaxHealth) * m)
	if u.MaxHealth < 1 {
		u.MaxHealth = 1
	}
	u.Health = u.MaxHealth
	if u.Boss != nil {
		u.Boss.InitialHealth = u.MaxHealth
	}
}

// ScaleTurns применяет множитель времени миссии к бюджету ходов (минимум 1)
func (s DifficultySettings) ScaleTurns(turns int) int {
	if s.MissionTimeMultiplier <= 0 {
		return turns
	}
	n := int(float64(turns) * s.MissionTimeMultiplier)
	if n < 1 {
		n = 1
	}
	return n
}

// ScaleCount - сколько врагов спавнить с учетом сложности (минимум 1)
func (s DifficultySettings) ScaleCount(n int) int {
	if s.EnemyCountMultiplier <= 0 {
		return n
	}
	c := int(float64(n) * s.EnemyCountMultiplier)
	if c < 1 {
		c = 1
	}
	return c
}
