package engine

import (
	"time"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/systems"
)

// Config хранит параметры запуска боя. Все константы баланса передаются
// в конструкторы систем явно.
type Config struct {
	// Seed - мастер-зерно. От него зависят порядок ходов и все броски.
	// После восстановления из снимка: Seed + Round.
	Seed       int64
	Difficulty domain.Difficulty

	Combat      systems.CombatTuning
	AI          systems.AITuning
	Progression domain.ProgressionTuning

	// TurnTimeout - сколько сессия ждет команду игрока (0 - без ограничения)
	TurnTimeout time.Duration
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed:        time.Now().UnixNano(),
		Difficulty:  domain.DifficultyNormal,
		Combat:      systems.DefaultCombatTuning(),
		AI:          systems.DefaultAITuning(),
		Progression: domain.DefaultProgressionTuning(),
	}
}
