package mission

import (
	"fmt"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
)

// Snapshot - состояние трекера для сохранения
type Snapshot struct {
	Setup          Setup       `json:"setup"`
	Status         Status      `json:"status"`
	Reason         string      `json:"reason,omitempty"`
	TurnsRemaining int         `json:"turnsRemaining"`
	InitialEnemies int         `json:"initialEnemies"`
	VIPSecured     bool        `json:"vipSecured,omitempty"`
	Objectives     []Objective `json:"objectives"`
}

func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		Setup:          t.setup,
		Status:         t.status,
		Reason:         t.reason,
		TurnsRemaining: t.turnsRemaining,
		InitialEnemies: t.initialEnemies,
		VIPSecured:     t.vipSecured,
		Objectives:     t.Objectives(),
	}
}

// RestoreTracker восстанавливает трекер без пересчета целей
func RestoreTracker(s Snapshot) (*Tracker, error) {
	if err := s.Setup.Validate(); err != nil {
		return nil, err
	}
	if len(s.Objectives) == 0 {
		return nil, fmt.Errorf("%w: snapshot has no objectives", domain.ErrConfigurationMissing)
	}
	if _, ok := statusToString[s.Status]; !ok {
		return nil, fmt.Errorf("%w: unknown mission status %d", domain.ErrConfigurationMissing, s.Status)
	}
	s.Setup.withDefaults()

	objectives := make([]Objective, len(s.Objectives))
	copy(objectives, s.Objectives)

	return &Tracker{
		setup:          s.Setup,
		status:         s.Status,
		reason:         s.Reason,
		objectives:     objectives,
		turnsRemaining: s.TurnsRemaining,
		initialEnemies: s.InitialEnemies,
		vipSecured:     s.VIPSecured,
	}, nil
}
