package engine

import (
	"fmt"
	"math/rand"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/mission"
	"github.com/BastardoSenpai/BootlegXCom/pkg/api"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"

	"github.com/sirupsen/logrus"
)

// BattleSnapshot - полное состояние боя между ходами
type BattleSnapshot struct {
	Seed           int64              `json:"seed"`
	Difficulty     domain.Difficulty  `json:"difficulty"`
	Round          int                `json:"round"`
	MissionType    domain.MissionType `json:"missionType"`
	TurnsRemaining int                `json:"turnsRemaining"`

	Grid    domain.GridSnapshot `json:"grid"`
	Units   []*domain.Unit      `json:"units"`
	Mission mission.Snapshot    `json:"mission"`
	Objects []*domain.EnvObject `json:"objects,omitempty"`

	// Queue - кто еще не ходил в текущем раунде, Active - чей ход сейчас
	Queue  []domain.UnitID `json:"queue"`
	Active domain.UnitID   `json:"active,omitempty"`

	Logs []api.LogEntry `json:"logs,omitempty"`
}

// Snapshot снимает глубокую копию состояния. Бой после этого можно менять.
func (b *Battle) Snapshot() BattleSnapshot {
	s := BattleSnapshot{
		Seed:           b.cfg.Seed,
		Difficulty:     b.cfg.Difficulty,
		Round:          b.Scheduler.Round(),
		MissionType:    b.Mission.Type(),
		TurnsRemaining: b.Mission.TurnsRemaining(),
		Grid:           b.Grid.Snapshot(),
		Units:          make([]*domain.Unit, len(b.units)),
		Mission:        b.Mission.Snapshot(),
		Queue:          b.Scheduler.QueueOrder(),
		Logs:           append([]api.LogEntry(nil), b.Logs...),
	}
	for i, u := range b.units {
		s.Units[i] = u.Clone()
	}
	for _, o := range b.Env.Objects() {
		s.Objects = append(s.Objects, o.Clone())
	}
	if active := b.Scheduler.Active(); active != nil {
		s.Active = active.ID
	}
	return s
}

// RestoreBattle поднимает бой из снимка. Сид и сложность берутся из снимка,
// ГСЧ пересевается как Seed + Round. Раунд продолжается при вызове Start.
func RestoreBattle(cfg Config, snap BattleSnapshot, sink domain.EventSink) (*Battle, error) {
	grid, err := domain.RestoreGrid(snap.Grid)
	if err != nil {
		return nil, err
	}
	tracker, err := mission.RestoreTracker(snap.Mission)
	if err != nil {
		return nil, err
	}
	if tracker.Type() != snap.MissionType {
		return nil, fmt.Errorf("%w: snapshot mission %s does not match tracker %s", domain.ErrConfigurationMissing, snap.MissionType, tracker.Type())
	}

	cfg.Seed = snap.Seed
	cfg.Difficulty = snap.Difficulty

	b := newBattle(cfg, grid, sink)
	b.rng = rand.New(rand.NewSource(snap.Seed + int64(snap.Round)))
	for _, u := range snap.Units {
		if err := b.register(u.Clone()); err != nil {
			return nil, err
		}
	}
	b.Mission = tracker
	b.wire(cfg.Difficulty.Settings())
	b.Logs = append(b.Logs, snap.Logs...)
	for _, o := range snap.Objects {
		if err := b.Env.Place(o.Clone()); err != nil {
			return nil, err
		}
	}

	if snap.Active != "" && b.Unit(snap.Active) == nil {
		return nil, fmt.Errorf("%w: active unit %s is not in the roster", domain.ErrConfigurationMissing, snap.Active)
	}
	for _, id := range snap.Queue {
		if b.Unit(id) == nil {
			return nil, fmt.Errorf("%w: queued unit %s is not in the roster", domain.ErrConfigurationMissing, id)
		}
	}
	if err := b.CheckInvariants(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigurationMissing, err)
	}

	s := snap
	b.resume = &s

	logger.Log.WithFields(logrus.Fields{
		"component": "battle",
		"round":     snap.Round,
		"mission":   snap.MissionType,
		"active":    snap.Active,
	}).Info("Battle restored.")
	return b, nil
}
