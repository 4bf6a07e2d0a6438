package mission

import (
	"fmt"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Status - состояние миссии. Completed и Failed терминальные.
type Status uint8

const (
	StatusInProgress Status = iota
	StatusCompleted
	StatusFailed
)

var statusToString = map[Status]string{
	StatusInProgress: "IN_PROGRESS",
	StatusCompleted:  "COMPLETED",
	StatusFailed:     "FAILED",
}

func (s Status) String() string {
	if str, ok := statusToString[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// World - состояние боя, по которому считаются цели
type World interface {
	Unit(id domain.UnitID) *domain.Unit
	Units() []*domain.Unit
}

// Tracker - Mission Objective Tracker
type Tracker struct {
	setup          Setup
	status         Status
	reason         string
	objectives     []Objective
	turnsRemaining int
	initialEnemies int
	vipSecured     bool

	// OnStatusChange вызывается один раз при переходе в терминальное состояние
	OnStatusChange func(old, next Status, reason string)
	// OnObjectiveUpdated - прогресс или выполнение цели изменились
	OnObjectiveUpdated func(o Objective)
}

// NewTracker проверяет setup против мира и строит список целей
func NewTracker(setup Setup, world World) (*Tracker, error) {
	if err := setup.Validate(); err != nil {
		return nil, err
	}
	setup.withDefaults()

	enemies := countLiving(world, domain.TeamEnemy)
	kills := setup.RequiredKills
	if kills == 0 {
		kills = enemies
	}

	switch setup.Type {
	case domain.MissionElimination:
		if kills < 1 || kills > enemies {
			return nil, fmt.Errorf("%w: %d kills required, %d enemies on the map", domain.ErrConfigurationMissing, kills, enemies)
		}
	case domain.MissionCapture, domain.MissionVIPRescue:
		if world.Unit(setup.VIPID) == nil {
			return nil, fmt.Errorf("%w: vip %s is not on the map", domain.ErrConfigurationMissing, setup.VIPID)
		}
	case domain.MissionBossEncounter:
		if world.Unit(setup.BossID) == nil {
			return nil, fmt.Errorf("%w: boss %s is not on the map", domain.ErrConfigurationMissing, setup.BossID)
		}
	}

	return &Tracker{
		setup:          setup,
		objectives:     buildObjectives(&setup, kills),
		turnsRemaining: setup.TurnBudget,
		initialEnemies: enemies,
	}, nil
}

func (t *Tracker) Setup() Setup                          { return t.setup }
func (t *Tracker) Type() domain.MissionType              { return t.setup.Type }
func (t *Tracker) Status() Status                        { return t.status }
func (t *Tracker) Reason() string                        { return t.reason }
func (t *Tracker) TurnsRemaining() int                   { return t.turnsRemaining }
func (t *Tracker) IsOver() bool                          { return t.status != StatusInProgress }
func (t *Tracker) FocusCell() (domain.Position, bool)    { return t.setup.Focus() }
func (t *Tracker) DefendedCell() (domain.Position, bool) { return t.setup.Defended() }

// Objectives - копия списка целей
func (t *Tracker) Objectives() []Objective {
	out := make([]Objective, len(t.objectives))
	copy(out, t.objectives)
	return out
}

// CheckObjectives пересчитывает цели по текущему миру. Повторный вызов
// без изменений мира дает тот же результат.
func (t *Tracker) CheckObjectives(world World) Status {
	if t.status != StatusInProgress {
		return t.status
	}

	if countLiving(world, domain.TeamPlayer) == 0 {
		t.finish(StatusFailed, "squad wiped out")
		return t.status
	}

	allDone := true
	for i := range t.objectives {
		before := t.objectives[i]
		t.evaluate(&t.objectives[i], world)
		if t.objectives[i] != before && t.OnObjectiveUpdated != nil {
			t.OnObjectiveUpdated(t.objectives[i])
		}
		allDone = allDone && t.objectives[i].Completed
	}

	if t.vipLost(world) {
		t.finish(StatusFailed, "vip killed")
		return t.status
	}
	if allDone {
		t.finish(StatusCompleted, "all objectives completed")
	}
	return t.status
}

// EndRound - конец раунда: счетчики ходов, обратный отсчет, правило провала
func (t *Tracker) EndRound(world World) Status {
	if t.status != StatusInProgress {
		return t.status
	}

	for i := range t.objectives {
		o := &t.objectives[i]
		if !o.Kind.accumulates() || o.Progress >= o.Required {
			continue
		}
		if t.playerInZone(world, t.zoneFor(o.Kind)) {
			o.Progress++
		}
	}
	t.turnsRemaining--

	if t.CheckObjectives(world) != StatusInProgress {
		return t.status
	}
	if t.turnsRemaining > 0 {
		return t.status
	}

	if t.setup.Type == domain.MissionDefendPosition {
		// Успех по истечении времени уже проверен выше: позиция не удержана
		t.finish(StatusFailed, "defense position lost")
	} else {
		t.finish(StatusFailed, "ran out of turns")
	}
	return t.status
}

func (t *Tracker) evaluate(o *Objective, world World) {
	switch o.Kind {
	case ObjectiveEliminate:
		o.Progress = max(t.initialEnemies-countLiving(world, domain.TeamEnemy), 0)
	case ObjectiveReachExtraction:
		o.Progress = boolToInt(t.playerInZone(world, t.setup.ExtractionPoint))
	case ObjectiveExtractSquad:
		o.Progress = boolToInt(t.squadInZone(world, t.setup.ExtractionPoint))
	case ObjectiveSecureVIP:
		if !t.vipSecured {
			t.vipSecured = t.vipReached(world)
		}
		o.Progress = boolToInt(t.vipSecured)
	case ObjectiveEscortVIP:
		vip := world.Unit(t.setup.VIPID)
		escorted := t.vipSecured && vip != nil && !vip.Dead && inZone(vip.Pos, t.setup.ExtractionPoint, t.setup.ZoneRadius)
		o.Progress = boolToInt(escorted)
	case ObjectiveHackTerminal:
		// Копится в EndRound
	case ObjectiveHoldPosition:
		held := t.turnsRemaining <= 0 && t.playerInZone(world, t.setup.DefensePosition)
		o.Completed = held
		return
	case ObjectiveDefeatBoss:
		boss := world.Unit(t.setup.BossID)
		o.Progress = boolToInt(boss == nil || boss.Dead)
	}
	o.Completed = o.Progress >= o.Required
}

func (t *Tracker) zoneFor(k ObjectiveKind) *domain.Position {
	if k == ObjectiveHackTerminal {
		return t.setup.TerminalPoint
	}
	return t.setup.DefensePosition
}

func (t *Tracker) playerInZone(world World, center *domain.Position) bool {
	for _, u := range world.Units() {
		if u.Team == domain.TeamPlayer && !u.Dead && !u.IsVIP && inZone(u.Pos, center, t.setup.ZoneRadius) {
			return true
		}
	}
	return false
}

func (t *Tracker) squadInZone(world World, center *domain.Position) bool {
	found := false
	for _, u := range world.Units() {
		if u.Team != domain.TeamPlayer || u.Dead || u.IsVIP {
			continue
		}
		if !inZone(u.Pos, center, t.setup.ZoneRadius) {
			return false
		}
		found = true
	}
	return found
}

// vipReached - рядом с VIP стоит боец игрока, или VIP уже на точке эвакуации
func (t *Tracker) vipReached(world World) bool {
	vip := world.Unit(t.setup.VIPID)
	if vip == nil || vip.Dead {
		return false
	}
	if inZone(vip.Pos, t.setup.ExtractionPoint, t.setup.ZoneRadius) {
		return true
	}
	for _, u := range world.Units() {
		if u.ID != vip.ID && u.Team == domain.TeamPlayer && !u.Dead && u.Pos.IsAdjacent(vip.Pos) {
			return true
		}
	}
	return false
}

func (t *Tracker) vipLost(world World) bool {
	if t.setup.Type != domain.MissionCapture && t.setup.Type != domain.MissionVIPRescue {
		return false
	}
	vip := world.Unit(t.setup.VIPID)
	return vip == nil || vip.Dead
}

func (t *Tracker) finish(next Status, reason string) {
	if t.status != StatusInProgress || next == StatusInProgress {
		return
	}
	old := t.status
	t.status = next
	t.reason = reason

	logger.Log.WithFields(logrus.Fields{
		"component":       "mission_tracker",
		"mission":         t.setup.Type,
		"status":          next,
		"reason":          reason,
		"turns_remaining": t.turnsRemaining,
	}).Info("Mission status changed.")

	if t.OnStatusChange != nil {
		t.OnStatusChange(old, next, reason)
	}
}

func countLiving(world World, team domain.Team) int {
	n := 0
	for _, u := range world.Units() {
		if u.Team == team && !u.Dead && !u.IsVIP {
			n++
		}
	}
	return n
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
