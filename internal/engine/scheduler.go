package engine

import (
	"fmt"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"

	"github.com/sirupsen/logrus"
)

// SchedulerState - состояние планировщика ходов
type SchedulerState uint8

const (
	StateIdle SchedulerState = iota
	StateTurnOrderBuilding
	StateUnitActive
	StateTurnEnding
)

var schedulerStateToString = map[SchedulerState]string{
	StateIdle:              "IDLE",
	StateTurnOrderBuilding: "TURN_ORDER_BUILDING",
	StateUnitActive:        "UNIT_ACTIVE",
	StateTurnEnding:        "TURN_ENDING",
}

func (s SchedulerState) String() string {
	if str, ok := schedulerStateToString[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Controller - кто ходит за юнитов не-игрока
type Controller interface {
	PerformTurn(u *domain.Unit)
}

// Scheduler - Turn Scheduler. Раунд: все живые юниты в случайном порядке,
// каждый ходит ровно один раз.
type Scheduler struct {
	turns  *TurnManager
	roster func() []*domain.Unit
	rng    domain.Rand

	state  SchedulerState
	active *domain.Unit
	round  int

	Controller Controller
	// Halt останавливает цикл (миссия завершена)
	Halt func() bool

	OnRoundStart func(round int)
	OnRoundEnd   func(round int)
	OnActivate   func(u *domain.Unit)
	OnTurnEnd    func(u *domain.Unit)
}

// NewScheduler. roster возвращает всех юнитов боя (мертвые отфильтровываются).
func NewScheduler(roster func() []*domain.Unit, rng domain.Rand) *Scheduler {
	return &Scheduler{
		turns:  NewTurnManager(),
		roster: roster,
		rng:    rng,
	}
}

func (s *Scheduler) State() SchedulerState { return s.state }
func (s *Scheduler) Active() *domain.Unit  { return s.active }
func (s *Scheduler) Round() int            { return s.round }

// QueueOrder - кто еще походит в этом раунде
func (s *Scheduler) QueueOrder() []domain.UnitID { return s.turns.Order() }

// Turns - очередь (для отладки)
func (s *Scheduler) Turns() *TurnManager { return s.turns }

// Start строит первый раунд и активирует первого юнита
func (s *Scheduler) Start() error {
	if s.state != StateIdle || s.round > 0 {
		return fmt.Errorf("%w: scheduler already started", domain.ErrIllegalAction)
	}
	s.advance()
	return nil
}

// Resume восстанавливает раунд из снимка: оставшаяся очередь и активный юнит
// (его AP не сбрасываются).
func (s *Scheduler) Resume(round int, order []domain.UnitID, active *domain.Unit, find func(domain.UnitID) *domain.Unit) {
	s.round = round
	s.turns.Clear()
	for i, id := range order {
		if u := find(id); u != nil && !u.Dead {
			s.turns.AddUnit(u, i)
		}
	}

	if active != nil && !active.Dead {
		s.active = active
		s.state = StateUnitActive
		if !active.IsAI() {
			return
		}
		s.runController(active)
		s.finishTurn(active)
	}
	s.advance()
}

// EndCurrentTurn завершает ход активного юнита и продолжает цикл
func (s *Scheduler) EndCurrentTurn() error {
	if s.state != StateUnitActive || s.active == nil {
		return fmt.Errorf("%w: no active unit", domain.ErrIllegalAction)
	}
	s.finishTurn(s.active)
	s.advance()
	return nil
}

// Remove убирает юнита из очереди (смерть)
func (s *Scheduler) Remove(id domain.UnitID) {
	s.turns.RemoveUnit(id)
}

// advance - основной цикл. Итеративный: ходы ИИ не вызывают advance рекурсивно.
// Возвращает управление, когда ходит игрок или бой остановлен.
func (s *Scheduler) advance() {
	for {
		if s.halted() {
			s.active = nil
			s.state = StateIdle
			return
		}

		if s.turns.Len() == 0 {
			if s.round > 0 && s.OnRoundEnd != nil {
				s.OnRoundEnd(s.round)
				if s.halted() {
					continue
				}
			}
			if !s.buildRound() {
				s.active = nil
				s.state = StateIdle
				return
			}
		}

		u := s.turns.PopNext()
		if u == nil || u.Dead {
			continue
		}

		s.activate(u)
		// юнит мог погибнуть в начале хода (кислота)
		if u.Dead {
			s.active = nil
			continue
		}
		if !u.IsAI() {
			return
		}
		s.runController(u)
		s.finishTurn(u)
	}
}

func (s *Scheduler) buildRound() bool {
	s.state = StateTurnOrderBuilding

	var living []*domain.Unit
	for _, u := range s.roster() {
		if !u.Dead {
			living = append(living, u)
		}
	}
	if len(living) == 0 {
		return false
	}

	s.rng.Shuffle(len(living), func(i, j int) { living[i], living[j] = living[j], living[i] })
	s.round++
	for i, u := range living {
		s.turns.AddUnit(u, i)
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "turn_scheduler",
		"round":     s.round,
		"order":     s.turns.Order(),
	}).Info("Round started.")

	if s.OnRoundStart != nil {
		s.OnRoundStart(s.round)
	}
	return true
}

func (s *Scheduler) activate(u *domain.Unit) {
	s.state = StateUnitActive
	s.active = u
	u.ResetForTurn()

	logger.Log.WithFields(logrus.Fields{
		"component": "turn_scheduler",
		"round":     s.round,
		"unit_id":   u.ID,
		"team":      u.Team,
	}).Debug("Unit activated.")

	if s.OnActivate != nil {
		s.OnActivate(u)
	}
}

func (s *Scheduler) runController(u *domain.Unit) {
	if s.Controller != nil && !u.Dead && !s.halted() {
		s.Controller.PerformTurn(u)
	}
}

func (s *Scheduler) finishTurn(u *domain.Unit) {
	s.state = StateTurnEnding
	u.EndTurn()
	if s.OnTurnEnd != nil {
		s.OnTurnEnd(u)
	}
	s.active = nil
}

func (s *Scheduler) halted() bool {
	return s.Halt != nil && s.Halt()
}
