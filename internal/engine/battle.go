package engine

import (
	"fmt"
	"math/rand"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/engine/handlers"
	"github.com/BastardoSenpai/BootlegXCom/internal/engine/handlers/actions"
	"github.com/BastardoSenpai/BootlegXCom/internal/mission"
	"github.com/BastardoSenpai/BootlegXCom/internal/systems"
	"github.com/BastardoSenpai/BootlegXCom/pkg/api"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Battle - один изолированный бой: сетка, юниты, миссия и планировщик.
// Не потокобезопасен, доступ сериализует Session.
type Battle struct {
	cfg  Config
	Grid *domain.Grid

	units []*domain.Unit // в порядке регистрации, мертвые остаются
	index map[domain.UnitID]*domain.Unit

	Resolver  *systems.Resolver
	AI        *systems.DecisionEngine
	Mission   *mission.Tracker
	Scheduler *Scheduler
	Env       *systems.Environment

	Logs []api.LogEntry // Боевой лог

	rng      *rand.Rand
	sink     domain.EventSink
	handlers map[domain.ActionType]handlers.HandlerFunc
	logSeq   int

	// resume - раунд из снимка, применяется в Start
	resume *BattleSnapshot
}

// UnitDied - полезная нагрузка UNIT_DIED
type UnitDied struct {
	UnitID   domain.UnitID   `json:"unitId"`
	Team     string          `json:"team"`
	KillerID domain.UnitID   `json:"killerId,omitempty"`
	Pos      domain.Position `json:"pos"`
}

// LevelUp - полезная нагрузка LEVEL_UP
type LevelUp struct {
	Level       int      `json:"level"`
	SkillPoints int      `json:"skillPoints"`
	Available   []string `json:"available,omitempty"`
}

// RoundStarted - полезная нагрузка ROUND_STARTED
type RoundStarted struct {
	Round int             `json:"round"`
	Order []domain.UnitID `json:"order"`
}

// TurnStarted - полезная нагрузка TURN_STARTED
type TurnStarted struct {
	ActionPoints int  `json:"actionPoints"`
	AI           bool `json:"ai"`
}

// StatusChanged - полезная нагрузка MISSION_STATUS_CHANGED
type StatusChanged struct {
	Mission string `json:"mission"`
	Old     string `json:"old"`
	Status  string `json:"status"`
	Reason  string `json:"reason"`
}

// NewBattle регистрирует юнитов на сетке и связывает все системы.
// Здоровье и бюджет ходов масштабируются сложностью.
func NewBattle(cfg Config, grid *domain.Grid, units []*domain.Unit, setup mission.Setup, sink domain.EventSink) (*Battle, error) {
	if grid == nil {
		return nil, fmt.Errorf("%w: battle needs a grid", domain.ErrConfigurationMissing)
	}
	difficulty := cfg.Difficulty.Settings()

	b := newBattle(cfg, grid, sink)
	b.rng = rand.New(rand.NewSource(cfg.Seed))

	// при ошибке сетка возвращается в исходное состояние
	var placed []*domain.Unit
	rollback := func() {
		for _, u := range placed {
			_ = grid.Vacate(u.Pos, u.ID)
		}
	}
	for _, u := range units {
		if err := b.register(u); err != nil {
			rollback()
			return nil, err
		}
		if err := grid.Occupy(u.Pos, u.ID); err != nil {
			rollback()
			return nil, err
		}
		placed = append(placed, u)
	}

	setup.TurnBudget = difficulty.ScaleTurns(setup.TurnBudget)
	tracker, err := mission.NewTracker(setup, b)
	if err != nil {
		rollback()
		return nil, err
	}
	for _, u := range units {
		difficulty.ScaleHealth(u)
	}
	b.Mission = tracker
	b.wire(difficulty)

	logger.Log.WithFields(logrus.Fields{
		"component":  "battle",
		"seed":       cfg.Seed,
		"difficulty": cfg.Difficulty,
		"mission":    setup.Type,
		"units":      len(units),
		"turns":      setup.TurnBudget,
	}).Info("Battle created.")

	return b, nil
}

func newBattle(cfg Config, grid *domain.Grid, sink domain.EventSink) *Battle {
	if sink == nil {
		sink = domain.EventSinkFunc(func(domain.Event) {})
	}
	return &Battle{
		cfg:      cfg,
		Grid:     grid,
		index:    make(map[domain.UnitID]*domain.Unit),
		Logs:     []api.LogEntry{},
		sink:     sink,
		handlers: actions.Registry(),
	}
}

func (b *Battle) register(u *domain.Unit) error {
	if u == nil || u.ID == "" {
		return fmt.Errorf("%w: unit without id", domain.ErrConfigurationMissing)
	}
	if _, exists := b.index[u.ID]; exists {
		return fmt.Errorf("%w: duplicate unit id %s", domain.ErrConfigurationMissing, u.ID)
	}
	b.units = append(b.units, u)
	b.index[u.ID] = u
	return nil
}

// wire связывает резолвер, ИИ, трекер и планировщик через хуки
func (b *Battle) wire(difficulty domain.DifficultySettings) {
	b.Resolver = systems.NewResolver(b.Grid, b.cfg.Combat, difficulty, b.rng)
	b.Resolver.OnDeath = b.handleDeath
	b.Resolver.OnResolved = b.onAttackResolved

	b.AI = systems.NewDecisionEngine(b.Resolver, b, b.cfg.AI, b.rng)
	b.AI.Halt = b.Over
	b.AI.OnAction = b.onAIAction

	b.Env = systems.NewEnvironment(b.Grid, b, b.Resolver)
	b.AI.Env = b.Env

	b.Mission.OnObjectiveUpdated = func(o mission.Objective) {
		if o.Kind == mission.ObjectiveSecureVIP && o.Completed {
			b.takeCaptive()
		}
		b.publish(domain.Event{Type: domain.EventObjectiveUpdated, Payload: o})
	}
	b.Mission.OnStatusChange = b.onMissionStatus

	b.Scheduler = NewScheduler(b.Units, b.rng)
	b.Scheduler.Controller = b.AI
	b.Scheduler.Halt = b.Over
	b.Scheduler.OnRoundStart = func(round int) {
		b.publish(domain.Event{Type: domain.EventRoundStarted, Payload: RoundStarted{Round: round, Order: b.Scheduler.QueueOrder()}})
	}
	b.Scheduler.OnRoundEnd = func(int) {
		b.Mission.EndRound(b)
	}
	b.Scheduler.OnActivate = func(u *domain.Unit) {
		b.publish(domain.Event{Type: domain.EventTurnStarted, UnitID: u.ID, Payload: TurnStarted{ActionPoints: u.ActionPoints, AI: u.IsAI()}})
		if effects := b.Env.TurnStarted(u); len(effects) > 0 {
			b.publishEffects(u, effects)
			b.Mission.CheckObjectives(b)
		}
	}
	b.Scheduler.OnTurnEnd = func(u *domain.Unit) {
		b.publish(domain.Event{Type: domain.EventTurnEnded, UnitID: u.ID})
		b.Mission.CheckObjectives(b)
	}
}

// PlaceObjects расставляет объекты окружения. Вызывается до Start.
func (b *Battle) PlaceObjects(objs ...*domain.EnvObject) error {
	for _, o := range objs {
		if err := b.Env.Place(o); err != nil {
			return err
		}
	}
	return nil
}

// publishEffects - события ENVIRONMENT_EFFECT и лог по каждому урону
func (b *Battle) publishEffects(u *domain.Unit, effects []systems.EnvEffect) {
	for _, eff := range effects {
		b.publish(domain.Event{Type: domain.EventEnvironment, UnitID: u.ID, Payload: eff})
		for _, h := range eff.Hits {
			if h.Damage > 0 {
				b.AddLog(fmt.Sprintf("%s: %s получает %d урона.", eff.Source, h.UnitID, h.Damage), "COMBAT")
			}
		}
	}
}

// takeCaptive - взятый офицер в миссии захвата переходит под контроль игрока
func (b *Battle) takeCaptive() {
	if b.Mission.Type() != domain.MissionCapture {
		return
	}
	vip := b.index[b.Mission.Setup().VIPID]
	if vip == nil || vip.Dead || vip.Team == domain.TeamPlayer {
		return
	}
	vip.Team = domain.TeamPlayer
	logger.Log.WithFields(logrus.Fields{
		"component": "battle",
		"unit":      vip.ID,
	}).Info("Captive secured.")
}

// --- UnitProvider / MissionContext ---

func (b *Battle) Unit(id domain.UnitID) *domain.Unit { return b.index[id] }

func (b *Battle) Units() []*domain.Unit { return b.units }

func (b *Battle) MissionType() domain.MissionType { return b.Mission.Type() }

func (b *Battle) FocusCell() (domain.Position, bool) { return b.Mission.FocusCell() }

func (b *Battle) DefendedCell() (domain.Position, bool) { return b.Mission.DefendedCell() }

// Over - миссия в терминальном состоянии, цикл ходов остановлен
func (b *Battle) Over() bool { return b.Mission.IsOver() }

func (b *Battle) Config() Config { return b.cfg }

// Start запускает первый раунд (или продолжает восстановленный).
// Ходы ИИ выполняются сразу, управление возвращается на ходе игрока.
func (b *Battle) Start() error {
	if snap := b.resume; snap != nil {
		b.resume = nil
		b.Scheduler.Resume(snap.Round, snap.Queue, b.Unit(snap.Active), b.Unit)
		return nil
	}
	return b.Scheduler.Start()
}

// Execute выполняет команду игрока. Действовать может только активный юнит игрока.
// Отказ возвращается ошибкой, мир при этом не меняется.
func (b *Battle) Execute(cmd domain.InternalCommand) (handlers.Result, error) {
	handler, ok := b.handlers[cmd.Action]
	if !ok {
		return handlers.Result{}, fmt.Errorf("%w: unknown action %v", domain.ErrIllegalAction, cmd.Action)
	}

	if cmd.Action == domain.ActionState {
		return handler(handlers.Context{Actor: b.Unit(cmd.Token), State: func() any { return b.State() }}, cmd.Payload)
	}

	if b.Over() {
		return handlers.Result{}, fmt.Errorf("%w: mission is %s", domain.ErrIllegalAction, b.Mission.Status())
	}
	actor := b.Scheduler.Active()
	if actor == nil || actor.ID != cmd.Token || actor.IsAI() {
		return handlers.Result{}, fmt.Errorf("%w: it is not %s's turn", domain.ErrIllegalAction, cmd.Token)
	}

	ctx := handlers.Context{
		Finder:      b,
		Grid:        b.Grid,
		Resolver:    b.Resolver,
		Env:         b.Env,
		Progression: b.cfg.Progression,
		Actor:       actor,
		EndTurn:     b.Scheduler.EndCurrentTurn,
		State:       func() any { return b.State() },
	}

	res, err := handler(ctx, cmd.Payload)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"component": "battle",
			"action":    cmd.Action,
			"actor_id":  actor.ID,
		}).WithError(err).Debug("Command rejected.")
		return handlers.Result{}, err
	}

	for _, e := range res.Events {
		b.publish(e)
	}
	if res.Msg != "" {
		b.AddLog(res.Msg, res.MsgType)
	}

	if cmd.Action == domain.ActionMove && !actor.Dead {
		b.publishEffects(actor, b.Env.Entered(actor))
	}

	if cmd.Action.ChangesState() {
		b.Mission.CheckObjectives(b)
		// Ход игрока заканчивается сам, когда AP кончились
		if !b.Over() && b.Scheduler.Active() == actor && (actor.Dead || actor.ActionPoints <= 0) {
			if err := b.Scheduler.EndCurrentTurn(); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

// publish проставляет раунд и отдает событие наружу
func (b *Battle) publish(e domain.Event) {
	if b.Scheduler != nil {
		e.Round = b.Scheduler.Round()
	}
	b.sink.Publish(e)
}

// handleDeath - единственная точка обработки смерти: клетка, очередь, событие, опыт
func (b *Battle) handleDeath(victim, killer *domain.Unit) {
	deathLogger := logger.Log.WithFields(logrus.Fields{
		"component": "battle",
		"unit_id":   victim.ID,
		"pos":       victim.Pos,
	})

	if err := b.Grid.Vacate(victim.Pos, victim.ID); err != nil {
		deathLogger.WithError(err).Error("Dead unit was not on its cell.")
	}
	b.Scheduler.Remove(victim.ID)

	died := UnitDied{UnitID: victim.ID, Team: victim.Team.String(), Pos: victim.Pos}
	if killer != nil {
		died.KillerID = killer.ID
	}
	b.publish(domain.Event{Type: domain.EventUnitDied, UnitID: victim.ID, Payload: died})
	b.AddLog(fmt.Sprintf("%s погибает.", victim.Name), "COMBAT")
	deathLogger.Info("Unit died.")

	if killer != nil && !killer.Dead {
		b.grantExperience(killer, b.cfg.Progression.KillExperience)
	}
}

func (b *Battle) grantExperience(u *domain.Unit, amount int) {
	if u.Progression == nil {
		return
	}
	if gained := u.Progression.AddExperience(amount, u, b.cfg.Progression); gained > 0 {
		lvl := LevelUp{Level: u.Progression.Level, SkillPoints: u.Progression.SkillPoints}
		if u.Class != nil && u.Class.Tree != nil {
			lvl.Available = u.Class.Tree.Available()
		}
		b.publish(domain.Event{Type: domain.EventLevelUp, UnitID: u.ID, Payload: lvl})
		b.AddLog(fmt.Sprintf("%s достигает уровня %d.", u.Name, lvl.Level), "INFO")
	}
}

func (b *Battle) onAttackResolved(res systems.AttackResult) {
	b.publish(domain.Event{Type: domain.EventAttackResolved, UnitID: res.AttackerID, Payload: res})
	if res.CoverDestroyed && res.CoverPos != nil {
		b.publish(domain.Event{Type: domain.EventCoverDestroyed, UnitID: res.AttackerID, Payload: *res.CoverPos})
	}
}

func (b *Battle) onAIAction(u *domain.Unit, a systems.AIAction, outcome any) {
	switch o := outcome.(type) {
	case systems.Moved:
		b.publish(domain.Event{Type: domain.EventUnitMoved, UnitID: u.ID, Payload: o})
		b.publishEffects(u, b.Env.Entered(u))
	case systems.AbilityResult:
		b.publish(domain.Event{Type: domain.EventAbilityUsed, UnitID: u.ID, Payload: o})
		b.AddLog(fmt.Sprintf("%s применяет %s.", u.Name, o.Ability), "COMBAT")
	case systems.AttackResult:
		if a.Target != nil {
			b.AddLog(fmt.Sprintf("%s стреляет в %s.", u.Name, a.Target.Name), "COMBAT")
		}
	}
	b.Mission.CheckObjectives(b)
}

func (b *Battle) onMissionStatus(old, next mission.Status, reason string) {
	b.publish(domain.Event{Type: domain.EventMissionStatusChanged, Payload: StatusChanged{
		Mission: b.Mission.Type().String(),
		Old:     old.String(),
		Status:  next.String(),
		Reason:  reason,
	}})
	b.AddLog(fmt.Sprintf("Миссия: %s (%s).", next, reason), "MISSION")

	if next != mission.StatusCompleted {
		return
	}
	for _, u := range b.units {
		if u.Team == domain.TeamPlayer && !u.Dead && !u.IsVIP {
			b.grantExperience(u, b.cfg.Progression.MissionExperience)
		}
	}
}

// CheckInvariants сверяет сетку, очередь и юнитов. Нарушение - ошибка программы.
func (b *Battle) CheckInvariants() error {
	for _, u := range b.units {
		cell, ok := b.Grid.CellAt(u.Pos)
		if !ok {
			return fmt.Errorf("unit %s is outside the grid at %v", u.ID, u.Pos)
		}
		if u.Dead {
			if cell.Occupied && cell.OccupantID == u.ID {
				return fmt.Errorf("dead unit %s still occupies %v", u.ID, u.Pos)
			}
			if b.Scheduler.turns.Contains(u.ID) {
				return fmt.Errorf("dead unit %s is still queued", u.ID)
			}
			continue
		}
		if !cell.Occupied || cell.OccupantID != u.ID {
			return fmt.Errorf("living unit %s does not occupy %v", u.ID, u.Pos)
		}
	}

	occupied := 0
	for _, c := range b.Grid.Cells() {
		if !c.Occupied {
			continue
		}
		occupied++
		u := b.Unit(c.OccupantID)
		if u == nil || u.Dead || u.Pos != c.Pos {
			return fmt.Errorf("cell %v is held by %q which is not there", c.Pos, c.OccupantID)
		}
	}

	living := 0
	for _, u := range b.units {
		if !u.Dead {
			living++
		}
	}
	if occupied != living {
		return fmt.Errorf("%d occupied cells for %d living units", occupied, living)
	}
	return nil
}
