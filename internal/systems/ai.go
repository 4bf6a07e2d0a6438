package systems

import (
	"math"
	"sort"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"

	"github.com/sirupsen/logrus"
)

// AITuning - пороги и веса оценки кандидатов
type AITuning struct {
	DefensiveThreshold    float64 `mapstructure:"defensiveThreshold"`
	AggressiveThreshold   float64 `mapstructure:"aggressiveThreshold"`
	AggressiveAttackScale float64 `mapstructure:"aggressiveAttackScale"`
	DefensiveAttackScale  float64 `mapstructure:"defensiveAttackScale"`
	AbilityBaseline       float64 `mapstructure:"abilityBaseline"`
	AbilityAlignedScale   float64 `mapstructure:"abilityAlignedScale"`
	FullCoverBonus        float64 `mapstructure:"fullCoverBonus"`
	HalfCoverBonus        float64 `mapstructure:"halfCoverBonus"`
	DistanceWeight        float64 `mapstructure:"distanceWeight"`
	PatrolBand            float64 `mapstructure:"patrolBand"` // доля дальности атаки
	ObjectiveWeight       float64 `mapstructure:"objectiveWeight"`
	HazardPenalty         float64 `mapstructure:"hazardPenalty"` // клетка в кислоте или под лазером
}

func DefaultAITuning() AITuning {
	return AITuning{
		DefensiveThreshold:    0.3,
		AggressiveThreshold:   0.7,
		AggressiveAttackScale: 1.5,
		DefensiveAttackScale:  0.5,
		AbilityBaseline:       0.8,
		AbilityAlignedScale:   1.5,
		FullCoverBonus:        2,
		HalfCoverBonus:        1,
		DistanceWeight:        0.25,
		PatrolBand:            0.75,
		ObjectiveWeight:       0.1,
		HazardPenalty:         5,
	}
}

type AIActionType uint8

const (
	AIAttack AIActionType = iota
	AIUseAbility
	AIMove
)

var aiActionToString = map[AIActionType]string{
	AIAttack:     "ATTACK",
	AIUseAbility: "USE_ABILITY",
	AIMove:       "MOVE",
}

func (t AIActionType) String() string {
	if s, ok := aiActionToString[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// AIAction - кандидат на действие. Живет в пределах одной активации.
type AIAction struct {
	Type    AIActionType
	Target  *domain.Unit
	Cell    domain.Position
	Ability string
	Score   float64
}

// Moved - итог перемещения, отдается в OnAction
type Moved struct {
	UnitID domain.UnitID   `json:"unitId"`
	From   domain.Position `json:"from"`
	To     domain.Position `json:"to"`
}

// MissionContext - что ИИ знает о миссии
type MissionContext interface {
	MissionType() domain.MissionType
	// FocusCell - ключевая клетка миссии (эвакуация, терминал, ...)
	FocusCell() (domain.Position, bool)
	// DefendedCell - клетка, которую охраняет Guard
	DefendedCell() (domain.Position, bool)
}

// Battlefield - мир глазами ИИ
type Battlefield interface {
	UnitProvider
	MissionContext
}

// DecisionEngine - ИИ врагов
type DecisionEngine struct {
	Grid     domain.GridService
	Resolver *Resolver
	World    Battlefield
	Tuning   AITuning
	Rng      domain.Rand
	// Env - объекты окружения; nil - карта без объектов
	Env *Environment

	// Halt прерывает активацию (миссия завершилась посреди хода)
	Halt func() bool
	// OnAction вызывается после каждого выполненного действия.
	// outcome: AttackResult, AbilityResult или Moved.
	OnAction func(u *domain.Unit, a AIAction, outcome any)
}

func NewDecisionEngine(resolver *Resolver, world Battlefield, tuning AITuning, rng domain.Rand) *DecisionEngine {
	return &DecisionEngine{
		Grid:     resolver.Grid,
		Resolver: resolver,
		World:    world,
		Tuning:   tuning,
		Rng:      rng,
	}
}

// ClassifyBehavior выбирает поведение по здоровью и типу миссии
func (e *DecisionEngine) ClassifyBehavior(u *domain.Unit) domain.Behavior {
	hf := u.HealthFraction()
	switch {
	case hf <= e.Tuning.DefensiveThreshold:
		return domain.BehaviorDefensive
	case hf >= e.Tuning.AggressiveThreshold:
		return domain.BehaviorAggressive
	}
	if b, ok := e.World.MissionType().EnemyBehavior(); ok {
		return b
	}
	if e.Rng.Intn(2) == 0 {
		return domain.BehaviorAggressive
	}
	return domain.BehaviorDefensive
}

// PerformTurn тратит все AP юнита. Каждое выполненное действие строго
// уменьшает AP, иначе цикл завершается.
func (e *DecisionEngine) PerformTurn(u *domain.Unit) {
	if u == nil || u.Dead {
		return
	}
	behavior := e.ClassifyBehavior(u)

	aiLogger := logger.Log.WithFields(logrus.Fields{
		"component": "ai_system",
		"unit_id":   u.ID,
		"behavior":  behavior,
	})
	aiLogger.Debug("AI turn started.")

	for u.ActionPoints > 0 && !u.Dead {
		if e.Halt != nil && e.Halt() {
			aiLogger.Debug("AI turn halted.")
			return
		}

		candidates := e.Candidates(u, behavior)
		if len(candidates) == 0 {
			aiLogger.Debug("No candidates, ending turn.")
			return
		}

		apBefore := u.ActionPoints
		executed := false
		for _, c := range orderByScore(candidates) {
			outcome, err := e.execute(u, c)
			if err != nil {
				aiLogger.WithError(err).WithField("action", c.Type).Debug("Candidate rejected, trying next.")
				continue
			}
			aiLogger.WithFields(logrus.Fields{
				"action":  c.Type,
				"ability": c.Ability,
				"cell":    c.Cell,
				"score":   c.Score,
			}).Debug("AI action executed.")
			if e.OnAction != nil {
				e.OnAction(u, c, outcome)
			}
			executed = true
			break
		}

		if !executed || u.ActionPoints >= apBefore {
			return
		}
	}
}

// Candidates - атаки, затем способности, затем один лучший ход
func (e *DecisionEngine) Candidates(u *domain.Unit, behavior domain.Behavior) []AIAction {
	var out []AIAction
	units := e.World.Units()

	// Атаки
	for _, t := range units {
		if spared(u, t) || ValidateAttack(e.Grid, u, t, domain.APCostAttack) != nil {
			continue
		}
		hc := e.Resolver.HitChance(u, t)
		if hc <= 0 {
			continue
		}
		out = append(out, AIAction{Type: AIAttack, Target: t, Score: hc * e.attackScale(behavior)})
	}

	// Способности
	for _, a := range u.Abilities {
		if CanUse(u, a) != nil {
			continue
		}
		score := e.Tuning.AbilityBaseline
		if aligned(behavior, a.Kind) {
			score *= e.Tuning.AbilityAlignedScale
		}
		for _, t := range units {
			if !e.abilityApplies(u, t, a) {
				continue
			}
			out = append(out, AIAction{Type: AIUseAbility, Target: t, Ability: a.Name, Score: score})
		}
	}

	// Перемещение
	if mv, ok := e.bestMove(u, behavior); ok {
		out = append(out, mv)
	}
	return out
}

func (e *DecisionEngine) abilityApplies(u, t *domain.Unit, a *domain.Ability) bool {
	switch a.Kind {
	case domain.AbilityOffensive:
		if spared(u, t) || ValidateAttack(e.Grid, u, t, a.Cost) != nil {
			return false
		}
		return e.Resolver.StrikeHitChance(u, t, Strike{AccuracyBonus: a.Offensive.AccuracyBonus}) > 0
	case domain.AbilitySupport:
		if ValidateSupport(u, t, a) != nil {
			return false
		}
		// Бесполезная поддержка не кандидат
		heals := a.Support.HealAmount > 0 && t.Health < t.MaxHealth
		buffs := a.Support.Duration > 0 && (a.Support.AccuracyBuff != 0 || a.Support.DefenseBuff != 0) && !hasBuff(t, a.Name)
		return heals || buffs
	}
	return false
}

// bestMove - лучшая достижимая клетка, если она строго лучше текущей
func (e *DecisionEngine) bestMove(u *domain.Unit, behavior domain.Behavior) (AIAction, bool) {
	if !u.HasActionPoints(domain.APCostMove) {
		return AIAction{}, false
	}
	current := e.cellScore(u, u.Pos, behavior)
	best := AIAction{Type: AIMove, Score: current}
	found := false
	for _, r := range ReachableCells(e.Grid, u.Pos, u.MovementRange) {
		s := e.cellScore(u, r.Pos, behavior)
		if s > best.Score {
			best.Cell, best.Score = r.Pos, s
			found = true
		}
	}
	return best, found
}

// cellScore = укрытие + поведение + цель миссии
func (e *DecisionEngine) cellScore(u *domain.Unit, pos domain.Position, behavior domain.Behavior) float64 {
	score := 0.0
	switch e.Grid.CoverAt(pos) {
	case domain.CoverFull:
		score += e.Tuning.FullCoverBonus
	case domain.CoverHalf:
		score += e.Tuning.HalfCoverBonus
	}

	w := e.Tuning.DistanceWeight
	d, hasEnemy := e.nearestHostile(u, pos)
	switch behavior {
	case domain.BehaviorDefensive:
		if hasEnemy {
			score += w * d
		}
	case domain.BehaviorPatrol:
		if hasEnemy {
			band := e.Tuning.PatrolBand * float64(u.EffectiveAttackRange())
			score -= w * math.Abs(d-band)
		}
	case domain.BehaviorGuard:
		if cell, ok := e.World.DefendedCell(); ok {
			score -= w * pos.DistanceTo(cell)
		} else if hasEnemy {
			score -= w * d
		}
	default:
		if hasEnemy {
			score -= w * d
		}
	}

	if focus, ok := e.World.FocusCell(); ok {
		score -= e.Tuning.ObjectiveWeight * pos.DistanceTo(focus)
	}
	if e.Env != nil && e.Env.Hazardous(pos) {
		score -= e.Tuning.HazardPenalty
	}
	return score
}

func (e *DecisionEngine) nearestHostile(u *domain.Unit, pos domain.Position) (float64, bool) {
	best, found := 0.0, false
	for _, t := range e.World.Units() {
		if t.Dead || !u.IsHostileTo(t) {
			continue
		}
		if d := pos.DistanceTo(t.Pos); !found || d < best {
			best, found = d, true
		}
	}
	return best, found
}

func (e *DecisionEngine) execute(u *domain.Unit, c AIAction) (any, error) {
	switch c.Type {
	case AIAttack:
		if err := ValidateAttack(e.Grid, u, c.Target, domain.APCostAttack); err != nil {
			return nil, err
		}
		return e.Resolver.ResolveAttack(u, c.Target)
	case AIUseAbility:
		return e.Resolver.UseAbility(u, c.Target, c.Ability)
	case AIMove:
		from := u.Pos
		if err := MoveUnit(e.Grid, u, c.Cell); err != nil {
			return nil, err
		}
		return Moved{UnitID: u.ID, From: from, To: c.Cell}, nil
	}
	return nil, domain.ErrIllegalAction
}

func (e *DecisionEngine) attackScale(b domain.Behavior) float64 {
	switch b {
	case domain.BehaviorAggressive:
		return e.Tuning.AggressiveAttackScale
	case domain.BehaviorDefensive:
		return e.Tuning.DefensiveAttackScale
	}
	return 1
}

func aligned(b domain.Behavior, k domain.AbilityKind) bool {
	return (b == domain.BehaviorAggressive && k == domain.AbilityOffensive) ||
		(b == domain.BehaviorDefensive && k == domain.AbilitySupport)
}

// spared: автопилот игрока не стреляет по VIP, цель захвата нужна живой
func spared(u, t *domain.Unit) bool {
	return u.Team == domain.TeamPlayer && t.IsVIP
}

func hasBuff(u *domain.Unit, source string) bool {
	for _, b := range u.Buffs {
		if b.Source == source {
			return true
		}
	}
	return false
}

// orderByScore - по убыванию; при равенстве остается первый найденный
func orderByScore(cs []AIAction) []AIAction {
	out := make([]AIAction, len(cs))
	copy(out, cs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
