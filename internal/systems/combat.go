package systems

import (
	"math"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"

	"github.com/sirupsen/logrus"
)

// CombatTuning - настраиваемые константы боя (из конфига, не хардкод)
type CombatTuning struct {
	HalfCoverModifier        float64 `mapstructure:"halfCoverModifier"`
	FullCoverModifier        float64 `mapstructure:"fullCoverModifier"`
	HalfCoverDamageReduction float64 `mapstructure:"halfCoverDamageReduction"`
	FullCoverDamageReduction float64 `mapstructure:"fullCoverDamageReduction"`
	HeavyBonus               float64 `mapstructure:"heavyBonus"`
	CritMultiplier           float64 `mapstructure:"critMultiplier"`
	MaxAngle                 float64 `mapstructure:"maxAngle"`
	MissDamagesCover         bool    `mapstructure:"missDamagesCover"`
	MissCoverDamageFactor    float64 `mapstructure:"missCoverDamageFactor"`
}

func DefaultCombatTuning() CombatTuning {
	return CombatTuning{
		HalfCoverModifier:        0.7,
		FullCoverModifier:        0.5,
		HalfCoverDamageReduction: 0.85,
		FullCoverDamageReduction: 0.7,
		HeavyBonus:               1.2,
		CritMultiplier:           1.5,
		MaxAngle:                 90,
		MissDamagesCover:         true,
		MissCoverDamageFactor:    0.5,
	}
}

// CoverModifier - множитель шанса попадания по укрытию
func (t CombatTuning) CoverModifier(c domain.CoverType) float64 {
	switch c {
	case domain.CoverHalf:
		return t.HalfCoverModifier
	case domain.CoverFull:
		return t.FullCoverModifier
	default:
		return 1
	}
}

// CoverDamageReduction - множитель урона по цели в укрытии
func (t CombatTuning) CoverDamageReduction(c domain.CoverType) float64 {
	switch c {
	case domain.CoverHalf:
		return t.HalfCoverDamageReduction
	case domain.CoverFull:
		return t.FullCoverDamageReduction
	default:
		return 1
	}
}

// Strike - параметры выстрела (обычная атака или атакующая способность)
type Strike struct {
	Ability       string
	Cost          int
	AccuracyBonus int
	DamageBonus   int
}

// AttackResult - итог одной атаки
type AttackResult struct {
	AttackerID     domain.UnitID    `json:"attackerId"`
	DefenderID     domain.UnitID    `json:"defenderId"`
	Ability        string           `json:"ability,omitempty"`
	HitChance      float64          `json:"hitChance"`
	Roll           float64          `json:"roll"`
	Hit            bool             `json:"hit"`
	Critical       bool             `json:"critical"`
	Damage         int              `json:"damage"`
	Killed         bool             `json:"killed"`
	CoverDamaged   bool             `json:"coverDamaged,omitempty"`
	CoverDestroyed bool             `json:"coverDestroyed,omitempty"`
	CoverPos       *domain.Position `json:"coverPos,omitempty"`
}

// Resolver - Combat Resolver. Зависимости передаются явно.
type Resolver struct {
	Grid       domain.GridService
	Tuning     CombatTuning
	Difficulty domain.DifficultySettings
	Rng        domain.Rand

	// OnDeath вызывается ровно один раз на смерть (освобождение клетки, очередь, опыт)
	OnDeath func(victim, killer *domain.Unit)
	// OnResolved - наблюдатель (метрики, события)
	OnResolved func(res AttackResult)
}

func NewResolver(g domain.GridService, tuning CombatTuning, difficulty domain.DifficultySettings, rng domain.Rand) *Resolver {
	return &Resolver{Grid: g, Tuning: tuning, Difficulty: difficulty, Rng: rng}
}

// HitChance - шанс попадания обычной атакой (чистая функция, используется ИИ)
func (r *Resolver) HitChance(attacker, defender *domain.Unit) float64 {
	return r.hitChance(attacker, defender, 0)
}

// StrikeHitChance - шанс попадания с бонусом способности
func (r *Resolver) StrikeHitChance(attacker, defender *domain.Unit, s Strike) float64 {
	return r.hitChance(attacker, defender, s.AccuracyBonus)
}

func (r *Resolver) hitChance(attacker, defender *domain.Unit, accuracyBonus int) float64 {
	base := float64(attacker.EffectiveAccuracy()+accuracyBonus)/100 + float64(attacker.WeaponAccuracy())/100

	maxRange := float64(attacker.EffectiveAttackRange())
	distanceMod := 0.0
	if maxRange > 0 {
		distanceMod = clamp01(1 - attacker.Pos.DistanceTo(defender.Pos)/maxRange)
	}

	coverMod := r.Tuning.CoverModifier(r.Grid.CoverAt(defender.Pos))

	angleMod := 1.0
	if r.Tuning.MaxAngle > 0 {
		angle := domain.AngleBetween(attacker.Facing, attacker.Pos.HeadingTo(defender.Pos))
		angleMod = clamp01(1 - angle/r.Tuning.MaxAngle)
	}

	difficultyMod := r.Difficulty.AccuracyFor(attacker.Team)
	defenseMod := 1 - float64(defender.Defense())/100

	return clamp01(base * distanceMod * coverMod * angleMod * difficultyMod * defenseMod)
}

// ResolveAttack - обычный выстрел за 1 AP.
// Линию видимости проверяет вызывающий (ValidateAttack).
func (r *Resolver) ResolveAttack(attacker, defender *domain.Unit) (AttackResult, error) {
	return r.ResolveStrike(attacker, defender, Strike{Cost: domain.APCostAttack})
}

// ResolveStrike разрешает атаку. При ошибке валидации ничего не меняется.
// Порядок бросков: попадание, крит, урон оружия.
func (r *Resolver) ResolveStrike(attacker, defender *domain.Unit, s Strike) (AttackResult, error) {
	if s.Cost < 1 {
		s.Cost = domain.APCostAttack
	}
	if err := validateShot(attacker, defender, s.Cost); err != nil {
		return AttackResult{}, err
	}

	res := AttackResult{
		AttackerID: attacker.ID,
		DefenderID: defender.ID,
		Ability:    s.Ability,
		HitChance:  r.hitChance(attacker, defender, s.AccuracyBonus),
	}
	cover := r.Grid.CoverAt(defender.Pos)

	res.Roll = r.Rng.Float64()
	res.Hit = res.HitChance > 0 && res.Roll <= res.HitChance

	combatLogger := logger.Log.WithFields(logrus.Fields{
		"component":   "combat_system",
		"attacker_id": attacker.ID,
		"defender_id": defender.ID,
		"ability":     s.Ability,
	})

	if res.Hit {
		crit := attacker.CritChance()
		res.Critical = crit > 0 && r.Rng.Float64() <= crit
		res.Damage = r.rollDamage(attacker, cover, s.DamageBonus, res.Critical)
		res.Killed = defender.TakeDamage(res.Damage)
	} else if r.Tuning.MissDamagesCover {
		r.damageCoverOnMiss(attacker, defender, &res)
	}

	// Побочные эффекты на атакующем
	_ = attacker.SpendActionPoints(s.Cost)
	attacker.HasAttacked = true
	attacker.Facing = attacker.Pos.HeadingTo(defender.Pos)
	if attacker.Weapon != nil {
		attacker.Weapon.ConsumeAmmo()
	}

	combatLogger.WithFields(logrus.Fields{
		"hit_chance": res.HitChance,
		"roll":       res.Roll,
		"hit":        res.Hit,
		"critical":   res.Critical,
		"damage":     res.Damage,
		"cover":      cover,
		"hp_after":   defender.Health,
		"killed":     res.Killed,
	}).Info("Attack resolved.")

	if r.OnResolved != nil {
		r.OnResolved(res)
	}
	if res.Killed && r.OnDeath != nil {
		r.OnDeath(defender, attacker)
	}
	return res, nil
}

// rollDamage: (оружие + урон юнита + бонус) x тяжелый x крит x укрытие x сложность, floor, минимум 1
func (r *Resolver) rollDamage(attacker *domain.Unit, cover domain.CoverType, bonus int, crit bool) int {
	base := attacker.Damage + bonus
	if attacker.Weapon != nil {
		base += attacker.Weapon.RollDamage(r.Rng)
	}

	dmg := float64(base)
	if isHeavy(attacker) {
		dmg *= r.Tuning.HeavyBonus
	}
	if crit {
		dmg *= r.Tuning.CritMultiplier
	}
	dmg *= r.Tuning.CoverDamageReduction(cover)
	dmg *= r.Difficulty.DamageFor(attacker.Team)

	final := int(math.Floor(dmg))
	if final < 1 {
		final = 1
	}
	return final
}

// damageCoverOnMiss - промах попадает в укрытие на линии выстрела
func (r *Resolver) damageCoverOnMiss(attacker, defender *domain.Unit, res *AttackResult) {
	avg := attacker.Damage
	if attacker.Weapon != nil {
		avg += attacker.Weapon.AverageDamage()
	}
	amount := int(float64(avg) * r.Tuning.MissCoverDamageFactor)
	if amount < 1 {
		return
	}
	pos := CoverOnLine(r.Grid, attacker.Pos, defender.Pos)
	if r.Grid.CoverAt(pos) == domain.CoverNone {
		return
	}
	res.CoverDamaged = true
	res.CoverDestroyed = r.Grid.DamageCover(pos, amount)
	res.CoverPos = &pos
}

func isHeavy(u *domain.Unit) bool {
	if u.Class != nil && u.Class.Type == domain.ClassHeavy {
		return true
	}
	return u.Weapon != nil && u.Weapon.Type == domain.WeaponHeavy
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
