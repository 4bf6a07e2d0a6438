package systems

import (
	"fmt"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"

	"github.com/sirupsen/logrus"
)

// EnvHit - действие объекта или взрыва на одного юнита
type EnvHit struct {
	UnitID domain.UnitID `json:"unitId"`
	Damage int           `json:"damage,omitempty"`
	Healed int           `json:"healed,omitempty"`
	Killed bool          `json:"killed,omitempty"`
}

// EnvEffect - итог одного срабатывания: объект окружения, статус или граната
type EnvEffect struct {
	Source         string            `json:"source"`
	ObjectID       domain.ObjectID   `json:"objectId,omitempty"`
	ActorID        domain.UnitID     `json:"actorId,omitempty"`
	Pos            domain.Position   `json:"pos"`
	Hits           []EnvHit          `json:"hits,omitempty"`
	CoverDestroyed []domain.Position `json:"coverDestroyed,omitempty"`
	CoverRaised    []domain.Position `json:"coverRaised,omitempty"`
}

// Environment - объекты окружения на карте. Смерти отдает в Resolver.OnDeath,
// как и обычные атаки.
type Environment struct {
	Grid     domain.GridService
	Units    UnitProvider
	Resolver *Resolver

	objects []*domain.EnvObject
}

func NewEnvironment(g domain.GridService, units UnitProvider, r *Resolver) *Environment {
	return &Environment{Grid: g, Units: units, Resolver: r}
}

// Place ставит объект на карту. ID объектов уникальны.
func (e *Environment) Place(o *domain.EnvObject) error {
	if o == nil || o.ID == "" {
		return fmt.Errorf("%w: object without id", domain.ErrConfigurationMissing)
	}
	if !e.Grid.InBounds(o.Pos) {
		return fmt.Errorf("%w: object %s at %v is off the map", domain.ErrConfigurationMissing, o.ID, o.Pos)
	}
	if e.Object(o.ID) != nil {
		return fmt.Errorf("%w: duplicate object id %s", domain.ErrConfigurationMissing, o.ID)
	}
	e.objects = append(e.objects, o)
	return nil
}

// Objects - все объекты, включая взорванные
func (e *Environment) Objects() []*domain.EnvObject { return e.objects }

func (e *Environment) Object(id domain.ObjectID) *domain.EnvObject {
	for _, o := range e.objects {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// Hazardous - клетка в зоне кислоты или лазера
func (e *Environment) Hazardous(pos domain.Position) bool {
	for _, o := range e.objects {
		if o.IsHazard() && o.Covers(pos) {
			return true
		}
	}
	return false
}

// Entered - юнит закончил движение в клетке: срабатывают hazard-объекты
func (e *Environment) Entered(u *domain.Unit) []EnvEffect {
	var out []EnvEffect
	for _, o := range e.objects {
		if u.Dead {
			break
		}
		if !o.IsHazard() || !o.Covers(u.Pos) {
			continue
		}
		if o.Kind == domain.ObjectAcidPool {
			u.AddBuff(domain.AcidBurn())
		}
		hit := EnvHit{UnitID: u.ID, Damage: o.Damage, Killed: u.TakeDamage(o.Damage)}
		out = append(out, EnvEffect{Source: o.Kind.String(), ObjectID: o.ID, Pos: o.Pos, Hits: []EnvHit{hit}})
		e.log(o.Kind.String(), u.Pos).WithFields(logrus.Fields{"unit_id": u.ID, "damage": o.Damage}).Info("Hazard triggered.")
		if hit.Killed {
			e.died(u, nil)
		}
	}
	return out
}

// TurnStarted - урон от статусов в начале хода юнита
func (e *Environment) TurnStarted(u *domain.Unit) []EnvEffect {
	dmg := u.DamageOverTime()
	if dmg <= 0 || u.Dead {
		return nil
	}
	hit := EnvHit{UnitID: u.ID, Damage: dmg, Killed: u.TakeDamage(dmg)}
	if hit.Killed {
		e.died(u, nil)
	}
	return []EnvEffect{{Source: domain.AcidSource, Pos: u.Pos, Hits: []EnvHit{hit}}}
}

// Interact - юнит на объекте или рядом использует станцию лечения или генератор укрытий
func (e *Environment) Interact(u *domain.Unit, id domain.ObjectID) (EnvEffect, error) {
	o := e.Object(id)
	if o == nil || o.Destroyed {
		return EnvEffect{}, fmt.Errorf("%w: object %s not found", domain.ErrInvalidTarget, id)
	}
	if !o.Reaches(u.Pos) {
		return EnvEffect{}, fmt.Errorf("%w: %s is too far from %s", domain.ErrInvalidTarget, u.ID, id)
	}
	if o.Kind != domain.ObjectHealingStation && o.Kind != domain.ObjectCoverGenerator {
		return EnvEffect{}, fmt.Errorf("%w: %s cannot be used", domain.ErrIllegalAction, o.Kind)
	}
	if o.Uses <= 0 {
		return EnvEffect{}, fmt.Errorf("%w: %s is depleted", domain.ErrIllegalAction, id)
	}
	if o.Kind == domain.ObjectHealingStation && u.Health >= u.MaxHealth {
		return EnvEffect{}, fmt.Errorf("%w: %s is not wounded", domain.ErrIllegalAction, u.ID)
	}
	if err := u.SpendActionPoints(domain.APCostInteract); err != nil {
		return EnvEffect{}, err
	}
	o.Uses--

	eff := EnvEffect{Source: o.Kind.String(), ObjectID: o.ID, ActorID: u.ID, Pos: o.Pos}
	switch o.Kind {
	case domain.ObjectHealingStation:
		eff.Hits = []EnvHit{{UnitID: u.ID, Healed: u.Heal(o.HealAmount)}}
	case domain.ObjectCoverGenerator:
		for _, c := range e.Grid.CellsInRange(o.Pos, o.Radius) {
			if c.Cover == domain.CoverNone && c.IsPassable() {
				e.Grid.SetCover(c.Pos, domain.CoverHalf)
				eff.CoverRaised = append(eff.CoverRaised, c.Pos)
			}
		}
	}
	e.log(o.Kind.String(), o.Pos).WithField("unit_id", u.ID).Info("Object used.")
	return eff, nil
}

// Shoot - выстрел по бочке. Промахнуться по неподвижной цели нельзя.
func (e *Environment) Shoot(attacker *domain.Unit, id domain.ObjectID) ([]EnvEffect, error) {
	o := e.Object(id)
	if o == nil || o.Destroyed || o.Kind != domain.ObjectExplosiveBarrel {
		return nil, fmt.Errorf("%w: %s is not a target", domain.ErrInvalidTarget, id)
	}
	if !attacker.HasActionPoints(domain.APCostAttack) {
		return nil, fmt.Errorf("%w: %s has no action points to attack", domain.ErrIllegalAction, attacker.ID)
	}
	if attacker.Weapon != nil && !attacker.Weapon.HasAmmo() {
		return nil, fmt.Errorf("%w: %s is out of ammo", domain.ErrIllegalAction, attacker.ID)
	}
	if attacker.Pos.DistanceTo(o.Pos) > float64(attacker.EffectiveAttackRange()) {
		return nil, fmt.Errorf("%w: %s is out of range", domain.ErrInvalidTarget, id)
	}
	if !HasLineOfSight(e.Grid, attacker.Pos, o.Pos) {
		return nil, fmt.Errorf("%w: no line of sight to %s", domain.ErrInvalidTarget, id)
	}

	_ = attacker.SpendActionPoints(domain.APCostAttack)
	attacker.HasAttacked = true
	attacker.Facing = attacker.Pos.HeadingTo(o.Pos)
	if attacker.Weapon != nil {
		attacker.Weapon.ConsumeAmmo()
	}
	return e.Detonate(o, attacker), nil
}

// Throw - бросок гранаты в клетку
func (e *Environment) Throw(u *domain.Unit, item string, at domain.Position) ([]EnvEffect, error) {
	if !e.Grid.InBounds(at) {
		return nil, fmt.Errorf("%w: %v is off the map", domain.ErrInvalidTarget, at)
	}
	g, err := u.Throwable(item, at)
	if err != nil {
		return nil, err
	}
	if err := u.SpendActionPoints(domain.APCostThrow); err != nil {
		return nil, err
	}
	g.Uses--
	if at != u.Pos {
		u.Facing = u.Pos.HeadingTo(at)
	}

	eff, chained := e.blast(g.Name, "", at, g.BlastRadius, g.BlastDamage, u)
	out := []EnvEffect{eff}
	for _, o := range chained {
		out = append(out, e.Detonate(o, u)...)
	}
	return out, nil
}

// Detonate взрывает бочку. Бочки в радиусе взрываются следом.
func (e *Environment) Detonate(o *domain.EnvObject, by *domain.Unit) []EnvEffect {
	if o.Destroyed {
		return nil
	}
	o.Destroyed = true
	eff, chained := e.blast(o.Kind.String(), o.ID, o.Pos, o.Radius, o.Damage, by)
	out := []EnvEffect{eff}
	for _, next := range chained {
		out = append(out, e.Detonate(next, by)...)
	}
	return out
}

// blast: урон всем в радиусе, укрытия в радиусе разрушаются полностью
func (e *Environment) blast(source string, id domain.ObjectID, center domain.Position, radius float64, damage int, by *domain.Unit) (EnvEffect, []*domain.EnvObject) {
	eff := EnvEffect{Source: source, ObjectID: id, Pos: center}
	if by != nil {
		eff.ActorID = by.ID
	}

	var dead []*domain.Unit
	for _, c := range e.Grid.CellsInRange(center, radius) {
		if c.Occupied {
			if u := e.Units.Unit(c.OccupantID); u != nil && !u.Dead {
				hit := EnvHit{UnitID: u.ID, Damage: damage, Killed: u.TakeDamage(damage)}
				eff.Hits = append(eff.Hits, hit)
				if hit.Killed {
					dead = append(dead, u)
				}
			}
		}
		if c.Cover != domain.CoverNone && e.Grid.DamageCover(c.Pos, max(c.Integrity, 1)) {
			eff.CoverDestroyed = append(eff.CoverDestroyed, c.Pos)
		}
	}

	var chained []*domain.EnvObject
	for _, o := range e.objects {
		if o.Kind == domain.ObjectExplosiveBarrel && !o.Destroyed && center.DistanceTo(o.Pos) <= radius {
			chained = append(chained, o)
		}
	}

	e.log(source, center).WithFields(logrus.Fields{
		"hits":            len(eff.Hits),
		"cover_destroyed": len(eff.CoverDestroyed),
		"chained":         len(chained),
	}).Info("Explosion.")

	for _, u := range dead {
		e.died(u, by)
	}
	return eff, chained
}

// died: опыт за убийство своего не начисляется
func (e *Environment) died(victim, killer *domain.Unit) {
	if killer != nil && !killer.IsHostileTo(victim) {
		killer = nil
	}
	if e.Resolver != nil && e.Resolver.OnDeath != nil {
		e.Resolver.OnDeath(victim, killer)
	}
}

func (e *Environment) log(source string, pos domain.Position) *logrus.Entry {
	return logger.Log.WithFields(logrus.Fields{
		"component": "environment",
		"source":    source,
		"pos":       pos,
	})
}
