package domain

import "fmt"

// TakeDamage наносит урон. Возвращает true, если цель погибла (ровно один раз).
func (u *Unit) TakeDamage(amount int) bool {
	if u.Dead {
		return false
	}
	if amount < 0 {
		amount = 0
	}

	u.Health -= amount

	if u.Health <= 0 {
		u.Health = 0
		u.Dead = true
		u.ActionPoints = 0
		return true
	}

	if u.Boss != nil {
		u.advanceBossPhase()
	}
	return false
}

// Heal лечит юнита. Возвращает фактически восстановленное здоровье.
func (u *Unit) Heal(amount int) int {
	if u.Dead || amount <= 0 {
		return 0
	}
	before := u.Health
	u.Health += amount
	if u.Health > u.MaxHealth {
		u.Health = u.MaxHealth
	}
	return u.Health - before
}

// HasActionPoints проверяет, хватает ли AP
func (u *Unit) HasActionPoints(cost int) bool {
	return !u.Dead && u.ActionPoints >= cost
}

// SpendActionPoints тратит AP и считает действие
func (u *Unit) SpendActionPoints(cost int) error {
	if !u.HasActionPoints(cost) {
		return fmt.Errorf("%w: %s has %d AP, needs %d", ErrIllegalAction, u.ID, u.ActionPoints, cost)
	}
	u.ActionPoints -= cost
	u.ActionsSpent++
	return nil
}

// ResetForTurn - начало хода: AP на максимум, флаги сброшены, кулдауны и баффы тикают
func (u *Unit) ResetForTurn() {
	u.ActionPoints = u.MaxActionPoints
	u.ActionsSpent = 0
	u.HasMoved = false
	u.HasAttacked = false

	for _, a := range u.Abilities {
		a.Tick()
	}

	kept := u.Buffs[:0]
	for _, b := range u.Buffs {
		b.TurnsLeft--
		if b.TurnsLeft > 0 {
			kept = append(kept, b)
		}
	}
	u.Buffs = kept
}

// EndTurn принудительно обнуляет AP и флаги
func (u *Unit) EndTurn() {
	u.ActionPoints = 0
	u.HasMoved = false
	u.HasAttacked = false
}

// EffectiveAttackRange - дальность оружия, если задана, иначе базовая
func (u *Unit) EffectiveAttackRange() int {
	if u.Weapon != nil && u.Weapon.Range > 0 {
		return u.Weapon.Range
	}
	return u.AttackRange
}

// WeaponAccuracy - модификатор точности оружия
func (u *Unit) WeaponAccuracy() int {
	if u.Weapon == nil {
		return 0
	}
	return u.Weapon.AccuracyModifier
}

// EffectiveAccuracy - базовая точность с баффами
func (u *Unit) EffectiveAccuracy() int {
	acc := u.Accuracy
	for _, b := range u.Buffs {
		acc += b.Accuracy
	}
	return acc
}

// Defense - снижение шанса попадания по юниту в %, [0, MaxDefense]
func (u *Unit) Defense() int {
	def := u.Dodge
	for _, b := range u.Buffs {
		def += b.Defense
	}
	if def < 0 {
		return 0
	}
	if def > MaxDefense {
		return MaxDefense
	}
	return def
}

// CritChance - шанс крита [0, 1]
func (u *Unit) CritChance() float64 {
	c := u.CritBonus
	if u.Weapon != nil {
		c += u.Weapon.CritChance
	}
	return clamp01(float64(c) / 100)
}

func (u *Unit) HealthFraction() float64 {
	if u.MaxHealth <= 0 {
		return 0
	}
	return float64(u.Health) / float64(u.MaxHealth)
}

// AddBuff накладывает бафф (одноименный обновляется)
func (u *Unit) AddBuff(b Buff) {
	if b.TurnsLeft <= 0 {
		return
	}
	for i := range u.Buffs {
		if u.Buffs[i].Source == b.Source {
			u.Buffs[i] = b
			return
		}
	}
	u.Buffs = append(u.Buffs, b)
}

// Ability ищет способность по имени
func (u *Unit) Ability(name string) *Ability {
	for _, a := range u.Abilities {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// GrantAbility выдает копию способности, если ее еще нет
func (u *Unit) GrantAbility(a *Ability) bool {
	if a == nil || u.Ability(a.Name) != nil {
		return false
	}
	u.Abilities = append(u.Abilities, a.Clone())
	return true
}

// advanceBossPhase: фаза = clamp(max - floor(hp% * max) + 1, 1, max)
func (u *Unit) advanceBossPhase() {
	b := u.Boss
	if b.InitialHealth <= 0 || b.MaxPhases <= 1 {
		return
	}
	frac := float64(u.Health) / float64(b.InitialHealth)
	next := b.MaxPhases - int(frac*float64(b.MaxPhases)) + 1
	if next < 1 {
		next = 1
	}
	if next > b.MaxPhases {
		next = b.MaxPhases
	}

	for b.Phase < next {
		b.Phase++
		switch b.Phase {
		case 2:
			u.Accuracy += 10
			u.MovementRange++
			u.GrantAbility(DevastatingStrike())
		case 3:
			u.Damage += 5
			u.MaxActionPoints++
			u.ActionPoints++
		}
		u.Heal(u.MaxHealth / BossHealOnPhaseDivisor)
	}
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
