package systems

import (
	"fmt"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
)

// UnitProvider - интерфейс для поиска юнитов (чтобы не зависеть от Battle напрямую)
type UnitProvider interface {
	Unit(id domain.UnitID) *domain.Unit
	Units() []*domain.Unit
}

// FindTarget ищет живую цель по ID
func FindTarget(finder UnitProvider, id domain.UnitID) (*domain.Unit, error) {
	target := finder.Unit(id)
	if target == nil {
		return nil, fmt.Errorf("%w: unit %s not found", domain.ErrInvalidTarget, id)
	}
	if target.Dead {
		return nil, fmt.Errorf("%w: unit %s is dead", domain.ErrInvalidTarget, id)
	}
	return target, nil
}

// ValidateAttack проверяет выстрел actor -> target, включая линию видимости.
// Порядок: цель (InvalidTarget), AP, дальность, видимость, патроны (IllegalAction).
func ValidateAttack(g domain.GridService, actor, target *domain.Unit, cost int) error {
	if err := validateShot(actor, target, cost); err != nil {
		return err
	}
	if !HasLineOfSight(g, actor.Pos, target.Pos) {
		return fmt.Errorf("%w: no line of sight to %s", domain.ErrIllegalAction, target.ID)
	}
	return nil
}

// validateShot - проверки резолвера. Видимость проверяет вызывающий.
func validateShot(actor, target *domain.Unit, cost int) error {
	if target == nil || target.Dead {
		return fmt.Errorf("%w: target is dead or missing", domain.ErrInvalidTarget)
	}
	if !actor.IsHostileTo(target) {
		return fmt.Errorf("%w: %s is on the same team", domain.ErrInvalidTarget, target.ID)
	}
	if actor.Dead {
		return fmt.Errorf("%w: %s is dead", domain.ErrIllegalAction, actor.ID)
	}
	if !actor.HasActionPoints(cost) {
		return fmt.Errorf("%w: %s has %d AP, needs %d", domain.ErrIllegalAction, actor.ID, actor.ActionPoints, cost)
	}
	if dist := actor.Pos.DistanceTo(target.Pos); dist > float64(actor.EffectiveAttackRange()) {
		return fmt.Errorf("%w: %s is out of range (%.1f > %d)", domain.ErrIllegalAction, target.ID, dist, actor.EffectiveAttackRange())
	}
	if actor.Weapon != nil && !actor.Weapon.HasAmmo() {
		return fmt.Errorf("%w: %s is out of ammo", domain.ErrIllegalAction, actor.Weapon.Name)
	}
	return nil
}

// ValidateSupport проверяет применение поддержки на союзника (или на себя)
func ValidateSupport(actor, target *domain.Unit, a *domain.Ability) error {
	if target == nil || target.Dead {
		return fmt.Errorf("%w: target is dead or missing", domain.ErrInvalidTarget)
	}
	if actor.IsHostileTo(target) {
		return fmt.Errorf("%w: %s is hostile", domain.ErrInvalidTarget, target.ID)
	}
	if a.Range == 0 && target.ID != actor.ID {
		return fmt.Errorf("%w: %s can only target self", domain.ErrInvalidTarget, a.Name)
	}
	if dist := actor.Pos.DistanceTo(target.Pos); dist > float64(a.Range) {
		return fmt.Errorf("%w: %s is out of %s range", domain.ErrIllegalAction, target.ID, a.Name)
	}
	return nil
}
