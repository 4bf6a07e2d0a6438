package systems

import (
	"fmt"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"

	"github.com/sirupsen/logrus"
)

// AbilityResult - итог применения способности
type AbilityResult struct {
	Ability  string             `json:"ability"`
	Kind     domain.AbilityKind `json:"kind"`
	UserID   domain.UnitID      `json:"userId"`
	TargetID domain.UnitID      `json:"targetId"`
	Attack   *AttackResult      `json:"attack,omitempty"`
	Healed   int                `json:"healed,omitempty"`
	Buff     *domain.Buff       `json:"buff,omitempty"`
}

// CanUse - способность есть, откатилась и хватает AP
func CanUse(user *domain.Unit, a *domain.Ability) error {
	if a == nil {
		return fmt.Errorf("%w: %s has no such ability", domain.ErrIllegalAction, user.ID)
	}
	if !a.Ready() {
		return fmt.Errorf("%w: %s is on cooldown (%d)", domain.ErrIllegalAction, a.Name, a.CurrentCooldown)
	}
	if !user.HasActionPoints(a.Cost) {
		return fmt.Errorf("%w: %s needs %d AP", domain.ErrIllegalAction, a.Name, a.Cost)
	}
	return nil
}

// UseAbility применяет способность. Разбор по виду - через switch.
// При отказе ничего не меняется (кулдаун тоже).
func (r *Resolver) UseAbility(user, target *domain.Unit, name string) (AbilityResult, error) {
	a := user.Ability(name)
	if err := CanUse(user, a); err != nil {
		return AbilityResult{}, err
	}
	if target == nil {
		return AbilityResult{}, fmt.Errorf("%w: ability %s needs a target", domain.ErrInvalidTarget, name)
	}

	res := AbilityResult{Ability: a.Name, Kind: a.Kind, UserID: user.ID, TargetID: target.ID}

	switch a.Kind {
	case domain.AbilityOffensive:
		if err := ValidateAttack(r.Grid, user, target, a.Cost); err != nil {
			return AbilityResult{}, err
		}
		atk, err := r.ResolveStrike(user, target, Strike{
			Ability:       a.Name,
			Cost:          a.Cost,
			AccuracyBonus: a.Offensive.AccuracyBonus,
			DamageBonus:   a.Offensive.DamageBonus,
		})
		if err != nil {
			return AbilityResult{}, err
		}
		res.Attack = &atk

	case domain.AbilitySupport:
		if err := ValidateSupport(user, target, a); err != nil {
			return AbilityResult{}, err
		}
		if err := user.SpendActionPoints(a.Cost); err != nil {
			return AbilityResult{}, err
		}
		res.Healed = target.Heal(a.Support.HealAmount)
		if a.Support.Duration > 0 && (a.Support.AccuracyBuff != 0 || a.Support.DefenseBuff != 0) {
			b := domain.Buff{
				Source:    a.Name,
				Accuracy:  a.Support.AccuracyBuff,
				Defense:   a.Support.DefenseBuff,
				TurnsLeft: a.Support.Duration,
			}
			// Бафф на себя тикает в начале своего же следующего хода
			if target.ID == user.ID {
				b.TurnsLeft++
			}
			target.AddBuff(b)
			res.Buff = &b
		}

	default:
		return AbilityResult{}, fmt.Errorf("%w: unknown ability kind %v", domain.ErrIllegalAction, a.Kind)
	}

	a.Trigger()

	logger.Log.WithFields(logrus.Fields{
		"component": "ability_system",
		"ability":   a.Name,
		"kind":      a.Kind,
		"user_id":   user.ID,
		"target_id": target.ID,
		"healed":    res.Healed,
	}).Info("Ability used.")

	return res, nil
}
