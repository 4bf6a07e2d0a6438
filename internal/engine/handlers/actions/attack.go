package actions

import (
	"fmt"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/engine/handlers"
	"github.com/BastardoSenpai/BootlegXCom/internal/systems"
	"github.com/BastardoSenpai/BootlegXCom/pkg/api"
)

// HandleAttack - обычный выстрел за 1 AP.
// ATTACK_RESOLVED и UNIT_DIED публикует движок через хуки резолвера.
func HandleAttack(ctx handlers.Context, p api.EntityPayload) (handlers.Result, error) {
	// 1. Поиск цели: юнит, иначе бочка
	target, err := systems.FindTarget(ctx.Finder, domain.UnitID(p.TargetID))
	if err != nil {
		if ctx.Env != nil && ctx.Env.Object(domain.ObjectID(p.TargetID)) != nil {
			return shootObject(ctx, domain.ObjectID(p.TargetID))
		}
		return handlers.Result{}, err
	}

	// 2. Дальность, AP, видимость, патроны
	if err := systems.ValidateAttack(ctx.Grid, ctx.Actor, target, domain.APCostAttack); err != nil {
		return handlers.Result{}, err
	}

	// 3. Вызов Системы Боя
	res, err := ctx.Resolver.ResolveAttack(ctx.Actor, target)
	if err != nil {
		return handlers.Result{}, err
	}

	return handlers.Result{
		Msg:     describeAttack(ctx.Actor, target, res),
		MsgType: "COMBAT",
	}, nil
}

func shootObject(ctx handlers.Context, id domain.ObjectID) (handlers.Result, error) {
	effects, err := ctx.Env.Shoot(ctx.Actor, id)
	if err != nil {
		return handlers.Result{}, err
	}
	return handlers.Result{
		Msg:     fmt.Sprintf("%s стреляет по %s. Взрыв!", ctx.Actor.Name, id),
		MsgType: "COMBAT",
		Events:  environmentEvents(ctx, effects),
	}, nil
}

func describeAttack(attacker, target *domain.Unit, res systems.AttackResult) string {
	switch {
	case !res.Hit:
		return fmt.Sprintf("%s промахивается по %s (%.0f%%).", attacker.Name, target.Name, res.HitChance*100)
	case res.Killed:
		return fmt.Sprintf("%s убивает %s (%d урона).", attacker.Name, target.Name, res.Damage)
	case res.Critical:
		return fmt.Sprintf("Критическое попадание! %s наносит %s %d урона.", attacker.Name, target.Name, res.Damage)
	default:
		return fmt.Sprintf("%s попадает в %s: %d урона.", attacker.Name, target.Name, res.Damage)
	}
}
