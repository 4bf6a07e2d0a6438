package actions

import (
	"fmt"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/engine/handlers"
	"github.com/BastardoSenpai/BootlegXCom/internal/systems"
	"github.com/BastardoSenpai/BootlegXCom/pkg/api"
)

// HandleAbility применяет способность. Без цели - на себя.
func HandleAbility(ctx handlers.Context, p api.AbilityPayload) (handlers.Result, error) {
	target := ctx.Actor
	if p.TargetID != "" && domain.UnitID(p.TargetID) != ctx.Actor.ID {
		t, err := systems.FindTarget(ctx.Finder, domain.UnitID(p.TargetID))
		if err != nil {
			return handlers.Result{}, err
		}
		target = t
	}

	res, err := ctx.Resolver.UseAbility(ctx.Actor, target, p.Ability)
	if err != nil {
		return handlers.Result{}, err
	}

	msg := fmt.Sprintf("%s применяет %s.", ctx.Actor.Name, res.Ability)
	msgType := "INFO"
	switch {
	case res.Attack != nil:
		msg = fmt.Sprintf("%s: %s", res.Ability, describeAttack(ctx.Actor, target, *res.Attack))
		msgType = "COMBAT"
	case res.Healed > 0:
		msg = fmt.Sprintf("%s применяет %s: %s восстанавливает %d HP.", ctx.Actor.Name, res.Ability, target.Name, res.Healed)
	}

	return handlers.Result{
		Msg:     msg,
		MsgType: msgType,
		Events:  handlers.Emit(ctx, domain.EventAbilityUsed, res),
	}, nil
}
