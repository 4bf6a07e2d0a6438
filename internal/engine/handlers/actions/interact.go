package actions

import (
	"fmt"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/engine/handlers"
	"github.com/BastardoSenpai/BootlegXCom/internal/systems"
	"github.com/BastardoSenpai/BootlegXCom/pkg/api"
)

// HandleInteract - станция лечения или генератор укрытий рядом с актором, 1 AP
func HandleInteract(ctx handlers.Context, p api.ObjectPayload) (handlers.Result, error) {
	if ctx.Env == nil {
		return handlers.Result{}, fmt.Errorf("%w: no objects on this map", domain.ErrInvalidTarget)
	}
	eff, err := ctx.Env.Interact(ctx.Actor, domain.ObjectID(p.ObjectID))
	if err != nil {
		return handlers.Result{}, err
	}

	msg := fmt.Sprintf("%s использует %s.", ctx.Actor.Name, p.ObjectID)
	if len(eff.Hits) > 0 {
		msg = fmt.Sprintf("%s восстанавливает %d HP на станции.", ctx.Actor.Name, eff.Hits[0].Healed)
	} else if len(eff.CoverRaised) > 0 {
		msg = fmt.Sprintf("%s включает генератор: %d клеток укрытия.", ctx.Actor.Name, len(eff.CoverRaised))
	}
	return handlers.Result{
		Msg:     msg,
		MsgType: "INFO",
		Events:  environmentEvents(ctx, []systems.EnvEffect{eff}),
	}, nil
}

// environmentEvents - по событию на каждое срабатывание, в порядке цепочки
func environmentEvents(ctx handlers.Context, effects []systems.EnvEffect) []domain.Event {
	out := make([]domain.Event, 0, len(effects))
	for _, eff := range effects {
		out = append(out, domain.Event{Type: domain.EventEnvironment, UnitID: ctx.Actor.ID, Payload: eff})
	}
	return out
}
