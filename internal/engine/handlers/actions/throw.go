package actions

import (
	"fmt"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/engine/handlers"
	"github.com/BastardoSenpai/BootlegXCom/pkg/api"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"

	"github.com/sirupsen/logrus"
)

// HandleThrow - граната в клетку, 1 AP. Линия видимости не нужна, только дальность.
func HandleThrow(ctx handlers.Context, p api.ThrowPayload) (handlers.Result, error) {
	if ctx.Env == nil {
		return handlers.Result{}, fmt.Errorf("%w: throwing is not available", domain.ErrIllegalAction)
	}
	at := domain.Position{X: p.X, Y: p.Y}
	effects, err := ctx.Env.Throw(ctx.Actor, p.Item, at)
	if err != nil {
		return handlers.Result{}, err
	}

	hits, destroyed := 0, 0
	for _, eff := range effects {
		hits += len(eff.Hits)
		destroyed += len(eff.CoverDestroyed)
	}
	logger.Log.WithFields(logrus.Fields{
		"component":  "throw_handler",
		"actor_id":   ctx.Actor.ID,
		"item":       p.Item,
		"at":         at,
		"hits":       hits,
		"explosions": len(effects),
	}).Info("Grenade thrown")

	return handlers.Result{
		Msg:     fmt.Sprintf("%s бросает %s в (%d, %d): задето %d, разрушено укрытий %d.", ctx.Actor.Name, p.Item, at.X, at.Y, hits, destroyed),
		MsgType: "COMBAT",
		Events:  environmentEvents(ctx, effects),
	}, nil
}
