package actions

import (
	"fmt"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/engine/handlers"
	"github.com/BastardoSenpai/BootlegXCom/internal/systems"
	"github.com/BastardoSenpai/BootlegXCom/pkg/api"
)

// HandleMove перемещает актора в достижимую свободную клетку за 1 AP
func HandleMove(ctx handlers.Context, p api.PositionPayload) (handlers.Result, error) {
	from := ctx.Actor.Pos
	to := domain.Position{X: p.X, Y: p.Y}

	if err := systems.MoveUnit(ctx.Grid, ctx.Actor, to); err != nil {
		return handlers.Result{}, err
	}

	return handlers.Result{
		Msg:     fmt.Sprintf("%s перемещается на (%d, %d).", ctx.Actor.Name, to.X, to.Y),
		MsgType: "INFO",
		Events:  handlers.Emit(ctx, domain.EventUnitMoved, systems.Moved{UnitID: ctx.Actor.ID, From: from, To: to}),
	}, nil
}
