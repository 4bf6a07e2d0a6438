package actions

import (
	"fmt"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/engine/handlers"
)

// HandleEndTurn - досрочное завершение хода, оставшиеся AP сгорают
func HandleEndTurn(ctx handlers.Context) (handlers.Result, error) {
	if ctx.EndTurn == nil {
		return handlers.Result{}, fmt.Errorf("%w: turn cannot be ended here", domain.ErrIllegalAction)
	}
	if err := ctx.EndTurn(); err != nil {
		return handlers.Result{}, err
	}
	return handlers.Result{
		Msg:     fmt.Sprintf("%s завершает ход.", ctx.Actor.Name),
		MsgType: "INFO",
	}, nil
}

// HandleState возвращает снимок боя (мир не меняет)
func HandleState(ctx handlers.Context) (handlers.Result, error) {
	if ctx.State == nil {
		return handlers.EmptyResult(), nil
	}
	return handlers.Result{State: ctx.State()}, nil
}
