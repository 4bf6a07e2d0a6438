package actions

import (
	"fmt"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/engine/handlers"
)

// HandleReload перезаряжает оружие за 1 AP
func HandleReload(ctx handlers.Context) (handlers.Result, error) {
	w := ctx.Actor.Weapon
	if w == nil || w.AmmoCapacity <= 0 {
		return handlers.Result{}, fmt.Errorf("%w: %s has nothing to reload", domain.ErrIllegalAction, ctx.Actor.ID)
	}
	if w.Ammo >= w.AmmoCapacity {
		return handlers.Result{}, fmt.Errorf("%w: %s is fully loaded", domain.ErrIllegalAction, w.Name)
	}
	if err := ctx.Actor.SpendActionPoints(domain.APCostReload); err != nil {
		return handlers.Result{}, err
	}
	w.Reload()

	return handlers.Result{
		Msg:     fmt.Sprintf("%s перезаряжает %s.", ctx.Actor.Name, w.Name),
		MsgType: "INFO",
	}, nil
}
