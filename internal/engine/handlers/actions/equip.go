package actions

import (
	"fmt"

	"github.com/BastardoSenpai/BootlegXCom/internal/engine/handlers"
	"github.com/BastardoSenpai/BootlegXCom/pkg/api"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"

	"github.com/sirupsen/logrus"
)

// HandleEquip надевает броню или аксессуар из снаряжения юнита
func HandleEquip(ctx handlers.Context, p api.ItemPayload) (handlers.Result, error) {
	actor := ctx.Actor

	if err := actor.Equip(p.Item); err != nil {
		return handlers.Result{}, err
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "equip_handler",
		"actor_id":  actor.ID,
		"item":      p.Item,
	}).Info("Item equipped")

	return handlers.Result{
		Msg:     fmt.Sprintf("%s экипирует %s.", actor.Name, p.Item),
		MsgType: "INFO",
	}, nil
}
