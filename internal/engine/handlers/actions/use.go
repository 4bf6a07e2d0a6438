package actions

import (
	"fmt"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/engine/handlers"
	"github.com/BastardoSenpai/BootlegXCom/pkg/api"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ItemUsed - полезная нагрузка ITEM_USED
type ItemUsed struct {
	Item     string `json:"item"`
	Healed   int    `json:"healed"`
	UsesLeft int    `json:"usesLeft"`
}

// HandleUseItem обрабатывает USE_ITEM - расходник (аптечка) за 1 AP
func HandleUseItem(ctx handlers.Context, p api.ItemPayload) (handlers.Result, error) {
	actor := ctx.Actor

	log := logger.Log.WithFields(logrus.Fields{
		"component":  "use_handler",
		"actor_id":   actor.ID,
		"actor_name": actor.Name,
		"item":       p.Item,
	})

	healed, err := actor.UseConsumable(p.Item)
	if err != nil {
		log.WithError(err).Debug("Item use rejected")
		return handlers.Result{}, err
	}

	left := 0
	if item := actor.Item(p.Item); item != nil {
		left = item.Uses
	}
	log.WithField("healed", healed).Info("Item used successfully")

	return handlers.Result{
		Msg:     fmt.Sprintf("%s использует %s и восстанавливает %d HP.", actor.Name, p.Item, healed),
		MsgType: "INFO",
		Events:  handlers.Emit(ctx, domain.EventItemUsed, ItemUsed{Item: p.Item, Healed: healed, UsesLeft: left}),
	}, nil
}
