package actions

import (
	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/engine/handlers"
)

// Registry - таблица хендлеров по типу действия
func Registry() map[domain.ActionType]handlers.HandlerFunc {
	return map[domain.ActionType]handlers.HandlerFunc{
		domain.ActionMove:        handlers.WithPayload(HandleMove),
		domain.ActionAttack:      handlers.WithPayload(HandleAttack),
		domain.ActionAbility:     handlers.WithPayload(HandleAbility),
		domain.ActionUseItem:     handlers.WithPayload(HandleUseItem),
		domain.ActionEquip:       handlers.WithPayload(HandleEquip),
		domain.ActionUnequip:     handlers.WithPayload(HandleUnequip),
		domain.ActionReload:      handlers.WithEmptyPayload(HandleReload),
		domain.ActionUnlockSkill: handlers.WithPayload(HandleUnlockSkill),
		domain.ActionInteract:    handlers.WithPayload(HandleInteract),
		domain.ActionThrow:       handlers.WithPayload(HandleThrow),
		domain.ActionEndTurn:     handlers.WithEmptyPayload(HandleEndTurn),
		domain.ActionState:       handlers.WithEmptyPayload(HandleState),
	}
}
