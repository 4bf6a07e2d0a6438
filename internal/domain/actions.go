package domain

import "strings"

// ActionType - Внутренний числовой идентификатор действия
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionMove
	ActionAttack
	ActionAbility
	ActionUseItem
	ActionEquip
	ActionUnequip
	ActionReload
	ActionUnlockSkill
	ActionEndTurn
	ActionState
	ActionInteract
	ActionThrow
)

// Маппинг для конвертации JSON -> Domain
var actionStringToCmd = map[string]ActionType{
	"MOVE":         ActionMove,
	"ATTACK":       ActionAttack,
	"ABILITY":      ActionAbility,
	"USE_ITEM":     ActionUseItem,
	"EQUIP":        ActionEquip,
	"UNEQUIP":      ActionUnequip,
	"RELOAD":       ActionReload,
	"UNLOCK_SKILL": ActionUnlockSkill,
	"END_TURN":     ActionEndTurn,
	"STATE":        ActionState,
	"INTERACT":     ActionInteract,
	"THROW":        ActionThrow,
}

// Маппинг для логов Domain -> String
var actionCmdToString = map[ActionType]string{
	ActionMove:        "MOVE",
	ActionAttack:      "ATTACK",
	ActionAbility:     "ABILITY",
	ActionUseItem:     "USE_ITEM",
	ActionEquip:       "EQUIP",
	ActionUnequip:     "UNEQUIP",
	ActionReload:      "RELOAD",
	ActionUnlockSkill: "UNLOCK_SKILL",
	ActionEndTurn:     "END_TURN",
	ActionState:       "STATE",
	ActionInteract:    "INTERACT",
	ActionThrow:       "THROW",
}

// ParseAction конвертирует строку из JSON в ActionType
func ParseAction(s string) ActionType {
	// Делаем нечувствительным к регистру для надежности
	upper := strings.ToUpper(s)
	if val, ok := actionStringToCmd[upper]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}

// ChangesState - действие меняет мир (после него миссия перепроверяется)
func (a ActionType) ChangesState() bool {
	switch a {
	case ActionMove, ActionAttack, ActionAbility, ActionUseItem, ActionEquip, ActionUnequip, ActionReload, ActionUnlockSkill,
		ActionInteract, ActionThrow:
		return true
	}
	return false
}
