package domain

import "strings"

// EventType - Внутренний числовой идентификатор события
type EventType uint8

// Event types constants
const (
	EventUnknown EventType = iota
	EventRoundStarted
	EventTurnStarted
	EventTurnEnded
	EventUnitMoved
	EventAttackResolved
	EventAbilityUsed
	EventItemUsed
	EventUnitDied
	EventLevelUp
	EventSkillUnlocked
	EventCoverDestroyed
	EventObjectiveUpdated
	EventMissionStatusChanged
	EventEnvironment
)

// Маппинг для конвертации JSON -> Domain
var eventStringToCmd = map[string]EventType{
	"ROUND_STARTED":          EventRoundStarted,
	"TURN_STARTED":           EventTurnStarted,
	"TURN_ENDED":             EventTurnEnded,
	"UNIT_MOVED":             EventUnitMoved,
	"ATTACK_RESOLVED":        EventAttackResolved,
	"ABILITY_USED":           EventAbilityUsed,
	"ITEM_USED":              EventItemUsed,
	"UNIT_DIED":              EventUnitDied,
	"LEVEL_UP":               EventLevelUp,
	"SKILL_UNLOCKED":         EventSkillUnlocked,
	"COVER_DESTROYED":        EventCoverDestroyed,
	"OBJECTIVE_UPDATED":      EventObjectiveUpdated,
	"MISSION_STATUS_CHANGED": EventMissionStatusChanged,
	"ENVIRONMENT_EFFECT":     EventEnvironment,
}

// Маппинг для логов Domain -> String
var eventCmdToString = map[EventType]string{}

func init() {
	for s, e := range eventStringToCmd {
		eventCmdToString[e] = s
	}
}

// ParseEvent конвертирует строку из JSON в EventType
func ParseEvent(s string) EventType {
	// Делаем нечувствительным к регистру для надежности
	upper := strings.ToUpper(s)
	if val, ok := eventStringToCmd[upper]; ok {
		return val
	}
	return EventUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a EventType) String() string {
	if val, ok := eventCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}

// Event - наблюдаемое событие ядра для слоя представления.
// Payload - конкретная структура (AttackResult, Objective и т.д.), сериализуется как есть.
type Event struct {
	Type    EventType `json:"type"`
	Round   int       `json:"round"`
	UnitID  UnitID    `json:"unitId,omitempty"`
	Payload any       `json:"payload,omitempty"`
}

// EventSink - получатель событий (брокер, лог, тесты)
type EventSink interface {
	Publish(e Event)
}

// EventSinkFunc - адаптер функции к EventSink
type EventSinkFunc func(e Event)

func (f EventSinkFunc) Publish(e Event) { f(e) }

// EventSinks - рассылка в несколько получателей по порядку
type EventSinks []EventSink

func (s EventSinks) Publish(e Event) {
	for _, sink := range s {
		if sink != nil {
			sink.Publish(e)
		}
	}
}
