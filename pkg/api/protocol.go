package api

import (
	"encoding/json"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerEvent - событие боя, рассылается всем подписчикам.
// Type совпадает с именами событий ядра (TURN_STARTED, ATTACK_RESOLVED, ...),
// плюс служебные STATE и ERROR.
type ServerEvent struct {
	Type    string `json:"type"`
	Round   int    `json:"round"`
	UnitID  string `json:"unitId,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// ServerResponse - полный снимок боя для клиента (ответ на STATE и при подключении)
type ServerResponse struct {
	Type string `json:"type"` // всегда "STATE"

	// Round текущий раунд. Раунд - один проход всех живых юнитов.
	Round int `json:"round"`

	// ActiveUnitID ID юнита, чей ход сейчас.
	// КЛИЕНТ ДОЛЖЕН СРАВНИВАТЬ ЭТО ПОЛЕ СО СВОИМ ЮНИТОМ, прежде чем слать команды.
	ActiveUnitID string `json:"activeUnitId,omitempty"`

	// SchedulerState состояние планировщика (UNIT_ACTIVE, IDLE, ...)
	SchedulerState string `json:"schedulerState"`

	// Queue кто еще ходит в этом раунде
	Queue []string `json:"queue"`

	Grid    *GridMeta    `json:"grid,omitempty"`
	Map     []TileView   `json:"map,omitempty"`
	Units   []UnitView   `json:"units"`
	Objects []ObjectView `json:"objects,omitempty"`
	Mission *MissionView `json:"mission,omitempty"`
	Logs    []LogEntry   `json:"logs,omitempty"`
}

// GridMeta - размеры карты
type GridMeta struct {
	Width    int     `json:"w"`
	Height   int     `json:"h"`
	CellSize float64 `json:"cellSize"`
}

// TileView - клетка с укрытием или особым рельефом. Обычные пустые клетки не шлются.
type TileView struct {
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Cover     string `json:"cover"`
	Terrain   string `json:"terrain"`
	Integrity int    `json:"integrity,omitempty"`
}

// ObjectView - объект окружения (кислота, лазер, станция, бочка, генератор)
type ObjectView struct {
	ID     string  `json:"id"`
	Kind   string  `json:"kind"`
	Pos    Point   `json:"pos"`
	Radius float64 `json:"radius,omitempty"`
	Uses   int     `json:"uses,omitempty"`
}

// Point - координата клетки
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// UnitView - DTO юнита
type UnitView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Team  string `json:"team"`
	Class string `json:"class,omitempty"`
	Pos   Point  `json:"pos"`

	Health          int     `json:"health"`
	MaxHealth       int     `json:"maxHealth"`
	ActionPoints    int     `json:"actionPoints"`
	MaxActionPoints int     `json:"maxActionPoints"`
	Accuracy        int     `json:"accuracy"`
	Defense         int     `json:"defense"`
	Facing          float64 `json:"facing"`
	IsDead          bool    `json:"isDead"`
	IsVIP           bool    `json:"isVip,omitempty"`
	BossPhase       int     `json:"bossPhase,omitempty"`

	Level       int `json:"level,omitempty"`
	Experience  int `json:"experience,omitempty"`
	SkillPoints int `json:"skillPoints,omitempty"`

	Weapon    *WeaponView   `json:"weapon,omitempty"`
	Abilities []AbilityView `json:"abilities,omitempty"`
	Equipment []ItemView    `json:"equipment,omitempty"`
	Skills    []string      `json:"availableSkills,omitempty"`
}

// WeaponView - оружие юнита
type WeaponView struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	MinDamage int    `json:"minDamage"`
	MaxDamage int    `json:"maxDamage"`
	Range     int    `json:"range"`
	Ammo      int    `json:"ammo"`
	Capacity  int    `json:"capacity,omitempty"` // 0 - бесконечно
}

// AbilityView - способность и ее откат
type AbilityView struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Cost     int    `json:"cost"`
	Cooldown int    `json:"cooldown"`
	Ready    bool   `json:"ready"`
}

// ItemView - снаряжение юнита
type ItemView struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Equipped bool   `json:"equipped,omitempty"`
	Uses     int    `json:"uses,omitempty"`
}

// MissionView - статус миссии
type MissionView struct {
	Type           string          `json:"type"`
	Status         string          `json:"status"`
	TurnsRemaining int             `json:"turnsRemaining"`
	Objectives     []ObjectiveView `json:"objectives"`
}

// ObjectiveView - одна цель миссии
type ObjectiveView struct {
	Description string `json:"description"`
	Progress    int    `json:"progress"`
	Required    int    `json:"required"`
	Completed   bool   `json:"completed"`
}

// LogEntry представляет одну запись в боевом логе.
type LogEntry struct {
	ID        string `json:"id"`
	Round     int    `json:"round"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // INFO, COMBAT, MISSION, ERROR
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// ErrorView - ответ на отклоненную команду
type ErrorView struct {
	Action string `json:"action"`
	Error  string `json:"error"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Token ID юнита, от имени которого выполняется действие.
	Token string `json:"token,omitempty"`

	// Action название действия: MOVE, ATTACK, ABILITY, USE_ITEM, EQUIP, UNEQUIP,
	// RELOAD, UNLOCK_SKILL, INTERACT, THROW, END_TURN, STATE.
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload"`
}

// --- Payloads ---

// PositionPayload - клетка назначения (MOVE)
type PositionPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// EntityPayload - цель атаки (ATTACK): юнит или взрывоопасный объект
type EntityPayload struct {
	TargetID string `json:"targetId"`
}

// ObjectPayload - объект окружения (INTERACT)
type ObjectPayload struct {
	ObjectID string `json:"objectId"`
}

// ThrowPayload - граната и клетка броска (THROW)
type ThrowPayload struct {
	Item string `json:"item"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// AbilityPayload - способность и ее цель (ABILITY). Пустая цель - на себя.
type AbilityPayload struct {
	Ability  string `json:"ability"`
	TargetID string `json:"targetId,omitempty"`
}

// ItemPayload - снаряжение по имени (USE_ITEM, EQUIP, UNEQUIP)
type ItemPayload struct {
	Item string `json:"item"`
}

// SkillPayload - узел дерева навыков (UNLOCK_SKILL)
type SkillPayload struct {
	Skill string `json:"skill"`
}
