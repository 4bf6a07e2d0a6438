package domain

import "strings"

// Behavior - поведение ИИ, выбирается один раз на активацию
type Behavior uint8

const (
	BehaviorAggressive Behavior = iota
	BehaviorDefensive
	BehaviorPatrol
	BehaviorGuard
)

var behaviorToString = map[Behavior]string{
	BehaviorAggressive: "AGGRESSIVE",
	BehaviorDefensive:  "DEFENSIVE",
	BehaviorPatrol:     "PATROL",
	BehaviorGuard:      "GUARD",
}

func (b Behavior) String() string {
	if s, ok := behaviorToString[b]; ok {
		return s
	}
	return "UNKNOWN"
}

// MissionType - тип миссии
type MissionType uint8

const (
	MissionElimination MissionType = iota
	MissionExtraction
	MissionCapture
	MissionVIPRescue
	MissionHackTerminal
	MissionDefendPosition
	MissionBossEncounter
)

var missionStringToType = map[string]MissionType{
	"ELIMINATION":     MissionElimination,
	"EXTRACTION":      MissionExtraction,
	"CAPTURE":         MissionCapture,
	"VIP_RESCUE":      MissionVIPRescue,
	"HACK_TERMINAL":   MissionHackTerminal,
	"DEFEND_POSITION": MissionDefendPosition,
	"BOSS_ENCOUNTER":  MissionBossEncounter,
}

var missionTypeToString = map[MissionType]string{}

func init() {
	for s, m := range missionStringToType {
		missionTypeToString[m] = s
	}
}

// ParseMissionType конвертирует строку ("vip_rescue", "VIP_RESCUE") в MissionType
func ParseMissionType(s string) (MissionType, bool) {
	m, ok := missionStringToType[strings.ToUpper(s)]
	return m, ok
}

func (m MissionType) String() string {
	if s, ok := missionTypeToString[m]; ok {
		return s
	}
	return "UNKNOWN"
}

// EnemyBehavior - поведение врага по типу миссии. false - выбирается случайно.
func (m MissionType) EnemyBehavior() (Behavior, bool) {
	switch m {
	case MissionElimination, MissionBossEncounter:
		return BehaviorAggressive, true
	case MissionDefendPosition, MissionHackTerminal:
		return BehaviorGuard, true
	case MissionExtraction, MissionVIPRescue:
		return BehaviorPatrol, true
	default:
		return BehaviorAggressive, false
	}
}
