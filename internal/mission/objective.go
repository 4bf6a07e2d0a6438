package mission

import (
	"fmt"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
)

// ObjectiveKind - вид цели миссии
type ObjectiveKind uint8

const (
	ObjectiveEliminate ObjectiveKind = iota
	ObjectiveReachExtraction
	ObjectiveExtractSquad
	ObjectiveSecureVIP
	ObjectiveEscortVIP
	ObjectiveHackTerminal
	ObjectiveHoldPosition
	ObjectiveDefeatBoss
)

var objectiveKindToString = map[ObjectiveKind]string{
	ObjectiveEliminate:       "ELIMINATE",
	ObjectiveReachExtraction: "REACH_EXTRACTION",
	ObjectiveExtractSquad:    "EXTRACT_SQUAD",
	ObjectiveSecureVIP:       "SECURE_VIP",
	ObjectiveEscortVIP:       "ESCORT_VIP",
	ObjectiveHackTerminal:    "HACK_TERMINAL",
	ObjectiveHoldPosition:    "HOLD_POSITION",
	ObjectiveDefeatBoss:      "DEFEAT_BOSS",
}

func (k ObjectiveKind) String() string {
	if s, ok := objectiveKindToString[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// accumulates - счетчик ходов, только растет
func (k ObjectiveKind) accumulates() bool {
	return k == ObjectiveHackTerminal || k == ObjectiveHoldPosition
}

// Objective - одна цель миссии
type Objective struct {
	Kind        ObjectiveKind `json:"kind"`
	Description string        `json:"description"`
	Progress    int           `json:"progress"`
	Required    int           `json:"required"`
	Completed   bool          `json:"completed"`
}

func newObjective(kind ObjectiveKind, required int, format string, args ...any) Objective {
	if required < 1 {
		required = 1
	}
	return Objective{Kind: kind, Description: fmt.Sprintf(format, args...), Required: required}
}

// buildObjectives - упорядоченный список целей для типа миссии
func buildObjectives(s *Setup, kills int) []Objective {
	switch s.Type {
	case domain.MissionElimination:
		return []Objective{
			newObjective(ObjectiveEliminate, kills, "Eliminate %d enemy units", kills),
			newObjective(ObjectiveReachExtraction, 1, "Reach extraction point at %v", *s.ExtractionPoint),
		}
	case domain.MissionExtraction:
		return []Objective{
			newObjective(ObjectiveReachExtraction, 1, "Reach extraction point at %v", *s.ExtractionPoint),
			newObjective(ObjectiveExtractSquad, 1, "Ensure all player units reach the extraction point"),
		}
	case domain.MissionCapture:
		return []Objective{
			newObjective(ObjectiveSecureVIP, 1, "Capture the enemy VIP"),
			newObjective(ObjectiveEscortVIP, 1, "Escort the VIP to the extraction point"),
		}
	case domain.MissionVIPRescue:
		return []Objective{
			newObjective(ObjectiveSecureVIP, 1, "Reach the VIP"),
			newObjective(ObjectiveEscortVIP, 1, "Escort the VIP to the extraction point"),
		}
	case domain.MissionHackTerminal:
		return []Objective{
			newObjective(ObjectiveHackTerminal, s.HackTurns, "Hold the terminal at %v for %d turns", *s.TerminalPoint, s.HackTurns),
		}
	case domain.MissionDefendPosition:
		return []Objective{
			newObjective(ObjectiveHoldPosition, s.TurnBudget, "Defend %v for %d turns", *s.DefensePosition, s.TurnBudget),
		}
	case domain.MissionBossEncounter:
		return []Objective{
			newObjective(ObjectiveDefeatBoss, 1, "Defeat the boss"),
		}
	}
	return nil
}
