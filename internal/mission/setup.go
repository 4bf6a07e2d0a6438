package mission

import (
	"fmt"
	"strings"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
)

const (
	DefaultHackTurns  = 3
	DefaultZoneRadius = 1.5
)

// Setup - внешние параметры миссии. Проверяются до начала боя.
type Setup struct {
	Type          domain.MissionType `json:"type"`
	TurnBudget    int                `json:"turnBudget"`
	RequiredKills int                `json:"requiredKills,omitempty"` // 0 - все враги
	HackTurns     int                `json:"hackTurns,omitempty"`
	ZoneRadius    float64            `json:"zoneRadius,omitempty"` // радиус точек эвакуации/терминала/обороны

	ExtractionPoint *domain.Position `json:"extractionPoint,omitempty"`
	TerminalPoint   *domain.Position `json:"terminalPoint,omitempty"`
	DefensePosition *domain.Position `json:"defensePosition,omitempty"`

	VIPID  domain.UnitID `json:"vipId,omitempty"`
	BossID domain.UnitID `json:"bossId,omitempty"`
}

// Validate проверяет, что все нужные типу миссии ссылки заданы
func (s *Setup) Validate() error {
	var missing []string
	if s.TurnBudget < 1 {
		missing = append(missing, "turn budget")
	}

	needExtraction := false
	switch s.Type {
	case domain.MissionElimination, domain.MissionExtraction:
		needExtraction = true
	case domain.MissionCapture, domain.MissionVIPRescue:
		needExtraction = true
		if s.VIPID == "" {
			missing = append(missing, "vip")
		}
	case domain.MissionHackTerminal:
		if s.TerminalPoint == nil {
			missing = append(missing, "terminal point")
		}
	case domain.MissionDefendPosition:
		if s.DefensePosition == nil {
			missing = append(missing, "defense position")
		}
	case domain.MissionBossEncounter:
		if s.BossID == "" {
			missing = append(missing, "boss")
		}
	default:
		return fmt.Errorf("%w: unknown mission type %d", domain.ErrConfigurationMissing, s.Type)
	}
	if needExtraction && s.ExtractionPoint == nil {
		missing = append(missing, "extraction point")
	}
	if s.RequiredKills < 0 || s.HackTurns < 0 {
		missing = append(missing, "non-negative counters")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s mission needs %s", domain.ErrConfigurationMissing, s.Type, strings.Join(missing, ", "))
	}
	return nil
}

func (s *Setup) withDefaults() {
	if s.HackTurns == 0 {
		s.HackTurns = DefaultHackTurns
	}
	if s.ZoneRadius <= 0 {
		s.ZoneRadius = DefaultZoneRadius
	}
}

// Focus - ключевая клетка миссии (ее же стерегут враги)
func (s *Setup) Focus() (domain.Position, bool) {
	var p *domain.Position
	switch s.Type {
	case domain.MissionHackTerminal:
		p = s.TerminalPoint
	case domain.MissionDefendPosition:
		p = s.DefensePosition
	default:
		p = s.ExtractionPoint
	}
	if p == nil {
		return domain.Position{}, false
	}
	return *p, true
}

// Defended - клетка обороны для Guard
func (s *Setup) Defended() (domain.Position, bool) {
	switch s.Type {
	case domain.MissionDefendPosition, domain.MissionHackTerminal:
		return s.Focus()
	}
	return domain.Position{}, false
}

func inZone(p domain.Position, center *domain.Position, radius float64) bool {
	return center != nil && p.DistanceTo(*center) <= radius
}
