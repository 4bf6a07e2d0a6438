package battlefield

import (
	"fmt"
	"math/rand"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/mission"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"

	"github.com/sirupsen/logrus"
)

// DefaultTurnBudget - бюджет ходов, если миссия его не задала
const DefaultTurnBudget = 12

// Skirmish - все, что нужно engine.NewBattle
type Skirmish struct {
	Grid       *domain.Grid
	Units      []*domain.Unit
	Setup      mission.Setup
	Difficulty domain.Difficulty
	Objects    []*domain.EnvObject
}

// SkirmishBuilder предоставляет fluent API для сборки боя
type SkirmishBuilder struct {
	rng           *rand.Rand
	rows          []string
	cellSize      float64
	missionType   domain.MissionType
	turnBudget    int
	requiredKills int
	difficulty    domain.Difficulty
	squad         []domain.ClassType

	// genWidth > 0 - карта генерируется при Build
	genWidth, genHeight int
}

// NewSkirmish создает builder. Все случайные решения (состав врагов, ID) берутся из rng.
func NewSkirmish(rng *rand.Rand) *SkirmishBuilder {
	return &SkirmishBuilder{
		rng:         rng,
		rows:        DefaultLayout,
		cellSize:    1,
		missionType: domain.MissionElimination,
		turnBudget:  DefaultTurnBudget,
		difficulty:  domain.DifficultyNormal,
		squad:       DefaultSquad,
	}
}

// WithLayout задает карту строками (см. Glyph*)
func (b *SkirmishBuilder) WithLayout(rows ...string) *SkirmishBuilder {
	if len(rows) > 0 {
		b.rows = rows
		b.genWidth, b.genHeight = 0, 0
	}
	return b
}

// WithGeneratedLayout - случайная карта (см. GenerateLayout) из того же rng
func (b *SkirmishBuilder) WithGeneratedLayout(width, height int) *SkirmishBuilder {
	b.genWidth, b.genHeight = width, height
	return b
}

func (b *SkirmishBuilder) WithCellSize(size float64) *SkirmishBuilder {
	b.cellSize = size
	return b
}

// WithMission задает тип миссии и бюджет ходов (<= 0 - по умолчанию)
func (b *SkirmishBuilder) WithMission(mt domain.MissionType, turnBudget int) *SkirmishBuilder {
	b.missionType = mt
	if turnBudget > 0 {
		b.turnBudget = turnBudget
	}
	return b
}

func (b *SkirmishBuilder) WithRequiredKills(n int) *SkirmishBuilder {
	b.requiredKills = n
	return b
}

func (b *SkirmishBuilder) WithDifficulty(d domain.Difficulty) *SkirmishBuilder {
	b.difficulty = d
	return b
}

// WithSquad задает классы бойцов (по одному на точку P)
func (b *SkirmishBuilder) WithSquad(classes ...domain.ClassType) *SkirmishBuilder {
	if len(classes) > 0 {
		b.squad = classes
	}
	return b
}

// Build собирает сетку, юнитов и цели миссии.
// Здоровье и бюджет ходов по сложности масштабирует сам бой.
func (b *SkirmishBuilder) Build() (*Skirmish, error) {
	rows := b.rows
	if b.genWidth > 0 {
		generated, err := GenerateLayout(b.rng, b.genWidth, b.genHeight)
		if err != nil {
			return nil, err
		}
		rows = generated
	}

	layout, err := ParseLayout(rows, b.cellSize)
	if err != nil {
		return nil, err
	}
	settings := b.difficulty.Settings()

	s := &Skirmish{Grid: layout.Grid, Difficulty: b.difficulty, Objects: layout.Objects}
	s.Setup = mission.Setup{
		Type:            b.missionType,
		TurnBudget:      b.turnBudget,
		RequiredKills:   b.requiredKills,
		ExtractionPoint: layout.Extraction,
		TerminalPoint:   layout.Terminal,
		DefensePosition: layout.Defense,
	}

	// 1. Отряд
	squadSize := min(len(b.squad), len(layout.PlayerSpawns), settings.MaxSquadSize)
	if squadSize == 0 {
		return nil, fmt.Errorf("%w: layout has no player spawns", domain.ErrConfigurationMissing)
	}
	for i := 0; i < squadSize; i++ {
		s.Units = append(s.Units, CreateSoldier(b.squad[i], layout.PlayerSpawns[i], b.rng))
	}

	// 2. VIP
	if b.missionType == domain.MissionVIPRescue || b.missionType == domain.MissionCapture {
		if layout.VIP == nil {
			return nil, fmt.Errorf("%w: %s mission needs a VIP marker", domain.ErrConfigurationMissing, b.missionType)
		}
		var vip *domain.Unit
		if b.missionType == domain.MissionCapture {
			vip = CreateCaptive(*layout.VIP, b.rng)
		} else {
			vip = CreateVIP(*layout.VIP, b.rng)
		}
		s.Units = append(s.Units, vip)
		s.Setup.VIPID = vip.ID
	}

	// 3. Враги. Точка B без босса - обычный спавн.
	spawns := append([]domain.Position(nil), layout.EnemySpawns...)
	if b.missionType == domain.MissionBossEncounter {
		if layout.Boss == nil {
			return nil, fmt.Errorf("%w: boss mission needs a boss marker", domain.ErrConfigurationMissing)
		}
		boss := CreateBoss(*layout.Boss, b.rng)
		s.Units = append(s.Units, boss)
		s.Setup.BossID = boss.ID
	} else if layout.Boss != nil {
		spawns = append(spawns, *layout.Boss)
	}

	count := min(settings.ScaleCount(len(spawns)), len(spawns))
	b.rng.Shuffle(len(spawns), func(i, j int) { spawns[i], spawns[j] = spawns[j], spawns[i] })
	for _, pos := range spawns[:count] {
		s.Units = append(s.Units, CreateEnemy(pos, b.rng))
	}
	if count == 0 && s.Setup.BossID == "" {
		return nil, fmt.Errorf("%w: layout has no enemy spawns", domain.ErrConfigurationMissing)
	}

	if err := s.Setup.Validate(); err != nil {
		return nil, err
	}
	faceOpponents(s.Units)

	logger.Log.WithFields(logrus.Fields{
		"component":  "battlefield",
		"mission":    b.missionType.String(),
		"difficulty": b.difficulty.String(),
		"units":      len(s.Units),
		"enemies":    count,
	}).Info("Skirmish built")

	return s, nil
}

// faceOpponents разворачивает каждого юнита к центру противоположной стороны
func faceOpponents(units []*domain.Unit) {
	type center struct{ x, y, n int }
	centers := map[domain.Team]*center{}
	for _, u := range units {
		c := centers[u.Team]
		if c == nil {
			c = &center{}
			centers[u.Team] = c
		}
		c.x += u.Pos.X
		c.y += u.Pos.Y
		c.n++
	}
	for _, u := range units {
		var sx, sy, n int
		for team, c := range centers {
			if team != u.Team {
				sx, sy, n = sx+c.x, sy+c.y, n+c.n
			}
		}
		if n == 0 {
			continue
		}
		target := domain.Position{X: (sx + n/2) / n, Y: (sy + n/2) / n}
		u.Facing = u.Pos.HeadingTo(target)
	}
}
