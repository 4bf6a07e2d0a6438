package battlefield

import (
	"fmt"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
)

// Символы раскладки
const (
	GlyphNormal     = '.'
	GlyphRough      = ','
	GlyphWater      = '~'
	GlyphHalfCover  = 'h'
	GlyphFullCover  = 'H'
	GlyphPlayer     = 'P'
	GlyphEnemy      = 'E'
	GlyphExtraction = 'X'
	GlyphTerminal   = 'T'
	GlyphDefense    = 'D'
	GlyphVIP        = 'V'
	GlyphBoss       = 'B'

	// объекты окружения, клетка под ними обычная
	GlyphAcid      = 'a'
	GlyphLaser     = 'l'
	GlyphStation   = 'm'
	GlyphBarrel    = 'o'
	GlyphGenerator = 'g'
)

var objectGlyphs = map[byte]domain.ObjectKind{
	GlyphAcid:      domain.ObjectAcidPool,
	GlyphLaser:     domain.ObjectLaserGrid,
	GlyphStation:   domain.ObjectHealingStation,
	GlyphBarrel:    domain.ObjectExplosiveBarrel,
	GlyphGenerator: domain.ObjectCoverGenerator,
}

// Layout - разобранная карта: сетка и отмеченные точки
type Layout struct {
	Grid *domain.Grid

	PlayerSpawns []domain.Position
	EnemySpawns  []domain.Position

	Extraction *domain.Position
	Terminal   *domain.Position
	Defense    *domain.Position
	VIP        *domain.Position
	Boss       *domain.Position

	Objects []*domain.EnvObject
}

// DefaultLayout - стандартная карта 14x12
var DefaultLayout = []string{
	"..............",
	".P..h....,,...",
	".P..h....,,.E.",
	".P......H.....",
	".P......H..E..",
	"..,,.........X",
	"..,,..~~......",
	"......~~..h.o.",
	".T....h...h.E.",
	"....D.........",
	"..V.......B...",
	".m............",
}

// ParseLayout строит сетку из строк. Все строки одной длины,
// одиночные метки (X, T, D, V, B) не повторяются.
func ParseLayout(rows []string, cellSize float64) (*Layout, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty layout", domain.ErrConfigurationMissing)
	}
	width := len(rows[0])
	l := &Layout{Grid: domain.NewGrid(width, len(rows), cellSize)}

	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: layout row %d has width %d, expected %d", domain.ErrConfigurationMissing, y, len(row), width)
		}
		for x, ch := range []byte(row) {
			pos := domain.Position{X: x, Y: y}
			var err error
			if kind, ok := objectGlyphs[ch]; ok {
				l.Objects = append(l.Objects, domain.NewEnvObject(kind, pos))
				continue
			}
			switch ch {
			case GlyphNormal:
			case GlyphRough:
				l.Grid.SetTerrain(pos, domain.TerrainRough)
			case GlyphWater:
				l.Grid.SetTerrain(pos, domain.TerrainWater)
			case GlyphHalfCover:
				l.Grid.SetCover(pos, domain.CoverHalf)
			case GlyphFullCover:
				l.Grid.SetCover(pos, domain.CoverFull)
			case GlyphPlayer:
				l.PlayerSpawns = append(l.PlayerSpawns, pos)
			case GlyphEnemy:
				l.EnemySpawns = append(l.EnemySpawns, pos)
			case GlyphExtraction:
				err = mark(&l.Extraction, pos, ch)
			case GlyphTerminal:
				err = mark(&l.Terminal, pos, ch)
			case GlyphDefense:
				err = mark(&l.Defense, pos, ch)
			case GlyphVIP:
				err = mark(&l.VIP, pos, ch)
			case GlyphBoss:
				err = mark(&l.Boss, pos, ch)
			default:
				err = fmt.Errorf("%w: unknown layout glyph %q at %d,%d", domain.ErrConfigurationMissing, ch, x, y)
			}
			if err != nil {
				return nil, err
			}
		}
	}
	return l, nil
}

func mark(dst **domain.Position, pos domain.Position, ch byte) error {
	if *dst != nil {
		return fmt.Errorf("%w: duplicate %q marker at %d,%d", domain.ErrConfigurationMissing, ch, pos.X, pos.Y)
	}
	p := pos
	*dst = &p
	return nil
}
