package battlefield

import (
	"fmt"
	"math/rand"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
)

// Константы генерации
const (
	MinMapWidth  = 12
	MinMapHeight = 8
	MaxRuins     = 6
	MinRuinSize  = 3
	MaxRuinSize  = 4

	deployDepth = 3 // ширина зоны высадки с каждой стороны
)

// Rect - прямоугольник на карте, клетки [X, X+W) x [Y, Y+H)
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Intersects - касание тоже считается пересечением, между руинами остается проход
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.W && r.X+r.W >= other.X &&
		r.Y <= other.Y+other.H && r.Y+r.H >= other.Y
}

// GenerateLayout строит случайную карту в формате ParseLayout.
// Отряд высаживается слева, враги и эвакуация справа, руины с укрытиями посередине.
// Карта содержит все метки, поэтому подходит для любого типа миссии.
func GenerateLayout(rng *rand.Rand, width, height int) ([]string, error) {
	if width < MinMapWidth || height < MinMapHeight {
		return nil, fmt.Errorf("%w: generated map must be at least %dx%d, got %dx%d",
			domain.ErrConfigurationMissing, MinMapWidth, MinMapHeight, width, height)
	}

	// 1. Пустое поле
	cells := make([][]byte, height)
	for y := range cells {
		cells[y] = make([]byte, width)
		for x := range cells[y] {
			cells[y][x] = GlyphNormal
		}
	}

	// 2. Руины в средней полосе
	var ruins []Rect
	for attempt := 0; attempt < MaxRuins*4 && len(ruins) < MaxRuins; attempt++ {
		w := randRange(rng, MinRuinSize, MaxRuinSize)
		h := randRange(rng, MinRuinSize, MaxRuinSize)
		x := randRange(rng, deployDepth, width-deployDepth-1-w)
		y := randRange(rng, 0, height-h)

		ruin := Rect{X: x, Y: y, W: w, H: h}
		failed := false
		for _, other := range ruins {
			if ruin.Intersects(other) {
				failed = true
				break
			}
		}
		if !failed {
			buildRuin(cells, ruin, rng)
			ruins = append(ruins, ruin)
		}
	}

	// 3. Местность: вода и пересеченка там, где свободно
	middle := Rect{X: deployDepth, Y: 0, W: width - 2*deployDepth - 1, H: height}
	scatterPatch(cells, middle, GlyphWater, rng)
	scatterPatch(cells, middle, GlyphRough, rng)
	scatterPatch(cells, middle, GlyphRough, rng)

	// 4. Отряд - столбец у левого края
	top := max(0, height/2-2)
	for y := top; y < min(height, top+4); y++ {
		cells[y][1] = GlyphPlayer
	}

	// 5. Одиночные метки и точки врагов
	placements := []struct {
		area  Rect
		glyph byte
		count int
	}{
		{Rect{X: 0, Y: 0, W: deployDepth, H: height}, GlyphVIP, 1},
		{Rect{X: width - 1, Y: 0, W: 1, H: height}, GlyphExtraction, 1},
		{Rect{X: width - deployDepth, Y: 0, W: 2, H: height}, GlyphEnemy, 4},
		{Rect{X: width - deployDepth - 1, Y: 0, W: 1, H: height}, GlyphBoss, 1},
		{middle, GlyphTerminal, 1},
		{middle, GlyphDefense, 1},
	}
	for _, p := range placements {
		for i := 0; i < p.count; i++ {
			if err := placeFree(cells, p.area, p.glyph, rng); err != nil {
				return nil, err
			}
		}
	}

	rows := make([]string, height)
	for y, row := range cells {
		rows[y] = string(row)
	}
	return rows, nil
}

// --- Вспомогательные функции ---

// buildRuin: углы - полное укрытие, стены - половинное с проломами, один вход гарантирован
func buildRuin(cells [][]byte, r Rect, rng *rand.Rand) {
	var edge []domain.Position
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			onX := x == r.X || x == r.X+r.W-1
			onY := y == r.Y || y == r.Y+r.H-1
			switch {
			case onX && onY:
				cells[y][x] = GlyphFullCover
			case onX || onY:
				if rng.Intn(3) > 0 {
					cells[y][x] = GlyphHalfCover
				}
				edge = append(edge, domain.Position{X: x, Y: y})
			}
		}
	}
	if len(edge) > 0 {
		door := edge[rng.Intn(len(edge))]
		cells[door.Y][door.X] = GlyphNormal
	}
}

// scatterPatch кладет пятно 2x2, если все четыре клетки свободны
func scatterPatch(cells [][]byte, area Rect, glyph byte, rng *rand.Rand) {
	if area.W < 2 || area.H < 2 {
		return
	}
	x := area.X + rng.Intn(area.W-1)
	y := area.Y + rng.Intn(area.H-1)
	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 2; dx++ {
			if cells[y+dy][x+dx] != GlyphNormal {
				return
			}
		}
	}
	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 2; dx++ {
			cells[y+dy][x+dx] = glyph
		}
	}
}

// placeFree ставит метку в случайную пустую клетку области
func placeFree(cells [][]byte, area Rect, glyph byte, rng *rand.Rand) error {
	var free []domain.Position
	for y := area.Y; y < area.Y+area.H; y++ {
		for x := area.X; x < area.X+area.W; x++ {
			if cells[y][x] == GlyphNormal {
				free = append(free, domain.Position{X: x, Y: y})
			}
		}
	}
	if len(free) == 0 {
		return fmt.Errorf("%w: no free cell for %q", domain.ErrConfigurationMissing, glyph)
	}
	p := free[rng.Intn(len(free))]
	cells[p.Y][p.X] = glyph
	return nil
}

func randRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return rng.Intn(hi-lo+1) + lo
}
