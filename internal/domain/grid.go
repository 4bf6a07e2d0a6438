package domain

import "fmt"

// NewGrid создает сетку width x height из пустых клеток (Normal, без укрытий)
func NewGrid(width, height int, cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	g := &Grid{
		Width:    width,
		Height:   height,
		CellSize: cellSize,
		cells:    make([]Cell, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.cells[g.GetIndex(x, y)] = Cell{
				Pos:   Position{X: x, Y: y},
				World: WorldPos{X: float64(x) * cellSize, Y: float64(y) * cellSize},
			}
		}
	}
	return g
}

func (g *Grid) GetIndex(x, y int) int {
	return y*g.Width + x
}

// InBounds проверяет, лежит ли позиция внутри сетки
func (g *Grid) InBounds(pos Position) bool {
	return pos.X >= 0 && pos.X < g.Width && pos.Y >= 0 && pos.Y < g.Height
}

// CellAt возвращает клетку по координате
func (g *Grid) CellAt(pos Position) (*Cell, bool) {
	if !g.InBounds(pos) {
		return nil, false
	}
	return &g.cells[g.GetIndex(pos.X, pos.Y)], true
}

// Cells возвращает все клетки в порядке обхода (row-major)
func (g *Grid) Cells() []*Cell {
	out := make([]*Cell, len(g.cells))
	for i := range g.cells {
		out[i] = &g.cells[i]
	}
	return out
}

// Неизменный порядок обхода соседей: вверх, вправо, вниз, влево
var neighborOffsets = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// Neighbors возвращает 4 соседние клетки (в пределах сетки)
func (g *Grid) Neighbors(pos Position) []*Cell {
	out := make([]*Cell, 0, 4)
	for _, off := range neighborOffsets {
		if c, ok := g.CellAt(pos.Shift(off[0], off[1])); ok {
			out = append(out, c)
		}
	}
	return out
}

// CellsInRange возвращает клетки на евклидовом расстоянии <= radius (row-major)
func (g *Grid) CellsInRange(center Position, radius float64) []*Cell {
	if radius < 0 {
		return nil
	}
	r := int(radius)
	out := make([]*Cell, 0)
	for y := center.Y - r; y <= center.Y+r; y++ {
		for x := center.X - r; x <= center.X+r; x++ {
			c, ok := g.CellAt(Position{X: x, Y: y})
			if !ok {
				continue
			}
			if center.DistanceTo(c.Pos) <= radius {
				out = append(out, c)
			}
		}
	}
	return out
}

func (g *Grid) CoverAt(pos Position) CoverType {
	if c, ok := g.CellAt(pos); ok {
		return c.Cover
	}
	return CoverNone
}

func (g *Grid) TerrainAt(pos Position) TerrainType {
	if c, ok := g.CellAt(pos); ok {
		return c.Terrain
	}
	return TerrainWater
}

// SetCover ставит укрытие (с прочностью по умолчанию)
func (g *Grid) SetCover(pos Position, cover CoverType) {
	c, ok := g.CellAt(pos)
	if !ok {
		return
	}
	c.Cover = cover
	c.Integrity = 0
	if cover != CoverNone {
		c.Integrity = DefaultCoverIntegrity
	}
}

func (g *Grid) SetTerrain(pos Position, terrain TerrainType) {
	if c, ok := g.CellAt(pos); ok {
		c.Terrain = terrain
	}
}

// Occupy занимает клетку юнитом
func (g *Grid) Occupy(pos Position, id UnitID) error {
	c, ok := g.CellAt(pos)
	if !ok {
		return fmt.Errorf("%w: cell %v is out of bounds", ErrIllegalAction, pos)
	}
	if !c.IsPassable() {
		return fmt.Errorf("%w: cell %v is impassable", ErrIllegalAction, pos)
	}
	if c.Occupied {
		return fmt.Errorf("%w: cell %v is occupied by %s", ErrIllegalAction, pos, c.OccupantID)
	}
	c.Occupied = true
	c.OccupantID = id
	return nil
}

// Vacate освобождает клетку. Освободить может только тот, кто ее занимает.
func (g *Grid) Vacate(pos Position, id UnitID) error {
	c, ok := g.CellAt(pos)
	if !ok {
		return fmt.Errorf("%w: cell %v is out of bounds", ErrIllegalAction, pos)
	}
	if !c.Occupied || c.OccupantID != id {
		return fmt.Errorf("%w: unit %s does not occupy %v", ErrIllegalAction, id, pos)
	}
	c.Occupied = false
	c.OccupantID = ""
	return nil
}

// MoveOccupant переносит юнита между клетками. При ошибке состояние не меняется.
func (g *Grid) MoveOccupant(from, to Position, id UnitID) error {
	src, ok := g.CellAt(from)
	if !ok || !src.Occupied || src.OccupantID != id {
		return fmt.Errorf("%w: unit %s does not occupy %v", ErrIllegalAction, id, from)
	}
	if err := g.Occupy(to, id); err != nil {
		return err
	}
	src.Occupied = false
	src.OccupantID = ""
	return nil
}

// DamageCover наносит урон укрытию клетки. Возвращает true, если укрытие разрушено.
func (g *Grid) DamageCover(pos Position, amount int) bool {
	c, ok := g.CellAt(pos)
	if !ok || c.Cover == CoverNone || amount <= 0 {
		return false
	}
	c.Integrity -= amount
	if c.Integrity <= 0 {
		c.Integrity = 0
		c.Cover = CoverNone
		return true
	}
	return false
}

// OccupiedCount - количество занятых клеток (для проверки инвариантов)
func (g *Grid) OccupiedCount() int {
	n := 0
	for i := range g.cells {
		if g.cells[i].Occupied {
			n++
		}
	}
	return n
}
