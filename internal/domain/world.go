package domain

// Position - координата клетки на тактической сетке
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// WorldPos - мировая позиция центра клетки (клетка * размер клетки)
type WorldPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CoverType - уровень укрытия клетки
type CoverType uint8

const (
	CoverNone CoverType = iota
	CoverHalf
	CoverFull
)

var coverToString = map[CoverType]string{
	CoverNone: "NONE",
	CoverHalf: "HALF",
	CoverFull: "FULL",
}

func (c CoverType) String() string {
	if s, ok := coverToString[c]; ok {
		return s
	}
	return "UNKNOWN"
}

// TerrainType - тип местности. Влияет на стоимость перемещения.
type TerrainType uint8

const (
	TerrainNormal TerrainType = iota
	TerrainRough
	TerrainWater
)

var terrainToString = map[TerrainType]string{
	TerrainNormal: "NORMAL",
	TerrainRough:  "ROUGH",
	TerrainWater:  "WATER",
}

func (t TerrainType) String() string {
	if s, ok := terrainToString[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// Стоимость входа в клетку (в очках перемещения)
const (
	MoveCostNormal = 1
	MoveCostRough  = 2
)

// DefaultCoverIntegrity - запас прочности укрытия по умолчанию
const DefaultCoverIntegrity = 100

// Cell - одна клетка сетки. Принадлежит только Grid, юниты хранят лишь позицию.
type Cell struct {
	Pos   Position `json:"pos"`
	World WorldPos `json:"world"`

	// Occupied всегда совпадает с позицией ровно одного живого юнита
	Occupied   bool   `json:"occupied"`
	OccupantID UnitID `json:"occupantId,omitempty"`

	Cover     CoverType   `json:"cover"`
	Terrain   TerrainType `json:"terrain"`
	Integrity int         `json:"integrity,omitempty"` // Прочность укрытия (разрушаемое окружение)
}

// IsPassable возвращает true, если по клетке можно ходить
func (c *Cell) IsPassable() bool {
	return c.Terrain != TerrainWater
}

// MoveCost возвращает стоимость входа в клетку. -1 для непроходимых.
func (c *Cell) MoveCost() int {
	switch c.Terrain {
	case TerrainRough:
		return MoveCostRough
	case TerrainWater:
		return -1
	default:
		return MoveCostNormal
	}
}

// Grid - Grid Service. Владеет массивом клеток (row-major).
type Grid struct {
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	CellSize float64 `json:"cellSize"`

	cells []Cell
}

// GridService - контракт сетки, который нужен ядру (бой, ИИ, миссии)
type GridService interface {
	InBounds(pos Position) bool
	CellAt(pos Position) (*Cell, bool)
	Neighbors(pos Position) []*Cell
	CellsInRange(center Position, radius float64) []*Cell
	CoverAt(pos Position) CoverType
	TerrainAt(pos Position) TerrainType
	Occupy(pos Position, id UnitID) error
	Vacate(pos Position, id UnitID) error
	MoveOccupant(from, to Position, id UnitID) error
	DamageCover(pos Position, amount int) bool
	SetCover(pos Position, cover CoverType)
}
