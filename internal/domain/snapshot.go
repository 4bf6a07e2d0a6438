package domain

import "fmt"

// CellSnapshot - состояние клетки для сохранения
type CellSnapshot struct {
	Pos        Position    `json:"pos"`
	Cover      CoverType   `json:"cover"`
	Terrain    TerrainType `json:"terrain"`
	Integrity  int         `json:"integrity,omitempty"`
	Occupied   bool        `json:"occupied,omitempty"`
	OccupantID UnitID      `json:"occupantId,omitempty"`
}

// GridSnapshot - плоский снимок сетки
type GridSnapshot struct {
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	CellSize float64        `json:"cellSize"`
	Cells    []CellSnapshot `json:"cells"`
}

// Snapshot возвращает снимок всех клеток (row-major)
func (g *Grid) Snapshot() GridSnapshot {
	s := GridSnapshot{Width: g.Width, Height: g.Height, CellSize: g.CellSize, Cells: make([]CellSnapshot, len(g.cells))}
	for i, c := range g.cells {
		s.Cells[i] = CellSnapshot{
			Pos: c.Pos, Cover: c.Cover, Terrain: c.Terrain, Integrity: c.Integrity,
			Occupied: c.Occupied, OccupantID: c.OccupantID,
		}
	}
	return s
}

// RestoreGrid восстанавливает сетку из снимка
func RestoreGrid(s GridSnapshot) (*Grid, error) {
	if s.Width <= 0 || s.Height <= 0 || len(s.Cells) != s.Width*s.Height {
		return nil, fmt.Errorf("%w: grid snapshot %dx%d with %d cells", ErrConfigurationMissing, s.Width, s.Height, len(s.Cells))
	}
	g := NewGrid(s.Width, s.Height, s.CellSize)
	for _, cs := range s.Cells {
		c, ok := g.CellAt(cs.Pos)
		if !ok {
			return nil, fmt.Errorf("%w: cell %v outside %dx%d", ErrConfigurationMissing, cs.Pos, s.Width, s.Height)
		}
		c.Cover = cs.Cover
		c.Terrain = cs.Terrain
		c.Integrity = cs.Integrity
		c.Occupied = cs.Occupied
		c.OccupantID = cs.OccupantID
	}
	return g, nil
}

// Clone - глубокая копия юнита (для снапшотов)
func (u *Unit) Clone() *Unit {
	c := *u
	if u.Weapon != nil {
		w := *u.Weapon
		c.Weapon = &w
	}
	c.Equipment = make([]*Equipment, len(u.Equipment))
	for i, e := range u.Equipment {
		cp := *e
		c.Equipment[i] = &cp
	}
	c.Abilities = make([]*Ability, len(u.Abilities))
	for i, a := range u.Abilities {
		cp := *a
		c.Abilities[i] = &cp
	}
	c.Buffs = append([]Buff(nil), u.Buffs...)
	if u.Progression != nil {
		p := *u.Progression
		c.Progression = &p
	}
	if u.Boss != nil {
		b := *u.Boss
		c.Boss = &b
	}
	if u.Class != nil {
		cls := *u.Class
		if u.Class.Tree != nil {
			t := &SkillTree{Nodes: make([]SkillNode, len(u.Class.Tree.Nodes))}
			for i, n := range u.Class.Tree.Nodes {
				n.Prerequisites = append([]int(nil), n.Prerequisites...)
				t.Nodes[i] = n
			}
			cls.Tree = t
		}
		c.Class = &cls
	}
	return &c
}
