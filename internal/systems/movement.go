package systems

import (
	"container/heap"
	"fmt"
	"sort"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
)

// Reachable - клетка, достижимая за Cost очков перемещения
type Reachable struct {
	Pos  domain.Position
	Cost int
}

type pathNode struct {
	pos  domain.Position
	cost int
}

type pathQueue []pathNode

func (q pathQueue) Len() int            { return len(q) }
func (q pathQueue) Less(i, j int) bool  { return q[i].cost < q[j].cost }
func (q pathQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *pathQueue) Push(x interface{}) { *q = append(*q, x.(pathNode)) }
func (q *pathQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// ReachableCells - все свободные клетки, достижимые из from за budget очков.
// Дейкстра по 4 соседям: Normal = 1, Rough = 2, вода и занятые клетки непроходимы.
// Результат без стартовой клетки, в порядке row-major (детерминированно).
func ReachableCells(g domain.GridService, from domain.Position, budget int) []Reachable {
	if budget <= 0 || !g.InBounds(from) {
		return nil
	}

	best := map[domain.Position]int{from: 0}
	q := &pathQueue{{pos: from}}

	for q.Len() > 0 {
		cur := heap.Pop(q).(pathNode)
		if cur.cost > best[cur.pos] {
			continue
		}
		for _, next := range g.Neighbors(cur.pos) {
			step := next.MoveCost()
			if step < 0 || next.Occupied {
				continue
			}
			cost := cur.cost + step
			if cost > budget {
				continue
			}
			if prev, seen := best[next.Pos]; seen && prev <= cost {
				continue
			}
			best[next.Pos] = cost
			heap.Push(q, pathNode{pos: next.Pos, cost: cost})
		}
	}

	out := make([]Reachable, 0, len(best))
	for p, c := range best {
		if p == from {
			continue
		}
		out = append(out, Reachable{Pos: p, Cost: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pos.Y != out[j].Pos.Y {
			return out[i].Pos.Y < out[j].Pos.Y
		}
		return out[i].Pos.X < out[j].Pos.X
	})
	return out
}

// CanReach - достижима ли клетка в пределах дальности хода юнита
func CanReach(g domain.GridService, u *domain.Unit, to domain.Position) bool {
	for _, r := range ReachableCells(g, u.Pos, u.MovementRange) {
		if r.Pos == to {
			return true
		}
	}
	return false
}

// MoveUnit перемещает юнита за 1 AP. При отказе состояние не меняется.
func MoveUnit(g domain.GridService, u *domain.Unit, to domain.Position) error {
	if u.Dead {
		return fmt.Errorf("%w: %s is dead", domain.ErrIllegalAction, u.ID)
	}
	if !u.HasActionPoints(domain.APCostMove) {
		return fmt.Errorf("%w: %s has no action points to move", domain.ErrIllegalAction, u.ID)
	}
	if !CanReach(g, u, to) {
		return fmt.Errorf("%w: %v is not reachable from %v", domain.ErrIllegalAction, to, u.Pos)
	}
	if err := g.MoveOccupant(u.Pos, to, u.ID); err != nil {
		return err
	}

	u.Facing = u.Pos.HeadingTo(to)
	u.Pos = to
	u.HasMoved = true
	return u.SpendActionPoints(domain.APCostMove)
}
