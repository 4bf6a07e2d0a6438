package systems

import (
	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"
	"github.com/sirupsen/logrus"
)

// HasLineOfSight проверяет прямую видимость между центрами двух клеток.
// Алгоритм Брезенхэма. Полное укрытие между точками блокирует линию, половинное - нет.
func HasLineOfSight(g domain.GridService, p1, p2 domain.Position) bool {
	losLogger := logger.Log.WithFields(logrus.Fields{
		"component": "physics_system",
		"function":  "HasLineOfSight",
		"start_pos": p1,
		"end_pos":   p2,
	})

	if p1 == p2 {
		return true
	}
	if !g.InBounds(p1) || !g.InBounds(p2) {
		losLogger.Debug("Endpoint out of bounds. Result: false")
		return false
	}

	blocked := false
	walkLine(p1, p2, func(p domain.Position) bool {
		if p == p1 || p == p2 {
			return true
		}
		// 1. Границы карты
		if !g.InBounds(p) {
			blocked = true
			return false
		}
		// 2. Полное укрытие
		if g.CoverAt(p) == domain.CoverFull {
			losLogger.WithField("blocking_point", p).Debug("Line is blocked by FULL cover")
			blocked = true
			return false
		}
		return true
	})
	return !blocked
}

// walkLine обходит клетки отрезка (Брезенхэм, только целые числа).
// visit возвращает false, чтобы прервать обход.
func walkLine(p1, p2 domain.Position, visit func(domain.Position) bool) {
	x0, y0 := p1.X, p1.Y
	x1, y1 := p2.X, p2.Y

	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}

	sx, sy := p1.DirectionTo(p2)
	err := dx - dy

	for {
		if !visit(domain.Position{X: x0, Y: y0}) {
			return
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := err * 2
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// CoverOnLine - первая клетка с укрытием на линии выстрела перед целью (для разрушения при промахе).
// Если такой нет - клетка цели.
func CoverOnLine(g domain.GridService, from, to domain.Position) domain.Position {
	hit := to
	walkLine(from, to, func(p domain.Position) bool {
		if p == from {
			return true
		}
		if p != to && g.CoverAt(p) != domain.CoverNone {
			hit = p
			return false
		}
		return true
	})
	return hit
}
