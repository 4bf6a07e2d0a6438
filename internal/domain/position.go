package domain

import "math"

// DistanceTo возвращает точное расстояние до другой точки (float)
func (p Position) DistanceTo(other Position) float64 {
	return math.Hypot(float64(p.X-other.X), float64(p.Y-other.Y))
}

// DistanceSquaredTo возвращает квадрат расстояния (int) для сравнения без корней
func (p Position) DistanceSquaredTo(other Position) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// IsAdjacent возвращает true, если цель в соседней клетке (включая диагональ)
func (p Position) IsAdjacent(other Position) bool {
	dx := p.X - other.X
	dy := p.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx <= 1 && dy <= 1 && (dx != 0 || dy != 0)
}

// Shift возвращает новую позицию со смещением
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// DirectionTo возвращает единичные шаги по осям в сторону цели (для Брезенхэма)
func (p Position) DirectionTo(other Position) (int, int) {
	return sign(other.X - p.X), sign(other.Y - p.Y)
}

// HeadingTo возвращает направление на цель в градусах [0, 360).
// 0 - ось +X, 90 - ось +Y.
func (p Position) HeadingTo(other Position) float64 {
	if p == other {
		return 0
	}
	deg := math.Atan2(float64(other.Y-p.Y), float64(other.X-p.X)) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

// AngleBetween возвращает минимальный угол между двумя направлениями, [0, 180]
func AngleBetween(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}
