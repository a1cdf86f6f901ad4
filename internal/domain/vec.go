package domain

import "math"

// Vec2 - непрерывный двумерный вектор для скорости, импульсов и баланса.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Mag возвращает длину вектора
func (v Vec2) Mag() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Normalize возвращает единичный вектор. Нулевой вектор остается нулевым.
func (v Vec2) Normalize() Vec2 {
	m := v.Mag()
	if m == 0 {
		return Vec2{}
	}
	return v.Scale(1 / m)
}

// ClampMag ограничивает длину вектора сверху.
func (v Vec2) ClampMag(max float64) Vec2 {
	m := v.Mag()
	if m > max && m > 0 {
		return v.Scale(max / m)
	}
	return v
}

// discreteDeadZone - значения по модулю меньше этого порога считаются нулем.
const discreteDeadZone = 0.01

// Discrete квантует вектор в шаг сетки: по каждой оси -1, 0 или 1.
func (v Vec2) Discrete() (int, int) {
	return discreteAxis(v.X), discreteAxis(v.Y)
}

func discreteAxis(f float64) int {
	switch {
	case f > discreteDeadZone:
		return 1
	case f < -discreteDeadZone:
		return -1
	default:
		return 0
	}
}

// Sign возвращает -1, 0 или 1.
func Sign(i int) int {
	switch {
	case i > 0:
		return 1
	case i < 0:
		return -1
	default:
		return 0
	}
}
