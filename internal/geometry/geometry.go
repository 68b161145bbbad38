package geometry

import "math"

// Point представляет точку в нормализованных координатах кадра (0.0-1.0, начало сверху слева)
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// AngleAt вычисляет внутренний угол в вершине b между лучами b->a и b->c.
// Результат всегда в диапазоне [0, 180] градусов: значения больше 180
// сворачиваются как 360-угол. Вырожденная геометрия (совпадающие точки)
// дает 0 и никогда не приводит к ошибке.
func AngleAt(a, b, c Point) float64 {
	if (a == b) || (c == b) {
		return 0
	}

	rad := math.Atan2(c.Y-b.Y, c.X-b.X) - math.Atan2(a.Y-b.Y, a.X-b.X)
	deg := math.Abs(rad * 180.0 / math.Pi)

	if deg > 180 {
		deg = 360 - deg
	}

	return deg
}
