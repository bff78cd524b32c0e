package field

import (
	"math"

	"github.com/annel0/arches-terrain/internal/vec"
)

// Box2 — выровненный по осям прямоугольник. Min <= Max покомпонентно
// гарантируется конструкторами.
type Box2 struct {
	Min vec.Vec2Float `json:"min"`
	Max vec.Vec2Float `json:"max"`
}

// NewBox2 создаёт прямоугольник по двум углам в любом порядке
func NewBox2(x1, y1, x2, y2 float64) Box2 {
	return Box2{
		Min: vec.Vec2Float{X: math.Min(x1, x2), Y: math.Min(y1, y2)},
		Max: vec.Vec2Float{X: math.Max(x1, x2), Y: math.Max(y1, y2)},
	}
}

// BoxAround возвращает квадрат, описанный вокруг круга с центром c и радиусом r
func BoxAround(c vec.Vec2Float, r float64) Box2 {
	r = math.Abs(r)
	return NewBox2(c.X-r, c.Y-r, c.X+r, c.Y+r)
}

// Union возвращает наименьший прямоугольник, содержащий оба
func Union(a, b Box2) Box2 {
	return Box2{
		Min: vec.Vec2Float{X: math.Min(a.Min.X, b.Min.X), Y: math.Min(a.Min.Y, b.Min.Y)},
		Max: vec.Vec2Float{X: math.Max(a.Max.X, b.Max.X), Y: math.Max(a.Max.Y, b.Max.Y)},
	}
}

// Contains — замкнутая проверка: точки на границе считаются внутри
func (b Box2) Contains(p vec.Vec2Float) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Extended расширяет прямоугольник на r во все стороны
func (b Box2) Extended(r float64) Box2 {
	return NewBox2(b.Min.X-r, b.Min.Y-r, b.Max.X+r, b.Max.Y+r)
}

// Center возвращает центр прямоугольника
func (b Box2) Center() vec.Vec2Float {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Diagonal возвращает вектор Max - Min
func (b Box2) Diagonal() vec.Vec2Float {
	return b.Max.Sub(b.Min)
}

// Width ширина по X
func (b Box2) Width() float64 { return b.Max.X - b.Min.X }

// Height высота по Y
func (b Box2) Height() float64 { return b.Max.Y - b.Min.Y }
