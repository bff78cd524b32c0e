package field

import (
	"errors"

	"github.com/annel0/arches-terrain/internal/vec"
)

// DefaultGradientStep шаг центральных разностей по умолчанию
const DefaultGradientStep = 1e-2

var (
	// ErrNoChildren — оператор создан без дочерних узлов
	ErrNoChildren = errors.New("field: operator requires at least one child")
	// ErrNilChild — среди дочерних узлов есть nil
	ErrNilChild = errors.New("field: operator child is nil")
	// ErrInvalidRadius — радиус примитива должен быть положительным
	ErrInvalidRadius = errors.New("field: primitive radius must be positive")
	// ErrInvalidAmplitude — вес примитива не может быть отрицательным
	ErrInvalidAmplitude = errors.New("field: primitive amplitude must be non-negative")
	// ErrInvalidWavelength — длина волны шума должна быть положительной
	ErrInvalidWavelength = errors.New("field: noise wavelength must be positive")
)

// Node — узел дерева неявных полей.
//
// Варианты: *Blend (оператор), *Disc, *Vertex (примитивы) и Flat.
// Узлы неизменяемы после сборки, поэтому ElevationAlpha безопасно
// вызывать из любого числа горутин.
type Node interface {
	// Bounds возвращает прямоугольник носителя, вычисленный при создании
	Bounds() Box2
	// ElevationAlpha вычисляет высоту и вес в точке p
	ElevationAlpha(p vec.Vec2Float) ScalarAlpha
	// Traversal считает узлы, посещённые при вычислении в точке p
	Traversal(p vec.Vec2Float) int
}

// Elevation возвращает только высоту узла в точке
func Elevation(n Node, p vec.Vec2Float) float64 {
	return n.ElevationAlpha(p).Value
}

// Gradient вычисляет градиент высоты центральными разностями с шагом step.
// step <= 0 заменяется на DefaultGradientStep.
func Gradient(n Node, p vec.Vec2Float, step float64) vec.Vec2Float {
	if step <= 0 {
		step = DefaultGradientStep
	}
	dx := Elevation(n, vec.Vec2Float{X: p.X + step, Y: p.Y}) - Elevation(n, vec.Vec2Float{X: p.X - step, Y: p.Y})
	dy := Elevation(n, vec.Vec2Float{X: p.X, Y: p.Y + step}) - Elevation(n, vec.Vec2Float{X: p.X, Y: p.Y - step})
	return vec.Vec2Float{X: dx, Y: dy}.Mul(0.5 / step)
}

// Normal возвращает единичную нормаль (-∂z/∂x, -∂z/∂y, 1)
func Normal(n Node, p vec.Vec2Float, step float64) vec.Vec3Float {
	g := Gradient(n, p, step)
	return vec.Vec3Float{X: -g.X, Y: -g.Y, Z: 1}.Normalized()
}

// Flat — незаданный примитив: плоская земля на нулевой высоте с полным весом
type Flat struct {
	Box Box2
}

// NewFlat создаёт плоский узел с заданным прямоугольником
func NewFlat(box Box2) Flat {
	return Flat{Box: box}
}

func (f Flat) Bounds() Box2 { return f.Box }

func (f Flat) ElevationAlpha(vec.Vec2Float) ScalarAlpha {
	return ScalarAlpha{Value: 0, Alpha: 1}
}

func (f Flat) Traversal(vec.Vec2Float) int { return 1 }
