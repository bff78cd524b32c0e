package terrain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/annel0/arches-terrain/internal/field"
	"github.com/annel0/arches-terrain/internal/vec"
)

// Layer — роль дерева полей в агрегате
type Layer int

const (
	LayerBedrock Layer = iota
	LayerWater
	LayerSand
	LayerFoam

	layerCount // всегда последний
)

// String возвращает имя слоя
func (l Layer) String() string {
	switch l {
	case LayerBedrock:
		return "bedrock"
	case LayerWater:
		return "water"
	case LayerSand:
		return "sand"
	case LayerFoam:
		return "foam"
	default:
		return "unknown"
	}
}

// ParseLayer разбирает имя слоя
func ParseLayer(s string) (Layer, error) {
	for l := LayerBedrock; l < layerCount; l++ {
		if strings.EqualFold(s, l.String()) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLayer, s)
}

// Material — дискретная классификация точки
type Material int

const (
	MaterialRock Material = iota
	MaterialWater
)

func (m Material) String() string {
	if m == MaterialWater {
		return "water"
	}
	return "rock"
}

var (
	// ErrNoBedrock — агрегат требует дерево коренной породы
	ErrNoBedrock = errors.New("terrain: bedrock tree is required")
	// ErrUnknownLayer — неизвестное имя слоя
	ErrUnknownLayer = errors.New("terrain: unknown layer")
	// ErrNoCrossing — на отрезке нет смены знака превышения воды
	ErrNoCrossing = errors.New("terrain: segment does not cross the shoreline")
)

// Settings — настраиваемые константы агрегата
type Settings struct {
	// GradientStep — шаг центральных разностей для градиента и нормали
	GradientStep float64 `json:"gradient_step"`
	// ShorelineTolerance — длина отрезка, на которой бисекция останавливается
	ShorelineTolerance float64 `json:"shoreline_tolerance"`
	// MaxBisectionSteps ограничивает бисекцию для бесконечных или огромных отрезков
	MaxBisectionSteps int `json:"max_bisection_steps"`
}

// DefaultSettings возвращает константы по умолчанию
func DefaultSettings() Settings {
	return Settings{
		GradientStep:       field.DefaultGradientStep,
		ShorelineTolerance: 0.01,
		MaxBisectionSteps:  64,
	}
}

func (s Settings) normalized() Settings {
	def := DefaultSettings()
	if !(s.GradientStep > 0) {
		s.GradientStep = def.GradientStep
	}
	if !(s.ShorelineTolerance > 0) {
		s.ShorelineTolerance = def.ShorelineTolerance
	}
	if s.MaxBisectionSteps <= 0 {
		s.MaxBisectionSteps = def.MaxBisectionSteps
	}
	return s
}

// Arches — агрегат из нескольких деревьев полей: коренная порода (обязательна),
// вода, песок и пена. Деревья неизменяемы, агрегат безопасен для
// параллельного чтения.
type Arches struct {
	layers   [layerCount]field.Node
	settings Settings
}

// Option настраивает Arches при создании
type Option func(*Arches)

// WithWater задаёт дерево воды
func WithWater(n field.Node) Option {
	return func(a *Arches) { a.layers[LayerWater] = n }
}

// WithSand задаёт дерево песка
func WithSand(n field.Node) Option {
	return func(a *Arches) { a.layers[LayerSand] = n }
}

// WithFoam задаёт дерево пены
func WithFoam(n field.Node) Option {
	return func(a *Arches) { a.layers[LayerFoam] = n }
}

// WithSettings задаёт константы; нулевые поля заменяются значениями по умолчанию
func WithSettings(s Settings) Option {
	return func(a *Arches) { a.settings = s.normalized() }
}

// New создаёт агрегат с деревом коренной породы
func New(bedrock field.Node, opts ...Option) (*Arches, error) {
	if bedrock == nil {
		return nil, ErrNoBedrock
	}
	a := &Arches{settings: DefaultSettings()}
	a.layers[LayerBedrock] = bedrock
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Settings возвращает действующие константы
func (a *Arches) Settings() Settings { return a.settings }

// Tree возвращает дерево слоя или nil, если слой не задан
func (a *Arches) Tree(l Layer) field.Node {
	if l < 0 || l >= layerCount {
		return nil
	}
	return a.layers[l]
}

// HasLayer сообщает, задан ли слой
func (a *Arches) HasLayer(l Layer) bool {
	return a.Tree(l) != nil
}

// Layer вычисляет слой в точке; отсутствующий слой даёт пустой отсчёт
func (a *Arches) Layer(l Layer, p vec.Vec2Float) field.ScalarAlpha {
	n := a.Tree(l)
	if n == nil {
		return field.Empty()
	}
	return n.ElevationAlpha(p)
}

// Bedrock высота коренной породы
func (a *Arches) Bedrock(p vec.Vec2Float) field.ScalarAlpha { return a.Layer(LayerBedrock, p) }

// Water уровень воды
func (a *Arches) Water(p vec.Vec2Float) field.ScalarAlpha { return a.Layer(LayerWater, p) }

// Sand толщина/высота песка
func (a *Arches) Sand(p vec.Vec2Float) field.ScalarAlpha { return a.Layer(LayerSand, p) }

// Foam интенсивность пены
func (a *Arches) Foam(p vec.Vec2Float) field.ScalarAlpha { return a.Layer(LayerFoam, p) }

// Bounds — прямоугольник дерева коренной породы
func (a *Arches) Bounds() field.Box2 {
	return a.layers[LayerBedrock].Bounds()
}

// Classify возвращает MaterialRock, если порода строго выше воды.
// Без слоя воды вода считается на нулевой высоте.
func (a *Arches) Classify(p vec.Vec2Float) Material {
	if a.Bedrock(p).Value > a.Water(p).Value {
		return MaterialRock
	}
	return MaterialWater
}

// Traversal — число узлов, посещённых деревьями породы и воды
func (a *Arches) Traversal(p vec.Vec2Float) int {
	n := a.layers[LayerBedrock].Traversal(p)
	if w := a.layers[LayerWater]; w != nil {
		n += w.Traversal(p)
	}
	return n
}

// Gradient градиент коренной породы
func (a *Arches) Gradient(p vec.Vec2Float) vec.Vec2Float {
	return field.Gradient(a.layers[LayerBedrock], p, a.settings.GradientStep)
}

// Normal нормаль коренной породы
func (a *Arches) Normal(p vec.Vec2Float) vec.Vec3Float {
	return field.Normal(a.layers[LayerBedrock], p, a.settings.GradientStep)
}

// Excess — превышение воды над породой; > 0 означает затопленную точку.
// Отсутствующий слой воды даёт пустой отсчёт, то есть уровень 0.
func (a *Arches) Excess(p vec.Vec2Float) float64 {
	return a.Water(p).Value - a.Bedrock(p).Value
}
