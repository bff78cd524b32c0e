package field

import (
	"fmt"

	"github.com/annel0/arches-terrain/internal/vec"
)

// Blend — n-арный оператор смешивания: взвешенное среднее высот детей
// (разбиение единицы). Владеет своими детьми.
type Blend struct {
	children []Node
	box      Box2
}

// NewBlend создаёт оператор из упорядоченного списка детей
func NewBlend(children ...Node) (*Blend, error) {
	if len(children) == 0 {
		return nil, ErrNoChildren
	}

	nodes := make([]Node, len(children))
	for i, child := range children {
		if child == nil {
			return nil, fmt.Errorf("%w: index %d", ErrNilChild, i)
		}
		nodes[i] = child
	}

	box := nodes[0].Bounds()
	for _, child := range nodes[1:] {
		box = Union(box, child.Bounds())
	}

	return &Blend{children: nodes, box: box}, nil
}

// NewBlendArgs — форма с фиксированным числом аргументов: a обязателен,
// b, c, d могут быть nil
func NewBlendArgs(a, b, c, d Node) (*Blend, error) {
	if a == nil {
		return nil, ErrNoChildren
	}
	children := []Node{a}
	for _, n := range []Node{b, c, d} {
		if n != nil {
			children = append(children, n)
		}
	}
	return NewBlend(children...)
}

func (b *Blend) Bounds() Box2 { return b.box }

// ElevationAlpha отсекает запрос вне прямоугольника, не посещая детей
func (b *Blend) ElevationAlpha(p vec.Vec2Float) ScalarAlpha {
	if !b.box.Contains(p) {
		return Empty()
	}

	var w, hr float64
	for _, child := range b.children {
		s := child.ElevationAlpha(p)
		w += s.Alpha
		hr += s.Alpha * s.Value
	}

	if w == 0 {
		return Empty()
	}
	return ScalarAlpha{Value: hr / w, Alpha: w}
}

func (b *Blend) Traversal(p vec.Vec2Float) int {
	if !b.box.Contains(p) {
		return 1
	}
	n := 1
	for _, child := range b.children {
		n += child.Traversal(p)
	}
	return n
}
