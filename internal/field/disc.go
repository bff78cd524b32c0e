package field

import (
	"math"

	"github.com/annel0/arches-terrain/internal/vec"
)

// Disc — примитив постоянной высоты Z. Расстояние отсчитывается от плато
// радиуса Plateau вокруг центра; при Plateau == 0 это точечный центр.
type Disc struct {
	Skeleton
	Center  vec.Vec2Float
	Plateau float64
	Z       float64
	box     Box2
}

// NewDisc создаёт диск без плато
func NewDisc(center vec.Vec2Float, z, radius, amplitude float64) (*Disc, error) {
	return NewPlateauDisc(center, 0, z, radius, amplitude)
}

// NewPlateauDisc создаёт диск с плато: вес равен amplitude внутри плато
// и спадает до нуля на расстоянии radius от его края
func NewPlateauDisc(center vec.Vec2Float, plateau, z, radius, amplitude float64) (*Disc, error) {
	sk, err := NewSkeleton(radius, amplitude, nil)
	if err != nil {
		return nil, err
	}
	plateau = math.Max(plateau, 0)
	return &Disc{
		Skeleton: sk,
		Center:   center,
		Plateau:  plateau,
		Z:        z,
		box:      BoxAround(center, plateau+radius),
	}, nil
}

// WithKernel возвращает копию диска с другим ядром спада
func (d *Disc) WithKernel(k Kernel) *Disc {
	cp := *d
	if k != nil {
		cp.Kernel = k
	}
	return &cp
}

// squaredDistance — квадрат расстояния до плато
func (d *Disc) squaredDistance(p vec.Vec2Float) float64 {
	r := p.DistanceTo(d.Center) - d.Plateau
	if r <= 0 {
		return 0
	}
	return r * r
}

func (d *Disc) Bounds() Box2 { return d.box }

func (d *Disc) ElevationAlpha(p vec.Vec2Float) ScalarAlpha {
	if !d.box.Contains(p) {
		return Empty()
	}
	d2 := d.squaredDistance(p)
	if !d.Inside(d2) {
		return Empty()
	}
	return ScalarAlpha{Value: d.Z, Alpha: d.Falloff(d2)}
}

func (d *Disc) Traversal(vec.Vec2Float) int { return 1 }
