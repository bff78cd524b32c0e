package field

import "github.com/annel0/arches-terrain/internal/vec"

// Noise — детерминированная функция шума Point3 -> real без побочных эффектов
type Noise interface {
	At(p vec.Vec3Float) float64
}

// NoiseFunc адаптирует функцию к интерфейсу Noise
type NoiseFunc func(p vec.Vec3Float) float64

func (f NoiseFunc) At(p vec.Vec3Float) float64 { return f(p) }

// Vertex — точечный примитив с высотой центра Center.Z, возмущённой шумом:
//
//	z(p) = Center.Z + NoiseAmplitude·(noise(p/λ) − noise(c/λ))
//
// Шум берётся на плоскости z = 0 в обеих точках, поэтому z(c) == Center.Z.
// Без шума примитив возвращает Center.Z.
type Vertex struct {
	Skeleton
	Center         vec.Vec3Float
	NoiseAmplitude float64
	Wavelength     float64
	noise          Noise
	t0             float64
	box            Box2
}

// NewVertex создаёт примитив без шума
func NewVertex(center vec.Vec3Float, radius, alpha float64) (*Vertex, error) {
	return NewNoiseVertex(center, nil, 0, 1, radius, alpha)
}

// NewNoiseVertex создаёт примитив с шумом амплитуды a и длиной волны lambda
func NewNoiseVertex(center vec.Vec3Float, noise Noise, a, lambda, radius, alpha float64) (*Vertex, error) {
	sk, err := NewSkeleton(radius, alpha, nil)
	if err != nil {
		return nil, err
	}
	v := &Vertex{
		Skeleton:       sk,
		Center:         center,
		NoiseAmplitude: a,
		Wavelength:     lambda,
		noise:          noise,
		box:            BoxAround(center.XY(), radius),
	}
	if noise != nil {
		if !(lambda > 0) {
			return nil, ErrInvalidWavelength
		}
		v.t0 = noise.At(v.scaled(center.XY()))
	}
	return v, nil
}

func (v *Vertex) scaled(p vec.Vec2Float) vec.Vec3Float {
	return vec.Vec3Float{X: p.X / v.Wavelength, Y: p.Y / v.Wavelength}
}

func (v *Vertex) Bounds() Box2 { return v.box }

func (v *Vertex) ElevationAlpha(p vec.Vec2Float) ScalarAlpha {
	if !v.box.Contains(p) {
		return Empty()
	}
	d2 := p.Sub(v.Center.XY()).SquaredLength()
	if !v.Inside(d2) {
		return Empty()
	}

	z := v.Center.Z
	if v.noise != nil {
		z += v.NoiseAmplitude * (v.noise.At(v.scaled(p)) - v.t0)
	}
	return ScalarAlpha{Value: z, Alpha: v.Falloff(d2)}
}

func (v *Vertex) Traversal(vec.Vec2Float) int { return 1 }
