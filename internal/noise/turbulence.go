package noise

import (
	"github.com/aquilax/go-perlin"

	"github.com/annel0/arches-terrain/internal/vec"
)

// Параметры турбулентности по умолчанию
const (
	DefaultAlpha   = 2.0 // Сглаживание шума
	DefaultBeta    = 2.0 // Частота шума
	DefaultOctaves = 4   // Количество октав
)

// Turbulence — детерминированный шум Перлина Point3 -> real.
// После создания состояние только читается, поэтому At можно вызывать
// из нескольких горутин.
type Turbulence struct {
	perlin *perlin.Perlin
}

// NewTurbulence создаёт генератор шума с указанными параметрами и сидом
func NewTurbulence(alpha, beta float64, octaves int32, seed int64) *Turbulence {
	if octaves <= 0 {
		octaves = DefaultOctaves
	}
	return &Turbulence{
		perlin: perlin.NewPerlin(alpha, beta, octaves, seed),
	}
}

// At возвращает значение шума в точке (примерно от -1 до 1)
func (t *Turbulence) At(p vec.Vec3Float) float64 {
	return t.perlin.Noise3D(p.X, p.Y, p.Z)
}
