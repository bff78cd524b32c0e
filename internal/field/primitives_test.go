package field

import (
	"math"
	"testing"

	"github.com/annel0/arches-terrain/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisc_CenterAndOutside(t *testing.T) {
	d, err := NewDisc(vec.Vec2Float{}, 3, 5, 1)
	require.NoError(t, err)

	s := d.ElevationAlpha(vec.Vec2Float{X: 0, Y: 0})
	assert.Equal(t, 3.0, s.Value)
	assert.Equal(t, 1.0, s.Alpha)

	out := d.ElevationAlpha(vec.Vec2Float{X: 10, Y: 0})
	assert.Equal(t, 0.0, out.Alpha)

	// Внутри прямоугольника, но за радиусом
	corner := d.ElevationAlpha(vec.Vec2Float{X: 4, Y: 4})
	assert.True(t, corner.IsEmpty())

	assert.Equal(t, NewBox2(-5, -5, 5, 5), d.Bounds())
	assert.Equal(t, 1, d.Traversal(vec.Vec2Float{}))
}

func TestDisc_WeightScalesWithAmplitude(t *testing.T) {
	d, err := NewDisc(vec.Vec2Float{X: 1, Y: 1}, 0, 2, 0.5)
	require.NoError(t, err)

	for _, p := range []vec.Vec2Float{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 2.5}} {
		s := d.ElevationAlpha(p)
		assert.GreaterOrEqual(t, s.Alpha, 0.0)
		assert.LessOrEqual(t, s.Alpha, 0.5)
	}
}

func TestPlateauDisc_FullWeightOnPlateau(t *testing.T) {
	d, err := NewPlateauDisc(vec.Vec2Float{}, 4, 7, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, 1.0, d.ElevationAlpha(vec.Vec2Float{X: 3.9, Y: 0}).Alpha)
	mid := d.ElevationAlpha(vec.Vec2Float{X: 5, Y: 0})
	assert.Equal(t, 7.0, mid.Value)
	assert.InDelta(t, SmoothCompact(1, 4), mid.Alpha, 1e-12)
	assert.True(t, d.ElevationAlpha(vec.Vec2Float{X: 6.5, Y: 0}).IsEmpty())
	assert.Equal(t, NewBox2(-6, -6, 6, 6), d.Bounds())
}

func TestDisc_WithKernel(t *testing.T) {
	d, err := NewDisc(vec.Vec2Float{}, 1, 2, 1)
	require.NoError(t, err)

	q := d.WithKernel(Quintic)
	p := vec.Vec2Float{X: 1, Y: 0}
	assert.InDelta(t, Quintic(1, 4), q.ElevationAlpha(p).Alpha, 1e-12)
	assert.InDelta(t, SmoothCompact(1, 4), d.ElevationAlpha(p).Alpha, 1e-12)
}

func TestPrimitives_RejectInvalidRadius(t *testing.T) {
	_, err := NewDisc(vec.Vec2Float{}, 0, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidRadius)

	_, err = NewVertex(vec.Vec3Float{}, -1, 1)
	assert.ErrorIs(t, err, ErrInvalidRadius)

	_, err = NewDisc(vec.Vec2Float{}, 0, math.NaN(), 1)
	assert.ErrorIs(t, err, ErrInvalidRadius)
}

func TestPrimitives_RejectNegativeAmplitude(t *testing.T) {
	_, err := NewDisc(vec.Vec2Float{}, 2, 1, -1)
	assert.ErrorIs(t, err, ErrInvalidAmplitude)

	_, err = NewPlateauDisc(vec.Vec2Float{}, 1, 2, 1, math.NaN())
	assert.ErrorIs(t, err, ErrInvalidAmplitude)

	_, err = NewVertex(vec.Vec3Float{Z: 4}, 1, -0.5)
	assert.ErrorIs(t, err, ErrInvalidAmplitude)

	// Нулевой вес допустим: примитив просто ничего не вносит
	d, err := NewDisc(vec.Vec2Float{}, 2, 1, 0)
	require.NoError(t, err)
	assert.True(t, d.ElevationAlpha(vec.Vec2Float{}).IsEmpty())
}

func TestBlend_StaysWithinChildHeights(t *testing.T) {
	low, err := NewDisc(vec.Vec2Float{}, 2, 1, 1)
	require.NoError(t, err)
	high, err := NewDisc(vec.Vec2Float{}, 4, 1, 2)
	require.NoError(t, err)
	b, err := NewBlend(low, high)
	require.NoError(t, err)

	for _, x := range []float64{0, 0.25, 0.5, 0.9} {
		s := b.ElevationAlpha(vec.Vec2Float{X: x})
		assert.GreaterOrEqual(t, s.Value, 2.0)
		assert.LessOrEqual(t, s.Value, 4.0)
		assert.GreaterOrEqual(t, s.Alpha, 0.0)
	}
}

func TestVertex_WithoutNoise(t *testing.T) {
	v, err := NewVertex(vec.Vec3Float{X: 2, Y: 2, Z: 5}, 3, 1)
	require.NoError(t, err)

	s := v.ElevationAlpha(vec.Vec2Float{X: 3, Y: 2})
	assert.Equal(t, 5.0, s.Value)
	assert.InDelta(t, SmoothCompact(1, 9), s.Alpha, 1e-12)
	assert.True(t, v.ElevationAlpha(vec.Vec2Float{X: 5.5, Y: 2}).IsEmpty())
}

func TestVertex_NoisePerturbation(t *testing.T) {
	// Линейный "шум" позволяет проверить формулу точно
	noise := NoiseFunc(func(p vec.Vec3Float) float64 { return p.X + 2*p.Y })
	c := vec.Vec3Float{X: 1, Y: 1, Z: 10}

	v, err := NewNoiseVertex(c, noise, 0.5, 2, 4, 1)
	require.NoError(t, err)

	// В центре шум компенсируется
	assert.Equal(t, 10.0, v.ElevationAlpha(c.XY()).Value)

	p := vec.Vec2Float{X: 3, Y: 1}
	expected := 10 + 0.5*((3.0/2+2*1.0/2)-(1.0/2+2*1.0/2))
	assert.InDelta(t, expected, v.ElevationAlpha(p).Value, 1e-12)

	_, err = NewNoiseVertex(c, noise, 0.5, 0, 4, 1)
	assert.ErrorIs(t, err, ErrInvalidWavelength)
}
