package terrain

import (
	"math"
	"testing"

	"github.com/annel0/arches-terrain/internal/field"
	"github.com/annel0/arches-terrain/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindShoreline_Converges(t *testing.T) {
	// Порода z = x - 0.3, вода на нуле: берег на x = 0.3
	a := newTestArches(t, linear{c: -0.3, ax: 1}, WithWater(seaLevel()))

	pa := vec.Vec3Float{X: 0, Y: 0, Z: -0.3}
	pb := vec.Vec3Float{X: 1, Y: 0, Z: 0.7}
	p := a.FindShoreline(pa, pb, 0.3, -0.7)

	assert.InDelta(t, 0.3, p.X, 0.02)
	assert.Equal(t, 0.0, p.Y)
	assert.Equal(t, a.Bedrock(p.XY()).Value, p.Z, "точка лежит на породе")
	assert.Less(t, math.Abs(a.Excess(p.XY())), 0.02)

	// Порядок концов не важен
	q := a.FindShoreline(pb, pa, -0.7, 0.3)
	assert.InDelta(t, p.X, q.X, 0.02)
}

func TestFindShoreline_StepsBounded(t *testing.T) {
	a := newTestArches(t, linear{c: -50, ax: 1}, WithWater(seaLevel()))

	pa := vec.Vec3Float{X: 0, Z: -50}
	pb := vec.Vec3Float{X: 100, Z: 50}
	p, steps := a.bisect(pa, pb, 50, -50)

	// log2(|a−b|/ε) с учётом Z: длина ~141
	expected := int(math.Ceil(math.Log2(pa.DistanceTo(pb) / a.Settings().ShorelineTolerance)))
	assert.Equal(t, expected, steps)
	assert.InDelta(t, 50, p.X, 0.02)
}

func TestFindShoreline_MaxSteps(t *testing.T) {
	a := newTestArches(t, linear{ax: 1}, WithWater(seaLevel()),
		WithSettings(Settings{MaxBisectionSteps: 3}))

	_, steps := a.bisect(vec.Vec3Float{X: -1}, vec.Vec3Float{X: math.Inf(1)}, 1, -1)
	assert.Equal(t, 3, steps)
}

func TestFindShorelineChecked(t *testing.T) {
	a := newTestArches(t, linear{c: -0.3, ax: 1}, WithWater(seaLevel()))

	p, err := a.FindShorelineChecked(vec.Vec2Float{X: 0}, vec.Vec2Float{X: 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.3, p.X, 0.02)

	_, err = a.FindShorelineChecked(vec.Vec2Float{X: 0.5}, vec.Vec2Float{X: 1})
	assert.ErrorIs(t, err, ErrNoCrossing)
}

func TestFindShoreline_DiscIsland(t *testing.T) {
	// Остров: диск высоты 10 радиуса 10 поверх дна -5, вода на нуле
	hill, err := field.NewDisc(vec.Vec2Float{}, 10, 10, 1)
	require.NoError(t, err)
	floor, err := field.NewPlateauDisc(vec.Vec2Float{}, 50, -5, 1, 1)
	require.NoError(t, err)
	bedrock, err := field.NewBlend(hill, floor)
	require.NoError(t, err)

	a := newTestArches(t, bedrock, WithWater(seaLevel()))
	p, err := a.FindShorelineChecked(vec.Vec2Float{}, vec.Vec2Float{X: 20})
	require.NoError(t, err)

	// Берег там, где вес холма равен половине веса дна: 10w = 5 → w = 0.5
	r := 10 * math.Sqrt(1-math.Cbrt(0.5))
	assert.InDelta(t, r, p.X, 0.02)
	assert.Less(t, math.Abs(a.Excess(p.XY())), 0.05)
}
