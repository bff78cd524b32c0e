package terrain

import (
	"testing"

	"github.com/annel0/arches-terrain/internal/field"
	"github.com/annel0/arches-terrain/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linear — тестовое поле z = c + ax·x + ay·y с полным весом
type linear struct{ c, ax, ay float64 }

func (l linear) Bounds() field.Box2 { return field.NewBox2(-1e3, -1e3, 1e3, 1e3) }
func (l linear) ElevationAlpha(p vec.Vec2Float) field.ScalarAlpha {
	return field.ScalarAlpha{Value: l.c + l.ax*p.X + l.ay*p.Y, Alpha: 1}
}
func (l linear) Traversal(vec.Vec2Float) int { return 1 }

// seaLevel — плоская вода на нулевой высоте
func seaLevel() field.Node {
	return field.NewFlat(field.NewBox2(-1e3, -1e3, 1e3, 1e3))
}

func newTestArches(t *testing.T, bedrock field.Node, opts ...Option) *Arches {
	t.Helper()
	a, err := New(bedrock, opts...)
	require.NoError(t, err)
	return a
}

func TestNew_RequiresBedrock(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNoBedrock)
}

func TestArches_Layers(t *testing.T) {
	sand, err := field.NewDisc(vec.Vec2Float{}, 2, 1, 1)
	require.NoError(t, err)

	a := newTestArches(t, linear{c: 1, ax: 1}, WithWater(seaLevel()), WithSand(sand))
	p := vec.Vec2Float{X: 2, Y: 0}

	assert.Equal(t, 3.0, a.Layer(LayerBedrock, p).Value)
	assert.Equal(t, 3.0, a.Bedrock(p).Value)
	assert.Equal(t, field.ScalarAlpha{Value: 0, Alpha: 1}, a.Water(p))
	assert.Equal(t, 2.0, a.Sand(vec.Vec2Float{}).Value)
	assert.True(t, a.Foam(p).IsEmpty(), "отсутствующий слой даёт пустой отсчёт")
	assert.True(t, a.Layer(Layer(42), p).IsEmpty())
	assert.False(t, a.HasLayer(LayerFoam))
	assert.Equal(t, field.NewBox2(-1e3, -1e3, 1e3, 1e3), a.Bounds())
	assert.Equal(t, 2, a.Traversal(p))
}

func TestParseLayer(t *testing.T) {
	for _, l := range []Layer{LayerBedrock, LayerWater, LayerSand, LayerFoam} {
		parsed, err := ParseLayer(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, parsed)
	}
	parsed, err := ParseLayer("WATER")
	require.NoError(t, err)
	assert.Equal(t, LayerWater, parsed)

	_, err = ParseLayer("lava")
	assert.ErrorIs(t, err, ErrUnknownLayer)
}

func TestArches_Classify(t *testing.T) {
	a := newTestArches(t, linear{c: -0.5, ax: 1}, WithWater(seaLevel()))

	assert.Equal(t, MaterialRock, a.Classify(vec.Vec2Float{X: 1}))
	assert.Equal(t, MaterialWater, a.Classify(vec.Vec2Float{X: 0}))
	assert.Equal(t, MaterialWater, a.Classify(vec.Vec2Float{X: 0.5}), "равенство высот — вода")
	assert.Equal(t, "rock", MaterialRock.String())
	assert.Equal(t, "water", MaterialWater.String())
}

func TestArches_NormalUsesSettings(t *testing.T) {
	a := newTestArches(t, linear{ax: 1}, WithSettings(Settings{GradientStep: 0.5}))
	assert.Equal(t, 0.5, a.Settings().GradientStep)
	assert.Equal(t, DefaultSettings().ShorelineTolerance, a.Settings().ShorelineTolerance)

	g := a.Gradient(vec.Vec2Float{X: 3, Y: 3})
	assert.InDelta(t, 1.0, g.X, 1e-12)
	n := a.Normal(vec.Vec2Float{})
	assert.InDelta(t, -n.Z, n.X, 1e-12)
}

func TestArches_Excess(t *testing.T) {
	a := newTestArches(t, linear{c: 2})
	assert.Equal(t, -2.0, a.Excess(vec.Vec2Float{}), "без воды уровень воды равен нулю")
}
