package terrain

import (
	"testing"

	"github.com/annel0/arches-terrain/internal/field"
	"github.com/annel0/arches-terrain/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRasterize_Bedrock(t *testing.T) {
	a := newTestArches(t, linear{ax: 1})
	hf, err := a.Rasterize(LayerBedrock, field.NewBox2(0, 0, 2, 1), 3, 2)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 1, 2, 0, 1, 2}, hf.Values)
	assert.Equal(t, vec.Vec2Float{X: 1, Y: 1}, hf.Vertex(1, 1))
	lo, hi := hf.Range()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 2.0, hi)
}

func TestRasterize_MissingLayerIsZero(t *testing.T) {
	a := newTestArches(t, linear{c: 3})
	hf, err := a.Rasterize(LayerSand, field.NewBox2(0, 0, 1, 1), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0}, hf.Values)

	_, err = a.Rasterize(LayerSand, field.NewBox2(0, 0, 1, 1), 1, 2)
	assert.ErrorIs(t, err, ErrInvalidGrid)
}

func TestLayerStack(t *testing.T) {
	a := newTestArches(t, linear{c: -1, ax: 1}, WithWater(seaLevel()))
	ls, err := a.LayerStack(field.NewBox2(0, 0, 2, 2), 3, 3)
	require.NoError(t, err)

	assert.Equal(t, -1.0, ls.Bedrock.At(0, 0))
	assert.Equal(t, 1.0, ls.Bedrock.At(2, 2))
	assert.Equal(t, 0.0, ls.Water.At(1, 1))
	for _, v := range ls.Alpha.Values {
		assert.Equal(t, 1.0, v)
	}
}
