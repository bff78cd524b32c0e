package field

import (
	"testing"

	"github.com/annel0/arches-terrain/internal/vec"
	"github.com/stretchr/testify/assert"
)

func TestNewBox2_Normalizes(t *testing.T) {
	b := NewBox2(5, -1, -3, 4)
	assert.Equal(t, vec.Vec2Float{X: -3, Y: -1}, b.Min)
	assert.Equal(t, vec.Vec2Float{X: 5, Y: 4}, b.Max)
	assert.Equal(t, b, NewBox2(-3, -1, 5, 4))
	assert.Equal(t, b, NewBox2(-3, 4, 5, -1))
}

func TestBox2_ContainsClosed(t *testing.T) {
	b := NewBox2(0, 0, 2, 1)

	assert.True(t, b.Contains(vec.Vec2Float{X: 1, Y: 0.5}))
	assert.True(t, b.Contains(vec.Vec2Float{X: 0, Y: 0}), "углы принадлежат прямоугольнику")
	assert.True(t, b.Contains(vec.Vec2Float{X: 2, Y: 1}))
	assert.False(t, b.Contains(vec.Vec2Float{X: 2.0001, Y: 0.5}))
	assert.False(t, b.Contains(vec.Vec2Float{X: 1, Y: -0.0001}))
}

func TestUnion_Properties(t *testing.T) {
	a := NewBox2(0, 0, 1, 1)
	b := NewBox2(-2, 0.5, 0.5, 3)
	c := NewBox2(4, -4, 5, -3)

	assert.Equal(t, a, Union(a, a), "идемпотентность")
	assert.Equal(t, Union(a, b), Union(b, a), "коммутативность")
	assert.Equal(t, Union(Union(a, b), c), Union(a, Union(b, c)), "ассоциативность")
	assert.Equal(t, NewBox2(-2, -4, 5, 3), Union(Union(a, b), c))
}

func TestBox2_Helpers(t *testing.T) {
	b := BoxAround(vec.Vec2Float{X: 1, Y: 2}, 3)
	assert.Equal(t, NewBox2(-2, -1, 4, 5), b)
	assert.Equal(t, vec.Vec2Float{X: 1, Y: 2}, b.Center())
	assert.Equal(t, 6.0, b.Width())
	assert.Equal(t, 6.0, b.Height())
	assert.Equal(t, NewBox2(-3, -2, 5, 6), b.Extended(1))
	assert.Equal(t, vec.Vec2Float{X: 6, Y: 6}, b.Diagonal())
}
