package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScalarAlpha_Arithmetic(t *testing.T) {
	a := ScalarAlpha{Value: 2, Alpha: 0.5}
	b := ScalarAlpha{Value: 3, Alpha: 0.25}

	assert.Equal(t, ScalarAlpha{Value: 5, Alpha: 0.75}, a.Add(b))
	assert.Equal(t, ScalarAlpha{Value: -1, Alpha: 0.25}, a.Sub(b))
	assert.Equal(t, ScalarAlpha{Value: 4, Alpha: 1}, a.Scale(2))
}

func TestScalarAlpha_EqualIgnoresAlpha(t *testing.T) {
	assert.True(t, ScalarAlpha{Value: 1, Alpha: 0}.Equal(ScalarAlpha{Value: 1, Alpha: 7}))
	assert.False(t, ScalarAlpha{Value: 1, Alpha: 1}.Equal(ScalarAlpha{Value: 2, Alpha: 1}))
}

func TestScalarAlpha_Empty(t *testing.T) {
	assert.True(t, Empty().IsEmpty())
	assert.False(t, ScalarAlpha{Value: 0, Alpha: 1}.IsEmpty())
	assert.Equal(t, "value: 1.5 alpha: 2", ScalarAlpha{Value: 1.5, Alpha: 2}.String())
}
