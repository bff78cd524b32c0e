package terrain

import (
	"fmt"
	"math"
	"testing"

	"github.com/annel0/arches-terrain/internal/vec"
	"github.com/stretchr/testify/assert"
)

var (
	triA = vec.Vec3Float{X: 0, Y: 0}
	triB = vec.Vec3Float{X: 4, Y: 0}
	triC = vec.Vec3Float{X: 0, Y: 4}
)

// archesForPattern строит линейную породу, у которой вершина k затоплена,
// если бит k в pattern установлен; вода на нуле
func archesForPattern(t *testing.T, pattern int) *Arches {
	t.Helper()
	h := func(k int) float64 {
		if pattern&(1<<k) != 0 {
			return -1
		}
		return 1
	}
	hA, hB, hC := h(0), h(1), h(2)
	bedrock := linear{c: hA, ax: (hB - hA) / 4, ay: (hC - hA) / 4}
	return newTestArches(t, bedrock, WithWater(seaLevel()))
}

func totalArea(tris []Triangle) float64 {
	var s float64
	for _, tr := range tris {
		s += tr.Area2D()
	}
	return s
}

func TestSplitTriangle_FootprintAllPatterns(t *testing.T) {
	original := Triangle{triA, triB, triC}.Area2D()
	assert.Equal(t, 8.0, original)

	for pattern := 0; pattern < 8; pattern++ {
		t.Run(fmt.Sprintf("pattern_%03b", pattern), func(t *testing.T) {
			a := archesForPattern(t, pattern)
			res := a.SplitTriangle(triA, triB, triC)

			assert.InDelta(t, original, totalArea(res.Land), 1e-9, "суша покрывает исходный треугольник")

			for _, tr := range res.Land {
				assert.GreaterOrEqual(t, tr.SignedArea2D(), -1e-12, "ориентация сохраняется")
				for _, v := range []vec.Vec3Float{tr.A, tr.B, tr.C} {
					assert.InDelta(t, a.Bedrock(v.XY()).Value, v.Z, 1e-9, "суша на высоте породы")
				}
			}
			for _, tr := range res.Water {
				assert.GreaterOrEqual(t, tr.SignedArea2D(), -1e-12)
			}

			submerged := 0
			for k := 0; k < 3; k++ {
				if pattern&(1<<k) != 0 {
					submerged++
				}
			}

			switch submerged {
			case 0:
				assert.Equal(t, OutcomeLand, res.Outcome)
				assert.Len(t, res.Land, 1)
				assert.Empty(t, res.Water)
			case 3:
				assert.Equal(t, OutcomeSubmerged, res.Outcome)
				assert.Len(t, res.Land, 1)
				assert.Len(t, res.Water, 1)
				assert.InDelta(t, original, totalArea(res.Water), 1e-9)
				for _, v := range []vec.Vec3Float{res.Water[0].A, res.Water[0].B, res.Water[0].C} {
					assert.Equal(t, 0.0, v.Z, "вода на высоте воды")
				}
			case 1:
				assert.Equal(t, OutcomeShore, res.Outcome)
				assert.Len(t, res.Land, 3)
				assert.Len(t, res.Water, 1)
				// Береговые точки на серединах рёбер: угол площадью 1/4
				assert.InDelta(t, original/4, totalArea(res.Water), 0.1)
				assert.Positive(t, res.BisectionSteps)
			case 2:
				assert.Equal(t, OutcomeShore, res.Outcome)
				assert.Len(t, res.Land, 3)
				assert.Len(t, res.Water, 2)
				assert.InDelta(t, original*3/4, totalArea(res.Water), 0.1)
			}
		})
	}
}

func TestSplitTriangle_ShorePointsOnBedrock(t *testing.T) {
	// Затоплена только вершина A
	a := archesForPattern(t, 0b001)
	res := a.SplitTriangle(triA, triB, triC)

	water := res.Water[0]
	assert.Equal(t, 0.0, water.A.Z, "затопленная вершина на уровне воды")
	for _, shore := range []vec.Vec3Float{water.B, water.C} {
		assert.Less(t, math.Abs(a.Excess(shore.XY())), 0.05)
		assert.Equal(t, a.Bedrock(shore.XY()).Value, shore.Z)
	}
	assert.InDelta(t, 2.0, water.B.X, 0.05)
	assert.InDelta(t, 2.0, water.C.Y, 0.05)
}

func TestSplitTriangle_IgnoresInputZ(t *testing.T) {
	a := archesForPattern(t, 0)
	res := a.SplitTriangle(triA.WithZ(100), triB.WithZ(-3), triC)
	assert.Equal(t, 1.0, res.Land[0].A.Z)
	assert.Equal(t, 1.0, res.Land[0].B.Z)
}

func TestSplitTriangle_NoWaterLayer(t *testing.T) {
	a := newTestArches(t, linear{c: 5})
	res := a.SplitTriangle(triA, triB, triC)
	assert.Equal(t, OutcomeLand, res.Outcome)
	assert.Empty(t, res.Water)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "land", OutcomeLand.String())
	assert.Equal(t, "submerged", OutcomeSubmerged.String())
	assert.Equal(t, "shore", OutcomeShore.String())
}
