package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKernels_BoundaryConditions(t *testing.T) {
	for name, k := range map[string]Kernel{"smooth_compact": SmoothCompact, "quintic": Quintic} {
		t.Run(name, func(t *testing.T) {
			r2 := 4.0
			assert.Equal(t, 1.0, k(0, r2))
			assert.Equal(t, 0.0, k(r2, r2))
			assert.Equal(t, 0.0, k(10, r2))

			// Монотонно убывает внутри носителя
			prev := k(0, r2)
			for d2 := 0.1; d2 < r2; d2 += 0.1 {
				v := k(d2, r2)
				assert.LessOrEqual(t, v, prev)
				assert.GreaterOrEqual(t, v, 0.0)
				prev = v
			}

			// Производная у границы стремится к нулю
			h := 1e-4
			slope := (k(r2-h, r2) - k(r2-2*h, r2)) / h
			assert.InDelta(t, 0, slope, 1e-3)
		})
	}
}
