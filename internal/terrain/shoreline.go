package terrain

import (
	"github.com/annel0/arches-terrain/internal/vec"
)

// FindShoreline ищет бисекцией точку береговой линии на отрезке a–b.
//
// excessA и excessB — превышение воды над породой на концах, Z концов —
// высота породы. Предполагается ровно одна смена знака превышения на отрезке;
// это не проверяется. Результат лежит на поверхности породы.
func (a *Arches) FindShoreline(pa, pb vec.Vec3Float, excessA, excessB float64) vec.Vec3Float {
	p, _ := a.bisect(pa, pb, excessA, excessB)
	return p
}

// FindShorelineChecked вычисляет превышения сам и возвращает ErrNoCrossing,
// если концы отрезка по одну сторону береговой линии
func (a *Arches) FindShorelineChecked(pa, pb vec.Vec2Float) (vec.Vec3Float, error) {
	ba, wa := a.Bedrock(pa).Value, a.Water(pa).Value
	bb, wb := a.Bedrock(pb).Value, a.Water(pb).Value
	if (wa > ba) == (wb > bb) {
		return vec.Vec3Float{}, ErrNoCrossing
	}
	return a.FindShoreline(pa.ToVec3(ba), pb.ToVec3(bb), wa-ba, wb-bb), nil
}

// bisect возвращает точку и число выполненных шагов
func (a *Arches) bisect(pa, pb vec.Vec3Float, excessA, excessB float64) (vec.Vec3Float, int) {
	// start — более затопленный конец
	start, end := pb, pa
	if excessA > excessB {
		start, end = pa, pb
	}

	l := start.DistanceTo(end)
	eps := a.settings.ShorelineTolerance

	var mid vec.Vec3Float
	var midBedrock float64
	steps := 0
	for {
		mid = start.Midpoint(end)
		midBedrock = a.Bedrock(mid.XY()).Value
		midWater := a.Water(mid.XY()).Value

		if midWater < midBedrock {
			end = mid
		} else {
			start = mid
		}

		l *= 0.5
		steps++
		if !(l > eps) || steps >= a.settings.MaxBisectionSteps {
			break
		}
	}

	return mid.WithZ(midBedrock), steps
}
