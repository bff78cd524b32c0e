package terrain

import (
	"math"

	"github.com/annel0/arches-terrain/internal/vec"
)

// Triangle — треугольник в пространстве (Z — высота)
type Triangle struct {
	A vec.Vec3Float `json:"a"`
	B vec.Vec3Float `json:"b"`
	C vec.Vec3Float `json:"c"`
}

// SignedArea2D — ориентированная площадь проекции на плоскость XY
func (t Triangle) SignedArea2D() float64 {
	ab := t.B.XY().Sub(t.A.XY())
	ac := t.C.XY().Sub(t.A.XY())
	return 0.5 * ab.Cross(ac)
}

// Area2D — площадь проекции на плоскость XY
func (t Triangle) Area2D() float64 {
	return math.Abs(t.SignedArea2D())
}

// Outcome — класс результата разбиения треугольника
type Outcome int

const (
	// OutcomeLand — все вершины на суше
	OutcomeLand Outcome = iota
	// OutcomeSubmerged — все вершины под водой
	OutcomeSubmerged
	// OutcomeShore — треугольник пересекает береговую линию
	OutcomeShore
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLand:
		return "land"
	case OutcomeSubmerged:
		return "submerged"
	case OutcomeShore:
		return "shore"
	default:
		return "unknown"
	}
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// SplitResult — треугольники суши (на высоте породы) и воды (на высоте воды)
type SplitResult struct {
	Land    []Triangle `json:"land"`
	Water   []Triangle `json:"water"`
	Outcome Outcome    `json:"outcome"`
	// BisectionSteps — суммарное число шагов бисекции
	BisectionSteps int `json:"bisection_steps"`
}

// SplitTriangle классифицирует вершины треугольника (Z игнорируется) и
// разбивает его по береговой линии.
//
// Треугольники суши всегда покрывают исходную проекцию целиком.
// Если под водой одна вершина, вода — один треугольник в её углу;
// если под водой две вершины, вода — четырёхугольник из двух треугольников.
// Ориентация исходного треугольника сохраняется.
func (a *Arches) SplitTriangle(pa, pb, pc vec.Vec3Float) SplitResult {
	src := [3]vec.Vec2Float{pa.XY(), pb.XY(), pc.XY()}

	var land, water [3]vec.Vec3Float
	var excess [3]float64
	var submerged [3]bool
	count := 0
	for k, p := range src {
		b := a.Bedrock(p).Value
		w := a.Water(p).Value
		land[k] = p.ToVec3(b)
		water[k] = p.ToVec3(w)
		excess[k] = w - b
		submerged[k] = w > b
		if submerged[k] {
			count++
		}
	}

	switch count {
	case 0:
		return SplitResult{
			Land:    []Triangle{{land[0], land[1], land[2]}},
			Outcome: OutcomeLand,
		}
	case 3:
		return SplitResult{
			Land:    []Triangle{{land[0], land[1], land[2]}},
			Water:   []Triangle{{water[0], water[1], water[2]}},
			Outcome: OutcomeSubmerged,
		}
	}

	// m — вершина меньшинства, i и j — по порядку обхода после неё
	m := 0
	for k := range submerged {
		if submerged[k] == (count == 1) {
			m = k
			break
		}
	}
	i, j := (m+1)%3, (m+2)%3

	p, s1 := a.bisect(land[m], land[i], excess[m], excess[i])
	q, s2 := a.bisect(land[m], land[j], excess[m], excess[j])

	res := SplitResult{
		Land: []Triangle{
			{land[m], p, q},
			{p, land[i], land[j]},
			{p, land[j], q},
		},
		Outcome:        OutcomeShore,
		BisectionSteps: s1 + s2,
	}
	if submerged[m] {
		res.Water = []Triangle{{water[m], p, q}}
	} else {
		res.Water = []Triangle{
			{p, water[i], water[j]},
			{p, water[j], q},
		}
	}
	return res
}
