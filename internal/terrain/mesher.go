package terrain

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/annel0/arches-terrain/internal/field"
	"github.com/annel0/arches-terrain/internal/vec"
)

// ErrInvalidGrid — сетка должна содержать хотя бы 2×2 вершины
var ErrInvalidGrid = errors.New("terrain: grid needs at least 2x2 vertices")

// Observer получает статистику по каждому разбитому треугольнику
type Observer interface {
	ObserveSplit(outcome Outcome, bisectionSteps int)
}

// Mesh — результат триангуляции: суша и вода
type Mesh struct {
	Land  []Triangle
	Water []Triangle
}

// Append добавляет результат разбиения
func (m *Mesh) Append(r SplitResult) {
	m.Land = append(m.Land, r.Land...)
	m.Water = append(m.Water, r.Water...)
}

// LandArea — суммарная площадь проекций треугольников суши
func (m *Mesh) LandArea() float64 {
	var s float64
	for _, t := range m.Land {
		s += t.Area2D()
	}
	return s
}

// WaterArea — суммарная площадь проекций треугольников воды
func (m *Mesh) WaterArea() float64 {
	var s float64
	for _, t := range m.Water {
		s += t.Area2D()
	}
	return s
}

// Mesher триангулирует области агрегата, разбивая треугольники параллельно
type Mesher struct {
	arches   *Arches
	workers  int
	observer Observer
}

// MesherOption настраивает Mesher
type MesherOption func(*Mesher)

// WithWorkers ограничивает число параллельных горутин
func WithWorkers(n int) MesherOption {
	return func(m *Mesher) {
		if n > 0 {
			m.workers = n
		}
	}
}

// WithObserver подключает наблюдателя (например, метрики)
func WithObserver(o Observer) MesherOption {
	return func(m *Mesher) { m.observer = o }
}

// NewMesher создаёт триангулятор над агрегатом
func NewMesher(a *Arches, opts ...MesherOption) *Mesher {
	m := &Mesher{arches: a, workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GridVertex возвращает вершину (i, j) регулярной сетки nx×ny над box
func GridVertex(box field.Box2, nx, ny, i, j int) vec.Vec2Float {
	return vec.Vec2Float{
		X: box.Min.X + box.Width()*float64(i)/float64(nx-1),
		Y: box.Min.Y + box.Height()*float64(j)/float64(ny-1),
	}
}

// Mesh строит регулярную сетку из nx×ny вершин над box, делит каждую ячейку
// на треугольники (a,b,d) и (a,d,c) и разбивает их по береговой линии.
// Строки обрабатываются параллельно; порядок результата детерминирован.
func (m *Mesher) Mesh(ctx context.Context, box field.Box2, nx, ny int) (*Mesh, error) {
	if nx < 2 || ny < 2 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidGrid, nx, ny)
	}

	rows := make([]Mesh, ny-1)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)

	for j := 0; j < ny-1; j++ {
		j := j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := &rows[j]
			for i := 0; i < nx-1; i++ {
				a := GridVertex(box, nx, ny, i, j).ToVec3(0)
				b := GridVertex(box, nx, ny, i+1, j).ToVec3(0)
				c := GridVertex(box, nx, ny, i, j+1).ToVec3(0)
				d := GridVertex(box, nx, ny, i+1, j+1).ToVec3(0)
				row.Append(m.split(a, b, d))
				row.Append(m.split(a, d, c))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return merge(rows), nil
}

// SplitAll разбивает внешний список треугольников
func (m *Mesher) SplitAll(ctx context.Context, tris []Triangle) (*Mesh, error) {
	const chunk = 256

	parts := make([]Mesh, (len(tris)+chunk-1)/chunk)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)

	for k := range parts {
		k := k
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			end := (k + 1) * chunk
			if end > len(tris) {
				end = len(tris)
			}
			for _, t := range tris[k*chunk : end] {
				parts[k].Append(m.split(t.A, t.B, t.C))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return merge(parts), nil
}

func (m *Mesher) split(a, b, c vec.Vec3Float) SplitResult {
	r := m.arches.SplitTriangle(a, b, c)
	if m.observer != nil {
		m.observer.ObserveSplit(r.Outcome, r.BisectionSteps)
	}
	return r
}

func merge(parts []Mesh) *Mesh {
	var nl, nw int
	for _, p := range parts {
		nl += len(p.Land)
		nw += len(p.Water)
	}
	out := &Mesh{
		Land:  make([]Triangle, 0, nl),
		Water: make([]Triangle, 0, nw),
	}
	for _, p := range parts {
		out.Land = append(out.Land, p.Land...)
		out.Water = append(out.Water, p.Water...)
	}
	return out
}
