package terrain

import (
	"fmt"
	"math"

	"github.com/annel0/arches-terrain/internal/field"
	"github.com/annel0/arches-terrain/internal/vec"
)

// HeightField — регулярная сетка высот над прямоугольником
type HeightField struct {
	Box    field.Box2 `json:"box"`
	NX     int        `json:"nx"`
	NY     int        `json:"ny"`
	Values []float64  `json:"values"` // построчно: индекс j*NX + i
}

// NewHeightField создаёт нулевую сетку nx×ny
func NewHeightField(box field.Box2, nx, ny int) (*HeightField, error) {
	if nx < 2 || ny < 2 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidGrid, nx, ny)
	}
	return &HeightField{
		Box:    box,
		NX:     nx,
		NY:     ny,
		Values: make([]float64, nx*ny),
	}, nil
}

// Vertex возвращает координаты узла (i, j)
func (h *HeightField) Vertex(i, j int) vec.Vec2Float {
	return GridVertex(h.Box, h.NX, h.NY, i, j)
}

// At возвращает значение в узле (i, j)
func (h *HeightField) At(i, j int) float64 {
	return h.Values[j*h.NX+i]
}

// Set записывает значение в узел (i, j)
func (h *HeightField) Set(i, j int, v float64) {
	h.Values[j*h.NX+i] = v
}

// Range возвращает минимальное и максимальное значения
func (h *HeightField) Range() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range h.Values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// Rasterize заполняет сетку высотами слоя; незаданный слой даёт нули
func (a *Arches) Rasterize(l Layer, box field.Box2, nx, ny int) (*HeightField, error) {
	hf, err := NewHeightField(box, nx, ny)
	if err != nil {
		return nil, err
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			hf.Set(i, j, a.Layer(l, hf.Vertex(i, j)).Value)
		}
	}
	return hf, nil
}

// LayerStack — слои породы и воды и вес породы на общей сетке
type LayerStack struct {
	Bedrock *HeightField `json:"bedrock"`
	Water   *HeightField `json:"water"`
	Alpha   *HeightField `json:"alpha"`
}

// LayerStack дискретизирует породу, воду и вес породы за один проход
func (a *Arches) LayerStack(box field.Box2, nx, ny int) (*LayerStack, error) {
	bedrock, err := NewHeightField(box, nx, ny)
	if err != nil {
		return nil, err
	}
	water, _ := NewHeightField(box, nx, ny)
	alpha, _ := NewHeightField(box, nx, ny)

	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			p := bedrock.Vertex(i, j)
			b := a.Bedrock(p)
			bedrock.Set(i, j, b.Value)
			alpha.Set(i, j, b.Alpha)
			water.Set(i, j, a.Water(p).Value)
		}
	}
	return &LayerStack{Bedrock: bedrock, Water: water, Alpha: alpha}, nil
}
