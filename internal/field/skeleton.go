package field

// Skeleton — общая часть радиальных примитивов: радиус носителя,
// амплитуда веса и ядро спада.
type Skeleton struct {
	Radius    float64
	Amplitude float64
	Kernel    Kernel
}

// NewSkeleton проверяет радиус и амплитуду, подставляет SmoothCompact, если ядро не задано
func NewSkeleton(radius, amplitude float64, kernel Kernel) (Skeleton, error) {
	if !(radius > 0) {
		return Skeleton{}, ErrInvalidRadius
	}
	if !(amplitude >= 0) {
		return Skeleton{}, ErrInvalidAmplitude
	}
	if kernel == nil {
		kernel = SmoothCompact
	}
	return Skeleton{Radius: radius, Amplitude: amplitude, Kernel: kernel}, nil
}

// Falloff возвращает вес по квадрату расстояния d2
func (s Skeleton) Falloff(d2 float64) float64 {
	return s.Amplitude * s.Kernel(d2, s.Radius*s.Radius)
}

// Inside сообщает, что квадрат расстояния внутри носителя
func (s Skeleton) Inside(d2 float64) bool {
	return d2 < s.Radius*s.Radius
}
