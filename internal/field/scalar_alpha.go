package field

import "fmt"

// ScalarAlpha — пара (высота, вес влияния) одного отсчёта поля.
// Alpha == 0 означает отсутствие вклада.
type ScalarAlpha struct {
	Value float64 `json:"value"`
	Alpha float64 `json:"alpha"`
}

// Empty возвращает пустой отсчёт (0, 0)
func Empty() ScalarAlpha {
	return ScalarAlpha{}
}

// Add складывает покомпонентно
func (s ScalarAlpha) Add(other ScalarAlpha) ScalarAlpha {
	return ScalarAlpha{Value: s.Value + other.Value, Alpha: s.Alpha + other.Alpha}
}

// Sub вычитает покомпонентно
func (s ScalarAlpha) Sub(other ScalarAlpha) ScalarAlpha {
	return ScalarAlpha{Value: s.Value - other.Value, Alpha: s.Alpha - other.Alpha}
}

// Scale умножает обе компоненты на k
func (s ScalarAlpha) Scale(k float64) ScalarAlpha {
	return ScalarAlpha{Value: s.Value * k, Alpha: s.Alpha * k}
}

// Equal сравнивает только высоты, вес не учитывается
func (s ScalarAlpha) Equal(other ScalarAlpha) bool {
	return s.Value == other.Value
}

// IsEmpty сообщает, что отсчёт не вносит вклада
func (s ScalarAlpha) IsEmpty() bool {
	return s.Alpha == 0
}

func (s ScalarAlpha) String() string {
	return fmt.Sprintf("value: %g alpha: %g", s.Value, s.Alpha)
}
