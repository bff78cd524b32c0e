package vec

// Vec2 представляет целочисленные 2D координаты (тайлы, ячейки сетки)
type Vec2 struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ToFloat преобразует в координаты с плавающей точкой
func (v Vec2) ToFloat() Vec2Float {
	return Vec2Float{X: float64(v.X), Y: float64(v.Y)}
}
