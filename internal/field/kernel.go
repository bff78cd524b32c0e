package field

// Kernel — радиальная функция спада с компактным носителем.
// d2 — квадрат расстояния, r2 — квадрат радиуса (> 0). Результат в [0, 1]:
// 1 в центре, 0 на границе и за ней, нулевая производная на границе.
type Kernel func(d2, r2 float64) float64

// SmoothCompact — кубическое ядро (1 - d²/r²)³
func SmoothCompact(d2, r2 float64) float64 {
	if d2 >= r2 {
		return 0
	}
	if d2 <= 0 {
		return 1
	}
	x := 1 - d2/r2
	return x * x * x
}

// Quintic — ядро Перлина 6t⁵-15t⁴+10t³ от t = 1 - d²/r², C² на границе
func Quintic(d2, r2 float64) float64 {
	if d2 >= r2 {
		return 0
	}
	if d2 <= 0 {
		return 1
	}
	t := 1 - d2/r2
	return t * t * t * (t*(t*6-15) + 10)
}
