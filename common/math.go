package common

// Logical screen size; the window scales it to fit.
const (
	BaseWidth  = 640
	BaseHeight = 360
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
