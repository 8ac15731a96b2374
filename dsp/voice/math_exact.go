//go:build !fastmath

package voice

import "math"

func exp2(x float64) float64 {
	return math.Exp2(x)
}

func pow(x, y float64) float64 {
	return math.Pow(x, y)
}
