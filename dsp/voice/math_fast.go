//go:build fastmath

package voice

import (
	"github.com/meko-christian/algo-approx"
)

// ln2 is the natural logarithm of 2, used for log base conversions.
const ln2 = 0.693147180559945309417232121458

// exp2 computes 2^x using fast approximation.
func exp2(x float64) float64 {
	return approx.FastExp(x * ln2)
}

// pow computes x^y for x > 0 as e^(y*ln(x)).
func pow(x, y float64) float64 {
	if x <= 0 {
		return 0
	}
	return approx.FastExp(y * approx.FastLog(x))
}
