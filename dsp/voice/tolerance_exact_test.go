//go:build !fastmath

package voice

// mathTolerance bounds the relative error of exp2 and pow against math.
const mathTolerance = 1e-12
