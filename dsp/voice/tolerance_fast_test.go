//go:build fastmath

package voice

// mathTolerance bounds the relative error of the approximated exp2 and pow.
const mathTolerance = 1e-4
