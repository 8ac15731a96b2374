package core

import "math"

// FreqC4 is the frequency of middle C, the 0 V reference of the 1 V/oct
// standard.
const FreqC4 = 261.6256

// VoltsToHz converts a 1 V/oct control voltage to Hz relative to C4.
func VoltsToHz(volts float64) float64 {
	return FreqC4 * math.Exp2(volts)
}

// SemitonesToRatio converts an equal-tempered interval to a frequency ratio.
func SemitonesToRatio(semitones float64) float64 {
	return math.Exp2(semitones / 12)
}

// RatioToSemitones is the inverse of SemitonesToRatio.
// Returns NaN for non-positive ratios.
func RatioToSemitones(ratio float64) float64 {
	if ratio <= 0 {
		return math.NaN()
	}
	return 12 * math.Log2(ratio)
}

// MillisToSamples converts a duration in milliseconds to a sample count.
func MillisToSamples(ms, sampleRate float64) float64 {
	return ms * sampleRate / 1000
}
