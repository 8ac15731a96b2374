package voice

import "math"

// Standard rack scaling: 5 V is full pitch-wheel travel, 10 V is full
// pressure.
const (
	bendFullScaleVolts = 5.0
	pressureScaleVolts = 10.0
	DefaultBendRange   = 2.0
)

// VoicingFromCV selects a voicing row from a control voltage, one row per
// volt. Negative and oversized values are fine; the modulator wraps them.
func VoicingFromCV(volts float64) int {
	if math.IsNaN(volts) || math.IsInf(volts, 0) {
		return 0
	}
	return int(math.Floor(volts))
}

// BendFromCV converts a pitch-wheel voltage (+-5 V) to semitones.
func BendFromCV(volts, rangeSemitones float64) float64 {
	return volts / bendFullScaleVolts * rangeSemitones
}

// AftertouchFromCV converts a 0..10 V pressure voltage to 0..1.
func AftertouchFromCV(volts float64) float64 {
	return volts / pressureScaleVolts
}
