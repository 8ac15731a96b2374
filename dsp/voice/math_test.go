package voice

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-rack/internal/testutil"
)

// Frequencies must stay within 0.1 % of the exact values in every build.
const pitchTolerance = 1e-3

func TestExp2AndPowTrackMath(t *testing.T) {
	for x := -5.0; x <= 5; x += 0.37 {
		testutil.RequireRelative(t, exp2(x), math.Exp2(x), mathTolerance)
	}

	for _, base := range []float64{0.5, 0.9, 0.99, 1, 1.0059, 2, 7.5} {
		for _, e := range []float64{-3, -1, 0, 0.25, 1, 2, 4} {
			testutil.RequireRelative(t, pow(base, e), math.Pow(base, e), mathTolerance)
		}
	}
}

func TestFrequenciesWithinPitchTolerance(t *testing.T) {
	m := newModulator(t)

	inputs := []Inputs{
		{BaseFreq: 440, Voicing: 0},
		{BaseFreq: 261.6256, Transpose: 7, Octave: -1, Voicing: 4},
		{BaseFreq: 110, FineTune: 0.5, PitchBend: -2, Spread: 1},
		{BaseFreq: 880, PitchBend: 12, Spread: 3},
	}

	detune := []float64{1, math.Exp2(-0.1 / 12), math.Exp2(0.1 / 12), math.Exp2(-0.2 / 12)}
	rows := DefaultVoicings()

	for _, in := range inputs {
		var f [MaxVoices]float64
		n, mode := m.Frequencies(&in, &f)

		base := in.BaseFreq * math.Exp2(in.Octave+in.FineTune+in.Transpose/12)
		for v := 0; v < n; v++ {
			var want float64
			if mode == ModeChord {
				want = base * math.Exp2(rows[in.Voicing][v]/12)
			} else {
				want = base * math.Exp2(in.PitchBend/12) * math.Pow(detune[v], in.Spread)
			}
			testutil.RequireRelative(t, f[v], want, pitchTolerance)
		}
	}
}
