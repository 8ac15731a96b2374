package voice

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-rack/dsp/core"
)

// MaxVoices is the fixed polyphony ceiling. Per-voice data lives in arrays
// of this size with an explicit active count.
const MaxVoices = 16

// Voicings is an ordered set of chord shapes. Each row holds one semitone
// offset per voice relative to the base pitch.
type Voicings [][]float64

// DefaultVoicings returns the ten four-voice shapes of the polyphonic chord
// module, all hanging down from the played note.
func DefaultVoicings() Voicings {
	return Voicings{
		{0, -5, -10, -12},
		{0, -5, -10, -20},
		{0, -3, -8, -19},
		{0, -3, -7, -10},
		{0, -4, -9, -11},
		{0, -3, -8, -11},
		{0, -5, -7, -11},
		{0, -5, -11, -15},
		{0, -3, -6, -9},
		{0, -4, -8, -12},
	}
}

// ShapeVoicings returns the six shapes used by the variable-shape oscillator
// modules. They were authored as note numbers relative to note 12.
func ShapeVoicings() Voicings {
	notes := [][4]int{
		{12, 7, 2, 0},
		{12, 8, 3, 1},
		{12, 9, 4, 1},
		{12, 7, 5, 1},
		{12, 9, 6, 3},
		{12, 8, 4, 0},
	}
	out := make(Voicings, len(notes))
	for i, row := range notes {
		out[i] = make([]float64, len(row))
		for v, n := range row {
			out[i][v] = float64(n - 12)
		}
	}
	return out
}

// VoicingsFromRatios converts rows of frequency ratios into semitone rows.
// Non-positive or non-finite ratios become unison.
func VoicingsFromRatios(rows [][]float64) Voicings {
	out := make(Voicings, len(rows))
	for i, row := range rows {
		out[i] = make([]float64, len(row))
		for v, r := range row {
			if r > 0 && core.IsFinite(r) {
				out[i][v] = core.RatioToSemitones(r)
			}
		}
	}
	return out
}

// Clone returns a deep copy.
func (vs Voicings) Clone() Voicings {
	out := make(Voicings, len(vs))
	for i, row := range vs {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// table is a voicing set normalized to a fixed voice count, with ratios
// precomputed so the tick path does no exponentiation in chord mode.
type table struct {
	rows   Voicings
	ratios [][MaxVoices]float64
}

// compileTable truncates or zero-fills every row to voices entries.
// Only an empty set is rejected.
func compileTable(vs Voicings, voices int) (*table, error) {
	if len(vs) == 0 {
		return nil, fmt.Errorf("%w: voicing table must not be empty", core.ErrConfiguration)
	}

	t := &table{
		rows:   make(Voicings, len(vs)),
		ratios: make([][MaxVoices]float64, len(vs)),
	}
	for i, src := range vs {
		row := make([]float64, voices)
		for v := 0; v < voices && v < len(src); v++ {
			if core.IsFinite(src[v]) {
				row[v] = src[v]
			}
		}
		t.rows[i] = row
		for v, semis := range row {
			t.ratios[i][v] = math.Exp2(semis / 12)
		}
	}
	return t, nil
}
