package osc

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-rack/dsp/core"
)

// Oscillator is a single voice's sound source.
type Oscillator interface {
	SetFreq(hz float64)
	SetPW(pw float64)
	Process() float64
}

// Waveform selects the Naive oscillator's shape.
type Waveform int

const (
	WaveSaw Waveform = iota
	WavePulse
)

func (w Waveform) String() string {
	switch w {
	case WaveSaw:
		return "saw"
	case WavePulse:
		return "pulse"
	default:
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
}

// Naive is a phase-accumulator oscillator without band limiting.
//
// For WavePulse the pulse width is the high fraction of the period. For
// WaveSaw it moves the apex, so 1 is a rising saw, 0 a falling saw and 0.5
// a triangle.
type Naive struct {
	sampleRate float64
	wave       Waveform
	phase      float64
	inc        float64
	pw         float64
}

// NewNaive creates an oscillator at 0 Hz with pulse width 0.5.
func NewNaive(sampleRate float64, wave Waveform) (*Naive, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("%w: oscillator sample rate must be > 0: %f", core.ErrConfiguration, sampleRate)
	}
	if wave != WaveSaw && wave != WavePulse {
		return nil, fmt.Errorf("%w: unknown waveform: %d", core.ErrConfiguration, int(wave))
	}
	return &Naive{sampleRate: sampleRate, wave: wave, pw: 0.5}, nil
}

// SetFreq sets the frequency in Hz. Non-finite or negative values stop the
// phase; values above Nyquist are held at Nyquist.
func (o *Naive) SetFreq(hz float64) {
	if !core.IsFinite(hz) || hz < 0 {
		hz = 0
	}
	o.inc = math.Min(hz/o.sampleRate, 0.5)
}

// SetPW sets the pulse width, clamped to [0, 1].
func (o *Naive) SetPW(pw float64) {
	if math.IsNaN(pw) {
		pw = 0.5
	}
	o.pw = core.Clamp(pw, 0, 1)
}

// Process returns the current sample in [-1, 1] and advances the phase.
func (o *Naive) Process() float64 {
	p := o.phase
	o.phase += o.inc
	if o.phase >= 1 {
		o.phase -= 1
	}

	if o.wave == WavePulse {
		if p < o.pw {
			return 1
		}
		return -1
	}

	switch {
	case o.pw >= 1:
		return 2*p - 1
	case o.pw <= 0:
		return 1 - 2*p
	case p < o.pw:
		return 2*p/o.pw - 1
	default:
		return 1 - 2*(p-o.pw)/(1-o.pw)
	}
}

// Reset restarts the phase at zero.
func (o *Naive) Reset() { o.phase = 0 }

// Freq returns the current frequency in Hz.
func (o *Naive) Freq() float64 { return o.inc * o.sampleRate }

// PW returns the current pulse width.
func (o *Naive) PW() float64 { return o.pw }
