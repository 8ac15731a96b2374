package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-rack/dsp/core"
	"github.com/cwbudde/algo-rack/dsp/delay"
)

const (
	// MaxChannels is the polyphonic channel ceiling of the echo.
	MaxChannels = 16

	defaultEchoMaxSeconds = 1.0
	maxEchoMaxSeconds     = 10.0
)

// EchoOption mutates construction-time parameters.
type EchoOption func(*echoConfig) error

type echoConfig struct {
	maxTime   float64
	leftTime  float64
	rightTime float64
	leftFB    float64
	rightFB   float64
	mix       float64
}

func defaultEchoConfig() echoConfig {
	return echoConfig{maxTime: defaultEchoMaxSeconds}
}

// WithEchoMaxTime sets the longest supported delay in seconds, (0, 10].
// It sizes every delay line and cannot change after construction.
func WithEchoMaxTime(seconds float64) EchoOption {
	return func(cfg *echoConfig) error {
		if seconds <= 0 || seconds > maxEchoMaxSeconds || math.IsNaN(seconds) {
			return fmt.Errorf("%w: echo max time must be in (0, %g]: %f",
				core.ErrConfiguration, maxEchoMaxSeconds, seconds)
		}
		cfg.maxTime = seconds
		return nil
	}
}

// WithEchoTimes sets the left and right delay times in seconds.
func WithEchoTimes(left, right float64) EchoOption {
	return func(cfg *echoConfig) error {
		cfg.leftTime, cfg.rightTime = left, right
		return nil
	}
}

// WithEchoFeedback sets the left and right feedback gains in [0, 1].
func WithEchoFeedback(left, right float64) EchoOption {
	return func(cfg *echoConfig) error {
		cfg.leftFB, cfg.rightFB = left, right
		return nil
	}
}

// WithEchoMix sets the wet amount in [0, 1].
func WithEchoMix(mix float64) EchoOption {
	return func(cfg *echoConfig) error {
		cfg.mix = mix
		return nil
	}
}

// Echo is a polyphonic mono-in, stereo-out feedback echo. Each channel has
// its own left and right delay line; times, feedback and mix are shared.
//
// The dry signal always passes at unity: out = in + mix*wet.
type Echo struct {
	sampleRate float64
	maxTime    float64

	leftTime  float64
	rightTime float64
	leftFB    float64
	rightFB   float64
	mix       float64

	left  [MaxChannels]*delay.Line
	right [MaxChannels]*delay.Line
}

// NewEcho creates an echo with validated options. All delay lines are
// allocated here.
func NewEcho(sampleRate float64, opts ...EchoOption) (*Echo, error) {
	cfg := defaultEchoConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	e := &Echo{maxTime: cfg.maxTime}

	err := e.SetSampleRate(sampleRate)
	if err != nil {
		return nil, err
	}

	err = e.SetTimes(cfg.leftTime, cfg.rightTime)
	if err != nil {
		return nil, err
	}

	err = e.SetFeedback(cfg.leftFB, cfg.rightFB)
	if err != nil {
		return nil, err
	}

	err = e.SetMix(cfg.mix)
	if err != nil {
		return nil, err
	}

	return e, nil
}

// SetSampleRate reallocates the delay lines for a new sample rate. Line
// contents are discarded; call between ticks only.
func (e *Echo) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("%w: echo sample rate must be > 0: %f", core.ErrConfiguration, sampleRate)
	}

	capacity := int(math.Ceil(e.maxTime*sampleRate)) + 1
	if capacity < delay.MinCapacity {
		capacity = delay.MinCapacity
	}

	for ch := range e.left {
		l, err := delay.New(capacity)
		if err != nil {
			return err
		}
		r, err := delay.New(capacity)
		if err != nil {
			return err
		}
		e.left[ch], e.right[ch] = l, r
	}

	e.sampleRate = sampleRate
	e.applyTimes()
	return nil
}

// SetTimes sets the left and right delay times in seconds, [0, MaxTime].
// Times shorter than one sample are held at one sample.
func (e *Echo) SetTimes(left, right float64) error {
	for _, s := range []float64{left, right} {
		if s < 0 || s > e.maxTime || math.IsNaN(s) {
			return fmt.Errorf("echo time must be in [0, %g]: %f", e.maxTime, s)
		}
	}
	e.leftTime, e.rightTime = left, right
	e.applyTimes()
	return nil
}

// SetTimesMillis is SetTimes with millisecond arguments.
func (e *Echo) SetTimesMillis(left, right float64) error {
	return e.SetTimes(left/1000, right/1000)
}

// SetFeedback sets the left and right feedback gains in [0, 1].
func (e *Echo) SetFeedback(left, right float64) error {
	for _, g := range []float64{left, right} {
		if g < 0 || g > 1 || math.IsNaN(g) {
			return fmt.Errorf("echo feedback must be in [0, 1]: %f", g)
		}
	}
	e.leftFB, e.rightFB = left, right
	return nil
}

// SetMix sets the wet amount in [0, 1].
func (e *Echo) SetMix(mix float64) error {
	if mix < 0 || mix > 1 || math.IsNaN(mix) {
		return fmt.Errorf("echo mix must be in [0, 1]: %f", mix)
	}
	e.mix = mix
	return nil
}

// SetMixCV sets the wet amount from a 0..10 V control voltage, clamped.
func (e *Echo) SetMixCV(volts float64) {
	if math.IsNaN(volts) {
		volts = 0
	}
	e.mix = core.Clamp(volts/10, 0, 1)
}

// ProcessSample runs one tick of channel ch. Out-of-range channel indices
// wrap modulo MaxChannels.
func (e *Echo) ProcessSample(ch int, input float64) (left, right float64) {
	ch = core.WrapIndex(ch, MaxChannels)

	wetL := e.left[ch].Read()
	e.left[ch].Write(core.FlushDenormals(input + e.leftFB*wetL))
	e.left[ch].Advance()

	wetR := e.right[ch].Read()
	e.right[ch].Write(core.FlushDenormals(input + e.rightFB*wetR))
	e.right[ch].Advance()

	return input + e.mix*wetL, input + e.mix*wetR
}

// ProcessBlock runs channel ch over in, writing stereo output. It processes
// the shortest of the three slices.
func (e *Echo) ProcessBlock(ch int, in, left, right []float64) {
	n := min(len(in), len(left), len(right))
	for i := 0; i < n; i++ {
		left[i], right[i] = e.ProcessSample(ch, in[i])
	}
}

// Reset clears all delay lines.
func (e *Echo) Reset() {
	for ch := range e.left {
		e.left[ch].Reset()
		e.right[ch].Reset()
	}
}

// SampleRate returns sample rate in Hz.
func (e *Echo) SampleRate() float64 { return e.sampleRate }

// MaxTime returns the longest supported delay in seconds.
func (e *Echo) MaxTime() float64 { return e.maxTime }

// Times returns the left and right delay times in seconds.
func (e *Echo) Times() (left, right float64) { return e.leftTime, e.rightTime }

// DelaySamples returns the effective left and right delays in samples.
func (e *Echo) DelaySamples() (left, right int) {
	return e.left[0].Delay(), e.right[0].Delay()
}

// Feedback returns the left and right feedback gains.
func (e *Echo) Feedback() (left, right float64) { return e.leftFB, e.rightFB }

// Mix returns wet amount in [0, 1].
func (e *Echo) Mix() float64 { return e.mix }

func (e *Echo) applyTimes() {
	// The epsilon keeps e.g. 0.003 s at 1 kHz from truncating to 2 samples.
	l := math.Floor(e.leftTime*e.sampleRate + 1e-9)
	r := math.Floor(e.rightTime*e.sampleRate + 1e-9)
	for ch := range e.left {
		if e.left[ch] == nil {
			return
		}
		e.left[ch].SetDelay(l)
		e.right[ch].SetDelay(r)
	}
}
