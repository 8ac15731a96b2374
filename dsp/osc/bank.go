package osc

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-rack/dsp/core"
	"github.com/cwbudde/algo-rack/dsp/voice"
)

const defaultPWBase = 0.52

var defaultPWAmounts = []float64{0.25, -0.25, 0.45, -0.45}

var (
	ErrNilModulator  = errors.New("osc: nil modulator")
	ErrTooFewVoices  = errors.New("osc: fewer oscillators than voices")
	ErrNilOscillator = errors.New("osc: nil oscillator")
)

// BankOption mutates construction-time parameters.
type BankOption func(*bankConfig) error

type bankConfig struct {
	pwBase   []float64
	pwAmount []float64
	weighted bool
}

func defaultBankConfig() bankConfig {
	return bankConfig{
		pwBase:   []float64{defaultPWBase},
		pwAmount: defaultPWAmounts,
	}
}

// WithPulseWidths sets per-voice base pulse widths in [0, 1]. Shorter lists
// repeat across the voices.
func WithPulseWidths(base []float64) BankOption {
	return func(cfg *bankConfig) error {
		if err := checkPerVoice("pulse width", base, 0, 1); err != nil {
			return err
		}
		cfg.pwBase = base
		return nil
	}
}

// WithPulseWidthAmounts sets per-voice aftertouch-to-pulse-width amounts in
// [-1, 1]. Shorter lists repeat across the voices.
func WithPulseWidthAmounts(amounts []float64) BankOption {
	return func(cfg *bankConfig) error {
		if err := checkPerVoice("pulse width amount", amounts, -1, 1); err != nil {
			return err
		}
		cfg.pwAmount = amounts
		return nil
	}
}

// WithGainWeighting scales each voice by its modulator gain before summing.
func WithGainWeighting(enabled bool) BankOption {
	return func(cfg *bankConfig) error {
		cfg.weighted = enabled
		return nil
	}
}

func checkPerVoice(name string, values []float64, lo, hi float64) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: %s list must not be empty", core.ErrConfiguration, name)
	}
	for i, v := range values {
		if !core.IsFinite(v) || v < lo || v > hi {
			return fmt.Errorf("%w: %s %d must be in [%g, %g]: %f", core.ErrConfiguration, name, i, lo, hi, v)
		}
	}
	return nil
}

// Bank renders the active voices of a Modulator through one Oscillator per
// voice and sums them to a mono signal.
type Bank struct {
	mod      *voice.Modulator
	oscs     [voice.MaxVoices]Oscillator
	pwBase   [voice.MaxVoices]float64
	pwAmount [voice.MaxVoices]float64
	weighted bool
	frame    voice.Frame
}

// NewBank binds oscs to mod. It needs at least one oscillator per active
// voice and uses at most voice.MaxVoices of them.
func NewBank(mod *voice.Modulator, oscs []Oscillator, opts ...BankOption) (*Bank, error) {
	if mod == nil {
		return nil, ErrNilModulator
	}
	if len(oscs) < mod.Voices() {
		return nil, fmt.Errorf("%w: %d < %d", ErrTooFewVoices, len(oscs), mod.Voices())
	}

	cfg := defaultBankConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	b := &Bank{mod: mod, weighted: cfg.weighted}
	for v := 0; v < mod.Voices(); v++ {
		if oscs[v] == nil {
			return nil, fmt.Errorf("%w: voice %d", ErrNilOscillator, v)
		}
		b.oscs[v] = oscs[v]
		b.pwBase[v] = cfg.pwBase[v%len(cfg.pwBase)]
		b.pwAmount[v] = cfg.pwAmount[v%len(cfg.pwAmount)]
	}
	return b, nil
}

// Modulator returns the bank's modulator.
func (b *Bank) Modulator() *voice.Modulator { return b.mod }

// Frame returns the modulation frame of the most recent tick. The pointer
// stays valid; its contents change on the next tick.
func (b *Bank) Frame() *voice.Frame { return &b.frame }

// Tick advances every active voice by one sample and returns their sum.
func (b *Bank) Tick(in *voice.Inputs) float64 {
	b.mod.Process(in, &b.frame)

	sum := 0.0
	for v := 0; v < b.frame.Voices; v++ {
		o := b.oscs[v]
		o.SetFreq(b.frame.Freq[v])
		o.SetPW(core.Clamp(b.pwBase[v]+b.pwAmount[v]*b.frame.Aftertouch[v], 0, 1))

		y := o.Process()
		if b.weighted {
			y *= b.frame.Gain[v]
		}
		sum += y
	}
	return sum
}

// ProcessBlock fills dst with consecutive ticks for one input snapshot.
func (b *Bank) ProcessBlock(dst []float64, in *voice.Inputs) {
	for i := range dst {
		dst[i] = b.Tick(in)
	}
}

// ApplyLevel scales a rendered block by a constant level.
func ApplyLevel(dst []float64, level float64) {
	vecmath.ScaleBlock(dst, dst, level)
}

// ApplyEnvelope multiplies a rendered block by a per-sample envelope. It
// processes the shorter of the two slices.
func ApplyEnvelope(dst, env []float64) {
	n := min(len(dst), len(env))
	vecmath.MulBlockInPlace(dst[:n], env[:n])
}
