package voice

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-rack/dsp/core"
)

const (
	defaultVoices         = 4
	defaultCurveExponent  = 2.0
	maxCurveExponent      = 8.0
	defaultDetuneSemitone = 0.1

	// DefaultBendDeadband is the bend magnitude, in semitones, below which
	// the chord is held. It matches a bend ratio of 0.99.
	DefaultBendDeadband = 0.174
)

// Mode reports which mapping produced a frame.
type Mode int

const (
	// ModeChord plays the selected voicing row.
	ModeChord Mode = iota
	// ModeGlide moves all voices together with the pitch bend.
	ModeGlide
)

func (m Mode) String() string {
	switch m {
	case ModeChord:
		return "chord"
	case ModeGlide:
		return "glide"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Inputs is the per-tick control snapshot. It is read, never retained.
type Inputs struct {
	BaseFreq   float64 // Hz
	Transpose  float64 // semitones
	Octave     float64 // octaves
	FineTune   float64 // octaves
	PitchBend  float64 // semitones
	Voicing    int     // any value, wrapped over the table count
	Spread     float64 // detune exponent, 0 disables detune
	Aftertouch float64 // raw pressure, typically 0..1
}

// Frame holds one tick of per-voice output. Only the first Voices entries
// of each array are meaningful.
type Frame struct {
	Freq       [MaxVoices]float64
	Aftertouch [MaxVoices]float64
	Gain       [MaxVoices]float64
	Voices     int
	Mode       Mode
}

// Option mutates construction-time parameters.
type Option func(*config) error

type config struct {
	voices      int
	voicings    Voicings
	detune      []float64
	sensitivity []float64
	deadband    float64
	exponent    float64
}

func defaultConfig() config {
	d := defaultDetuneSemitone
	return config{
		voices:   defaultVoices,
		voicings: DefaultVoicings(),
		detune: []float64{
			1,
			core.SemitonesToRatio(-d),
			core.SemitonesToRatio(d),
			core.SemitonesToRatio(-2 * d),
		},
		sensitivity: []float64{0.6, 0.3, 0.7, 0.8},
		deadband:    DefaultBendDeadband,
		exponent:    defaultCurveExponent,
	}
}

// WithVoices sets the active voice count in [1, MaxVoices].
func WithVoices(n int) Option {
	return func(cfg *config) error {
		if n < 1 || n > MaxVoices {
			return fmt.Errorf("%w: voice count must be in [1, %d]: %d", core.ErrConfiguration, MaxVoices, n)
		}
		cfg.voices = n
		return nil
	}
}

// WithVoicings sets the voicing table. Rows are truncated or zero-filled to
// the voice count; an empty set is rejected by New.
func WithVoicings(vs Voicings) Option {
	return func(cfg *config) error {
		cfg.voicings = vs.Clone()
		return nil
	}
}

// WithDetuneRatios sets per-voice detune ratios (> 0). Shorter lists repeat
// across voices.
func WithDetuneRatios(ratios []float64) Option {
	return func(cfg *config) error {
		if len(ratios) == 0 {
			return fmt.Errorf("%w: detune ratios must not be empty", core.ErrConfiguration)
		}
		for i, r := range ratios {
			if r <= 0 || !core.IsFinite(r) {
				return fmt.Errorf("%w: detune ratio[%d] must be > 0 and finite: %v", core.ErrConfiguration, i, r)
			}
		}
		cfg.detune = append([]float64(nil), ratios...)
		return nil
	}
}

// WithAftertouchSensitivities sets per-voice aftertouch scale factors.
// Shorter lists repeat across voices.
func WithAftertouchSensitivities(s []float64) Option {
	return func(cfg *config) error {
		if len(s) == 0 {
			return fmt.Errorf("%w: aftertouch sensitivities must not be empty", core.ErrConfiguration)
		}
		for i, v := range s {
			if !core.IsFinite(v) {
				return fmt.Errorf("%w: aftertouch sensitivity[%d] must be finite: %v", core.ErrConfiguration, i, v)
			}
		}
		cfg.sensitivity = append([]float64(nil), s...)
		return nil
	}
}

// WithBendDeadband sets the chord/glide threshold in semitones (>= 0).
func WithBendDeadband(semitones float64) Option {
	return func(cfg *config) error {
		if semitones < 0 || !core.IsFinite(semitones) {
			return fmt.Errorf("%w: bend deadband must be >= 0: %f", core.ErrConfiguration, semitones)
		}
		cfg.deadband = semitones
		return nil
	}
}

// WithCurveExponent sets the aftertouch response exponent in (0, 8].
func WithCurveExponent(exp float64) Option {
	return func(cfg *config) error {
		if exp <= 0 || exp > maxCurveExponent || math.IsNaN(exp) {
			return fmt.Errorf("%w: aftertouch curve exponent must be in (0, %g]: %f",
				core.ErrConfiguration, maxCurveExponent, exp)
		}
		cfg.exponent = exp
		return nil
	}
}

// Modulator maps control inputs to per-voice frequencies and timbre values.
// Tick methods must be called from a single goroutine; SetVoicings and
// LoadState may be called concurrently with them.
type Modulator struct {
	voices      int
	deadband    float64
	exponent    float64
	detune      [MaxVoices]float64
	sensitivity [MaxVoices]float64

	tbl atomic.Pointer[table]
}

// New creates a modulator with validated options.
func New(opts ...Option) (*Modulator, error) {
	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	m := &Modulator{
		voices:   cfg.voices,
		deadband: cfg.deadband,
		exponent: cfg.exponent,
	}
	for v := 0; v < cfg.voices; v++ {
		m.detune[v] = cfg.detune[v%len(cfg.detune)]
		m.sensitivity[v] = cfg.sensitivity[v%len(cfg.sensitivity)]
	}

	err := m.SetVoicings(cfg.voicings)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// Voices returns the active voice count.
func (m *Modulator) Voices() int { return m.voices }

// BendDeadband returns the chord/glide threshold in semitones.
func (m *Modulator) BendDeadband() float64 { return m.deadband }

// CurveExponent returns the aftertouch response exponent.
func (m *Modulator) CurveExponent() float64 { return m.exponent }

// VoicingCount returns the number of rows in the installed table.
func (m *Modulator) VoicingCount() int { return len(m.tbl.Load().rows) }

// Voicings returns a copy of the installed table, normalized to the voice count.
func (m *Modulator) Voicings() Voicings { return m.tbl.Load().rows.Clone() }

// SetVoicings validates vs and installs it atomically. It allocates and is
// meant for control goroutines, not the audio tick.
func (m *Modulator) SetVoicings(vs Voicings) error {
	t, err := compileTable(vs, m.voices)
	if err != nil {
		return err
	}
	m.tbl.Store(t)
	return nil
}

// Frequencies writes one frequency in Hz per active voice into dst and
// returns the voice count and the mode used.
func (m *Modulator) Frequencies(in *Inputs, dst *[MaxVoices]float64) (int, Mode) {
	return m.frequencies(m.tbl.Load(), in, dst)
}

func (m *Modulator) frequencies(t *table, in *Inputs, dst *[MaxVoices]float64) (int, Mode) {
	base := finiteOrZero(in.BaseFreq) *
		exp2(finiteOrZero(in.Octave)+finiteOrZero(in.FineTune)+finiteOrZero(in.Transpose)/12)
	bend := finiteOrZero(in.PitchBend)

	if math.Abs(bend) < m.deadband {
		ratios := &t.ratios[core.WrapIndex(in.Voicing, len(t.ratios))]
		for v := 0; v < m.voices; v++ {
			dst[v] = base * ratios[v]
		}
		return m.voices, ModeChord
	}

	glide := base * exp2(bend/12)
	spread := finiteOrZero(in.Spread)
	for v := 0; v < m.voices; v++ {
		dst[v] = glide * pow(m.detune[v], spread)
	}
	return m.voices, ModeGlide
}

// Aftertouch writes the shaped aftertouch for each active voice into dst:
// sign(raw)*|raw|^exponent scaled by the voice sensitivity.
func (m *Modulator) Aftertouch(raw float64, dst *[MaxVoices]float64) int {
	shaped := m.curve(finiteOrZero(raw))
	for v := 0; v < m.voices; v++ {
		dst[v] = shaped * m.sensitivity[v]
	}
	return m.voices
}

func (m *Modulator) curve(raw float64) float64 {
	if m.exponent == 1 || raw == 0 {
		return raw
	}
	if raw < 0 {
		return -pow(-raw, m.exponent)
	}
	return pow(raw, m.exponent)
}

// Gains writes a falling per-voice gain, 1 for the top voice down to 1/n.
func (m *Modulator) Gains(dst *[MaxVoices]float64) int {
	n := float64(m.voices)
	for v := 0; v < m.voices; v++ {
		dst[v] = 1 - float64(v)/n
	}
	return m.voices
}

// Process computes a complete frame for one tick.
func (m *Modulator) Process(in *Inputs, f *Frame) {
	f.Voices, f.Mode = m.frequencies(m.tbl.Load(), in, &f.Freq)
	m.Aftertouch(in.Aftertouch, &f.Aftertouch)
	m.Gains(&f.Gain)
}

func finiteOrZero(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
