package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-rack/dsp/core"
)

const (
	softclipGainBase   = 8.0
	softclipMaxKnee    = 0.999
	softclipCVFullVolt = 10.0
)

// SoftclipOption mutates construction-time parameters.
type SoftclipOption func(*softclipConfig) error

type softclipConfig struct {
	gain        float64
	hardness    float64
	gainCVAmt   float64
	hardnessAmt float64
}

// WithSoftclipGain sets the gain exponent in [-1, 1]; drive is 8^gain.
func WithSoftclipGain(gain float64) SoftclipOption {
	return func(cfg *softclipConfig) error {
		if gain < -1 || gain > 1 || math.IsNaN(gain) {
			return fmt.Errorf("softclip gain must be in [-1, 1]: %f", gain)
		}
		cfg.gain = gain
		return nil
	}
}

// WithSoftclipHardness sets the knee hardness in [0, 1].
func WithSoftclipHardness(hardness float64) SoftclipOption {
	return func(cfg *softclipConfig) error {
		if hardness < 0 || hardness > 1 || math.IsNaN(hardness) {
			return fmt.Errorf("softclip hardness must be in [0, 1]: %f", hardness)
		}
		cfg.hardness = hardness
		return nil
	}
}

// WithSoftclipCVAmounts sets how strongly the gain CV ([-1, 1]) and the
// hardness CV ([0, 1]) act once connected.
func WithSoftclipCVAmounts(gainAmt, hardnessAmt float64) SoftclipOption {
	return func(cfg *softclipConfig) error {
		if gainAmt < -1 || gainAmt > 1 || math.IsNaN(gainAmt) {
			return fmt.Errorf("softclip gain cv amount must be in [-1, 1]: %f", gainAmt)
		}
		if hardnessAmt < 0 || hardnessAmt > 1 || math.IsNaN(hardnessAmt) {
			return fmt.Errorf("softclip hardness cv amount must be in [0, 1]: %f", hardnessAmt)
		}
		cfg.gainCVAmt, cfg.hardnessAmt = gainAmt, hardnessAmt
		return nil
	}
}

// Softclip is a knee saturator: samples inside [-h, h] pass unchanged and the
// excess is folded through tanh, so h=0 is a pure tanh and h near 1 is a
// hard clip.
type Softclip struct {
	gain        float64
	hardness    float64
	gainCVAmt   float64
	hardnessAmt float64

	gainCV     float64
	gainCVOn   bool
	hardnessCV float64
	hardnessOn bool

	drive float64
	knee  float64
}

// NewSoftclip creates a saturator with validated options.
func NewSoftclip(opts ...SoftclipOption) (*Softclip, error) {
	var cfg softclipConfig

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	s := &Softclip{
		gain:        cfg.gain,
		hardness:    cfg.hardness,
		gainCVAmt:   cfg.gainCVAmt,
		hardnessAmt: cfg.hardnessAmt,
	}
	s.update()
	return s, nil
}

// SetGainCV connects or disconnects the gain CV. When connected, the drive
// is scaled by amount * (volts/10)^4.
func (s *Softclip) SetGainCV(volts float64, connected bool) {
	s.gainCV, s.gainCVOn = volts, connected
	s.update()
}

// SetHardnessCV connects or disconnects the hardness CV. When connected, the
// hardness is scaled by amount * volts/10.
func (s *Softclip) SetHardnessCV(volts float64, connected bool) {
	s.hardnessCV, s.hardnessOn = volts, connected
	s.update()
}

// Drive returns the effective input gain.
func (s *Softclip) Drive() float64 { return s.drive }

// Hardness returns the effective knee hardness.
func (s *Softclip) Hardness() float64 { return s.knee }

// ProcessSample saturates one sample.
func (s *Softclip) ProcessSample(input float64) float64 {
	return saturate(s.drive*input, s.knee)
}

// ProcessInPlace saturates buf in place.
func (s *Softclip) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = saturate(s.drive*buf[i], s.knee)
	}
}

// ProcessChannels saturates each polyphonic channel of in into out and
// returns the saturated average of the driven channels.
func (s *Softclip) ProcessChannels(in, out []float64) float64 {
	n := min(len(in), len(out))
	if n == 0 {
		return 0
	}

	mix := 0.0
	for i := 0; i < n; i++ {
		x := s.drive * in[i]
		mix += x
		out[i] = saturate(x, s.knee)
	}
	return saturate(mix/float64(n), s.knee)
}

func (s *Softclip) update() {
	s.drive = math.Pow(softclipGainBase, s.gain)
	if s.gainCVOn {
		s.drive *= s.gainCVAmt * math.Pow(s.gainCV/softclipCVFullVolt, 4)
	}

	s.knee = s.hardness
	if s.hardnessOn {
		s.knee *= s.hardnessAmt * (s.hardnessCV / softclipCVFullVolt)
	}
	if math.IsNaN(s.knee) {
		s.knee = 0
	}
	s.knee = core.Clamp(s.knee, 0, softclipMaxKnee)
	if !core.IsFinite(s.drive) {
		s.drive = 0
	}
}

func saturate(x, hardness float64) float64 {
	c := core.Clamp(x, -hardness, hardness)
	soft := 1 - hardness
	return c + math.Tanh((x-c)/soft)*soft
}
