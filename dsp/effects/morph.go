package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-rack/dsp/core"
)

const morphRangeVolts = 10.0

// Morph crossfades between two stored control voltages. A 0 V control
// selects A, 10 V selects B; values beyond extrapolate and are clamped to
// +-10 V.
type Morph struct {
	a, b float64
}

// NewMorph creates a morph between a and b, each in [-10, 10] V.
func NewMorph(a, b float64) (*Morph, error) {
	m := &Morph{}
	if err := m.SetValues(a, b); err != nil {
		return nil, err
	}
	return m, nil
}

// SetValues sets both endpoints.
func (m *Morph) SetValues(a, b float64) error {
	for _, v := range []float64{a, b} {
		if v < -morphRangeVolts || v > morphRangeVolts || math.IsNaN(v) {
			return fmt.Errorf("morph value must be in [-10, 10]: %f", v)
		}
	}
	m.a, m.b = a, b
	return nil
}

// Values returns both endpoints.
func (m *Morph) Values() (a, b float64) { return m.a, m.b }

// Process returns the morphed voltage for a control voltage.
func (m *Morph) Process(cv float64) float64 {
	if math.IsNaN(cv) {
		cv = 0
	}
	out := m.a + (m.b-m.a)*(cv/morphRangeVolts)
	return core.Clamp(out, -morphRangeVolts, morphRangeVolts)
}
