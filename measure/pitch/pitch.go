package pitch

import (
	"errors"
	"fmt"
	"math"
	"sort"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-rack/dsp/window"
)

// Errors returned by the estimator.
var (
	ErrEmptySignal       = errors.New("pitch: signal is empty")
	ErrInvalidSampleRate = errors.New("pitch: sample rate must be positive")
	ErrInvalidSize       = errors.New("pitch: frame size must be a power of two >= 16")
	ErrNoPeak            = errors.New("pitch: no spectral peak found")
)

const minFrameSize = 16

// powerFloor keeps log power finite for empty bins.
const powerFloor = 1e-300

// Peak is a spectral maximum.
type Peak struct {
	Freq  float64 // interpolated frequency in Hz
	Power float64 // power of the peak bin
	Bin   int     // index of the peak bin
}

// Estimator finds spectral peaks in fixed-size frames.
type Estimator struct {
	sampleRate float64
	size       int

	plan   *algofft.Plan[complex128]
	coeffs []float64
	frame  []float64
	in     []complex128
	out    []complex128
	re     []float64
	im     []float64
	power  []float64
}

// NewEstimator creates an estimator for frames of size samples.
func NewEstimator(sampleRate float64, size int) (*Estimator, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, ErrInvalidSampleRate
	}
	if size < minFrameSize || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	win, err := window.Hann(size, window.WithPeriodic())
	if err != nil {
		return nil, fmt.Errorf("pitch: window: %w", err)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("pitch: fft plan: %w", err)
	}

	bins := size/2 + 1
	e := &Estimator{
		sampleRate: sampleRate,
		size:       size,
		plan:       plan,
		coeffs:     win,
		frame:      make([]float64, size),
		in:         make([]complex128, size),
		out:        make([]complex128, size),
		re:         make([]float64, bins),
		im:         make([]float64, bins),
		power:      make([]float64, bins),
	}
	return e, nil
}

// Size returns the frame size in samples.
func (e *Estimator) Size() int { return e.size }

// SampleRate returns sample rate in Hz.
func (e *Estimator) SampleRate() float64 { return e.sampleRate }

// BinHz returns the bin spacing in Hz.
func (e *Estimator) BinHz() float64 { return e.sampleRate / float64(e.size) }

// Spectrum returns the power spectrum of the first Size samples of signal,
// zero-padding shorter input. The returned slice has Size/2+1 bins and is
// overwritten by the next call.
func (e *Estimator) Spectrum(signal []float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptySignal
	}

	n := copy(e.frame, signal)
	clear(e.frame[n:])
	err := window.ApplyCoefficientsInPlace(e.frame, e.coeffs)
	if err != nil {
		return nil, err
	}

	for i, x := range e.frame {
		e.in[i] = complex(x, 0)
	}

	err = e.plan.Forward(e.out, e.in)
	if err != nil {
		return nil, fmt.Errorf("pitch: fft forward: %w", err)
	}

	for k := range e.power {
		e.re[k] = real(e.out[k])
		e.im[k] = imag(e.out[k])
	}
	vecmath.Power(e.power, e.re, e.im)

	return e.power, nil
}

// Dominant returns the strongest peak, ignoring the DC bin.
func (e *Estimator) Dominant(signal []float64) (Peak, error) {
	power, err := e.Spectrum(signal)
	if err != nil {
		return Peak{}, err
	}

	best := -1
	for k := 1; k < len(power); k++ {
		if best < 0 || power[k] > power[best] {
			best = k
		}
	}
	if best < 0 || power[best] <= 0 {
		return Peak{}, ErrNoPeak
	}
	return e.refine(power, best), nil
}

// Partials returns up to count local maxima ordered by descending power.
// Peaks closer than minSpacing Hz to a stronger peak are dropped.
func (e *Estimator) Partials(signal []float64, count int, minSpacing float64) ([]Peak, error) {
	if count <= 0 {
		return nil, nil
	}

	power, err := e.Spectrum(signal)
	if err != nil {
		return nil, err
	}

	var candidates []int
	for k := 1; k < len(power)-1; k++ {
		if power[k] > 0 && power[k] > power[k-1] && power[k] >= power[k+1] {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoPeak
	}

	sort.Slice(candidates, func(i, j int) bool {
		return power[candidates[i]] > power[candidates[j]]
	})

	peaks := make([]Peak, 0, count)
	for _, k := range candidates {
		p := e.refine(power, k)
		if tooClose(peaks, p.Freq, minSpacing) {
			continue
		}
		peaks = append(peaks, p)
		if len(peaks) == count {
			break
		}
	}
	return peaks, nil
}

func tooClose(peaks []Peak, freq, spacing float64) bool {
	for _, p := range peaks {
		if math.Abs(p.Freq-freq) < spacing {
			return true
		}
	}
	return false
}

// refine fits a parabola through the log power of bins k-1, k and k+1.
func (e *Estimator) refine(power []float64, k int) Peak {
	p := Peak{Bin: k, Power: power[k], Freq: float64(k) * e.BinHz()}
	if k < 1 || k >= len(power)-1 {
		return p
	}

	a := math.Log(power[k-1] + powerFloor)
	b := math.Log(power[k] + powerFloor)
	c := math.Log(power[k+1] + powerFloor)

	den := a - 2*b + c
	if den >= 0 {
		return p
	}

	delta := 0.5 * (a - c) / den
	if delta > 0.5 || delta < -0.5 {
		return p
	}
	p.Freq = (float64(k) + delta) * e.BinHz()
	return p
}
