package echo

import (
	"errors"
	"math"
)

// Errors returned by echo analysis.
var (
	ErrEmptyIR           = errors.New("echo: impulse response is empty")
	ErrInvalidSampleRate = errors.New("echo: sample rate must be positive")
	ErrInvalidPeriod     = errors.New("echo: period must be positive")
	ErrNoTaps            = errors.New("echo: response shorter than one period")
)

// silenceFloor is the amplitude below which a tap counts as silent.
const silenceFloor = 1e-12

// Tap is one echo repeat.
type Tap struct {
	Index     int     // sample index of the peak
	Amplitude float64 // signed peak value
}

// Result holds the analysis of a feedback echo response.
type Result struct {
	Taps      []Tap   // repeats 1..n, direct sound excluded
	Feedback  float64 // per-repeat gain fitted over non-silent taps, NaN from a single tap
	Monotonic bool    // every tap magnitude is strictly below the previous one
	RT60      float64 // seconds to decay by 60 dB, +Inf without decay
}

// Analyzer computes echo metrics at a fixed sample rate.
type Analyzer struct {
	SampleRate float64
}

// NewAnalyzer creates an analyzer with the given sample rate.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{SampleRate: sampleRate}
}

// Analyze measures the repeats of ir, which must start with the direct
// sound at index 0. Each tap is the largest magnitude within half a period
// of its nominal position k*period.
func (a *Analyzer) Analyze(ir []float64, period int) (Result, error) {
	if len(ir) == 0 {
		return Result{}, ErrEmptyIR
	}
	if a.SampleRate <= 0 {
		return Result{}, ErrInvalidSampleRate
	}
	if period <= 0 {
		return Result{}, ErrInvalidPeriod
	}
	if period >= len(ir) {
		return Result{}, ErrNoTaps
	}

	taps := FindTaps(ir, period)
	res := Result{
		Taps:      taps,
		Monotonic: monotonic(taps),
	}
	res.Feedback = fitFeedback(taps)
	res.RT60 = rt60(res.Feedback, period, a.SampleRate)
	return res, nil
}

// FindTaps returns one peak per full period after the direct sound.
func FindTaps(ir []float64, period int) []Tap {
	if period <= 0 {
		return nil
	}

	half := period / 2
	var taps []Tap
	for center := period; center < len(ir); center += period {
		lo := max(center-half, 1)
		hi := min(center+period-half, len(ir))

		best := center
		for i := lo; i < hi; i++ {
			if math.Abs(ir[i]) > math.Abs(ir[best]) {
				best = i
			}
		}
		taps = append(taps, Tap{Index: best, Amplitude: ir[best]})
	}
	return taps
}

func monotonic(taps []Tap) bool {
	for i := 1; i < len(taps); i++ {
		if math.Abs(taps[i].Amplitude) >= math.Abs(taps[i-1].Amplitude) {
			return false
		}
	}
	return len(taps) > 0
}

// fitFeedback fits ln|a_k| = c + k*ln(g) by least squares over the leading
// run of non-silent taps.
func fitFeedback(taps []Tap) float64 {
	n := 0
	for n < len(taps) && math.Abs(taps[n].Amplitude) > silenceFloor {
		n++
	}

	switch n {
	case 0:
		return 0
	case 1:
		if len(taps) > 1 {
			return 0
		}
		return math.NaN()
	}

	var sumX, sumY, sumXX, sumXY float64
	for k := 0; k < n; k++ {
		x := float64(k)
		y := math.Log(math.Abs(taps[k].Amplitude))
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}

	fn := float64(n)
	slope := (fn*sumXY - sumX*sumY) / (fn*sumXX - sumX*sumX)
	return math.Exp(slope)
}

func rt60(feedback float64, period int, sampleRate float64) float64 {
	switch {
	case math.IsNaN(feedback):
		return math.NaN()
	case feedback <= 0:
		return 0
	case feedback >= 1:
		return math.Inf(1)
	}

	dbPerRepeat := -20 * math.Log10(feedback)
	return 60 / dbPerRepeat * float64(period) / sampleRate
}
