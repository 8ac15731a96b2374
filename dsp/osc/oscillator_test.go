package osc

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-rack/dsp/core"
	"github.com/cwbudde/algo-rack/internal/testutil"
)

func TestNewNaiveValidation(t *testing.T) {
	if _, err := NewNaive(0, WaveSaw); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("expected configuration error for zero rate, got %v", err)
	}

	if _, err := NewNaive(48000, Waveform(7)); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("expected configuration error for unknown waveform, got %v", err)
	}
}

func TestNaiveRisingSaw(t *testing.T) {
	o, err := NewNaive(8, WaveSaw)
	if err != nil {
		t.Fatalf("NewNaive() error = %v", err)
	}
	o.SetPW(1)
	o.SetFreq(2)

	got := make([]float64, 8)
	for i := range got {
		got[i] = o.Process()
	}

	want := []float64{-1, -0.5, 0, 0.5, -1, -0.5, 0, 0.5}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestNaiveTriangleAtHalfWidth(t *testing.T) {
	o, err := NewNaive(8, WaveSaw)
	if err != nil {
		t.Fatalf("NewNaive() error = %v", err)
	}
	o.SetFreq(1)

	got := make([]float64, 8)
	for i := range got {
		got[i] = o.Process()
	}

	want := []float64{-1, -0.5, 0, 0.5, 1, 0.5, 0, -0.5}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestNaivePulseDuty(t *testing.T) {
	o, err := NewNaive(1000, WavePulse)
	if err != nil {
		t.Fatalf("NewNaive() error = %v", err)
	}
	o.SetFreq(10)
	o.SetPW(0.25)

	high := 0
	for i := 0; i < 1000; i++ {
		if o.Process() > 0 {
			high++
		}
	}
	if high < 240 || high > 260 {
		t.Fatalf("high samples = %d, want about 250", high)
	}
}

func TestNaiveParameterClamps(t *testing.T) {
	o, err := NewNaive(48000, WavePulse)
	if err != nil {
		t.Fatalf("NewNaive() error = %v", err)
	}

	o.SetFreq(100000)
	if o.Freq() != 24000 {
		t.Fatalf("Freq() = %g, want Nyquist", o.Freq())
	}

	o.SetFreq(math.Inf(1))
	if o.Freq() != 0 {
		t.Fatalf("Freq() after Inf = %g, want 0", o.Freq())
	}

	o.SetPW(1.7)
	if o.PW() != 1 {
		t.Fatalf("PW() = %g, want 1", o.PW())
	}

	o.SetPW(math.NaN())
	if o.PW() != 0.5 {
		t.Fatalf("PW() after NaN = %g, want 0.5", o.PW())
	}
}

func TestNaiveReset(t *testing.T) {
	o, err := NewNaive(100, WaveSaw)
	if err != nil {
		t.Fatalf("NewNaive() error = %v", err)
	}
	o.SetFreq(7)
	first := o.Process()
	for i := 0; i < 13; i++ {
		o.Process()
	}
	o.Reset()
	if got := o.Process(); got != first {
		t.Fatalf("Process() after Reset = %g, want %g", got, first)
	}
}
