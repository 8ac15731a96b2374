package effects

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-rack/dsp/core"
	"github.com/cwbudde/algo-rack/internal/testutil"
)

func TestSoftclipValidation(t *testing.T) {
	if _, err := NewSoftclip(WithSoftclipGain(1.5)); err == nil {
		t.Fatal("expected error for gain above 1")
	}

	if _, err := NewSoftclip(WithSoftclipHardness(-0.1)); err == nil {
		t.Fatal("expected error for negative hardness")
	}

	if _, err := NewSoftclip(WithSoftclipCVAmounts(0, 2)); err == nil {
		t.Fatal("expected error for hardness cv amount above 1")
	}

	if _, err := NewSoftclip(WithSoftclipGain(math.NaN())); err == nil {
		t.Fatal("expected error for NaN gain")
	}
}

func TestSoftclipDrive(t *testing.T) {
	tests := []struct {
		gain float64
		want float64
	}{
		{0, 1},
		{1, 8},
		{-1, 0.125},
		{1.0 / 3, 2},
	}

	for _, tt := range tests {
		s, err := NewSoftclip(WithSoftclipGain(tt.gain))
		if err != nil {
			t.Fatalf("NewSoftclip() error = %v", err)
		}
		testutil.RequireRelative(t, s.Drive(), tt.want, 1e-12)
	}
}

func TestSoftclipZeroHardnessIsTanh(t *testing.T) {
	s, err := NewSoftclip()
	if err != nil {
		t.Fatalf("NewSoftclip() error = %v", err)
	}

	for _, x := range []float64{-3, -1, -0.2, 0, 0.4, 1, 5} {
		got := s.ProcessSample(x)
		if math.Abs(got-math.Tanh(x)) > 1e-12 {
			t.Fatalf("ProcessSample(%g) = %g, want tanh = %g", x, got, math.Tanh(x))
		}
	}
}

func TestSoftclipKneePassesLinearRegion(t *testing.T) {
	s, err := NewSoftclip(WithSoftclipHardness(0.6))
	if err != nil {
		t.Fatalf("NewSoftclip() error = %v", err)
	}

	for _, x := range []float64{-0.6, -0.3, 0, 0.25, 0.6} {
		if got := s.ProcessSample(x); math.Abs(got-x) > 1e-12 {
			t.Fatalf("ProcessSample(%g) = %g inside knee", x, got)
		}
	}

	// Above the knee the output is monotonic and bounded by 1.
	prev := s.ProcessSample(0.6)
	for x := 0.7; x < 3; x += 0.2 {
		got := s.ProcessSample(x)
		if got <= prev || got >= 1 {
			t.Fatalf("ProcessSample(%g) = %g, prev %g", x, got, prev)
		}
		prev = got
	}
}

func TestSoftclipFullHardnessApproachesHardClip(t *testing.T) {
	s, err := NewSoftclip(WithSoftclipHardness(1))
	if err != nil {
		t.Fatalf("NewSoftclip() error = %v", err)
	}

	if s.Hardness() != softclipMaxKnee {
		t.Fatalf("Hardness() = %g, want %g", s.Hardness(), softclipMaxKnee)
	}

	for _, x := range []float64{2, 10, -4} {
		got := s.ProcessSample(x)
		if !core.IsFinite(got) || math.Abs(math.Abs(got)-1) > 1e-3 {
			t.Fatalf("ProcessSample(%g) = %g, want about +-1", x, got)
		}
	}
}

func TestSoftclipCV(t *testing.T) {
	s, err := NewSoftclip(
		WithSoftclipGain(1),
		WithSoftclipHardness(0.5),
		WithSoftclipCVAmounts(1, 1),
	)
	if err != nil {
		t.Fatalf("NewSoftclip() error = %v", err)
	}

	s.SetGainCV(5, true)
	testutil.RequireRelative(t, s.Drive(), 8*math.Pow(0.5, 4), 1e-12)

	s.SetGainCV(5, false)
	testutil.RequireRelative(t, s.Drive(), 8, 1e-12)

	s.SetHardnessCV(10, true)
	testutil.RequireRelative(t, s.Hardness(), 0.5, 1e-12)

	s.SetHardnessCV(4, true)
	testutil.RequireRelative(t, s.Hardness(), 0.2, 1e-12)

	s.SetHardnessCV(-10, true)
	if s.Hardness() != 0 {
		t.Fatalf("negative hardness cv: Hardness() = %g, want 0", s.Hardness())
	}
}

func TestSoftclipProcessChannels(t *testing.T) {
	s, err := NewSoftclip(WithSoftclipHardness(0.5))
	if err != nil {
		t.Fatalf("NewSoftclip() error = %v", err)
	}

	in := []float64{0.2, 0.4, 3, -3}
	out := make([]float64, len(in))
	mix := s.ProcessChannels(in, out)

	for i, x := range in {
		if want := s.ProcessSample(x); out[i] != want {
			t.Fatalf("channel %d = %g, want %g", i, out[i], want)
		}
	}

	// Mean of the driven inputs is 0.15, inside the knee.
	if math.Abs(mix-0.15) > 1e-12 {
		t.Fatalf("mix = %g, want 0.15", mix)
	}

	if got := s.ProcessChannels(nil, out); got != 0 {
		t.Fatalf("empty ProcessChannels = %g, want 0", got)
	}
}

func TestSoftclipProcessInPlaceMatchesSample(t *testing.T) {
	s, err := NewSoftclip(WithSoftclipGain(0.5), WithSoftclipHardness(0.3))
	if err != nil {
		t.Fatalf("NewSoftclip() error = %v", err)
	}

	in := testutil.DeterministicSine(220, 48000, 1.5, 512)
	buf := append([]float64(nil), in...)
	s.ProcessInPlace(buf)

	for i := range in {
		if want := s.ProcessSample(in[i]); buf[i] != want {
			t.Fatalf("index %d: in-place %g, sample %g", i, buf[i], want)
		}
	}
}
