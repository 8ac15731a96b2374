package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-rack/dsp/core"
	"github.com/cwbudde/algo-rack/dsp/effects"
	"github.com/cwbudde/algo-rack/measure/echo"
)

func runEcho(args []string) error {
	fs := newFlagSet("echo", "Feeds an impulse through the echo and prints the repeats.")
	rate := fs.Float64("rate", 48000, "sample rate in Hz")
	timeMs := fs.Float64("time", 250, "delay time in milliseconds")
	feedback := fs.Float64("feedback", 0.5, "feedback gain in [0, 1]")
	lengthMs := fs.Float64("length", 2000, "rendered response length in milliseconds")
	side := fs.String("side", "left", "output side to analyze (left, right)")

	err := fs.Parse(args)
	if err != nil {
		return err
	}

	maxTime := max(*timeMs/1000, 0.001)
	e, err := effects.NewEcho(*rate,
		effects.WithEchoMaxTime(maxTime),
		effects.WithEchoTimes(*timeMs/1000, *timeMs/1000),
		effects.WithEchoFeedback(*feedback, *feedback),
		effects.WithEchoMix(1),
	)
	if err != nil {
		return err
	}

	n := int(core.MillisToSamples(*lengthMs, *rate))
	if n < 2 {
		return fmt.Errorf("length must cover at least two samples: %g ms", *lengthMs)
	}

	in := make([]float64, n)
	in[0] = 1
	left := make([]float64, n)
	right := make([]float64, n)
	e.ProcessBlock(0, in, left, right)

	ir := left
	if *side == "right" {
		ir = right
	}

	period, _ := e.DelaySamples()
	res, err := echo.NewAnalyzer(*rate).Analyze(ir, period)
	if err != nil {
		return err
	}

	fmt.Printf("delay: %d samples (%.2f ms)\n\n", period, float64(period)/(*rate)*1000)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "repeat\tsample\ttime ms\tamplitude\t\n")
	for k, tap := range res.Taps {
		fmt.Fprintf(w, "%d\t%d\t%.2f\t%.6f\t\n", k+1, tap.Index, float64(tap.Index)/(*rate)*1000, tap.Amplitude)
	}
	err = w.Flush()
	if err != nil {
		return err
	}

	fmt.Printf("\nfeedback: %.4f\nmonotonic: %v\nRT60: %.3f s\n", res.Feedback, res.Monotonic, res.RT60)
	return nil
}
