package pitch_test

import (
	"fmt"

	"github.com/cwbudde/algo-rack/internal/testutil"
	"github.com/cwbudde/algo-rack/measure/pitch"
)

func ExampleEstimator_Dominant() {
	est, err := pitch.NewEstimator(48000, 8192)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	sig := testutil.DeterministicSine(440, 48000, 1, est.Size())
	peak, err := est.Dominant(sig)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("%.0f Hz\n", peak.Freq)
	// Output:
	// 440 Hz
}
