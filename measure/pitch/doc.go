// Package pitch estimates the frequencies present in a rendered block.
//
// An Estimator windows a frame with a Hann window, transforms it with a
// reusable FFT plan and locates power-spectrum peaks, refining each peak
// with parabolic interpolation over log power.
//
// # Usage
//
//	est, err := pitch.NewEstimator(48000, 16384)
//	peak, err := est.Dominant(block)
//	fmt.Printf("%.1f Hz\n", peak.Freq)
//
// Estimators hold scratch buffers and are not safe for concurrent use.
package pitch
