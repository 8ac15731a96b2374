// Package echo analyzes the impulse response of a feedback echo.
//
// Given a response and the echo period in samples, Analyze locates the tap
// peaks, fits their geometric decay to estimate the feedback gain and
// extrapolates the time to a 60 dB decay.
//
// # Usage
//
//	analyzer := echo.NewAnalyzer(48000)
//	res, err := analyzer.Analyze(ir, 14400)
//	fmt.Printf("feedback %.2f, RT60 %.2f s\n", res.Feedback, res.RT60)
package echo
