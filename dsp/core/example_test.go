package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-rack/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(44100),
		core.WithBlockSize(128),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d\n", cfg.SampleRate, cfg.BlockSize)

	// Output:
	// sampleRate=44100 blockSize=128
}

func ExampleWrapIndex() {
	fmt.Println(core.WrapIndex(12, 10), core.WrapIndex(-1, 10))

	// Output:
	// 2 9
}
