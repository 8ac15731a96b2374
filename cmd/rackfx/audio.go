package main

import (
	"encoding/binary"
	"io"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-rack/dsp/effects"
	"github.com/cwbudde/algo-rack/dsp/osc"
	"github.com/cwbudde/algo-rack/dsp/voice"
)

const bytesPerFrame = 2 * 4 // stereo float32

// engine renders the voice bank through softclip and echo as interleaved
// stereo float32 for the audio player.
type engine struct {
	inputs *atomic.Pointer[voice.Inputs]
	bank   *osc.Bank
	clip   *effects.Softclip
	echo   *effects.Echo
	level  float64

	mono  []float64
	left  []float64
	right []float64
}

func newEngine(inputs *atomic.Pointer[voice.Inputs], bank *osc.Bank, clip *effects.Softclip,
	echo *effects.Echo, level float64, blockSize int,
) *engine {
	return &engine{
		inputs: inputs,
		bank:   bank,
		clip:   clip,
		echo:   echo,
		level:  level,
		mono:   make([]float64, blockSize),
		left:   make([]float64, blockSize),
		right:  make([]float64, blockSize),
	}
}

// Read implements io.Reader for the audio player. The control snapshot is
// loaded once per call. Only whole frames are written; a buffer shorter
// than one frame returns io.ErrShortBuffer.
func (e *engine) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerFrame
	if frames == 0 && len(p) > 0 {
		return 0, io.ErrShortBuffer
	}
	in := e.inputs.Load()

	for done := 0; done < frames; {
		n := min(frames-done, len(e.mono))
		e.render(in, n)

		out := p[done*bytesPerFrame:]
		for i := 0; i < n; i++ {
			binary.LittleEndian.PutUint32(out[i*8:], math.Float32bits(float32(e.left[i])))
			binary.LittleEndian.PutUint32(out[i*8+4:], math.Float32bits(float32(e.right[i])))
		}
		done += n
	}
	return frames * bytesPerFrame, nil
}

func (e *engine) render(in *voice.Inputs, n int) {
	mono := e.mono[:n]
	e.bank.ProcessBlock(mono, in)
	osc.ApplyLevel(mono, e.level)
	e.clip.ProcessInPlace(mono)
	e.echo.ProcessBlock(0, mono, e.left[:n], e.right[:n])
}
