package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-rack/dsp/core"
)

// MinCapacity is the smallest buffer that can hold a one-sample delay.
const MinCapacity = 2

// Line is a circular delay line.
type Line struct {
	buffer   []float64
	writePos int
	readPos  int
	delay    int
}

// New returns a zeroed delay line of fixed capacity with a delay of one sample.
func New(capacity int) (*Line, error) {
	if capacity < MinCapacity {
		return nil, fmt.Errorf("%w: delay capacity must be >= %d: %d",
			core.ErrConfiguration, MinCapacity, capacity)
	}
	d := &Line{buffer: make([]float64, capacity)}
	d.SetDelayInt(1)
	return d, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// MaxDelay returns the longest delay the line supports.
func (d *Line) MaxDelay() int {
	return len(d.buffer) - 1
}

// Delay returns the current delay in samples.
func (d *Line) Delay() int {
	return d.delay
}

// SetDelay sets the delay from a possibly fractional sample count. The value
// is truncated toward zero and clamped to [1, Len()-1]; NaN selects 1.
// The read cursor jumps relative to the current write cursor, the buffer is
// left untouched.
func (d *Line) SetDelay(samples float64) {
	switch {
	case math.IsNaN(samples) || samples < 1:
		d.SetDelayInt(1)
	case samples >= float64(len(d.buffer)-1):
		d.SetDelayInt(len(d.buffer) - 1)
	default:
		d.SetDelayInt(int(samples))
	}
}

// SetDelayInt sets the delay in whole samples, clamped to [1, Len()-1].
func (d *Line) SetDelayInt(samples int) {
	size := len(d.buffer)
	if samples < 1 {
		samples = 1
	}
	if samples > size-1 {
		samples = size - 1
	}
	d.delay = samples
	d.readPos = (d.writePos - samples + size) % size
}

// Write stores one sample at the write cursor.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
}

// Read returns the sample at the read cursor.
func (d *Line) Read() float64 {
	return d.buffer[d.readPos]
}

// Advance moves both cursors one slot forward. Call exactly once per tick,
// after Read and Write.
func (d *Line) Advance() {
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
	d.readPos++
	if d.readPos >= len(d.buffer) {
		d.readPos = 0
	}
}

// Tick runs one read/write/advance cycle and returns the delayed sample.
func (d *Line) Tick(sample float64) float64 {
	out := d.buffer[d.readPos]
	d.Write(sample)
	d.Advance()
	return out
}

// Reset clears line state. The delay setting is kept.
func (d *Line) Reset() {
	core.Zero(d.buffer)
	d.writePos = 0
	d.SetDelayInt(d.delay)
}
