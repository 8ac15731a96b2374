// Package osc drives a bank of oscillators from a voice.Modulator.
//
// Waveform synthesis sits behind the Oscillator interface. Naive is a
// plain, aliasing pulse/saw used for tests and demos; production code
// plugs in a band-limited implementation.
package osc
