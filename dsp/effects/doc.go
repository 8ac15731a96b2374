// Package effects provides the rack's signal and control processors.
//
//   - Echo: polyphonic mono-in, stereo-out feedback echo built on delay.Line.
//   - Softclip: gain stage with a tanh knee of adjustable hardness.
//   - Morph: control-voltage crossfade between two stored voltages.
//
// Tick methods are allocation-free and never return errors; setters
// validate and report out-of-range values.
package effects
