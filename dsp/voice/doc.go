// Package voice derives per-voice oscillator controls for a small polyphonic
// chord voice.
//
// A Modulator maps one Inputs snapshot per tick to per-voice frequencies,
// aftertouch values and gains. Two mutually exclusive modes are selected by
// pitch-bend magnitude alone:
//
//   - ModeChord (|bend| < deadband): each voice plays base * ratio from the
//     selected voicing row; detune and bend are not applied.
//   - ModeGlide (|bend| >= deadband): the voicing is bypassed and every voice
//     follows base * 2^(bend/12), spread only by detune[v]^spread.
//
// The coupling is intentional: releasing the bend returns to the chord.
//
// Voicing tables are installed whole, either at construction or through
// SetVoicings/LoadState from a non-audio goroutine. The audio goroutine sees
// one table per tick. Per-tick methods write into caller-owned fixed arrays
// and never allocate.
package voice
