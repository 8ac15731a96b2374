package main

import (
	"fmt"

	"github.com/cwbudde/algo-rack/dsp/core"
	"github.com/cwbudde/algo-rack/dsp/voice"
)

type keyAction int

const (
	keyIgnored keyAction = iota
	keyChanged
	keyQuit
)

const (
	ctrlC          = 3
	aftertouchStep = 0.1
	spreadStep     = 0.5
	maxOctaveShift = 4
)

// pianoRow maps the home row to semitones above the base pitch.
var pianoRow = map[byte]float64{
	'a': 0, 'w': 1, 's': 2, 'e': 3, 'd': 4, 'f': 5, 't': 6,
	'g': 7, 'y': 8, 'h': 9, 'u': 10, 'j': 11, 'k': 12,
}

const keyHelp = `keys:
  a w s e d f t g y h u j k   play note (transpose)
  1..9 0                      select voicing 0..9
  z x                         octave down/up
  , .                         bend down/up one semitone, / resets
  [ ]                         aftertouch down/up
  - =                         spread down/up
  q                           quit
`

// applyKey returns in updated for one key press.
func applyKey(in voice.Inputs, key byte) (voice.Inputs, keyAction) {
	if st, ok := pianoRow[key]; ok {
		in.Transpose = st
		return in, keyChanged
	}

	switch {
	case key >= '1' && key <= '9':
		in.Voicing = int(key - '1')
	case key == '0':
		in.Voicing = 9
	case key == 'z':
		in.Octave = core.Clamp(in.Octave-1, -maxOctaveShift, maxOctaveShift)
	case key == 'x':
		in.Octave = core.Clamp(in.Octave+1, -maxOctaveShift, maxOctaveShift)
	case key == ',':
		in.PitchBend--
	case key == '.':
		in.PitchBend++
	case key == '/':
		in.PitchBend = 0
	case key == '[':
		in.Aftertouch = core.Clamp(in.Aftertouch-aftertouchStep, 0, 1)
	case key == ']':
		in.Aftertouch = core.Clamp(in.Aftertouch+aftertouchStep, 0, 1)
	case key == '-':
		in.Spread -= spreadStep
	case key == '=':
		in.Spread += spreadStep
	case key == 'q' || key == ctrlC:
		return in, keyQuit
	default:
		return in, keyIgnored
	}
	return in, keyChanged
}

func statusLine(in *voice.Inputs) string {
	return fmt.Sprintf("note %+3.0f  oct %+2.0f  voicing %d  bend %+3.0f  aft %.1f  spread %.1f",
		in.Transpose, in.Octave, in.Voicing, in.PitchBend, in.Aftertouch, in.Spread)
}
