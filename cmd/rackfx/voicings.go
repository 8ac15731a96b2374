package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/cwbudde/algo-rack/dsp/voice"
)

// newModulator builds a modulator, optionally loading a persisted voicing
// blob. Malformed blobs are reported and the defaults kept.
func newModulator(voices int, statePath string) (*voice.Modulator, error) {
	mod, err := voice.New(voice.WithVoices(voices))
	if err != nil {
		return nil, err
	}

	if statePath == "" {
		return mod, nil
	}

	data, err := os.ReadFile(statePath)
	if err != nil {
		return nil, fmt.Errorf("read voicings: %w", err)
	}

	err = mod.LoadState(data)
	if errors.Is(err, voice.ErrMalformedState) {
		fmt.Fprintf(os.Stderr, "warning: %s: %v (using default voicings)\n", statePath, err)
		return mod, nil
	}
	if err != nil {
		return nil, err
	}
	return mod, nil
}
