package voice

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedState reports persisted data that could not be used. The
// modulator keeps its current table when it is returned; callers may log it
// and carry on.
var ErrMalformedState = errors.New("voice: malformed persisted state")

// persistedState is the session blob: {"voicings": [[int, ...], ...]}.
type persistedState struct {
	Voicings Voicings `json:"voicings"`
}

// State serializes the installed voicing table.
func (m *Modulator) State() ([]byte, error) {
	return json.Marshal(persistedState{Voicings: m.Voicings()})
}

// LoadState installs the voicing table from a persisted blob. Shape problems
// are repaired instead of rejected: non-array rows become unison, non-numeric
// cells become 0, and rows are truncated or zero-filled to the voice count.
// A missing "voicings" key is a no-op. Unparseable JSON or an empty set keeps
// the current table and returns an error wrapping ErrMalformedState.
func (m *Modulator) LoadState(data []byte) error {
	vs, ok, err := DecodeVoicings(data)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if len(vs) == 0 {
		return fmt.Errorf("%w: empty voicing table", ErrMalformedState)
	}
	return m.SetVoicings(vs)
}

// DecodeVoicings leniently extracts the voicing rows from a persisted blob.
// ok is false when the blob carries no "voicings" key.
func DecodeVoicings(data []byte) (vs Voicings, ok bool, err error) {
	var root map[string]json.RawMessage

	err = json.Unmarshal(data, &root)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}

	raw, found := root["voicings"]
	if !found || string(raw) == "null" {
		return nil, false, nil
	}

	var rows []json.RawMessage

	err = json.Unmarshal(raw, &rows)
	if err != nil {
		return nil, false, fmt.Errorf("%w: voicings is not an array: %v", ErrMalformedState, err)
	}

	vs = make(Voicings, len(rows))
	for i, rawRow := range rows {
		vs[i] = decodeRow(rawRow)
	}
	return vs, true, nil
}

func decodeRow(raw json.RawMessage) []float64 {
	var cells []json.RawMessage
	if json.Unmarshal(raw, &cells) != nil {
		return nil
	}

	row := make([]float64, len(cells))
	for j, cell := range cells {
		var v float64
		if json.Unmarshal(cell, &v) == nil {
			row[j] = v
		}
	}
	return row
}
