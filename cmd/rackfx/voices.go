package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-rack/dsp/core"
	"github.com/cwbudde/algo-rack/dsp/voice"
)

func runVoices(args []string) error {
	fs := newFlagSet("voices", "Prints the modulator output for one set of inputs.")
	freq := fs.Float64("freq", core.FreqC4, "base frequency in Hz")
	volts := fs.Float64("volts", 0, "1 V/oct pitch CV added to the base frequency")
	transpose := fs.Float64("transpose", 0, "transpose in semitones")
	octave := fs.Float64("octave", 0, "octave shift")
	fine := fs.Float64("fine", 0, "fine tune in octaves")
	bend := fs.Float64("bend", 0, "pitch bend in semitones")
	voicing := fs.Int("voicing", 0, "voicing index, wraps around the table")
	spread := fs.Float64("spread", 1, "detune spread exponent in glide mode")
	aftertouch := fs.Float64("aftertouch", 0, "raw aftertouch")
	voices := fs.Int("voices", 4, "active voice count")
	statePath := fs.String("voicings", "", "persisted voicing JSON file")
	list := fs.Bool("list", false, "print the voicing table instead")
	state := fs.Bool("state", false, "print the voicing table as persisted JSON")

	err := fs.Parse(args)
	if err != nil {
		return err
	}

	mod, err := newModulator(*voices, *statePath)
	if err != nil {
		return err
	}

	switch {
	case *state:
		data, err := mod.State()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	case *list:
		printVoicings(mod.Voicings())
		return nil
	}

	in := voice.Inputs{
		BaseFreq:   *freq * core.VoltsToHz(*volts) / core.FreqC4,
		Transpose:  *transpose,
		Octave:     *octave,
		FineTune:   *fine,
		PitchBend:  *bend,
		Voicing:    *voicing,
		Spread:     *spread,
		Aftertouch: *aftertouch,
	}

	var frame voice.Frame
	mod.Process(&in, &frame)

	return writeVoiceTable(os.Stdout, &in, &frame)
}

// writeVoiceTable prints one row per active voice. The semitone column is
// relative to the base frequency and shows "-" when either is not positive.
func writeVoiceTable(out io.Writer, in *voice.Inputs, frame *voice.Frame) error {
	fmt.Fprintf(out, "mode: %s\n\n", frame.Mode)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "voice\tfreq Hz\tsemitones\taftertouch\tgain\t\n")
	for v := 0; v < frame.Voices; v++ {
		st := "-"
		if in.BaseFreq > 0 && frame.Freq[v] > 0 {
			st = fmt.Sprintf("%+.2f", core.RatioToSemitones(frame.Freq[v]/in.BaseFreq))
		}
		fmt.Fprintf(w, "%d\t%.3f\t%s\t%.4f\t%.3f\t\n",
			v,
			frame.Freq[v],
			st,
			frame.Aftertouch[v],
			frame.Gain[v],
		)
	}
	return w.Flush()
}

func printVoicings(vs voice.Voicings) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "index\tsemitones\t\n")
	for i, row := range vs {
		fmt.Fprintf(w, "%d\t%v\t\n", i, row)
	}
	_ = w.Flush()
}
