package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
	"golang.org/x/term"

	"github.com/cwbudde/algo-rack/dsp/core"
	"github.com/cwbudde/algo-rack/dsp/effects"
	"github.com/cwbudde/algo-rack/dsp/osc"
	"github.com/cwbudde/algo-rack/dsp/voice"
)

// playSettings holds the play command's flag values.
type playSettings struct {
	rate      int
	block     int
	latency   time.Duration
	freq      float64
	voices    int
	statePath string
	wave      string
	level     float64
	drive     float64
	hardness  float64
	echoTime  float64 // ms, left side; the right side runs echoRightRatio longer
	echoFB    float64
	echoMix   float64
	duration  time.Duration
}

const (
	echoRightRatio = 1.5
	keyStopTimeout = 100 * time.Millisecond
)

func defaultPlaySettings() playSettings {
	return playSettings{
		rate:     48000,
		block:    256,
		latency:  40 * time.Millisecond,
		freq:     220,
		voices:   4,
		wave:     "saw",
		level:    0.2,
		hardness: 0.5,
		echoTime: 300,
		echoFB:   0.4,
		echoMix:  0.3,
	}
}

func (s *playSettings) register(fs *flag.FlagSet) {
	fs.IntVar(&s.rate, "rate", s.rate, "sample rate in Hz")
	fs.IntVar(&s.block, "block", s.block, "render block size in samples")
	fs.DurationVar(&s.latency, "latency", s.latency, "audio output buffer")
	fs.Float64Var(&s.freq, "freq", s.freq, "base frequency in Hz")
	fs.IntVar(&s.voices, "voices", s.voices, "active voice count")
	fs.StringVar(&s.statePath, "voicings", s.statePath, "persisted voicing JSON file")
	fs.StringVar(&s.wave, "wave", s.wave, "oscillator waveform (saw, pulse)")
	fs.Float64Var(&s.level, "level", s.level, "per-voice output level")
	fs.Float64Var(&s.drive, "drive", s.drive, "softclip gain exponent in [-1, 1]")
	fs.Float64Var(&s.hardness, "hardness", s.hardness, "softclip knee hardness in [0, 1]")
	fs.Float64Var(&s.echoTime, "echo-time", s.echoTime, "left echo time in milliseconds, right is 1.5x")
	fs.Float64Var(&s.echoFB, "echo-feedback", s.echoFB, "echo feedback in [0, 1]")
	fs.Float64Var(&s.echoMix, "echo-mix", s.echoMix, "echo wet amount in [0, 1]")
	fs.DurationVar(&s.duration, "duration", s.duration, "stop after this long (0 plays until q)")
}

// newPlayEngine builds the voice bank, softclip and echo chain for play.
func newPlayEngine(s playSettings, inputs *atomic.Pointer[voice.Inputs]) (*engine, core.ProcessorConfig, error) {
	cfg := core.ApplyProcessorOptions(core.WithSampleRate(float64(s.rate)), core.WithBlockSize(s.block))
	err := cfg.Validate()
	if err != nil {
		return nil, cfg, err
	}

	waveform := osc.WaveSaw
	switch s.wave {
	case "saw":
	case "pulse":
		waveform = osc.WavePulse
	default:
		return nil, cfg, fmt.Errorf("unknown waveform %q", s.wave)
	}

	mod, err := newModulator(s.voices, s.statePath)
	if err != nil {
		return nil, cfg, err
	}

	oscs := make([]osc.Oscillator, mod.Voices())
	for i := range oscs {
		o, err := osc.NewNaive(cfg.SampleRate, waveform)
		if err != nil {
			return nil, cfg, err
		}
		oscs[i] = o
	}

	bank, err := osc.NewBank(mod, oscs, osc.WithGainWeighting(true))
	if err != nil {
		return nil, cfg, err
	}

	clip, err := effects.NewSoftclip(effects.WithSoftclipGain(s.drive), effects.WithSoftclipHardness(s.hardness))
	if err != nil {
		return nil, cfg, err
	}

	left := s.echoTime / 1000
	right := left * echoRightRatio
	echo, err := effects.NewEcho(cfg.SampleRate,
		effects.WithEchoMaxTime(max(left, right, 0.001)),
		effects.WithEchoTimes(left, right),
		effects.WithEchoFeedback(s.echoFB, s.echoFB),
		effects.WithEchoMix(s.echoMix),
	)
	if err != nil {
		return nil, cfg, err
	}

	return newEngine(inputs, bank, clip, echo, s.level, cfg.BlockSize), cfg, nil
}

func runPlay(args []string) error {
	fs := newFlagSet("play", "Plays the chord voices through the system audio output.\n\n"+keyHelp)
	s := defaultPlaySettings()
	s.register(fs)

	err := fs.Parse(args)
	if err != nil {
		return err
	}

	var inputs atomic.Pointer[voice.Inputs]
	inputs.Store(&voice.Inputs{BaseFreq: s.freq, Spread: 1})

	eng, cfg, err := newPlayEngine(s, &inputs)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if s.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.duration)
		defer cancel()
	}

	player, closeAudio, err := openAudio(int(cfg.SampleRate), s.latency, eng)
	if err != nil {
		return err
	}
	defer closeAudio()

	player.Play()

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		fmt.Fprintf(os.Stderr, "stdin is not a terminal, playing without controls\n")
		<-ctx.Done()
		return nil
	}

	fmt.Fprint(os.Stderr, keyHelp)

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw terminal: %w", err)
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	keys, err := openStdinKeys(fd)
	if err != nil {
		return fmt.Errorf("keyboard: %w", err)
	}

	quit := make(chan struct{})
	go readKeys(keys, &inputs, quit)

	select {
	case <-ctx.Done():
	case <-quit:
	}

	keys.Stop()
	select {
	case <-quit:
	case <-time.After(keyStopTimeout):
	}
	_ = keys.Restore()

	fmt.Fprint(os.Stderr, "\r\n")
	return nil
}

func openAudio(rate int, latency time.Duration, src io.Reader) (*oto.Player, func(), error) {
	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   latency,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("audio output: %w", err)
	}
	<-ready

	player := otoCtx.NewPlayer(src)
	closeAudio := func() {
		_ = player.Close()
		_ = otoCtx.Suspend()
	}
	return player, closeAudio, nil
}

// readKeys applies key presses to the published inputs until quit or EOF.
// Each change publishes a fresh snapshot so the audio thread never sees a
// partially updated one.
func readKeys(r io.Reader, inputs *atomic.Pointer[voice.Inputs], quit chan<- struct{}) {
	defer close(quit)

	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if errors.Is(err, io.EOF) || (err != nil && n == 0) {
			return
		}
		if n == 0 {
			continue
		}

		next, action := applyKey(*inputs.Load(), buf[0])
		switch action {
		case keyQuit:
			return
		case keyChanged:
			inputs.Store(&next)
			fmt.Fprintf(os.Stderr, "\r%s\x1b[K", statusLine(&next))
		}
	}
}
