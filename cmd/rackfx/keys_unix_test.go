//go:build unix

package main

import (
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cwbudde/algo-rack/dsp/voice"
)

func TestStdinKeysStopUnblocksReader(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	defer r.Close()
	defer w.Close()

	keys, err := openStdinKeys(int(r.Fd()))
	if err != nil {
		t.Fatalf("openStdinKeys() error = %v", err)
	}

	var inputs atomic.Pointer[voice.Inputs]
	inputs.Store(&voice.Inputs{BaseFreq: 220})

	quit := make(chan struct{})
	go readKeys(keys, &inputs, quit)

	if _, err := w.Write([]byte("g")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for inputs.Load().Transpose != 7 {
		if time.Now().After(deadline) {
			t.Fatal("key press not applied")
		}
		time.Sleep(time.Millisecond)
	}

	keys.Stop()
	select {
	case <-quit:
	case <-time.After(time.Second):
		t.Fatal("reader still blocked after Stop")
	}

	if err := keys.Restore(); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
}
