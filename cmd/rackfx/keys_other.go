//go:build !unix

package main

import (
	"io"
	"os"
	"sync"
)

// stdinKeys reads stdin with blocking reads. Stop makes the next read
// report io.EOF; a read already in progress finishes on the next key.
type stdinKeys struct {
	stopCh  chan struct{}
	stopped sync.Once
}

func openStdinKeys(int) (*stdinKeys, error) {
	return &stdinKeys{stopCh: make(chan struct{})}, nil
}

func (k *stdinKeys) Read(p []byte) (int, error) {
	select {
	case <-k.stopCh:
		return 0, io.EOF
	default:
	}
	return os.Stdin.Read(p)
}

func (k *stdinKeys) Stop() {
	k.stopped.Do(func() { close(k.stopCh) })
}

func (k *stdinKeys) Restore() error { return nil }
