//go:build unix

package main

import (
	"errors"
	"io"
	"sync"
	"syscall"
	"time"
)

const keyPollInterval = 5 * time.Millisecond

// stdinKeys reads stdin in non-blocking mode so the key reader can be
// stopped without waiting for another key press.
type stdinKeys struct {
	fd      int
	stopCh  chan struct{}
	stopped sync.Once
}

func openStdinKeys(fd int) (*stdinKeys, error) {
	err := syscall.SetNonblock(fd, true)
	if err != nil {
		return nil, err
	}
	return &stdinKeys{fd: fd, stopCh: make(chan struct{})}, nil
}

// Read returns io.EOF once Stop has been called.
func (k *stdinKeys) Read(p []byte) (int, error) {
	for {
		select {
		case <-k.stopCh:
			return 0, io.EOF
		default:
		}

		n, err := syscall.Read(k.fd, p)
		if n > 0 {
			return n, nil
		}
		if err == nil || errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK) ||
			errors.Is(err, syscall.EINTR) {
			time.Sleep(keyPollInterval)
			continue
		}
		return 0, err
	}
}

// Stop ends pending and future reads.
func (k *stdinKeys) Stop() {
	k.stopped.Do(func() { close(k.stopCh) })
}

// Restore puts stdin back into blocking mode. Call after the reader has
// returned.
func (k *stdinKeys) Restore() error {
	return syscall.SetNonblock(k.fd, false)
}
