//go:build !tinygo

package uart

import (
	"fmt"

	tty "github.com/mattn/go-tty"
)

// TTY is a Channel onto a serial port or pseudo terminal on the host, so
// the harness output can be watched with the same capture tools used for
// the real board.
type TTY struct {
	io      *tty.TTY
	restore func() error
	err     error
}

// OpenTTY opens the device at path and puts it in raw mode, so the \r\n
// pairs the Writer produces go out untouched.
func OpenTTY(path string) (*TTY, error) {
	t, err := tty.OpenDevice(path)
	if err != nil {
		return nil, fmt.Errorf("open tty %s: %w", path, err)
	}
	restore, err := t.Raw()
	if err != nil {
		t.Close()
		return nil, fmt.Errorf("raw mode on %s: %w", path, err)
	}
	return &TTY{io: t, restore: restore}, nil
}

func (t *TTY) ReadyToSend() bool {
	return true
}

// SendByte writes one byte.  The first write error is kept for Err and
// later bytes are dropped.
func (t *TTY) SendByte(b byte) {
	if t.err != nil {
		return
	}
	if _, err := t.io.Output().Write([]byte{b}); err != nil {
		t.err = err
	}
}

// Err is the first write error, if any.
func (t *TTY) Err() error {
	return t.err
}

func (t *TTY) Close() error {
	if t.restore != nil {
		t.restore()
	}
	return t.io.Close()
}
