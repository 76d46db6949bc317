package uart

import (
	"bytes"
	"io"
)

// Buffer is a Channel that collects bytes in memory.  Busy makes it
// report not-ready for that many polls before each byte, like a full
// transmit FIFO.
type Buffer struct {
	bytes.Buffer
	Busy  int
	Polls int

	wait int
}

func (b *Buffer) ReadyToSend() bool {
	b.Polls++
	if b.wait > 0 {
		b.wait--
		return false
	}
	return true
}

func (b *Buffer) SendByte(c byte) {
	b.WriteByte(c)
	b.wait = b.Busy
}

// Stream is a Channel onto any io.Writer, e.g. os.Stdout on the host.
// Write errors are kept in Err and later bytes are dropped.
type Stream struct {
	W   io.Writer
	Err error
}

func (s *Stream) ReadyToSend() bool {
	return true
}

func (s *Stream) SendByte(c byte) {
	if s.Err != nil {
		return
	}
	_, s.Err = s.W.Write([]byte{c})
}
