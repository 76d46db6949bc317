package uart

// Channel is a byte sink with flow control, the shape of a simple UART
// transmitter.
type Channel interface {
	ReadyToSend() bool
	SendByte(b byte)
}

// Null is the channel to use when the SoC has no UART.  It is always
// ready and drops everything.
type Null struct{}

func (Null) ReadyToSend() bool { return true }
func (Null) SendByte(byte)     {}

const hexDigits = "0123456789ABCDEF"

// Writer does the formatting the firmware needs on top of a Channel.
// Nothing here allocates, so it is usable before the heap is.
type Writer struct {
	ch Channel
}

// NewWriter wraps ch.  A nil ch gets Null.
func NewWriter(ch Channel) *Writer {
	if ch == nil {
		ch = Null{}
	}
	return &Writer{ch: ch}
}

//
// Writing a byte.  Blocks until the channel can take it.
//
func (w *Writer) WriteByte(c byte) error {
	for !w.ch.ReadyToSend() {
	}
	w.ch.SendByte(c)
	return nil
}

//
// Write a CR and an LF.
//
func (w *Writer) WriteCR() error {
	w.WriteByte('\r')
	return w.WriteByte('\n')
}

// WriteString sends s, turning each \n into \r\n for terminals.
func (w *Writer) WriteString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			w.WriteByte('\r')
		}
		w.WriteByte(s[i])
	}
	return len(s), nil
}

// Write makes Writer an io.Writer, with the same newline translation as
// WriteString.
func (w *Writer) Write(p []byte) (int, error) {
	for _, c := range p {
		if c == '\n' {
			w.WriteByte('\r')
		}
		w.WriteByte(c)
	}
	return len(p), nil
}

// Hex32 prints 0x followed by 8 uppercase hex digits.
func (w *Writer) Hex32(d uint32) {
	w.WriteString("0x")
	w.hex(uint64(d), 32)
}

// Hex64 prints 0x followed by 16 uppercase hex digits.
func (w *Writer) Hex64(d uint64) {
	w.WriteString("0x")
	w.hex(d, 64)
}

func (w *Writer) hex(d uint64, bits uint) {
	for rb := bits; rb > 0; {
		rb -= 4
		w.WriteByte(hexDigits[(d>>rb)&0xF])
	}
}
