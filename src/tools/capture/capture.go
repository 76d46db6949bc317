// Package capture records what a board prints on its serial console and
// reads the demo's verdict back out of it.
package capture

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const ChunkSize = 1024

// Normalizer turns the console's line endings (\r\n or a lone \r) into \n.
// It keeps state between writes, so a \r\n split across two reads is
// still one line ending.
type Normalizer struct {
	w      io.Writer
	lastCR bool
	buf    []byte
}

func NewNormalizer(w io.Writer) *Normalizer {
	return &Normalizer{w: w}
}

// Write reports len(p) on success; the bytes reaching the underlying writer
// can be fewer.
func (n *Normalizer) Write(p []byte) (int, error) {
	n.buf = n.buf[:0]
	for _, b := range p {
		switch {
		case b == '\r':
			n.buf = append(n.buf, '\n')
			n.lastCR = true
			continue
		case b == '\n' && n.lastCR:
			//second half of \r\n
		default:
			n.buf = append(n.buf, b)
		}
		n.lastCR = false
	}
	if len(n.buf) == 0 {
		return len(p), nil
	}
	if _, err := n.w.Write(n.buf); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Copy reads r in ChunkSize pieces until EOF, writing each normalized chunk
// to every dst as soon as it arrives.  A clean EOF is not an error.
func Copy(r io.Reader, dst ...io.Writer) error {
	n := NewNormalizer(io.MultiWriter(dst...))
	chunk := make([]byte, ChunkSize)
	for {
		c, err := r.Read(chunk)
		if c > 0 {
			if _, werr := n.Write(chunk[:c]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

var ErrNoReport = errors.New("no complete report in capture")

type Verdict int

const (
	Unknown Verdict = iota
	Match
	Mismatch
	Timeout
)

func (v Verdict) String() string {
	switch v {
	case Match:
		return "match"
	case Mismatch:
		return "mismatch"
	case Timeout:
		return "timeout"
	}
	return "unknown"
}

// Report is one run of the demo as it appears on the console.
type Report struct {
	CPU      string
	Software int64
	Hardware int64
	Verdict  Verdict
}

// ParseReports finds every demo run in a capture.  A board that was reset
// mid-capture prints more than one banner; a run cut off before its
// verdict is dropped.
func ParseReports(r io.Reader) ([]Report, error) {
	var reports []Report
	var cur *Report
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		switch {
		case line == "LiteX Dot-Product Accelerator Demo":
			cur = &Report{}
		case cur == nil:
		case strings.HasPrefix(line, "CPU: "):
			cur.CPU = strings.TrimPrefix(line, "CPU: ")
		case strings.HasPrefix(line, "Software: "):
			v, err := parseHex(strings.TrimPrefix(line, "Software: "))
			if err != nil {
				return reports, err
			}
			cur.Software = v
		case strings.HasPrefix(line, "Hardware: "):
			v, err := parseHex(strings.TrimPrefix(line, "Hardware: "))
			if err != nil {
				return reports, err
			}
			cur.Hardware = v
		case strings.HasPrefix(line, "[OK]"):
			cur.Verdict = Match
		case line == "[ERROR] accelerator did not finish":
			cur.Verdict = Timeout
		case strings.HasPrefix(line, "[ERROR]"):
			cur.Verdict = Mismatch
		}
		if cur != nil && cur.Verdict != Unknown {
			reports = append(reports, *cur)
			cur = nil
		}
	}
	return reports, s.Err()
}

// Last is the final complete report in a capture.
func Last(r io.Reader) (Report, error) {
	reports, err := ParseReports(r)
	if err != nil {
		return Report{}, err
	}
	if len(reports) == 0 {
		return Report{}, ErrNoReport
	}
	return reports[len(reports)-1], nil
}

// parseHex reads the firmware's 0x%016X rendering back into a signed value.
func parseHex(s string) (int64, error) {
	u, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("bad result %q: %w", s, err)
	}
	return int64(u), nil
}
