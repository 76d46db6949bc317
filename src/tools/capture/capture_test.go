package capture

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	. "github.com/onsi/gomega"

	"dotpaccel/src/harness"
	"dotpaccel/src/lib/dot"
	"dotpaccel/src/lib/uart"
)

func normalize(chunks ...string) string {
	var out bytes.Buffer
	n := NewNormalizer(&out)
	for _, c := range chunks {
		n.Write([]byte(c))
	}
	return out.String()
}

func TestNormalizer(t *testing.T) {
	cases := []struct {
		chunks   []string
		expected string
	}{
		{[]string{"a\r\nb\r\n"}, "a\nb\n"},
		{[]string{"a\rb\r"}, "a\nb\n"},
		{[]string{"a\nb\n"}, "a\nb\n"},
		{[]string{"a\r", "\nb"}, "a\nb"},
		{[]string{"a\r", "\r\n"}, "a\n\n"},
		{[]string{"\r\n\r\n"}, "\n\n"},
		{[]string{"a\n\r"}, "a\n\n"},
	}
	for _, c := range cases {
		if got := normalize(c.chunks...); got != c.expected {
			t.Errorf("%q: expected %q but got %q", c.chunks, c.expected, got)
		}
	}
}

func TestCopyTee(t *testing.T) {
	var log, console bytes.Buffer
	in := iotest.OneByteReader(strings.NewReader("x\r\ny\rz\r\n"))
	if err := Copy(in, &log, &console); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.String() != "x\ny\nz\n" || console.String() != log.String() {
		t.Errorf("unexpected copies %q and %q", log.String(), console.String())
	}
}

func TestCopyError(t *testing.T) {
	boom := errors.New("unplugged")
	var out bytes.Buffer
	in := iotest.DataErrReader(iotest.ErrReader(boom))
	if err := Copy(in, &out); !errors.Is(err, boom) {
		t.Errorf("expected the read error, got %v", err)
	}
}

// The capture of a real run goes through the same writer as the firmware.
func firmwareOutput(t *testing.T, hw harness.Computer) string {
	var b uart.Buffer
	r := harness.NewRunner(hw, uart.NewWriter(&b), harness.WithCPU("VexRiscv"))
	r.Run(harness.DemoA, harness.DemoB)
	var out bytes.Buffer
	if err := Copy(&b, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out.String()
}

type fixed int64

func (f fixed) Compute(_, _ dot.Vector) int64 { return int64(f) }

func TestParseReports(t *testing.T) {
	g := NewWithT(t)
	capture := "boot noise\n" +
		firmwareOutput(t, fixed(-8)) +
		"\nLiteX Dot-Product Accelerator Demo\nCPU: VexRiscv\nSoftware: 0xFFFF" + //reset mid line
		firmwareOutput(t, fixed(8))

	reports, err := ParseReports(strings.NewReader(capture))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(reports).To(Equal([]Report{
		{CPU: "VexRiscv", Software: -8, Hardware: -8, Verdict: Match},
		{CPU: "VexRiscv", Software: -8, Hardware: 8, Verdict: Mismatch},
	}))

	last, err := Last(strings.NewReader(capture))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(last.Verdict).To(Equal(Mismatch))
	g.Expect(last.Verdict.String()).To(Equal("mismatch"))
}

func TestParseReportsBadNumber(t *testing.T) {
	_, err := ParseReports(strings.NewReader("LiteX Dot-Product Accelerator Demo\nSoftware: 0xZZ\n"))
	if err == nil {
		t.Errorf("expected a parse error")
	}
}

func TestLastEmpty(t *testing.T) {
	if _, err := Last(strings.NewReader("nothing here\n")); !errors.Is(err, ErrNoReport) {
		t.Errorf("expected ErrNoReport, got %v", err)
	}
}
