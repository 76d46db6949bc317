package harness

import (
	"github.com/go-logr/logr"

	"dotpaccel/src/lib/dot"
	"dotpaccel/src/lib/uart"
)

// The vectors the firmware has always checked.  Their dot product is -8.
var (
	DemoA = dot.Vector{1, -2, 3, -4, 5, -6, 7, -8}
	DemoB = dot.Vector{8, 7, -6, -5, 4, 3, -2, -1}
)

const Banner = "\nLiteX Dot-Product Accelerator Demo\n"

// Computer runs one dot product on the hardware.
type Computer interface {
	Compute(a, b dot.Vector) int64
}

// BoundedComputer can give up after a number of done polls.
type BoundedComputer interface {
	ComputeWithin(a, b dot.Vector, maxPolls int) (int64, error)
}

// Recorder hears about every check.  Implementations used by the sweep
// must be safe for concurrent use.
type Recorder interface {
	Checked(r Report)
	TimedOut()
}

// Report is the outcome of one check.  A mismatch is a verdict, not an
// error.
type Report struct {
	A, B     dot.Vector
	Software int64
	Hardware int64
	Match    bool
}

// Runner compares the accelerator against the software reference and
// tells the UART about it.
type Runner struct {
	hw       Computer
	out      *uart.Writer
	log      logr.Logger
	rec      Recorder
	cpu      string
	maxPolls int
}

type Option func(*Runner)

// WithCPU sets the CPU description printed under the banner.
func WithCPU(desc string) Option {
	return func(r *Runner) { r.cpu = desc }
}

func WithLogger(log logr.Logger) Option {
	return func(r *Runner) { r.log = log }
}

func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.rec = rec }
}

// WithMaxPolls bounds the wait for done, if the Computer supports it.
// Zero keeps the unbounded wait.
func WithMaxPolls(n int) Option {
	return func(r *Runner) { r.maxPolls = n }
}

// NewRunner builds a Runner.  A nil out means nothing is printed.
func NewRunner(hw Computer, out *uart.Writer, opts ...Option) *Runner {
	if out == nil {
		out = uart.NewWriter(nil)
	}
	r := &Runner{
		hw:  hw,
		out: out,
		log: logr.Discard(),
		cpu: "unknown",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Check computes a·b both ways without printing.  The only error is the
// accelerator not finishing within the poll bound.
func (r *Runner) Check(a, b dot.Vector) (Report, error) {
	rep := Report{A: a, B: b, Software: dot.Product(a, b)}
	bounded, ok := r.hw.(BoundedComputer)
	if r.maxPolls > 0 && ok {
		hw, err := bounded.ComputeWithin(a, b, r.maxPolls)
		if err != nil {
			r.log.Error(err, "accelerator timed out", "maxPolls", r.maxPolls)
			if r.rec != nil {
				r.rec.TimedOut()
			}
			return rep, err
		}
		rep.Hardware = hw
	} else {
		rep.Hardware = r.hw.Compute(a, b)
	}
	rep.Match = rep.Hardware == rep.Software
	r.log.V(1).Info("checked", "software", rep.Software, "hardware", rep.Hardware, "match", rep.Match)
	if r.rec != nil {
		r.rec.Checked(rep)
	}
	return rep, nil
}

// Run prints the banner, checks a·b and prints both results and the
// verdict, the way the firmware reports over the UART.
func (r *Runner) Run(a, b dot.Vector) (Report, error) {
	r.out.WriteString(Banner)
	r.out.WriteString("CPU: ")
	r.out.WriteString(r.cpu)
	r.out.WriteString("\n")

	rep, err := r.Check(a, b)
	r.out.WriteString("Software: ")
	r.out.Hex64(uint64(rep.Software))
	r.out.WriteString("\n")
	if err != nil {
		r.out.WriteString("[ERROR] accelerator did not finish\n")
		return rep, err
	}
	r.out.WriteString("Hardware: ")
	r.out.Hex64(uint64(rep.Hardware))
	r.out.WriteString("\n")
	if rep.Match {
		r.out.WriteString("[OK] results match\n")
	} else {
		r.out.WriteString("[ERROR] results differ\n")
	}
	return rep, nil
}
