package dotp

// StartPulseCycles is how long start is held high.  The accelerator
// samples start on its clock, so it has to stay asserted for at least a
// couple of SoC cycles; 16 leaves plenty of margin on a VexRiscv.
const StartPulseCycles = 16

// Delay waits for at least n cycles of whatever clock it measures.  The
// driver only uses it to stretch the start pulse.
type Delay interface {
	WaitCycles(n int)
}

// spinSink is written by SpinDelay so the loop has an observable effect
// and the compiler keeps it.
var spinSink uint32

// SpinDelay busy-waits for n loop iterations.  Every iteration costs at
// least one CPU cycle, which is at least one SoC cycle on the targets we
// run on, so n iterations is a lower bound on n cycles.
type SpinDelay struct{}

func (SpinDelay) WaitCycles(n int) {
	for i := 0; i < n; i++ {
		spinSink++
	}
}

// DelayFunc adapts a function to Delay.
type DelayFunc func(n int)

func (f DelayFunc) WaitCycles(n int) {
	f(n)
}
