package sim

import (
	"fmt"

	"dotpaccel/src/hardware/dotp"
	"dotpaccel/src/lib/dot"
)

// DefaultLatency is how many clock cycles the simulated accelerator spends
// between capturing its operands and raising done.
const DefaultLatency = 8

type State int

const (
	Idle State = iota
	Computing
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Computing:
		return "COMPUTING"
	case Finished:
		return "DONE"
	}
	return "unknown"
}

// Config shapes the simulated device.  The zero value is a well behaved
// accelerator with DefaultLatency.
type Config struct {
	// Latency in cycles from start being seen to done.
	Latency int
	// OneShotDone makes done clear itself once it has been read as 1, and
	// sends the device straight back to IDLE.  This is the other firmware
	// variant's assumption about the hardware.
	OneShotDone bool
	// Fault, if set, is applied to the computed result before it is
	// published, to model a broken datapath.
	Fault func(int64) int64
	// Hang stops the device from ever finishing.
	Hang bool
}

// ResultOffset is a Fault that adds delta to every result.
func ResultOffset(delta int64) func(int64) int64 {
	return func(v int64) int64 {
		return v + delta
	}
}

// Accelerator is a cycle driven model of the dot-product peripheral.  It
// implements dotp.RegisterFile; every register access costs one clock
// cycle, applied after the access.  It also implements dotp.Delay by
// letting the clock run.
//
// The state machine is IDLE -> COMPUTING -> DONE.  In IDLE or DONE a start
// level of 1 captures the operands and begins a computation, so a start
// left high when done comes up makes the device compute again.
type Accelerator struct {
	cfg        Config
	regs       [dotp.NumRegisters]uint32
	state      State
	cycle      uint64
	busy       int
	a, b       dot.Vector
	starts     int
	trace      []Access
	violations []Violation
}

var _ dotp.RegisterFile = (*Accelerator)(nil)
var _ dotp.Delay = (*Accelerator)(nil)

func New(cfg Config) *Accelerator {
	if cfg.Latency <= 0 {
		cfg.Latency = DefaultLatency
	}
	return &Accelerator{cfg: cfg}
}

func (s *Accelerator) WriteRegister(r dotp.Register, value uint32) {
	switch {
	case !r.Valid() || !r.Writable():
		s.violate(r, "write to a register that is not writable")
	default:
		if r.IsOperand() && s.state == Computing {
			s.violate(r, "operand written while computing")
		}
		if r == dotp.Start {
			value &= 1
		}
		s.regs[r] = value
	}
	s.record(Write, r, value)
	s.Tick()
}

func (s *Accelerator) ReadRegister(r dotp.Register) uint32 {
	var value uint32
	switch {
	case !r.Valid() || !r.Readable():
		s.violate(r, "read of a register that is not readable")
	default:
		value = s.regs[r]
		if r == dotp.Done && value != 0 && s.cfg.OneShotDone {
			s.regs[dotp.Done] = 0
			s.state = Idle
		}
	}
	s.record(Read, r, value)
	s.Tick()
	return value
}

// WaitCycles lets the clock run for n cycles.
func (s *Accelerator) WaitCycles(n int) {
	for i := 0; i < n; i++ {
		s.Tick()
	}
}

// Tick advances the device one clock cycle.
func (s *Accelerator) Tick() {
	s.cycle++
	start := s.regs[dotp.Start]&1 != 0
	switch s.state {
	case Idle, Finished:
		if start {
			s.capture()
		}
	case Computing:
		s.busy++
		if s.busy >= s.cfg.Latency && !s.cfg.Hang {
			s.finish()
		}
	}
}

func (s *Accelerator) capture() {
	for i := 0; i < dot.Len; i++ {
		s.a[i] = int32(s.regs[dotp.OperandA(i)])
		s.b[i] = int32(s.regs[dotp.OperandB(i)])
	}
	s.state = Computing
	s.busy = 0
	s.regs[dotp.Done] = 0
	s.starts++
}

func (s *Accelerator) finish() {
	result := dot.Product(s.a, s.b)
	if s.cfg.Fault != nil {
		result = s.cfg.Fault(result)
	}
	lo, hi := dotp.SplitResult(result)
	s.regs[dotp.ResultLo] = lo
	s.regs[dotp.ResultHi] = hi
	s.regs[dotp.Done] = 1
	s.state = Finished
}

func (s *Accelerator) record(kind Kind, r dotp.Register, value uint32) {
	s.trace = append(s.trace, Access{
		Cycle:    s.cycle,
		Kind:     kind,
		Register: r,
		Value:    value,
		State:    s.state,
	})
}

func (s *Accelerator) violate(r dotp.Register, why string) {
	s.violations = append(s.violations, Violation{Cycle: s.cycle, Register: r, Reason: why})
}

// State is the current device state, which the real hardware does not
// expose.
func (s *Accelerator) State() State {
	return s.state
}

// Cycle is the number of clock cycles so far.
func (s *Accelerator) Cycle() uint64 {
	return s.cycle
}

// Starts counts how many computations the device has begun.  A correct
// driver causes exactly one per operation.
func (s *Accelerator) Starts() int {
	return s.starts
}

// Captured returns the operands latched by the last start.
func (s *Accelerator) Captured() (dot.Vector, dot.Vector) {
	return s.a, s.b
}

// Peek returns a register's value without a bus access, so it neither
// ticks the clock nor shows up in the trace.
func (s *Accelerator) Peek(r dotp.Register) uint32 {
	if !r.Valid() {
		return 0
	}
	return s.regs[r]
}

// Trace returns every register access in order.
func (s *Accelerator) Trace() []Access {
	return s.trace
}

// ClearTrace forgets the recorded accesses and violations, not the state.
func (s *Accelerator) ClearTrace() {
	s.trace = nil
	s.violations = nil
}

// Violations are accesses real hardware would not tolerate.
func (s *Accelerator) Violations() []Violation {
	return s.violations
}

type Violation struct {
	Cycle    uint64
	Register dotp.Register
	Reason   string
}

func (v Violation) String() string {
	return fmt.Sprintf("cycle %d: %s: %s", v.Cycle, v.Register, v.Reason)
}
