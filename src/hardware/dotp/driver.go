package dotp

import (
	"errors"

	"dotpaccel/src/lib/dot"
)

// ErrNotDone is returned by ComputeWithin when the done flag never came up.
// The accelerator is in an unknown state after this.
var ErrNotDone = errors.New("accelerator did not assert done")

// Observer hears about each completed poll loop.  polls is the number of
// done reads, including the one that saw done set.
type Observer interface {
	DonePolled(polls int)
}

// Accelerator drives one dot-product peripheral.  It keeps no copy of the
// device state, every decision comes from a fresh register read.  It is
// not safe for concurrent use; there is exactly one caller per peripheral.
type Accelerator struct {
	regs     RegisterFile
	delay    Delay
	observer Observer
}

type Option func(*Accelerator)

// WithDelay replaces the spin loop used to stretch the start pulse.
func WithDelay(d Delay) Option {
	return func(a *Accelerator) {
		a.delay = d
	}
}

// WithObserver attaches an Observer.
func WithObserver(o Observer) Option {
	return func(a *Accelerator) {
		a.observer = o
	}
}

func NewAccelerator(regs RegisterFile, opts ...Option) *Accelerator {
	a := &Accelerator{
		regs:  regs,
		delay: SpinDelay{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Compute runs one operation: load, pulse start, wait for done, read the
// result.  It blocks until the hardware says done.  If the hardware never
// does, Compute never returns; use ComputeWithin to bound the wait.
func (a *Accelerator) Compute(x, y dot.Vector) int64 {
	a.LoadOperands(x, y)
	a.PulseStart()
	a.WaitDone()
	return a.ReadResult()
}

// ComputeWithin is Compute with at most maxPolls reads of the done flag.
// A maxPolls of zero or less means no bound.
func (a *Accelerator) ComputeWithin(x, y dot.Vector, maxPolls int) (int64, error) {
	if maxPolls <= 0 {
		return a.Compute(x, y), nil
	}
	a.LoadOperands(x, y)
	a.PulseStart()
	if !a.waitDone(maxPolls) {
		return 0, ErrNotDone
	}
	return a.ReadResult(), nil
}

// LoadOperands writes all sixteen operand registers.  The order among
// them does not matter to the hardware; a then b is what the gateware
// declares.
func (a *Accelerator) LoadOperands(x, y dot.Vector) {
	for i := 0; i < dot.Len; i++ {
		a.regs.WriteRegister(OperandA(i), uint32(x[i]))
	}
	for i := 0; i < dot.Len; i++ {
		a.regs.WriteRegister(OperandB(i), uint32(y[i]))
	}
}

// PulseStart raises start, holds it for StartPulseCycles and drops it.
// Start must not still be high when the accelerator reaches done, or it
// will take that as a new request and compute again.
func (a *Accelerator) PulseStart() {
	a.regs.WriteRegister(Start, StartActive)
	a.delay.WaitCycles(StartPulseCycles)
	a.regs.WriteRegister(Start, StartInactive)
}

// WaitDone spins on the done flag.
func (a *Accelerator) WaitDone() {
	a.waitDone(0)
}

// waitDone returns false only if limit > 0 and limit reads all saw done
// clear.
func (a *Accelerator) waitDone(limit int) bool {
	polls := 0
	for {
		polls++
		if a.regs.ReadRegister(Done)&DoneMask != 0 {
			break
		}
		if limit > 0 && polls >= limit {
			return false
		}
	}
	if a.observer != nil {
		a.observer.DonePolled(polls)
	}
	return true
}

// ReadResult reads both halves of the result.  Only valid once done has
// been seen; the hardware holds both words stable until the next start.
func (a *Accelerator) ReadResult() int64 {
	lo := a.regs.ReadRegister(ResultLo)
	hi := a.regs.ReadRegister(ResultHi)
	return AssembleResult(lo, hi)
}

// AssembleResult joins the two result words.  hi carries the sign.
func AssembleResult(lo, hi uint32) int64 {
	return int64(int32(hi))<<32 | int64(lo)
}

// SplitResult is the inverse of AssembleResult, used by the simulator.
func SplitResult(v int64) (lo, hi uint32) {
	return uint32(uint64(v)), uint32(uint64(v) >> 32)
}
