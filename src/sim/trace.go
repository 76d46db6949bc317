package sim

import (
	"errors"
	"fmt"

	"dotpaccel/src/hardware/dotp"
	"dotpaccel/src/lib/dot"
)

type Kind int

const (
	Write Kind = iota
	Read
)

func (k Kind) String() string {
	if k == Write {
		return "W"
	}
	return "R"
}

// Access is one bus transaction seen by the simulator.  State is the
// device state at the time of the access, before the clock ticked.
type Access struct {
	Cycle    uint64
	Kind     Kind
	Register dotp.Register
	Value    uint32
	State    State
}

func (a Access) String() string {
	return fmt.Sprintf("%6d %s %-9s 0x%08X %s", a.Cycle, a.Kind, a.Register, a.Value, a.State)
}

var ErrProtocol = errors.New("protocol violation")

func protocolErr(i int, a Access, format string, args ...interface{}) error {
	return fmt.Errorf("%w at access %d (%s): %s", ErrProtocol, i, a, fmt.Sprintf(format, args...))
}

// CheckProtocol verifies that a trace of exactly one operation follows the
// pulse discipline:
//
//   - all sixteen operand registers are written before start goes high
//   - start goes back to 0 before done is first read
//   - no operand is written after start went high
//   - the result is read only after done was read as 1
//   - the last value written to start is 0
func CheckProtocol(trace []Access) error {
	loaded := map[dotp.Register]bool{}
	started, cleared, doneSeen := false, false, false
	lastStart := uint32(0)
	for i, a := range trace {
		switch {
		case a.Kind == Write && a.Register.IsOperand():
			if started {
				return protocolErr(i, a, "operand written after start")
			}
			loaded[a.Register] = true
		case a.Kind == Write && a.Register == dotp.Start:
			lastStart = a.Value
			if a.Value != 0 {
				if started {
					return protocolErr(i, a, "start raised twice")
				}
				if len(loaded) != 2*dot.Len {
					return protocolErr(i, a, "start raised after only %d operand writes", len(loaded))
				}
				started = true
			} else if started {
				cleared = true
			}
		case a.Kind == Read && a.Register == dotp.Done:
			if !started {
				return protocolErr(i, a, "done polled before start")
			}
			if !cleared {
				return protocolErr(i, a, "done polled while start is still high")
			}
			if a.Value&dotp.DoneMask != 0 {
				doneSeen = true
			}
		case a.Kind == Read && (a.Register == dotp.ResultLo || a.Register == dotp.ResultHi):
			if !doneSeen {
				return protocolErr(i, a, "result read before done")
			}
		}
	}
	if !started {
		return fmt.Errorf("%w: start never raised", ErrProtocol)
	}
	if lastStart != 0 {
		return fmt.Errorf("%w: start left high", ErrProtocol)
	}
	return nil
}
