package dotp

import "fmt"

// Register names one CSR of the dot-product peripheral.  The numbering
// follows the order the gateware declares them, which is also the order
// LiteX lays them out in the CSR space.
type Register int

const (
	A0 Register = iota
	A1
	A2
	A3
	A4
	A5
	A6
	A7
	B0
	B1
	B2
	B3
	B4
	B5
	B6
	B7
	Start    // write-only, bit 0 significant, edge-triggers a computation
	Done     // read-only, level, 1 once the result registers are valid
	ResultLo // read-only, low 32 bits of the signed result
	ResultHi // read-only, high 32 bits of the signed result

	NumRegisters = int(ResultHi) + 1
)

// start register values
const (
	StartInactive = uint32(0)
	StartActive   = uint32(1)
)

// DoneMask selects the only meaningful bit of the done register.
const DoneMask = uint32(1)

// OperandA returns the register holding element i of vector A.
func OperandA(i int) Register {
	return A0 + Register(i)
}

// OperandB returns the register holding element i of vector B.
func OperandB(i int) Register {
	return B0 + Register(i)
}

func (r Register) Valid() bool {
	return r >= A0 && int(r) < NumRegisters
}

// IsOperand is true for the sixteen a/b registers.
func (r Register) IsOperand() bool {
	return r >= A0 && r <= B7
}

// Writable is true for registers the driver may write.  The others are
// status registers and writes to them are ignored by the hardware.
func (r Register) Writable() bool {
	return r.IsOperand() || r == Start
}

// Readable is true for the status registers.
func (r Register) Readable() bool {
	return r == Done || r == ResultLo || r == ResultHi
}

// Width is the number of significant bits in the register.
func (r Register) Width() int {
	switch r {
	case Start, Done:
		return 1
	}
	return 32
}

// String returns the gateware name of the register (a0, start, result_hi...).
func (r Register) String() string {
	switch {
	case r >= A0 && r <= A7:
		return fmt.Sprintf("a%d", int(r-A0))
	case r >= B0 && r <= B7:
		return fmt.Sprintf("b%d", int(r-B0))
	}
	switch r {
	case Start:
		return "start"
	case Done:
		return "done"
	case ResultLo:
		return "result_lo"
	case ResultHi:
		return "result_hi"
	}
	return fmt.Sprintf("register(%d)", int(r))
}

// CSRName is the name LiteX gives the register in csr.csv and csr.h, the
// peripheral prefix joined to the register name with an underscore.
func (r Register) CSRName(prefix string) string {
	return prefix + "_" + r.String()
}

// AllRegisters lists every register in layout order.
func AllRegisters() []Register {
	all := make([]Register, NumRegisters)
	for i := range all {
		all[i] = Register(i)
	}
	return all
}

// RegisterFile is the only way the driver touches the accelerator.  The
// real hardware is a memory mapped block; tests and the host tools use a
// simulated one.  Implementations must make every call a real access:
// no caching, no reordering across calls.
type RegisterFile interface {
	WriteRegister(r Register, value uint32)
	ReadRegister(r Register) uint32
}
