//go:build tinygo

package dotp

import (
	"runtime/volatile"
	"unsafe"

	"dotpaccel/src/lib/dot"
)

// RegisterMap is the peripheral as it sits in the CSR space, using the
// default layout.  Point it at the base address with MMIO.
type RegisterMap struct {
	A        [dot.Len]volatile.Register32 //0x00
	B        [dot.Len]volatile.Register32 //0x20
	Start    volatile.Register32          //0x40, write only
	Done     volatile.Register32          //0x44, read only
	ResultLo volatile.Register32          //0x48, read only
	ResultHi volatile.Register32          //0x4C, read only
}

// MMIO overlays a RegisterMap on the peripheral at base.
func MMIO(base uintptr) *RegisterMap {
	return (*RegisterMap)(unsafe.Pointer(base))
}

func (m *RegisterMap) register(r Register) *volatile.Register32 {
	switch {
	case r >= A0 && r <= A7:
		return &m.A[r-A0]
	case r >= B0 && r <= B7:
		return &m.B[r-B0]
	}
	switch r {
	case Start:
		return &m.Start
	case Done:
		return &m.Done
	case ResultLo:
		return &m.ResultLo
	case ResultHi:
		return &m.ResultHi
	}
	return nil
}

func (m *RegisterMap) WriteRegister(r Register, value uint32) {
	if reg := m.register(r); reg != nil {
		reg.Set(value)
	}
}

func (m *RegisterMap) ReadRegister(r Register) uint32 {
	if reg := m.register(r); reg != nil {
		return reg.Get()
	}
	return 0
}
