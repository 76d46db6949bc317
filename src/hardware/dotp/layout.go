package dotp

import (
	"errors"
	"fmt"
)

// CSRWordSize is the stride between two CSRs with a 32 bit csr data width.
const CSRWordSize = 4

// DefaultPrefix is the name the SoC gives the peripheral.
const DefaultPrefix = "dotp"

var ErrBadLayout = errors.New("bad register layout")

// Layout holds the byte offset of each register from the peripheral base.
type Layout [NumRegisters]uintptr

// DefaultLayout is one CSR word per register in declaration order:
// a0 at 0x00 through result_hi at 0x4c.
func DefaultLayout() Layout {
	var l Layout
	for i := range l {
		l[i] = uintptr(i * CSRWordSize)
	}
	return l
}

// Offset of r from the peripheral base.
func (l Layout) Offset(r Register) uintptr {
	return l[r]
}

// Span is the number of bytes that must be mapped to reach every register.
func (l Layout) Span() uintptr {
	max := uintptr(0)
	for _, off := range l {
		if off > max {
			max = off
		}
	}
	return max + CSRWordSize
}

// Validate checks that every offset is word aligned and that no two
// registers share a word.
func (l Layout) Validate() error {
	seen := map[uintptr]Register{}
	for i, off := range l {
		r := Register(i)
		if off%CSRWordSize != 0 {
			return fmt.Errorf("%w: %s at offset 0x%x is not word aligned", ErrBadLayout, r, off)
		}
		if other, ok := seen[off]; ok {
			return fmt.Errorf("%w: %s and %s both at offset 0x%x", ErrBadLayout, other, r, off)
		}
		seen[off] = r
	}
	return nil
}
