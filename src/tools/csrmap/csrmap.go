// Package csrmap reads the csr.csv that LiteX writes next to a built SoC
// and turns it into Go: register layouts for the host tools and constants
// for the firmware.
package csrmap

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"dotpaccel/src/hardware/dotp"
)

var ErrMissing = errors.New("not in csr map")

type Mode string

const (
	ReadWrite Mode = "rw"
	ReadOnly  Mode = "ro"
)

type Base struct {
	Name string
	Addr uint64
}

type Register struct {
	Name string
	Addr uint64
	// Size is in CSR words.
	Size int
	Mode Mode
}

// Constant values are kept as text.  LiteX writes "None" for a constant
// that is only a flag.
type Constant struct {
	Name  string
	Value string
}

// Numeric reports the constant as a number, if it is one.
func (c Constant) Numeric() (uint64, bool) {
	v, err := strconv.ParseUint(c.Value, 0, 64)
	return v, err == nil
}

func (c Constant) Flag() bool {
	return c.Value == "None"
}

type Region struct {
	Name string
	Addr uint64
	Size uint64
	Kind string
}

// Map is a parsed csr.csv.  The slices keep the file order.
type Map struct {
	Bases     []Base
	Registers []Register
	Constants []Constant
	Regions   []Region
}

func Parse(r io.Reader) (*Map, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	m := &Map{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return m, nil
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if err := m.add(rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return strings.TrimSpace(rec[i])
	}
	return ""
}

func (m *Map) add(rec []string) error {
	kind, name := field(rec, 0), field(rec, 1)
	if kind == "" {
		return nil
	}
	if name == "" {
		return fmt.Errorf("%s without a name", kind)
	}
	switch kind {
	case "csr_base":
		addr, err := strconv.ParseUint(field(rec, 2), 0, 64)
		if err != nil {
			return fmt.Errorf("csr_base %s: %w", name, err)
		}
		m.Bases = append(m.Bases, Base{Name: name, Addr: addr})
	case "csr_register":
		addr, err := strconv.ParseUint(field(rec, 2), 0, 64)
		if err != nil {
			return fmt.Errorf("csr_register %s: %w", name, err)
		}
		size := 1
		if s := field(rec, 3); s != "" {
			if size, err = strconv.Atoi(s); err != nil {
				return fmt.Errorf("csr_register %s: %w", name, err)
			}
		}
		mode := Mode(field(rec, 4))
		if mode != ReadWrite && mode != ReadOnly {
			return fmt.Errorf("csr_register %s: unknown mode %q", name, mode)
		}
		m.Registers = append(m.Registers, Register{Name: name, Addr: addr, Size: size, Mode: mode})
	case "constant":
		m.Constants = append(m.Constants, Constant{Name: name, Value: field(rec, 2)})
	case "memory_region":
		addr, err := strconv.ParseUint(field(rec, 2), 0, 64)
		if err != nil {
			return fmt.Errorf("memory_region %s: %w", name, err)
		}
		size, err := strconv.ParseUint(field(rec, 3), 0, 64)
		if err != nil {
			return fmt.Errorf("memory_region %s: %w", name, err)
		}
		m.Regions = append(m.Regions, Region{Name: name, Addr: addr, Size: size, Kind: field(rec, 4)})
	default:
		return fmt.Errorf("unknown row kind %q", kind)
	}
	return nil
}

func (m *Map) Base(name string) (Base, bool) {
	for _, b := range m.Bases {
		if b.Name == name {
			return b, true
		}
	}
	return Base{}, false
}

func (m *Map) Register(name string) (Register, bool) {
	for _, r := range m.Registers {
		if r.Name == name {
			return r, true
		}
	}
	return Register{}, false
}

func (m *Map) Constant(name string) (Constant, bool) {
	for _, c := range m.Constants {
		if c.Name == name {
			return c, true
		}
	}
	return Constant{}, false
}

// DotProductLayout finds the accelerator's registers under prefix and
// returns its base address with every register's offset from it.  Each
// register must be one CSR word wide and have the access the driver
// expects.
func (m *Map) DotProductLayout(prefix string) (uint64, dotp.Layout, error) {
	var layout dotp.Layout
	base, ok := m.Base(prefix)
	if !ok {
		return 0, layout, fmt.Errorf("csr_base %s: %w", prefix, ErrMissing)
	}
	for _, r := range dotp.AllRegisters() {
		name := r.CSRName(prefix)
		reg, ok := m.Register(name)
		if !ok {
			return 0, layout, fmt.Errorf("csr_register %s: %w", name, ErrMissing)
		}
		if reg.Size != 1 {
			return 0, layout, fmt.Errorf("%w: %s is %d words wide", dotp.ErrBadLayout, name, reg.Size)
		}
		if r.Writable() && reg.Mode != ReadWrite {
			return 0, layout, fmt.Errorf("%w: %s must be writable", dotp.ErrBadLayout, name)
		}
		if reg.Addr < base.Addr {
			return 0, layout, fmt.Errorf("%w: %s is below %s base", dotp.ErrBadLayout, name, prefix)
		}
		layout[r] = uintptr(reg.Addr - base.Addr)
	}
	if err := layout.Validate(); err != nil {
		return 0, layout, err
	}
	return base.Addr, layout, nil
}
