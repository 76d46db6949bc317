//go:build linux && !tinygo

package dotp

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// DefaultDevMem is the physical memory device on Linux.
const DefaultDevMem = "/dev/mem"

// DevMem reaches the peripheral from Linux userspace through a shared
// mapping of /dev/mem (or a uio device).  Every access is a single 32 bit
// atomic load or store on the mapping, which the compiler cannot merge,
// elide or reorder.
type DevMem struct {
	fd     int
	mem    []byte
	delta  uintptr
	layout Layout
}

// OpenDevMem maps the peripheral whose registers start at physical
// address base.  base does not have to be page aligned.
func OpenDevMem(path string, base uint64, layout Layout) (*DevMem, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	page := uint64(unix.Getpagesize())
	pageBase := base &^ (page - 1)
	delta := base - pageBase
	length := delta + uint64(layout.Span())
	length = (length + page - 1) &^ (page - 1)

	mem, err := unix.Mmap(fd, int64(pageBase), int(length), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("mmap %s at 0x%x: %w", path, pageBase, err)
	}
	return &DevMem{fd: fd, mem: mem, delta: uintptr(delta), layout: layout}, nil
}

func (d *DevMem) word(r Register) *uint32 {
	return (*uint32)(unsafe.Pointer(&d.mem[d.delta+d.layout.Offset(r)]))
}

func (d *DevMem) WriteRegister(r Register, value uint32) {
	atomic.StoreUint32(d.word(r), value)
}

func (d *DevMem) ReadRegister(r Register) uint32 {
	return atomic.LoadUint32(d.word(r))
}

// Close unmaps the window.  The DevMem must not be used afterwards.
func (d *DevMem) Close() error {
	err := unix.Munmap(d.mem)
	d.mem = nil
	if cerr := unix.Close(d.fd); err == nil {
		err = cerr
	}
	return err
}
