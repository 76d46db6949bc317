//go:build linux && !tinygo

package dotp

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// A plain file stands in for /dev/mem; the mapping code does not care.
func TestDevMemWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mem")
	page := os.Getpagesize()
	if err := os.WriteFile(path, make([]byte, 2*page), 0600); err != nil {
		t.Fatalf("unable to create backing file: %v", err)
	}
	base := uint64(page + 0x10)
	d, err := OpenDevMem(path, base, DefaultLayout())
	if err != nil {
		t.Fatalf("unable to map: %v", err)
	}
	d.WriteRegister(A1, 0xDEADBEEF)
	d.WriteRegister(Start, 1)
	if got := d.ReadRegister(A1); got != 0xDEADBEEF {
		t.Errorf("expected 0xDEADBEEF but got 0x%08X", got)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	a1 := int(base) + int(DefaultLayout().Offset(A1))
	if got := binary.LittleEndian.Uint32(raw[a1:]); got != 0xDEADBEEF {
		t.Errorf("expected a1 in the file at 0x%x, got 0x%08X", a1, got)
	}
	start := int(base) + int(DefaultLayout().Offset(Start))
	if got := binary.LittleEndian.Uint32(raw[start:]); got != 1 {
		t.Errorf("expected start=1 in the file, got %d", got)
	}
}

func TestDevMemMissing(t *testing.T) {
	if _, err := OpenDevMem(filepath.Join(t.TempDir(), "nope"), 0, DefaultLayout()); err == nil {
		t.Errorf("expected an error opening a missing device")
	}
}
