//go:build tinygo

package uart

import (
	"runtime/volatile"
	"unsafe"
)

// LiteXRegisterMap is the LiteX UART core in its CSR block, one CSR word
// per register.
type LiteXRegisterMap struct {
	RxTx      volatile.Register32 //0x00
	TxFull    volatile.Register32 //0x04, readonly
	RxEmpty   volatile.Register32 //0x08, readonly
	EvStatus  volatile.Register32 //0x0C, readonly
	EvPending volatile.Register32 //0x10
	EvEnable  volatile.Register32 //0x14
	TxEmpty   volatile.Register32 //0x18, readonly
	RxFull    volatile.Register32 //0x1C, readonly
}

// event bits, shared by EvStatus, EvPending and EvEnable
const (
	EventTx = 1 << 0
	EventRx = 1 << 1
)

// LiteX is a polled Channel on the LiteX UART.
type LiteX struct {
	regs *LiteXRegisterMap
}

// NewLiteX overlays the UART at base and turns its interrupts off; the
// writer polls TxFull instead.
func NewLiteX(base uintptr) *LiteX {
	regs := (*LiteXRegisterMap)(unsafe.Pointer(base))
	regs.EvEnable.Set(0)
	regs.EvPending.Set(EventTx | EventRx)
	return &LiteX{regs: regs}
}

func (u *LiteX) ReadyToSend() bool {
	return u.regs.TxFull.Get() == 0
}

func (u *LiteX) SendByte(b byte) {
	u.regs.RxTx.Set(uint32(b))
}
