package bus

import (
	"testing"

	"goadvance/irq"
)

func newTestBus() *Bus {
	return New(irq.New())
}

func TestReadWrite32_EWRAM(t *testing.T) {
	b := newTestBus()
	b.Write32(0x0200_0000, 0xDEADBEEF)
	if got := b.Read32(0x0200_0000); got != 0xDEADBEEF {
		t.Errorf("Read32() = %#x, want 0xDEADBEEF", got)
	}
}

func TestReadWrite16_IWRAM(t *testing.T) {
	b := newTestBus()
	b.Write16(0x0300_0010, 0x1234)
	if got := b.Read16(0x0300_0010); got != 0x1234 {
		t.Errorf("Read16() = %#x, want 0x1234", got)
	}
}

func TestIE_IF_RoundTripThroughBus(t *testing.T) {
	b := newTestBus()
	b.Write16(0x0400_0200, 0x3FFF) // IE
	if got := b.Read16(0x0400_0200); got != 0x3FFF {
		t.Errorf("IE read back = %#x, want 0x3FFF", got)
	}
	if b.IRQ.Enable() != 0x3FFF {
		t.Errorf("IRQ.Enable() = %#x, want 0x3FFF", b.IRQ.Enable())
	}
}

func TestIME_RoundTrip(t *testing.T) {
	b := newTestBus()
	b.Write8(0x0400_0208, 1)
	if !b.IRQ.MasterEnable() {
		t.Errorf("MasterEnable() = false, want true")
	}
}

func TestWAITCNT_AffectsROMCycles(t *testing.T) {
	b := newTestBus()
	b.rom = make([]byte, 0x100)

	base := b.Cycles(0x0800_0000, NonSequential, Width16)

	b.Write16(0x0400_0204, 0x000C) // slowest WS0 N setting (bits 2-3 = 3 -> 8 cycles)
	slow := b.Cycles(0x0800_0000, NonSequential, Width16)
	if slow < base {
		t.Errorf("expected slower or equal cycle cost after reprogramming WAITCNT")
	}
}

func TestVRAMMirror(t *testing.T) {
	b := newTestBus()
	b.Write8(0x0601_0000, 0x7A)
	if got := b.Read8(0x0601_8000); got != 0x7A {
		t.Errorf("mirrored VRAM read = %#x, want 0x7a", got)
	}
}

func TestIOHandler_InterceptsRegisterReadWrite(t *testing.T) {
	b := newTestBus()
	var captured uint16
	b.SetIOHandler(0x100, func() uint16 { return 0xBEEF }, func(v uint16) { captured = v })

	b.Write16(0x0400_0100, 0x55AA)
	if captured != 0x55AA {
		t.Errorf("handler write got %#x, want 0x55aa", captured)
	}

	if got := b.Read16(0x0400_0100); got != 0xBEEF {
		t.Errorf("handler read = %#x, want 0xbeef", got)
	}
}

func TestBIOSOpenBusAfterDisable(t *testing.T) {
	b := newTestBus()
	b.DisableBIOSReads(0xAABBCCDD)
	if got := b.Read8(0x0000_0000); got != 0xDD {
		t.Errorf("Read8() = %#x, want 0xdd (low byte of latched open-bus word)", got)
	}
}
