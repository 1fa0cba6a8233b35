package irq

import (
	"testing"

	"goadvance/addr"
)

func TestIRQPending_RequiresMasterEnableAndMask(t *testing.T) {
	c := New()
	c.Request(addr.VBlank)

	if c.IRQPending() {
		t.Errorf("IRQPending() = true, want false (IME off)")
	}

	c.SetMasterEnable(true)
	if c.IRQPending() {
		t.Errorf("IRQPending() = true, want false (source not enabled)")
	}

	c.SetEnable(uint16(addr.VBlank))
	if !c.IRQPending() {
		t.Errorf("IRQPending() = false, want true")
	}
}

func TestRequest_IsLevelTriggeredNotEdgeCounted(t *testing.T) {
	c := New()
	c.Request(addr.Timer0)
	c.Request(addr.Timer0)

	if c.Pending() != uint16(addr.Timer0) {
		t.Errorf("Pending() = %#x, want %#x", c.Pending(), uint16(addr.Timer0))
	}
}

func TestWriteIF_ClearsOnlyBitsWrittenAsOne(t *testing.T) {
	c := New()
	c.Request(addr.VBlank)
	c.Request(addr.HBlank)

	c.WriteIF(uint16(addr.VBlank))

	if c.Pending() != uint16(addr.HBlank) {
		t.Errorf("Pending() = %#x, want %#x", c.Pending(), uint16(addr.HBlank))
	}
}

func TestAcknowledge(t *testing.T) {
	c := New()
	c.Request(addr.Dma0)
	c.Acknowledge(addr.Dma0)

	if c.Pending() != 0 {
		t.Errorf("Pending() = %#x, want 0", c.Pending())
	}
}

func TestReset(t *testing.T) {
	c := New()
	c.SetMasterEnable(true)
	c.SetEnable(uint16(addr.VBlank))
	c.Request(addr.VBlank)

	c.Reset()

	if c.MasterEnable() || c.Enable() != 0 || c.Pending() != 0 {
		t.Errorf("Reset() left state: ime=%v ie=%#x if=%#x", c.MasterEnable(), c.Enable(), c.Pending())
	}
}
