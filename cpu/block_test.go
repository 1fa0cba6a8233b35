package cpu

import (
	"testing"

	"goadvance/bus"
	"goadvance/irq"
)

// TestBlockTransfer_SBitWithoutR15UsesUserBank exercises spec.md
// §4.4.5: "S-bit without r15 transfers user-mode registers regardless
// of current mode". A privileged-mode context save like
// STMFD sp,{r0-r14}^ must store the User-bank SP/LR, not the
// currently banked Supervisor ones.
func TestBlockTransfer_SBitWithoutR15UsesUserBank(t *testing.T) {
	irqCtl := irq.New()
	b := bus.New(irqCtl)
	c := New(b, irqCtl)

	c.Reg.SetCPSR((uint32(ModeUser)))
	c.Reg.SetR(13, 0x0300_1111) // User-bank SP
	c.Reg.SetR(14, 0x0300_2222) // User-bank LR

	c.Reg.SetCPSR(uint32(ModeSupervisor))
	c.Reg.SetR(13, 0x0300_3333) // Supervisor-bank SP
	c.Reg.SetR(14, 0x0300_4444) // Supervisor-bank LR
	c.Reg.SetR(0, 0x0200_0000)  // base register, STMDB-style scratch area

	const upBit = 1 << 23
	const sBit = 1 << 22
	const rn0 = 0 << 16
	list := uint32(1<<13 | 1<<14) // store r13, r14 only
	opcode := upBit | sBit | rn0 | list // increment-after store, no writeback

	armBlockTransfer(c, opcode, 0x0800_0000)

	base := c.Reg.R(0)
	gotSP := b.Read32(base)
	gotLR := b.Read32(base + 4)

	if gotSP != 0x0300_1111 {
		t.Errorf("stored r13 = %#x, want User-bank SP 0x03001111", gotSP)
	}
	if gotLR != 0x0300_2222 {
		t.Errorf("stored r14 = %#x, want User-bank LR 0x03002222", gotLR)
	}
}

// TestBlockTransfer_NoSBitUsesCurrentBank is the control case: without
// the S-bit, STM must use the currently banked registers.
func TestBlockTransfer_NoSBitUsesCurrentBank(t *testing.T) {
	irqCtl := irq.New()
	b := bus.New(irqCtl)
	c := New(b, irqCtl)

	c.Reg.SetCPSR(uint32(ModeUser))
	c.Reg.SetR(13, 0x0300_1111)

	c.Reg.SetCPSR(uint32(ModeSupervisor))
	c.Reg.SetR(13, 0x0300_3333)
	c.Reg.SetR(0, 0x0200_0000)

	const upBit = 1 << 23
	const rn0 = 0 << 16
	list := uint32(1 << 13)
	opcode := upBit | rn0 | list

	armBlockTransfer(c, opcode, 0x0800_0000)

	if got := b.Read32(c.Reg.R(0)); got != 0x0300_3333 {
		t.Errorf("stored r13 = %#x, want current-bank (Supervisor) SP 0x03003333", got)
	}
}
