package cpu

// Exception vector addresses, per spec.md §4.4's vector table (fixed
// at the bottom of BIOS ROM on real hardware).
const (
	VectorReset       uint32 = 0x00
	VectorUndefined   uint32 = 0x04
	VectorSWI         uint32 = 0x08
	VectorPrefetch    uint32 = 0x0C
	VectorDataAbort   uint32 = 0x10
	VectorIRQ         uint32 = 0x18
	VectorFIQ         uint32 = 0x1C
)

// enterIRQ performs IRQ exception entry per spec.md §8 scenario 5:
// LR_irq = (return address) + 4, switch to IRQ mode (banking SPSR_irq
// = old CPSR), disable further IRQs, force ARM state, jump to the IRQ
// vector. The return address used is the address of the instruction
// that was about to execute (Reg.PC() already holds the NEXT fetch
// address at the point Step() checks for a pending IRQ, so this is
// called before advancing PC for the would-be-next instruction).
func (c *CPU) enterIRQ() {
	returnAddr := c.Reg.PC() + 4

	c.Reg.EnterMode(ModeIRQ)
	c.Reg.SetR(14, returnAddr)
	c.Reg.SetFlag(FlagI, true)
	c.Reg.SetThumb(false)
	c.FlushARM(VectorIRQ)
}

// raiseSWI performs SWI exception entry: LR_svc = address of the
// instruction after the SWI, SPSR_svc = old CPSR, switch to
// Supervisor mode, disable IRQs, force ARM state, jump to 0x08.
func (c *CPU) raiseSWI() {
	returnAddr := c.Reg.PC()
	c.Reg.EnterMode(ModeSupervisor)
	c.Reg.SetR(14, returnAddr)
	c.Reg.SetFlag(FlagI, true)
	c.Reg.SetThumb(false)
	c.FlushARM(VectorSWI)
}

// raiseUndefined performs undefined-instruction exception entry.
func (c *CPU) raiseUndefined() {
	returnAddr := c.Reg.PC()
	c.Reg.EnterMode(ModeUndefined)
	c.Reg.SetR(14, returnAddr)
	c.Reg.SetFlag(FlagI, true)
	c.Reg.SetThumb(false)
	c.FlushARM(VectorUndefined)
}
