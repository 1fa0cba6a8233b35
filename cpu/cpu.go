package cpu

import (
	"goadvance/bus"
	"goadvance/irq"
)

// CPU is the ARM7TDMI interpreter core: register file, bus access and
// the pipeline's architectural PC-read-offset behavior (spec.md §4.4:
// a 2-stage pipeline means the value an instruction sees when it
// reads r15 is PC+8 in ARM state, PC+4 in THUMB state, even though
// only one instruction is actually "executing").
type CPU struct {
	Reg *Registers
	bus *bus.Bus
	IRQ *irq.Controller

	halted bool

	// Cycles accumulates the bus-wait-state cost of the instructions
	// executed by the most recent Step call, for the scheduler to
	// charge against virtual time.
	Cycles int
}

func New(b *bus.Bus, irqCtl *irq.Controller) *CPU {
	c := &CPU{Reg: NewRegisters(), bus: b, IRQ: irqCtl}
	return c
}

// Halted reports whether the CPU is parked awaiting an interrupt.
func (c *CPU) Halted() bool { return c.halted }

// Halt parks the CPU; an IRQ with (pending & enable) set wakes it
// regardless of the master-enable bit (spec.md §4.7).
func (c *CPU) Halt() { c.halted = true }

// SetHalted restores the halted flag, used when loading a save state.
func (c *CPU) SetHalted(h bool) { c.halted = h }

// execPCOffset returns how far ahead of the instruction's own address
// r15 architecturally reads as, per the current instruction set.
func (c *CPU) execPCOffset() uint32 {
	if c.Reg.Thumb() {
		return 4
	}
	return 8
}

// readR15 implements "reading r15 returns PC+offset", used by every
// opcode handler whenever operand 15 is selected.
func (c *CPU) readR15(instrAddr uint32) uint32 {
	return instrAddr + c.execPCOffset()
}

// Step executes one instruction (fetch already accounted for by the
// caller having set Reg.PC to the instruction's address before
// calling), first checking for a pending wake-from-halt IRQ, then
// dispatching via the ARM or THUMB decode table depending on the T
// bit. Returns the instruction's bus-wait-state cost in cycles.
func (c *CPU) Step() int {
	c.Cycles = 0

	if c.halted {
		if c.IRQ.Enable()&c.IRQ.Pending() != 0 {
			c.halted = false
		} else {
			return 1
		}
	}

	if c.IRQ.IRQPending() && !c.Reg.Flag(FlagI) {
		c.enterIRQ()
		return c.Cycles
	}

	pc := c.Reg.PC()
	if c.Reg.Thumb() {
		opcode := c.fetch16(pc)
		c.Reg.SetPC(pc + 2)
		thumbTable[opcode>>6](c, opcode, pc)
	} else {
		opcode := c.fetch32(pc)
		c.Reg.SetPC(pc + 4)
		if c.checkCond(Cond(opcode >> 28)) {
			sig := ((opcode >> 20) & 0xFF << 4) | ((opcode >> 4) & 0xF)
			armTable[sig&0xFFF](c, opcode, pc)
		}
	}

	return c.Cycles
}

func (c *CPU) fetch32(addr uint32) uint32 {
	c.Cycles += c.bus.Cycles(addr, bus.Sequential, bus.Width32)
	return c.bus.Read32(addr)
}

func (c *CPU) fetch16(addr uint32) uint16 {
	c.Cycles += c.bus.Cycles(addr, bus.Sequential, bus.Width16)
	return c.bus.Read16(addr)
}

// FlushARM reloads the pipeline at the given address in ARM state,
// the effect every taken branch / mode-changing write to r15 has.
func (c *CPU) FlushARM(addr uint32) {
	c.Reg.SetThumb(false)
	c.Reg.SetPC(addr &^ 3)
}

// FlushThumb reloads the pipeline at the given address in THUMB
// state.
func (c *CPU) FlushThumb(addr uint32) {
	c.Reg.SetThumb(true)
	c.Reg.SetPC(addr &^ 1)
}

// FlushExchange reloads the pipeline at addr, switching instruction
// set according to addr's bit 0 (BX/BLX semantics).
func (c *CPU) FlushExchange(addr uint32) {
	if addr&1 != 0 {
		c.FlushThumb(addr)
	} else {
		c.FlushARM(addr)
	}
}

// Reset parks the CPU into Supervisor mode with interrupts disabled
// and PC at the BIOS reset vector, per spec.md §4.4's exception
// vector table.
func (c *CPU) Reset() {
	c.Reg = NewRegisters()
	c.halted = false
	c.FlushARM(0x0000_0000)
}
