package cpu

// armSingleTransfer handles LDR/STR/LDRB/STRB (word and byte, all
// four addressing-mode combinations of P/U/W).
func armSingleTransfer(c *CPU, opcode uint32, instrAddr uint32) {
	registerOffset := opcode&(1<<25) != 0
	pre := opcode&(1<<24) != 0
	up := opcode&(1<<23) != 0
	byteAccess := opcode&(1<<22) != 0
	writeback := opcode&(1<<21) != 0
	load := opcode&(1<<20) != 0
	rn := int((opcode >> 16) & 0xF)
	rd := int((opcode >> 12) & 0xF)

	var offset uint32
	if registerOffset {
		rm := int(opcode & 0xF)
		shiftType := ShiftType((opcode >> 5) & 0x3)
		amount := (opcode >> 7) & 0x1F
		offset, _ = Barrel(shiftType, c.Reg.R(rm), amount, true, c.Reg.Flag(FlagC))
	} else {
		offset = opcode & 0xFFF
	}

	base := c.Reg.R(rn)
	addr := base
	if pre {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}

	if load {
		var value uint32
		if byteAccess {
			value = uint32(c.bus.Read8(addr))
		} else {
			value = c.readWordRotated(addr)
		}
		if !pre {
			if up {
				base += offset
			} else {
				base -= offset
			}
			c.Reg.SetR(rn, base)
		} else if writeback {
			c.Reg.SetR(rn, addr)
		}
		if rd == 15 {
			c.FlushARM(value)
		} else {
			c.Reg.SetR(rd, value)
		}
		return
	}

	value := c.operand(rd, instrAddr)
	if byteAccess {
		c.bus.Write8(addr, uint8(value))
	} else {
		c.bus.Write32(addr&^3, value)
	}
	if !pre {
		if up {
			base += offset
		} else {
			base -= offset
		}
		c.Reg.SetR(rn, base)
	} else if writeback {
		c.Reg.SetR(rn, addr)
	}
}

// readWordRotated implements the GBA's misaligned-LDR behavior (spec.md
// §8 scenario 2): a word read from a non-word-aligned address returns
// the aligned word rotated right by 8 * (address & 3), rather than
// faulting.
func (c *CPU) readWordRotated(addr uint32) uint32 {
	aligned := addr &^ 3
	value := c.bus.Read32(aligned)
	rotate := (addr & 3) * 8
	if rotate == 0 {
		return value
	}
	result, _ := shiftROR(value, rotate, false)
	return result
}

// armHalfwordTransfer handles LDRH/STRH/LDRSB/LDRSH and their
// immediate/register offset forms (bits [27:25] == 000, bit 4 and bit
// 7 both set).
func armHalfwordTransfer(c *CPU, opcode uint32, instrAddr uint32) {
	pre := opcode&(1<<24) != 0
	up := opcode&(1<<23) != 0
	immediateOffset := opcode&(1<<22) != 0
	writeback := opcode&(1<<21) != 0
	load := opcode&(1<<20) != 0
	rn := int((opcode >> 16) & 0xF)
	rd := int((opcode >> 12) & 0xF)
	sh := (opcode >> 5) & 0x3

	var offset uint32
	if immediateOffset {
		offset = ((opcode>>8)&0xF)<<4 | (opcode & 0xF)
	} else {
		rm := int(opcode & 0xF)
		offset = c.Reg.R(rm)
	}

	base := c.Reg.R(rn)
	addr := base
	if pre {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}

	if load {
		var value uint32
		switch sh {
		case 1: // unsigned halfword
			value = uint32(c.readHalfRotated(addr))
		case 2: // signed byte
			value = uint32(int32(int8(c.bus.Read8(addr))))
		case 3: // signed halfword
			if addr&1 != 0 {
				value = uint32(int32(int8(c.bus.Read8(addr))))
			} else {
				value = uint32(int32(int16(c.bus.Read16(addr))))
			}
		}
		c.finishHalfwordAddressing(rn, base, addr, offset, up, pre, writeback)
		if rd == 15 {
			c.FlushARM(value)
		} else {
			c.Reg.SetR(rd, value)
		}
		return
	}

	value := c.operand(rd, instrAddr)
	c.bus.Write16(addr&^1, uint16(value))
	c.finishHalfwordAddressing(rn, base, addr, offset, up, pre, writeback)
}

func (c *CPU) finishHalfwordAddressing(rn int, base, addr, offset uint32, up, pre, writeback bool) {
	if !pre {
		if up {
			base += offset
		} else {
			base -= offset
		}
		c.Reg.SetR(rn, base)
	} else if writeback {
		c.Reg.SetR(rn, addr)
	}
}

// readHalfRotated mirrors readWordRotated's misaligned-access rule
// for 16-bit loads: an odd address rotates the aligned halfword right
// by 8.
func (c *CPU) readHalfRotated(addr uint32) uint16 {
	aligned := addr &^ 1
	value := c.bus.Read16(aligned)
	if addr&1 != 0 {
		return value>>8 | value<<8
	}
	return value
}
