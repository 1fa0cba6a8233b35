package cpu

// thumbPCRelativeLoad: format 6, LDR Rd, [PC, #imm]. PC reads with
// bit 1 cleared per spec.md's THUMB PC-relative addressing rule.
func thumbPCRelativeLoad(c *CPU, opcode uint16, instrAddr uint32) {
	rd := int((opcode >> 8) & 0x7)
	word8 := uint32(opcode&0xFF) * 4

	base := (instrAddr + 4) &^ 3
	value := c.bus.Read32(base + word8)
	c.Reg.SetR(rd, value)
}

// thumbLoadStoreRegOffset: formats 7 and 8, distinguished by bit 9.
func thumbLoadStoreRegOffset(c *CPU, opcode uint16, instrAddr uint32) {
	ro := int((opcode >> 6) & 0x7)
	rb := int((opcode >> 3) & 0x7)
	rd := int(opcode & 0x7)
	addr := c.Reg.R(rb) + c.Reg.R(ro)

	if opcode&(1<<9) == 0 {
		// format 7: plain word/byte
		load := opcode&(1<<11) != 0
		byteAccess := opcode&(1<<10) != 0
		if load {
			if byteAccess {
				c.Reg.SetR(rd, uint32(c.bus.Read8(addr)))
			} else {
				c.Reg.SetR(rd, c.readWordRotated(addr))
			}
		} else {
			if byteAccess {
				c.bus.Write8(addr, uint8(c.Reg.R(rd)))
			} else {
				c.bus.Write32(addr&^3, c.Reg.R(rd))
			}
		}
		return
	}

	// format 8: sign-extended byte/halfword
	h := opcode&(1<<11) != 0
	s := opcode&(1<<10) != 0
	switch {
	case !s && !h: // STRH
		c.bus.Write16(addr&^1, uint16(c.Reg.R(rd)))
	case !s && h: // LDRH
		c.Reg.SetR(rd, uint32(c.readHalfRotated(addr)))
	case s && !h: // LDSB
		c.Reg.SetR(rd, uint32(int32(int8(c.bus.Read8(addr)))))
	case s && h: // LDSH
		if addr&1 != 0 {
			c.Reg.SetR(rd, uint32(int32(int8(c.bus.Read8(addr)))))
		} else {
			c.Reg.SetR(rd, uint32(int32(int16(c.bus.Read16(addr)))))
		}
	}
}

// thumbLoadStoreImmediate: format 9, LDR/STR{B} Rd, [Rb, #imm5].
func thumbLoadStoreImmediate(c *CPU, opcode uint16, instrAddr uint32) {
	byteAccess := opcode&(1<<12) != 0
	load := opcode&(1<<11) != 0
	offset5 := uint32((opcode >> 6) & 0x1F)
	rb := int((opcode >> 3) & 0x7)
	rd := int(opcode & 0x7)

	var addr uint32
	if byteAccess {
		addr = c.Reg.R(rb) + offset5
	} else {
		addr = c.Reg.R(rb) + offset5*4
	}

	if load {
		if byteAccess {
			c.Reg.SetR(rd, uint32(c.bus.Read8(addr)))
		} else {
			c.Reg.SetR(rd, c.readWordRotated(addr))
		}
	} else {
		if byteAccess {
			c.bus.Write8(addr, uint8(c.Reg.R(rd)))
		} else {
			c.bus.Write32(addr&^3, c.Reg.R(rd))
		}
	}
}

// thumbLoadStoreHalfword: format 10, LDRH/STRH Rd, [Rb, #imm5].
func thumbLoadStoreHalfword(c *CPU, opcode uint16, instrAddr uint32) {
	load := opcode&(1<<11) != 0
	offset5 := uint32((opcode>>6)&0x1F) * 2
	rb := int((opcode >> 3) & 0x7)
	rd := int(opcode & 0x7)

	addr := c.Reg.R(rb) + offset5
	if load {
		c.Reg.SetR(rd, uint32(c.readHalfRotated(addr)))
	} else {
		c.bus.Write16(addr&^1, uint16(c.Reg.R(rd)))
	}
}

// thumbSPRelative: format 11, LDR/STR Rd, [SP, #imm8*4].
func thumbSPRelative(c *CPU, opcode uint16, instrAddr uint32) {
	load := opcode&(1<<11) != 0
	rd := int((opcode >> 8) & 0x7)
	word8 := uint32(opcode&0xFF) * 4
	addr := c.Reg.R(13) + word8

	if load {
		c.Reg.SetR(rd, c.readWordRotated(addr))
	} else {
		c.bus.Write32(addr&^3, c.Reg.R(rd))
	}
}

// thumbLoadAddress: format 12, ADD Rd, PC|SP, #imm8*4.
func thumbLoadAddress(c *CPU, opcode uint16, instrAddr uint32) {
	usesSP := opcode&(1<<11) != 0
	rd := int((opcode >> 8) & 0x7)
	word8 := uint32(opcode&0xFF) * 4

	var base uint32
	if usesSP {
		base = c.Reg.R(13)
	} else {
		base = (instrAddr + 4) &^ 3
	}
	c.Reg.SetR(rd, base+word8)
}

// thumbAddSP: format 13, ADD SP, #+/-imm7*4.
func thumbAddSP(c *CPU, opcode uint16, instrAddr uint32) {
	negative := opcode&(1<<7) != 0
	offset := uint32(opcode&0x7F) * 4
	if negative {
		c.Reg.SetR(13, c.Reg.R(13)-offset)
	} else {
		c.Reg.SetR(13, c.Reg.R(13)+offset)
	}
}

// thumbPush: format 14, PUSH {rlist}{,LR}. Stores at successively
// decreasing addresses, SP ends pointing at the lowest stored word.
func thumbPush(c *CPU, opcode uint16, instrAddr uint32) {
	storeLR := opcode&(1<<8) != 0
	rlist := uint8(opcode & 0xFF)

	sp := c.Reg.R(13)
	count := popcount8(rlist)
	if storeLR {
		count++
	}
	sp -= uint32(count) * 4
	addr := sp

	for i := 0; i < 8; i++ {
		if rlist&(1<<uint(i)) != 0 {
			c.bus.Write32(addr, c.Reg.R(i))
			addr += 4
		}
	}
	if storeLR {
		c.bus.Write32(addr, c.Reg.R(14))
	}
	c.Reg.SetR(13, sp)
}

// thumbPop: format 14, POP {rlist}{,PC}.
func thumbPop(c *CPU, opcode uint16, instrAddr uint32) {
	loadPC := opcode&(1<<8) != 0
	rlist := uint8(opcode & 0xFF)

	addr := c.Reg.R(13)
	for i := 0; i < 8; i++ {
		if rlist&(1<<uint(i)) != 0 {
			c.Reg.SetR(i, c.bus.Read32(addr))
			addr += 4
		}
	}
	if loadPC {
		value := c.bus.Read32(addr)
		addr += 4
		c.FlushThumb(value)
	}
	c.Reg.SetR(13, addr)
}

// thumbMultipleTransfer: format 15, LDMIA/STMIA Rb!, {rlist}.
func thumbMultipleTransfer(c *CPU, opcode uint16, instrAddr uint32) {
	load := opcode&(1<<11) != 0
	rb := int((opcode >> 8) & 0x7)
	rlist := uint8(opcode & 0xFF)

	addr := c.Reg.R(rb)
	for i := 0; i < 8; i++ {
		if rlist&(1<<uint(i)) != 0 {
			if load {
				c.Reg.SetR(i, c.bus.Read32(addr))
			} else {
				c.bus.Write32(addr, c.Reg.R(i))
			}
			addr += 4
		}
	}
	c.Reg.SetR(rb, addr)
}

func popcount8(v uint8) int {
	n := 0
	for v != 0 {
		n += int(v & 1)
		v >>= 1
	}
	return n
}
