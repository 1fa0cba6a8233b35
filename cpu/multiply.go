package cpu

// armMultiply handles MUL{S} and MLA{S}.
func armMultiply(c *CPU, opcode uint32, instrAddr uint32) {
	rd := int((opcode >> 16) & 0xF)
	rn := int((opcode >> 12) & 0xF)
	rs := int((opcode >> 8) & 0xF)
	rm := int(opcode & 0xF)
	accumulate := opcode&(1<<21) != 0
	s := opcode&(1<<20) != 0

	result := c.Reg.R(rm) * c.Reg.R(rs)
	if accumulate {
		result += c.Reg.R(rn)
	}
	c.Reg.SetR(rd, result)

	if s {
		c.Reg.SetNZ(result)
	}
	_ = instrAddr
}

// armMultiplyLong handles {U,S}MULL and {U,S}MLAL.
func armMultiplyLong(c *CPU, opcode uint32, instrAddr uint32) {
	rdHi := int((opcode >> 16) & 0xF)
	rdLo := int((opcode >> 12) & 0xF)
	rs := int((opcode >> 8) & 0xF)
	rm := int(opcode & 0xF)
	signed := opcode&(1<<22) != 0
	accumulate := opcode&(1<<21) != 0
	s := opcode&(1<<20) != 0

	var result uint64
	if signed {
		result = uint64(int64(int32(c.Reg.R(rm))) * int64(int32(c.Reg.R(rs))))
	} else {
		result = uint64(c.Reg.R(rm)) * uint64(c.Reg.R(rs))
	}

	if accumulate {
		hi := uint64(c.Reg.R(rdHi))
		lo := uint64(c.Reg.R(rdLo))
		result += hi<<32 | lo
	}

	c.Reg.SetR(rdLo, uint32(result))
	c.Reg.SetR(rdHi, uint32(result>>32))

	if s {
		c.Reg.SetFlag(FlagZ, result == 0)
		c.Reg.SetFlag(FlagN, result&0x8000_0000_0000_0000 != 0)
	}
}

// armSwap handles SWP{B}: a locked read-modify-write, modeled here as
// a plain read then write since the core runs single-threaded.
func armSwap(c *CPU, opcode uint32, instrAddr uint32) {
	rn := int((opcode >> 16) & 0xF)
	rd := int((opcode >> 12) & 0xF)
	rm := int(opcode & 0xF)
	byteSwap := opcode&(1<<22) != 0

	addr := c.Reg.R(rn)
	if byteSwap {
		old := c.bus.Read8(addr)
		c.bus.Write8(addr, uint8(c.Reg.R(rm)))
		c.Reg.SetR(rd, uint32(old))
	} else {
		old := c.bus.Read32(addr)
		c.bus.Write32(addr, c.Reg.R(rm))
		c.Reg.SetR(rd, old)
	}
}
