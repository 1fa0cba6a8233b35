package cpu

// thumbConditionalBranch: format 16, Bcond label.
func thumbConditionalBranch(c *CPU, opcode uint16, instrAddr uint32) {
	cond := Cond((opcode >> 8) & 0xF)
	if !c.checkCond(cond) {
		return
	}
	offset := int32(int8(opcode & 0xFF))
	target := uint32(int32(instrAddr+4) + offset*2)
	c.FlushThumb(target)
}

// thumbUnconditionalBranch: format 18, B label.
func thumbUnconditionalBranch(c *CPU, opcode uint16, instrAddr uint32) {
	offset := signExtend11(opcode & 0x7FF)
	target := uint32(int32(instrAddr+4) + offset*2)
	c.FlushThumb(target)
}

// thumbLongBranchLink: format 19, the two-instruction BL sequence.
// The first half (H=0) stashes PC + high-offset<<12 in LR; the second
// half (H=1) computes the target from LR + low-offset<<1 and sets LR
// to the return address with bit 0 set (BLX would instead switch to
// ARM, but GBA never issues that encoding meaningfully since it has
// no Thumb-2 BLX).
func thumbLongBranchLink(c *CPU, opcode uint16, instrAddr uint32) {
	offset := uint32(opcode & 0x7FF)
	high := opcode&(1<<11) != 0

	if !high {
		signed := signExtend11(uint16(offset))
		c.Reg.SetR(14, uint32(int32(instrAddr+4)+signed<<12))
		return
	}

	target := c.Reg.R(14) + offset<<1
	nextInstr := instrAddr + 2
	c.Reg.SetR(14, nextInstr|1)
	c.FlushThumb(target)
}

func signExtend11(v uint16) int32 {
	if v&0x400 != 0 {
		return int32(v) - 0x800
	}
	return int32(v)
}
