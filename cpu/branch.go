package cpu

// armBranch handles B and BL: a PC-relative jump by a signed 24-bit
// word offset, optionally saving the return address in LR first.
func armBranch(c *CPU, opcode uint32, instrAddr uint32) {
	link := opcode&(1<<24) != 0

	offset := int32(opcode&0xFF_FFFF) << 8 >> 8 // sign-extend 24 -> 32
	target := uint32(int32(instrAddr+8) + offset*4)

	if link {
		c.Reg.SetR(14, instrAddr+4)
	}
	c.FlushARM(target)
}
