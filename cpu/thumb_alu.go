package cpu

// thumbMoveShifted: format 1, LSL/LSR/ASR Rd, Rs, #offset5.
func thumbMoveShifted(c *CPU, opcode uint16, instrAddr uint32) {
	op := (opcode >> 11) & 0x3
	offset := uint32((opcode >> 6) & 0x1F)
	rs := int((opcode >> 3) & 0x7)
	rd := int(opcode & 0x7)

	var shiftType ShiftType
	switch op {
	case 0:
		shiftType = ShiftLSL
	case 1:
		shiftType = ShiftLSR
	case 2:
		shiftType = ShiftASR
	}

	result, carryOut := Barrel(shiftType, c.Reg.R(rs), offset, true, c.Reg.Flag(FlagC))
	c.Reg.SetR(rd, result)
	c.Reg.SetNZ(result)
	c.Reg.SetFlag(FlagC, carryOut)
}

// thumbAddSubtract: format 2, ADD/SUB Rd, Rs, Rn|#imm3.
func thumbAddSubtract(c *CPU, opcode uint16, instrAddr uint32) {
	immediate := opcode&(1<<10) != 0
	subtract := opcode&(1<<9) != 0
	field := uint32((opcode >> 6) & 0x7)
	rs := int((opcode >> 3) & 0x7)
	rd := int(opcode & 0x7)

	op1 := c.Reg.R(rs)
	var op2 uint32
	if immediate {
		op2 = field
	} else {
		op2 = c.Reg.R(int(field))
	}

	var result uint32
	var carryOut, overflow bool
	if subtract {
		result, carryOut, overflow = sub(op1, op2)
	} else {
		result, carryOut, overflow = add(op1, op2)
	}

	c.Reg.SetR(rd, result)
	c.Reg.SetNZ(result)
	c.Reg.SetFlag(FlagC, carryOut)
	c.Reg.SetFlag(FlagV, overflow)
}

// thumbImmediateOp: format 3, MOV/CMP/ADD/SUB Rd, #offset8.
func thumbImmediateOp(c *CPU, opcode uint16, instrAddr uint32) {
	op := (opcode >> 11) & 0x3
	rd := int((opcode >> 8) & 0x7)
	imm := uint32(opcode & 0xFF)

	op1 := c.Reg.R(rd)
	var result uint32
	var carryOut, overflow bool
	writesResult := true

	switch op {
	case 0: // MOV
		result = imm
	case 1: // CMP
		result, carryOut, overflow = sub(op1, imm)
		writesResult = false
	case 2: // ADD
		result, carryOut, overflow = add(op1, imm)
	case 3: // SUB
		result, carryOut, overflow = sub(op1, imm)
	}

	if writesResult {
		c.Reg.SetR(rd, result)
	}
	c.Reg.SetNZ(result)
	if op != 0 {
		c.Reg.SetFlag(FlagC, carryOut)
		c.Reg.SetFlag(FlagV, overflow)
	}
}

// thumbALU: format 4, the 16 two-operand ALU ops (AND..MVN).
func thumbALU(c *CPU, opcode uint16, instrAddr uint32) {
	op := (opcode >> 6) & 0xF
	rs := int((opcode >> 3) & 0x7)
	rd := int(opcode & 0x7)

	op1 := c.Reg.R(rd)
	op2 := c.Reg.R(rs)
	carryIn := c.Reg.Flag(FlagC)

	var result uint32
	writesResult := true
	carryOut := carryIn
	var overflow bool
	affectsCV := false

	switch op {
	case 0x0: // AND
		result = op1 & op2
	case 0x1: // EOR
		result = op1 ^ op2
	case 0x2: // LSL
		result, carryOut = shiftLSL(op1, op2&0xFF, carryIn)
	case 0x3: // LSR
		result, carryOut = shiftLSR(op1, op2&0xFF, carryIn)
	case 0x4: // ASR
		result, carryOut = shiftASR(op1, op2&0xFF, carryIn)
	case 0x5: // ADC
		result, carryOut, overflow = adc(op1, op2, carryIn)
		affectsCV = true
	case 0x6: // SBC
		result, carryOut, overflow = sbc(op1, op2, carryIn)
		affectsCV = true
	case 0x7: // ROR
		result, carryOut = shiftROR(op1, op2&0xFF, carryIn)
	case 0x8: // TST
		result = op1 & op2
		writesResult = false
	case 0x9: // NEG
		result, carryOut, overflow = sub(0, op2)
		affectsCV = true
	case 0xA: // CMP
		result, carryOut, overflow = sub(op1, op2)
		writesResult = false
		affectsCV = true
	case 0xB: // CMN
		result, carryOut, overflow = add(op1, op2)
		writesResult = false
		affectsCV = true
	case 0xC: // ORR
		result = op1 | op2
	case 0xD: // MUL
		result = op1 * op2
	case 0xE: // BIC
		result = op1 &^ op2
	case 0xF: // MVN
		result = ^op2
	}

	if writesResult {
		c.Reg.SetR(rd, result)
	}
	c.Reg.SetNZ(result)
	c.Reg.SetFlag(FlagC, carryOut)
	if affectsCV {
		c.Reg.SetFlag(FlagV, overflow)
	}
}

// thumbHiRegBX: format 5, operations on r8-r15 plus BX.
func thumbHiRegBX(c *CPU, opcode uint16, instrAddr uint32) {
	op := (opcode >> 8) & 0x3
	h1 := opcode&(1<<7) != 0
	h2 := opcode&(1<<6) != 0
	rs := int((opcode >> 3) & 0x7)
	rd := int(opcode & 0x7)
	if h2 {
		rs += 8
	}
	if h1 {
		rd += 8
	}

	srcValue := c.operand(rs, instrAddr)

	switch op {
	case 0: // ADD
		result := c.operand(rd, instrAddr) + srcValue
		c.Reg.SetR(rd, result)
		if rd == 15 {
			c.FlushThumb(result)
		}
	case 1: // CMP
		result, carryOut, overflow := sub(c.operand(rd, instrAddr), srcValue)
		c.Reg.SetNZ(result)
		c.Reg.SetFlag(FlagC, carryOut)
		c.Reg.SetFlag(FlagV, overflow)
	case 2: // MOV
		c.Reg.SetR(rd, srcValue)
		if rd == 15 {
			c.FlushThumb(srcValue)
		}
	case 3: // BX/BLX
		c.FlushExchange(srcValue)
	}
}
