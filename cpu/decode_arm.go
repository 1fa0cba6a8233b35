package cpu

// armHandler executes one decoded ARM instruction. opcode is the full
// 32-bit word, instrAddr is the address it was fetched from (needed
// to compute the architectural PC+8 value when the instruction reads
// r15 as an operand).
type armHandler func(c *CPU, opcode uint32, instrAddr uint32)

// armTable is indexed by a 12-bit signature built from bits [27:20]
// (high 8 bits) and [7:4] (low 4 bits) of the opcode — the same
// signature ARM7TDMI documentation uses to describe its own decode
// logic, and the scale-up target spec.md §4.4.1/§9 calls for over
// jeebie/cpu/mapping.go's 256-entry opcodeMap. Built once at package
// init by classifying each signature rather than spelling out 4096
// literal entries, the way a hardware decoder's boolean-equation
// classification would be expressed in Go.
var armTable [4096]armHandler

func init() {
	for sig := 0; sig < 4096; sig++ {
		high8 := uint32(sig >> 4)
		low4 := uint32(sig & 0xF)
		armTable[sig] = classifyARM(high8, low4)
	}
}

func classifyARM(high8, low4 uint32) armHandler {
	switch {
	case high8 == 0x12 && low4 == 0x1:
		return armBranchExchange
	case high8&0xFC == 0x00 && low4 == 0x9:
		return armMultiply
	case high8&0xF8 == 0x08 && low4 == 0x9:
		return armMultiplyLong
	case high8&0xFB == 0x10 && low4 == 0x9:
		return armSwap
	case high8 < 0x20 && (low4 == 0xB || low4 == 0xD || low4 == 0xF):
		return armHalfwordTransfer
	case high8 < 0x40:
		return armDataProcessing
	case high8 < 0x80:
		if high8&0x20 != 0 && low4&0x1 != 0 {
			return armUndefined
		}
		return armSingleTransfer
	case high8 < 0xA0:
		return armBlockTransfer
	case high8 < 0xC0:
		return armBranch
	case high8 < 0xF0:
		return armUndefined // coprocessor space, unused on GBA
	default:
		return armSWI
	}
}

func armUndefined(c *CPU, opcode uint32, instrAddr uint32) {
	c.raiseUndefined()
}

func armSWI(c *CPU, opcode uint32, instrAddr uint32) {
	c.raiseSWI()
}

func armBranchExchange(c *CPU, opcode uint32, instrAddr uint32) {
	rm := opcode & 0xF
	target := c.operand(int(rm), instrAddr)
	c.FlushExchange(target)
}

// operand reads general register i, applying the PC+8 read rule when
// i is 15.
func (c *CPU) operand(i int, instrAddr uint32) uint32 {
	if i == 15 {
		return c.readR15(instrAddr)
	}
	return c.Reg.R(i)
}
