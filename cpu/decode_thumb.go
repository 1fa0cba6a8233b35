package cpu

// thumbHandler executes one decoded THUMB instruction.
type thumbHandler func(c *CPU, opcode uint16, instrAddr uint32)

// thumbTable is indexed by the top 10 bits of the opcode (bits
// [15:6]) — enough to resolve all 19 THUMB instruction formats, built
// at init by the same classify-then-fill approach as armTable.
var thumbTable [1024]thumbHandler

func init() {
	for i := 0; i < 1024; i++ {
		thumbTable[i] = classifyThumb(uint16(i))
	}
}

func classifyThumb(top10 uint16) thumbHandler {
	b15_13 := top10 >> 7
	b15_12 := top10 >> 6
	b15_11 := top10 >> 5
	b15_10 := top10 >> 4
	b15_9 := top10 >> 3
	b15_8 := top10 >> 2
	bits12_11 := (top10 >> 5) & 0x3

	switch {
	case b15_13 == 0b000 && bits12_11 != 0b11:
		return thumbMoveShifted
	case b15_11 == 0b00011:
		return thumbAddSubtract
	case b15_13 == 0b001:
		return thumbImmediateOp
	case b15_10 == 0b010000:
		return thumbALU
	case b15_10 == 0b010001:
		return thumbHiRegBX
	case b15_11 == 0b01001:
		return thumbPCRelativeLoad
	case b15_12 == 0b0101:
		return thumbLoadStoreRegOffset
	case b15_13 == 0b011:
		return thumbLoadStoreImmediate
	case b15_12 == 0b1000:
		return thumbLoadStoreHalfword
	case b15_12 == 0b1001:
		return thumbSPRelative
	case b15_12 == 0b1010:
		return thumbLoadAddress
	case b15_8 == 0b10110000:
		return thumbAddSP
	case b15_9 == 0b1011010:
		return thumbPush
	case b15_9 == 0b1011110:
		return thumbPop
	case b15_12 == 0b1100:
		return thumbMultipleTransfer
	case b15_8 == 0b11011111:
		return thumbSWI
	case b15_12 == 0b1101:
		return thumbConditionalBranch
	case b15_11 == 0b11100:
		return thumbUnconditionalBranch
	case b15_12 == 0b1111:
		return thumbLongBranchLink
	default:
		return thumbUndefined
	}
}

func thumbUndefined(c *CPU, opcode uint16, instrAddr uint32) {
	c.raiseUndefined()
}

func thumbSWI(c *CPU, opcode uint16, instrAddr uint32) {
	c.raiseSWI()
}
