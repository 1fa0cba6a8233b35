package debug

import (
	"fmt"

	"goadvance/bus"
)

// DisassemblyLine mirrors jeebie/disasm/disasm.go's DisassemblyLine
// shape (Address/Instruction/Length), widened from a byte count to
// distinguishing 2-byte THUMB and 4-byte ARM instructions.
type DisassemblyLine struct {
	Address     uint32
	Instruction string
	Length      int
}

var condNames = [16]string{
	"EQ", "NE", "CS", "CC", "MI", "PL", "VS", "VC",
	"HI", "LS", "GE", "LT", "GT", "LE", "", "",
}

func condSuffix(opcode uint32) string {
	return condNames[opcode>>28]
}

var dpMnemonics = [16]string{
	"AND", "EOR", "SUB", "RSB", "ADD", "ADC", "SBC", "RSC",
	"TST", "TEQ", "CMP", "CMN", "ORR", "MOV", "BIC", "MVN",
}

// DisassembleARM decodes one 32-bit ARM instruction into a readable
// mnemonic line. It does not attempt to reproduce a particular
// assembler's exact operand syntax, just enough to identify the
// instruction and its register/immediate operands at a glance.
func DisassembleARM(address uint32, opcode uint32) DisassemblyLine {
	cond := condSuffix(opcode)
	text := fmt.Sprintf("%08X ??? (ARM)", opcode)

	switch {
	case opcode&0x0FFFFFF0 == 0x012FFF10:
		rm := opcode & 0xF
		text = fmt.Sprintf("BX%s r%d", cond, rm)
	case opcode&0x0FC000F0 == 0x00000090:
		rd := (opcode >> 16) & 0xF
		rm := opcode & 0xF
		rs := (opcode >> 8) & 0xF
		accumulate := opcode&(1<<21) != 0
		mnem := "MUL"
		if accumulate {
			mnem = "MLA"
		}
		text = fmt.Sprintf("%s%s r%d, r%d, r%d", mnem, cond, rd, rm, rs)
	case opcode&0x0E000000 == 0x0A000000:
		link := opcode&(1<<24) != 0
		offset := int32(opcode<<8) >> 6
		target := uint32(int32(address+8) + offset)
		mnem := "B"
		if link {
			mnem = "BL"
		}
		text = fmt.Sprintf("%s%s 0x%08X", mnem, cond, target)
	case opcode&0x0FB00FF0 == 0x01000090:
		rd := (opcode >> 12) & 0xF
		rm := opcode & 0xF
		rn := (opcode >> 16) & 0xF
		mnem := "SWP"
		if opcode&(1<<22) != 0 {
			mnem = "SWPB"
		}
		text = fmt.Sprintf("%s%s r%d, r%d, [r%d]", mnem, cond, rd, rm, rn)
	case opcode&0x0C000000 == 0x00000000:
		op := (opcode >> 21) & 0xF
		s := opcode&(1<<20) != 0
		rn := (opcode >> 16) & 0xF
		rd := (opcode >> 12) & 0xF
		sBit := ""
		if s {
			sBit = "S"
		}
		mnem := dpMnemonics[op]
		if op >= 8 && op <= 11 && !s {
			text = fmt.Sprintf("MRS/MSR%s (psr transfer)", cond)
		} else if op == 13 || op == 15 { // MOV/MVN : no Rn operand
			text = fmt.Sprintf("%s%s%s r%d, <op2>", mnem, cond, sBit, rd)
		} else if op >= 8 && op <= 11 { // TST/TEQ/CMP/CMN : no Rd operand
			text = fmt.Sprintf("%s%s r%d, <op2>", mnem, cond, rn)
		} else {
			text = fmt.Sprintf("%s%s%s r%d, r%d, <op2>", mnem, cond, sBit, rd, rn)
		}
	case opcode&0x0C000000 == 0x04000000:
		l := opcode&(1<<20) != 0
		b := opcode&(1<<22) != 0
		rd := (opcode >> 12) & 0xF
		rn := (opcode >> 16) & 0xF
		mnem := "STR"
		if l {
			mnem = "LDR"
		}
		if b {
			mnem += "B"
		}
		text = fmt.Sprintf("%s%s r%d, [r%d, <offset>]", mnem, cond, rd, rn)
	case opcode&0x0E000000 == 0x08000000:
		l := opcode&(1<<20) != 0
		rn := (opcode >> 16) & 0xF
		mnem := "STM"
		if l {
			mnem = "LDM"
		}
		text = fmt.Sprintf("%s%s r%d, {regs}", mnem, cond, rn)
	case opcode&0x0F000000 == 0x0F000000:
		comment := opcode & 0x00FFFFFF
		text = fmt.Sprintf("SWI%s #0x%06X", cond, comment)
	}

	return DisassemblyLine{Address: address, Instruction: text, Length: 4}
}

// DisassembleThumb decodes one 16-bit THUMB instruction, following
// the same best-effort identify-and-label approach as DisassembleARM.
func DisassembleThumb(address uint32, opcode uint16) DisassemblyLine {
	text := fmt.Sprintf("%04X ??? (THUMB)", opcode)

	switch {
	case opcode&0xF800 == 0x1800:
		sub := opcode&(1<<9) != 0
		mnem := "ADD"
		if sub {
			mnem = "SUB"
		}
		text = fmt.Sprintf("%s r%d, r%d, <operand>", mnem, opcode&0x7, (opcode>>3)&0x7)
	case opcode&0xE000 == 0x0000 && opcode&0x1800 != 0x1800:
		op := (opcode >> 11) & 0x3
		mnems := [4]string{"LSL", "LSR", "ASR", "?"}
		text = fmt.Sprintf("%s r%d, r%d, #%d", mnems[op], opcode&0x7, (opcode>>3)&0x7, (opcode>>6)&0x1F)
	case opcode&0xE000 == 0x2000:
		op := (opcode >> 11) & 0x3
		mnems := [4]string{"MOV", "CMP", "ADD", "SUB"}
		rd := (opcode >> 8) & 0x7
		text = fmt.Sprintf("%s r%d, #%d", mnems[op], rd, opcode&0xFF)
	case opcode&0xFC00 == 0x4000:
		op := (opcode >> 6) & 0xF
		aluMnems := [16]string{"AND", "EOR", "LSL", "LSR", "ASR", "ADC", "SBC", "ROR",
			"TST", "NEG", "CMP", "CMN", "ORR", "MUL", "BIC", "MVN"}
		text = fmt.Sprintf("%s r%d, r%d", aluMnems[op], opcode&0x7, (opcode>>3)&0x7)
	case opcode&0xFC00 == 0x4400:
		op := (opcode >> 8) & 0x3
		mnems := [4]string{"ADD", "CMP", "MOV", "BX"}
		text = fmt.Sprintf("%s (hi) op=%d", mnems[op], op)
	case opcode&0xF800 == 0x4800:
		rd := (opcode >> 8) & 0x7
		text = fmt.Sprintf("LDR r%d, [PC, #%d]", rd, (opcode&0xFF)*4)
	case opcode&0xF000 == 0xD000 && (opcode>>8)&0xF != 0xF:
		offset := int8(opcode & 0xFF)
		target := uint32(int32(address+4) + int32(offset)*2)
		text = fmt.Sprintf("B%s 0x%08X", condNames[(opcode>>8)&0xF], target)
	case opcode&0xFF00 == 0xDF00:
		text = fmt.Sprintf("SWI #0x%02X", opcode&0xFF)
	case opcode&0xF800 == 0xE000:
		offset := int16(opcode<<5) >> 4
		target := uint32(int32(address+4) + int32(offset))
		text = fmt.Sprintf("B 0x%08X", target)
	case opcode&0xF000 == 0xF000:
		half := "high"
		if opcode&(1<<11) != 0 {
			half = "low"
		}
		text = fmt.Sprintf("BL (%s half) offset=0x%03X", half, opcode&0x7FF)
	}

	return DisassemblyLine{Address: address, Instruction: text, Length: 2}
}

// DisassembleAt reads the instruction at pc (consulting the CPU's
// current Thumb flag) and disassembles it, mirroring
// jeebie/disasm/disasm.go's DisassembleAt(pc, mmu) signature.
func DisassembleAt(pc uint32, thumb bool, b *bus.Bus) DisassemblyLine {
	if thumb {
		return DisassembleThumb(pc, b.Read16(pc))
	}
	return DisassembleARM(pc, b.Read32(pc))
}
