package cpu

import "testing"

func TestDataProcessing_ADDSSetsFlags(t *testing.T) {
	c, _, _ := newTestCPU()
	c.Reg.SetR(1, 0xFFFF_FFFF)
	c.Reg.SetR(2, 1)

	// ADDS r0, r1, r2 : cond=AL,op=ADD(0100),S=1,Rn=1,Rd=0,I=0,shift imm=0,Rm=2
	opcode := uint32(0xE091_0002)
	armDataProcessing(c, opcode, c.Reg.PC())

	if c.Reg.R(0) != 0 {
		t.Errorf("r0 = %#x, want 0", c.Reg.R(0))
	}
	if !c.Reg.Flag(FlagZ) || !c.Reg.Flag(FlagC) {
		t.Errorf("Z=%v C=%v, want both true", c.Reg.Flag(FlagZ), c.Reg.Flag(FlagC))
	}
}

func TestDataProcessing_MOVImmediate(t *testing.T) {
	c, _, _ := newTestCPU()
	// MOV r3, #0x42 : cond=AL,I=1,op=MOV(1101),S=0,Rd=3,rot=0,imm=0x42
	opcode := uint32(0xE3A0_3042)
	armDataProcessing(c, opcode, c.Reg.PC())

	if c.Reg.R(3) != 0x42 {
		t.Errorf("r3 = %#x, want 0x42", c.Reg.R(3))
	}
}

func TestDataProcessing_CMPDoesNotWriteRd(t *testing.T) {
	c, _, _ := newTestCPU()
	c.Reg.SetR(0, 5)
	c.Reg.SetR(1, 5)
	// CMP r0, r1 : cond=AL,I=0,op=CMP(1010),S=1,Rn=0,Rd=0,Rm=1
	opcode := uint32(0xE150_0001)
	armDataProcessing(c, opcode, c.Reg.PC())

	if c.Reg.R(0) != 5 {
		t.Errorf("r0 = %d, want unchanged 5", c.Reg.R(0))
	}
	if !c.Reg.Flag(FlagZ) {
		t.Errorf("Z flag = false, want true (5-5=0)")
	}
}

// TestDataProcessing_NonSWriteToPCStaysInARM exercises the ARM7TDMI
// rule that a non-S data-processing write to r15 never switches to
// THUMB, even if the computed value has bit 0 set; only an S=1 write
// that restores CPSR from SPSR can change execution state.
func TestDataProcessing_NonSWriteToPCStaysInARM(t *testing.T) {
	c, _, _ := newTestCPU()
	c.Reg.SetR(1, 0x0800_1001) // bit 0 set

	// MOV r15, r1 : cond=AL,I=0,op=MOV(1101),S=0,Rd=15,Rm=1
	opcode := uint32(0xE1A0_F001)
	armDataProcessing(c, opcode, c.Reg.PC())

	if c.Reg.Thumb() {
		t.Errorf("Thumb() = true after non-S MOV PC, want ARM state preserved")
	}
	if c.Reg.PC() != 0x0800_1000 {
		t.Errorf("PC = %#x, want 0x08001000 (word-aligned, ARM flush)", c.Reg.PC())
	}
}

func TestPSRTransfer_MRSThenMSRFlagsOnly(t *testing.T) {
	c, _, _ := newTestCPU()
	c.Reg.SetFlag(FlagN, true)

	// MRS r0, CPSR
	mrs := uint32(0xE10F_0000)
	armDataProcessing(c, mrs, c.Reg.PC())
	if c.Reg.R(0)&(1<<FlagN) == 0 {
		t.Errorf("MRS did not capture N flag")
	}

	c.Reg.SetR(1, 0) // all flags clear
	// MSR CPSR_flg, r1
	msr := uint32(0xE128_F001)
	armDataProcessing(c, msr, c.Reg.PC())
	if c.Reg.Flag(FlagN) {
		t.Errorf("N flag = true after MSR flags-only clear, want false")
	}
}
