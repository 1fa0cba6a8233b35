package debug

import "testing"

func TestDebugger_StartsRunning(t *testing.T) {
	var d Debugger
	if d.State() != Running {
		t.Errorf("State() = %v, want Running", d.State())
	}
}

func TestDebugger_PauseThenResume(t *testing.T) {
	var d Debugger
	d.Pause()
	if d.State() != Paused {
		t.Errorf("State() = %v, want Paused", d.State())
	}
	d.Resume()
	if d.State() != Running {
		t.Errorf("State() = %v, want Running", d.State())
	}
}

func TestDebugger_StepInstructionConsumedOnce(t *testing.T) {
	var d Debugger
	d.RequestStepInstruction()

	if !d.ConsumeStep() {
		t.Fatalf("expected first ConsumeStep() to report a pending step")
	}
	if d.ConsumeStep() {
		t.Errorf("expected step request to be cleared after consuming")
	}
}

func TestDebugger_CountersAccumulate(t *testing.T) {
	var d Debugger
	d.CountInstruction()
	d.CountInstruction()
	d.CountFrame()

	instr, frames := d.Counts()
	if instr != 2 || frames != 1 {
		t.Errorf("Counts() = (%d, %d), want (2, 1)", instr, frames)
	}
}

func TestDisassembleARM_BranchComputesTarget(t *testing.T) {
	// B +0 at address 0x1000: cond=AL, L=0, offset=0
	line := DisassembleARM(0x1000, 0xEA000000)
	want := "B 0x00001008"
	if line.Instruction != want {
		t.Errorf("Instruction = %q, want %q", line.Instruction, want)
	}
	if line.Length != 4 {
		t.Errorf("Length = %d, want 4", line.Length)
	}
}

func TestDisassembleThumb_SWI(t *testing.T) {
	line := DisassembleThumb(0x2000, 0xDF05)
	want := "SWI #0x05"
	if line.Instruction != want {
		t.Errorf("Instruction = %q, want %q", line.Instruction, want)
	}
	if line.Length != 2 {
		t.Errorf("Length = %d, want 2", line.Length)
	}
}
