package gba

import (
	"testing"

	"goadvance/addr"
	"goadvance/debug"
	"goadvance/dma"
	"goadvance/input"
)

func TestNew_WiresVBlankToDMA(t *testing.T) {
	g := New()

	g.DMA.WriteSAD(0, 0x0200_0000)
	g.DMA.WriteDAD(0, 0x0300_0000)
	g.DMA.WriteCountLow(0, 1)
	g.DMA.WriteCntHigh(0, uint16(dma.StartVBlank)<<12|1<<15)

	g.Video.OnVBlank()

	if g.Sched.Pending() == 0 {
		t.Errorf("Pending() = 0 after arming a VBlank-triggered channel")
	}
}

func TestRunFrame_AdvancesVCountAndReturns(t *testing.T) {
	g := New()
	// A halted CPU with nothing to wake it still lets the scheduler's
	// deadline events (HDraw/HBlank/...) drive RunFrame to completion,
	// bounded by the RunLimit event if nothing else fires first.
	g.CPU.Halt()
	g.RunFrame()
}

func TestHandleKeyPress_SetsKeypadBit(t *testing.T) {
	g := New()
	g.HandleKeyPress(input.KeyA)
	val := g.Bus.ReadIOHalf(addr.KEYINPUT)
	if val&1 != 0 {
		t.Errorf("KEYINPUT bit 0 (A) = 1, want 0 (pressed)")
	}
}

func TestSaveLoadState_RoundTrips(t *testing.T) {
	g := New()
	g.HandleKeyPress(input.KeyStart)

	data, err := g.SaveState()
	if err != nil {
		t.Fatalf("SaveState() error: %v", err)
	}

	g2 := New()
	if err := g2.LoadState(data); err != nil {
		t.Fatalf("LoadState() error: %v", err)
	}

	got := g2.Bus.ReadIOHalf(addr.KEYINPUT)
	want := g.Bus.ReadIOHalf(addr.KEYINPUT)
	if got != want {
		t.Errorf("KEYINPUT after load = %#x, want %#x", got, want)
	}
}

func TestRunFrame_PausedDoesNotAdvanceInstructionCount(t *testing.T) {
	g := New()
	g.Pause()

	g.RunFrame()

	instrs, frames := g.Counts()
	if instrs != 0 || frames != 0 {
		t.Errorf("Counts() = (%d, %d), want (0, 0) while paused", instrs, frames)
	}
}

func TestRunFrame_StepInstructionRunsExactlyOneThenRepauses(t *testing.T) {
	g := New()
	g.Pause()
	g.RequestStepInstruction()

	g.RunFrame()

	instrs, _ := g.Counts()
	if instrs != 1 {
		t.Errorf("Counts() instructions = %d, want 1 after a single step", instrs)
	}
	if g.State() != debug.Paused {
		t.Errorf("state after step = %v, want Paused", g.State())
	}

	g.RunFrame()
	instrs2, _ := g.Counts()
	if instrs2 != 1 {
		t.Errorf("Counts() instructions = %d after a second RunFrame, want still 1 (should stay paused)", instrs2)
	}
}

func TestRunFrame_StopsAtBreakpoint(t *testing.T) {
	g := New()
	g.CPU.Reg.SetPC(0x0800_0010)
	g.SetBreakpoint(0x0800_0010)

	g.RunFrame()

	if g.State() != debug.Paused {
		t.Errorf("state after hitting a breakpoint = %v, want Paused", g.State())
	}
	if g.CPU.Reg.PC() != 0x0800_0010 {
		t.Errorf("PC after breakpoint stop = %#x, want %#x (breakpoint never executed)", g.CPU.Reg.PC(), uint32(0x0800_0010))
	}
}

func TestReadWriteMemory_RoundTrips(t *testing.T) {
	g := New()
	g.WriteMemory(0x0200_0000, 0x42)
	if got := g.ReadMemory(0x0200_0000); got != 0x42 {
		t.Errorf("ReadMemory() = %#x, want 0x42", got)
	}
}

func TestMemoryWriter_WritesThroughToBus(t *testing.T) {
	g := New()
	g.MemoryWriter().Write16(0x0300_0000, 0xBEEF)
	if got := g.MemoryReader().Read16(0x0300_0000); got != 0xBEEF {
		t.Errorf("Read16() = %#x, want 0xBEEF", got)
	}
}

func TestExtractDebugData_ReportsCurrentMode(t *testing.T) {
	g := New()
	snap := g.ExtractDebugData()
	if snap.Mode != g.CPU.Reg.Mode() {
		t.Errorf("snapshot mode = %v, want %v", snap.Mode, g.CPU.Reg.Mode())
	}
}

func TestTrackBIOSExit_LatchesOnce(t *testing.T) {
	g := New()
	g.CPU.Reg.SetPC(0)
	g.trackBIOSExit()
	if g.biosLeft {
		t.Fatalf("biosLeft = true while PC still in BIOS region")
	}

	g.CPU.Reg.SetPC(0x0800_0000)
	g.trackBIOSExit()
	if !g.biosLeft {
		t.Errorf("biosLeft = false after PC left BIOS region")
	}
}
