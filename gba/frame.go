package gba

import (
	"goadvance/debug"
	"goadvance/scheduler"
)

// RunFrame is the entry point a frontend calls once per display
// refresh. It gates on the embedded Debugger's state (spec.md §2's
// pause/step debugger surface), so a paused core renders its last
// composited frame unchanged while a backend keeps polling it.
func (g *GameBoyAdvance) RunFrame() {
	switch g.State() {
	case debug.Paused:
		return
	case debug.StepInstruction:
		if g.ConsumeStep() {
			g.stepInstruction()
		}
		g.SetState(debug.Paused)
	case debug.StepFrame:
		if g.ConsumeFrameStep() {
			g.runFrame()
			g.CountFrame()
		}
		g.SetState(debug.Paused)
	default:
		g.runFrame()
		g.CountFrame()
	}
}

// runFrame executes CPU instructions and dispatches scheduler events
// until Video reports a composited frame (vcount wrapping back to 0).
// Grounded on jeebie/core.go's RunUntilFrame, generalized from its
// fixed 70224-T-cycle budget to polling the scheduler's deadline
// queue instead of a cycle counter (spec.md §2: "the core has no
// notion of a frame boundary other than the scheduler"). A RunLimit
// event bounds the loop in case force-blank plus fully masked
// interrupts leave nothing else scheduled.
func (g *GameBoyAdvance) runFrame() {
	g.Sched.Cancel(scheduler.RunLimit)
	g.Sched.Schedule(scheduler.RunLimit, CyclesPerFrame)
	g.frameDone = false

	for !g.frameDone {
		if g.stepInstruction() {
			return
		}
	}
	g.Sched.Cancel(scheduler.RunLimit)
}

// stepInstruction checks for a breakpoint at the next instruction
// boundary, then executes exactly one CPU instruction, advances the
// scheduler by its cycle cost and dispatches every event the advance
// made ready. It returns true if the loop should stop before starting
// another instruction: either PC sits on a freshly-reached armed
// breakpoint, or the RunLimit backstop fired.
//
// A breakpoint hit (spec.md §7's DebugInterrupt: "exit the execution
// loop at the next instruction boundary and yield to the debugger")
// pauses the debugger so the next RunFrame call doesn't silently
// resume. breakAcked tracks "already stopped here once" so a plain
// Resume()+RunFrame() steps over the breakpoint instruction instead
// of re-triggering on the same PC forever; it re-arms as soon as PC
// moves off that address.
func (g *GameBoyAdvance) stepInstruction() bool {
	pc := g.CPU.Reg.PC()
	if g.HasBreakpoint(pc) {
		if !g.breakAcked {
			g.breakAcked = true
			g.SetState(debug.Paused)
			return true
		}
	} else {
		g.breakAcked = false
	}

	g.trackBIOSExit()

	cycles := g.CPU.Step()
	g.Sched.Advance(uint64(cycles))
	g.CountInstruction()

	for {
		ev, lateness, ok := g.Sched.PopReady()
		if !ok {
			return false
		}
		if ev.Kind == scheduler.RunLimit {
			return true
		}
		g.dispatch(ev.Kind, lateness)
	}
}

// dispatch routes one popped scheduler event to the subsystem that
// owns its Kind.
func (g *GameBoyAdvance) dispatch(kind scheduler.Kind, lateness uint64) {
	switch {
	case kind == scheduler.HDraw || kind == scheduler.HBlank ||
		kind == scheduler.VBlankHDraw || kind == scheduler.VBlankHBlank:
		g.Video.HandleEvent(kind)
	case kind >= scheduler.TimerOverflow0 && kind <= scheduler.TimerOverflow3:
		g.Timer.HandleOverflow(int(kind-scheduler.TimerOverflow0), lateness)
	case kind >= scheduler.DmaActivate0 && kind <= scheduler.DmaActivate3:
		g.DMA.Activate(int(kind - scheduler.DmaActivate0))
		g.Sched.Advance(g.DMA.CyclesSpent)
	case kind == scheduler.ApuSample || kind == scheduler.ApuPsgK:
		g.APU.HandleEvent(kind)
	}
}

// trackBIOSExit latches the last word fetched while PC sat in the
// BIOS region, then disables further BIOS reads the instant PC moves
// on, matching real hardware's open-bus behavior for the BIOS mirror
// (spec.md §4.3; bus.DisableBIOSReads documents the latch itself).
// Called before CPU.Step() so the peeked word is what Step is about
// to fetch.
func (g *GameBoyAdvance) trackBIOSExit() {
	pc := g.CPU.Reg.PC()

	if pc>>24 == 0 {
		g.lastBIOSWord = g.Bus.Read32(pc &^ 3)
		g.biosLeft = false
		return
	}
	if g.biosLeft {
		return
	}
	g.biosLeft = true
	g.Bus.DisableBIOSReads(g.lastBIOSWord)
}
