// Package gba assembles every subsystem package into a runnable core:
// the scheduler-driven frame loop, cartridge/BIOS loading, and the
// debugger/save-state surface a frontend drives.
//
// Grounded on jeebie/core.go's Emulator (single struct owning cpu/gpu/
// mem, a RunUntilFrame entry point, and an embedded debugger state
// machine), generalized from DMG's fixed-cycle Tick-until-70224 loop
// to the GBA's scheduler-deadline loop (spec.md §2, §4.1).
package gba

import (
	"fmt"
	"log/slog"
	"os"

	"goadvance/addr"
	"goadvance/apu"
	"goadvance/bus"
	"goadvance/cpu"
	"goadvance/debug"
	"goadvance/dma"
	"goadvance/input"
	"goadvance/irq"
	"goadvance/savestate"
	"goadvance/scheduler"
	"goadvance/timer"
	"goadvance/video"
)

// CyclesPerFrame is the scheduler's hard per-frame horizon
// (228 scanlines * 1232 cycles), used to schedule a RunLimit event so
// runFrame always returns even if no hardware event is pending (e.g.
// DISPCNT force-blank with every IRQ source masked).
const CyclesPerFrame = uint64(video.TotalLines) * uint64(video.LineCycles)

// GameBoyAdvance is the top-level emulated core.
type GameBoyAdvance struct {
	debug.Debugger

	CPU   *cpu.CPU
	Bus   *bus.Bus
	IRQ   *irq.Controller
	Video *video.GPU
	Timer *timer.Bank
	DMA   *dma.Engine
	APU   *apu.APU
	Input *input.Keypad
	Sched *scheduler.Scheduler

	biosLeft     bool   // whether the CPU has already left the BIOS region once
	lastBIOSWord uint32 // last word fetched while PC sat in the BIOS region
	frameDone    bool   // set by Video.OnFrameComplete, checked by runFrame
	breakAcked   bool   // set once a breakpoint has halted execution, cleared when PC moves off it
}

// New returns a freshly wired core with no ROM loaded.
func New() *GameBoyAdvance {
	irqCtl := irq.New()
	b := bus.New(irqCtl)
	sched := scheduler.New()

	g := &GameBoyAdvance{
		CPU:   cpu.New(b, irqCtl),
		Bus:   b,
		IRQ:   irqCtl,
		Video: video.New(b, irqCtl, sched),
		Timer: timer.NewBank(sched, irqCtl),
		DMA:   dma.NewEngine(sched, irqCtl, b),
		APU:   apu.New(b, sched),
		Input: input.New(),
		Sched: sched,

		biosLeft: false,
	}
	g.wire()
	return g
}

// NewWithFile loads a BIOS image (may be empty) and a ROM image from
// disk and returns a ready-to-run core.
func NewWithFile(biosPath, romPath string) (*GameBoyAdvance, error) {
	g := New()

	if biosPath != "" {
		bios, err := os.ReadFile(biosPath)
		if err != nil {
			return nil, fmt.Errorf("gba: read bios: %w", err)
		}
		g.Bus.LoadBIOS(bios)
	}

	rom, err := os.ReadFile(romPath)
	if err != nil {
		return nil, fmt.Errorf("gba: read rom: %w", err)
	}
	g.Bus.LoadROM(rom)
	slog.Info("loaded ROM", "path", romPath, "size", len(rom), "backup", g.Bus.Backup.Kind())

	return g, nil
}

// wire connects subsystems' callback hooks to each other, the one
// place cross-package dependencies that would otherwise be import
// cycles (video -> dma, timer -> apu, input -> irq) get resolved.
func (g *GameBoyAdvance) wire() {
	g.Video.OnHBlank = func() { g.DMA.Trigger(dma.StartHBlank) }
	g.Video.OnVBlank = func() { g.DMA.Trigger(dma.StartVBlank) }
	g.Video.OnFrameComplete = func() { g.frameDone = true }

	g.Timer.OnOverflow = g.APU.OnTimerOverflow
	g.DMA.OnFIFORequest = g.APU.OnFIFORequest
	g.APU.RequestRefill = func() { g.DMA.Trigger(dma.StartSpecial) }

	g.Input.RequestIRQ = func() { g.IRQ.Request(addr.Keypad) }
	g.Input.WireRegisters(g.Bus)

	g.wireTimers()
	g.wireDMA()
}

// Reset resets the CPU and clears the frame loop's BIOS-exit and
// breakpoint latches, keeping the loaded ROM/BIOS images. Memory, I/O
// registers, the interrupt controller, video, timers, DMA, APU, keypad
// and the scheduler queue are not reset and keep their current state.
func (g *GameBoyAdvance) Reset() {
	g.CPU.Reset()
	g.biosLeft = false
	g.breakAcked = false
}

// HandleKeyPress/HandleKeyRelease forward a frontend's input events
// to the keypad.
func (g *GameBoyAdvance) HandleKeyPress(key input.Key)   { g.Input.Press(key) }
func (g *GameBoyAdvance) HandleKeyRelease(key input.Key) { g.Input.Release(key) }

// CurrentFrame returns the most recently composited framebuffer.
func (g *GameBoyAdvance) CurrentFrame() *video.FrameBuffer { return g.Video.FrameBuffer() }

// SaveState/LoadState wrap the savestate package over this core's
// subsystem handles.
func (g *GameBoyAdvance) SaveState() ([]byte, error) {
	return savestate.Save(g.core())
}

func (g *GameBoyAdvance) LoadState(data []byte) error {
	return savestate.Load(data, g.core())
}

func (g *GameBoyAdvance) core() *savestate.Core {
	return &savestate.Core{
		CPU:   g.CPU,
		Bus:   g.Bus,
		IRQ:   g.IRQ,
		Video: g.Video,
		Timer: g.Timer,
		DMA:   g.DMA,
		APU:   g.APU,
		Input: g.Input,
		Sched: g.Sched,
	}
}
