package video

import (
	"goadvance/addr"
	"goadvance/bus"
	"goadvance/irq"
	"goadvance/scheduler"
)

// GBA scanline timing, in CPU cycles (spec.md §4.5): 4 cycles/dot,
// 240 visible dots then 68 blanking dots per line, 160 visible lines
// then 68 vertical-blank lines.
const (
	HDrawCycles  = 960
	HBlankCycles = 272
	LineCycles   = HDrawCycles + HBlankCycles
	VisibleLines = 160
	TotalLines   = 228
)

// DISPCNT bit positions.
const (
	dispcntBGModeMask  = 0x7
	dispcntFrameSelect = 1 << 4
	dispcntObjMapping1D = 1 << 6
	dispcntForceBlank   = 1 << 7
	dispcntBG0Enable    = 1 << 8
	dispcntObjEnable    = 1 << 12
	dispcntWin0Enable   = 1 << 13
	dispcntWin1Enable   = 1 << 14
	dispcntWinObjEnable = 1 << 15
)

// DISPSTAT bit positions.
const (
	dispstatVBlank       = 1 << 0
	dispstatHBlank       = 1 << 1
	dispstatVCount       = 1 << 2
	dispstatVBlankIRQ    = 1 << 3
	dispstatHBlankIRQ    = 1 << 4
	dispstatVCountIRQ    = 1 << 5
)

// affine holds one affine background's reference point and the
// per-scanline accumulators the PPU advances by dmx/dmy each line,
// reset from BGxX/BGxY whenever those registers are written.
type affine struct {
	pa, pb, pc, pd int16
	refX, refY     int32
	curX, curY     int32
}

// GPU is the GBA's picture processing unit: register state, the
// scheduler-driven scanline state machine, and the per-layer
// compositing pipeline.
type GPU struct {
	bus   *bus.Bus
	irq   *irq.Controller
	sched *scheduler.Scheduler
	fb    *FrameBuffer

	dispcnt  uint16
	dispstat uint16
	vcount   uint16

	bgcnt  [4]uint16
	bghofs [4]uint16
	bgvofs [4]uint16

	bgAffine [2]affine // indices 0,1 correspond to BG2,BG3

	win0h, win1h, win0v, win1v uint16
	winin, winout              uint16
	mosaic                     uint16
	bldcnt, bldalpha, bldy     uint16

	bgLine  [4][Width]layerPixel
	objLine [Width]objPixel


	// OnHBlank/OnVBlank notify the DMA engine of its start-of-blank
	// triggers without video depending on the dma package directly.
	OnHBlank func()
	OnVBlank func()

	// OnFrameComplete, if set, is called once per scan cycle when
	// vcount wraps back to 0, the signal a frontend uses to know a
	// composited framebuffer is ready to present.
	OnFrameComplete func()
}

type layerPixel struct {
	color     uint16
	opaque    bool
}

type objPixel struct {
	color     uint16
	opaque    bool
	priority  int
	semiTrans bool
	mode      int // 0 normal, 1 semi-transparent, 2 obj window
}

func New(b *bus.Bus, irqCtl *irq.Controller, sched *scheduler.Scheduler) *GPU {
	g := &GPU{bus: b, irq: irqCtl, sched: sched, fb: NewFrameBuffer()}
	g.wireRegisters()
	g.sched.Schedule(scheduler.HDraw, 0)
	return g
}

// FrameBuffer returns the currently composited screen surface.
func (g *GPU) FrameBuffer() *FrameBuffer { return g.fb }

// VideoMode reports the DISPCNT background mode (0-5).
func (g *GPU) VideoMode() int { return int(g.dispcnt & dispcntBGModeMask) }

// HandleEvent processes one popped scheduler event whose Kind belongs
// to video (HDraw/HBlank/VBlankHDraw/VBlankHBlank), advancing the
// scanline state machine and rescheduling the next phase.
func (g *GPU) HandleEvent(kind scheduler.Kind) {
	switch kind {
	case scheduler.HDraw, scheduler.VBlankHDraw:
		g.startHDraw()
	case scheduler.HBlank, scheduler.VBlankHBlank:
		g.startHBlank()
	}
}

func (g *GPU) startHDraw() {
	g.dispstat &^= dispstatHBlank

	if g.vcount < VisibleLines && g.dispcnt&dispcntForceBlank == 0 {
		g.renderScanline()
	} else if g.vcount < VisibleLines {
		g.blankScanline()
	}

	if g.vcount < VisibleLines {
		g.sched.Schedule(scheduler.HBlank, HDrawCycles)
	} else {
		g.sched.Schedule(scheduler.VBlankHBlank, HDrawCycles)
	}
}

func (g *GPU) startHBlank() {
	g.dispstat |= dispstatHBlank
	if g.dispstat&dispstatHBlankIRQ != 0 {
		g.irq.Request(addr.HBlank)
	}
	if g.OnHBlank != nil {
		g.OnHBlank()
	}

	g.advanceLine()

	if g.vcount < VisibleLines {
		g.sched.Schedule(scheduler.HDraw, HBlankCycles)
	} else {
		g.sched.Schedule(scheduler.VBlankHDraw, HBlankCycles)
	}
}

func (g *GPU) advanceLine() {
	g.vcount++
	if g.vcount == VisibleLines {
		g.dispstat |= dispstatVBlank
		if g.dispstat&dispstatVBlankIRQ != 0 {
			g.irq.Request(addr.VBlank)
		}
		if g.OnVBlank != nil {
			g.OnVBlank()
		}
		g.resetAffineAccumulators()
	}
	if g.vcount >= TotalLines {
		g.vcount = 0
		g.dispstat &^= dispstatVBlank
		if g.OnFrameComplete != nil {
			g.OnFrameComplete()
		}
	}
	g.updateVCountFlag()
}

func (g *GPU) updateVCountFlag() {
	lyc := uint16(g.dispstat >> 8)
	if g.vcount == lyc {
		g.dispstat |= dispstatVCount
		if g.dispstat&dispstatVCountIRQ != 0 {
			g.irq.Request(addr.VCounterMatch)
		}
	} else {
		g.dispstat &^= dispstatVCount
	}
}

func (g *GPU) resetAffineAccumulators() {
	for i := range g.bgAffine {
		g.bgAffine[i].curX = g.bgAffine[i].refX
		g.bgAffine[i].curY = g.bgAffine[i].refY
	}
}

func (g *GPU) blankScanline() {
	for x := 0; x < Width; x++ {
		g.fb.SetPixel(x, int(g.vcount), 0xFFFFFFFF)
	}
}
