package video

import (
	"testing"

	"goadvance/addr"
	"goadvance/bus"
	"goadvance/irq"
	"goadvance/scheduler"
)

func newTestGPU() (*GPU, *bus.Bus, *irq.Controller, *scheduler.Scheduler) {
	irqCtl := irq.New()
	irqCtl.SetMasterEnable(true)
	irqCtl.SetEnable(0x3FFF)
	b := bus.New(irqCtl)
	sched := scheduler.New()
	g := New(b, irqCtl, sched)
	return g, b, irqCtl, sched
}

// pumpEvents drives the scheduler forward by n events, fast-forwarding
// the virtual clock to each deadline and dispatching it to the GPU.
func pumpEvents(g *GPU, sched *scheduler.Scheduler, n int) {
	for i := 0; i < n; i++ {
		sched.FastForward()
		ev, _, ok := sched.PopReady()
		if !ok {
			return
		}
		g.HandleEvent(ev.Kind)
	}
}

func TestScanlineMachine_AdvancesVCountAndRequestsVBlank(t *testing.T) {
	g, b, _, sched := newTestGPU()
	b.WriteIOHalf(addr.DISPSTAT, 1<<3) // VBlank IRQ enable

	pumpEvents(g, sched, VisibleLines*2)

	if g.vcount != VisibleLines {
		t.Fatalf("vcount = %d, want %d", g.vcount, VisibleLines)
	}
	if g.dispstat&dispstatVBlank == 0 {
		t.Errorf("VBlank status flag not set entering line 160")
	}
}

func TestScanlineMachine_WrapsAtTotalLines(t *testing.T) {
	g, _, _, sched := newTestGPU()

	pumpEvents(g, sched, TotalLines*2)

	if g.vcount != 0 {
		t.Errorf("vcount = %d, want wrap to 0 after %d lines", g.vcount, TotalLines)
	}
}

func TestVCountMatch_RequestsInterrupt(t *testing.T) {
	g, b, irqCtl, sched := newTestGPU()
	b.WriteIOHalf(addr.DISPSTAT, (5<<8)|(1<<5)) // LYC=5, VCount IRQ enable

	pumpEvents(g, sched, 6*2)

	if irqCtl.Pending()&uint16(addr.VCounterMatch) == 0 {
		t.Errorf("VCounterMatch not requested when VCOUNT reached LYC")
	}
}

func TestBGR555ToRGBA_ExpandsFullWhite(t *testing.T) {
	got := BGR555ToRGBA(0x7FFF)
	want := uint32(0xFFFFFFFF)
	if got != want {
		t.Errorf("BGR555ToRGBA(0x7FFF) = %#x, want %#x", got, want)
	}
}

func TestTextBackground_RendersOpaquePixelFromPalette(t *testing.T) {
	g, b, _, _ := newTestGPU()

	b.WriteIOHalf(addr.DISPCNT, 1<<8) // mode 0, BG0 enable
	b.WriteIOHalf(addr.BG0CNT, 0)     // char base 0, screen base 0, 4bpp, 32x32

	// screen entry 0: tile index 1, palette bank 0
	b.Write16(addr.VRAMBase, 1)
	// tile 1, row 0: pixel 0 = color index 3 (low nibble of first byte)
	b.Write8(addr.VRAMBase+32, 0x03)
	// palette bank 0, color 3
	b.Write16(addr.PaletteBase+3*2, 0x1234&0x7FFF)

	g.renderTextLine(0)

	px := g.bgLine[0][0]
	if !px.opaque {
		t.Fatal("expected opaque pixel at x=0")
	}
	if px.color != 0x1234&0x7FFF {
		t.Errorf("color = %#x, want %#x", px.color, 0x1234&0x7FFF)
	}
}

func TestObjectScan_LowestOAMIndexWinsOnPriorityTie(t *testing.T) {
	g, b, _, _ := newTestGPU()
	b.WriteIOHalf(addr.DISPCNT, dispcntObjEnable)

	// sprite 0: 8x8 square, pos (0,0), tile 1, palette colors via 4bpp.
	writeSprite(b, 0, 0, 0, 1, 0, 0)
	// sprite 5: same position and priority, different tile (2).
	writeSprite(b, 5, 0, 0, 2, 0, 0)

	// tile 1 color index 1 everywhere, tile 2 color index 2 everywhere.
	for i := uint32(0); i < 32; i++ {
		b.Write8(addr.VRAMBase+0x10000+1*32+i, 0x11)
		b.Write8(addr.VRAMBase+0x10000+2*32+i, 0x22)
	}
	b.Write16(addr.PaletteBase+0x200+1*2, 0x0011)
	b.Write16(addr.PaletteBase+0x200+2*2, 0x0022)

	g.vcount = 0
	g.renderObjects()

	if g.objLine[0].color != 0x0011 {
		t.Errorf("color = %#x, want sprite 0's color 0x11 (lowest OAM index wins tie)", g.objLine[0].color)
	}
}

func writeSprite(b *bus.Bus, idx int, y, x int, tile, priority, palBank uint16) {
	base := addr.OAMBase + uint32(idx)*8
	b.Write16(base, uint16(y&0xFF))
	b.Write16(base+2, uint16(x&0x1FF))
	b.Write16(base+4, tile|(priority<<10)|(palBank<<12))
}

func TestAlphaBlend_ClampsCoefficientsAtSixteen(t *testing.T) {
	g, _, _, _ := newTestGPU()
	g.bldalpha = 0x1F | (0x1F << 8) // raw 5-bit max (31), above the hardware cap of 16

	capped := g.alphaBlend(0x4210, 0) // mid-gray blended with black at capped 16/16 stays mid-gray
	uncapped := blendChannels(0x4210, 0, 31, 31)

	if capped != 0x4210 {
		t.Errorf("alphaBlend with raw field 31/31 = %#x, want 0x4210 (coefficients capped at 16)", capped)
	}
	if capped == uncapped {
		t.Errorf("alphaBlend did not clamp: matched the uncapped (31, 31) result")
	}
}

func TestBrightenDarken_ClampEVYAvoidsUnderflow(t *testing.T) {
	g, _, _, _ := newTestGPU()
	g.bldy = 0x1F // above the hardware cap of 16; 16-evy must not underflow

	// With evy clamped to 16, brighten(0) should fully saturate to white
	// and darken(anything) should fully saturate to black.
	if got := g.brighten(0); got != 0x7FFF {
		t.Errorf("brighten(0) with raw EVY=31 = %#x, want 0x7FFF", got)
	}
	if got := g.darken(0x7FFF); got != 0 {
		t.Errorf("darken(0x7FFF) with raw EVY=31 = %#x, want 0", got)
	}
}
