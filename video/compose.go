package video

import "goadvance/addr"

// window layer-enable bit positions within a WININ/WINOUT half.
const (
	winBG0 = 1 << iota
	winBG1
	winBG2
	winBG3
	winOBJ
	winSFX
)

// blend modes, BLDCNT bits 6-7.
const (
	blendNone = iota
	blendAlpha
	blendWhite
	blendBlack
)

type windowFlags uint16

func (f windowFlags) has(bit uint16) bool { return uint16(f)&bit != 0 }

type compLayer struct {
	color      uint16
	priority   int
	bgIndex    int
	isObject   bool
	isBackdrop bool
}

// renderScanline renders every enabled background layer and the OBJ
// layer for the current line, then composites them with window
// masking and blend effects, grounded line-for-line on
// finalize_scanline/finalize_pixel/blend_with (original_source's
// core/src/gpu/sfx.rs): backgrounds are sorted once per scanline by
// (priority, index), the frontmost two visible layers (including OBJ,
// inserted by priority comparison) become the blend's top/bottom
// targets, then BLDCNT's mode picks none/alpha/brighten/darken.
func (g *GPU) renderScanline() {
	mode := g.VideoMode()

	switch mode {
	case 0:
		for i := 0; i < 4; i++ {
			if g.dispcnt&(dispcntBG0Enable<<uint(i)) != 0 {
				g.renderTextLine(i)
			}
		}
	case 1:
		if g.dispcnt&dispcntBG0Enable != 0 {
			g.renderTextLine(0)
		}
		if g.dispcnt&(dispcntBG0Enable<<1) != 0 {
			g.renderTextLine(1)
		}
		if g.dispcnt&(dispcntBG0Enable<<2) != 0 {
			g.renderAffineLine(2)
		}
	case 2:
		if g.dispcnt&(dispcntBG0Enable<<2) != 0 {
			g.renderAffineLine(2)
		}
		if g.dispcnt&(dispcntBG0Enable<<3) != 0 {
			g.renderAffineLine(3)
		}
	case 3, 4, 5:
		g.renderBitmapLine(mode)
	}

	g.renderObjects()
	g.compositeLine(mode)
}

func (g *GPU) compositeLine(mode int) {
	y := int(g.vcount)
	backdrop := g.bus.Read16(addr.PaletteBase)

	activeBG := g.activeBackgroundsSorted(mode)

	usingWindows := g.dispcnt&(dispcntWin0Enable|dispcntWin1Enable|dispcntWinObjEnable) != 0

	for x := 0; x < Width; x++ {
		win := g.windowFlagsAt(x, y, usingWindows)
		g.finalizePixel(x, activeBG, win, backdrop)
	}
}

// activeBackgroundsSorted returns enabled background indices valid
// for the current video mode, sorted by (priority, index) ascending
// so index 0 is frontmost among ties.
func (g *GPU) activeBackgroundsSorted(mode int) []int {
	var candidates []int
	switch mode {
	case 0:
		candidates = []int{0, 1, 2, 3}
	case 1:
		candidates = []int{0, 1, 2}
	case 2:
		candidates = []int{2, 3}
	default:
		candidates = []int{2}
	}
	var active []int
	for _, bg := range candidates {
		if g.dispcnt&(dispcntBG0Enable<<uint(bg)) != 0 {
			active = append(active, bg)
		}
	}
	for i := 1; i < len(active); i++ {
		for j := i; j > 0; j-- {
			pi, pj := g.bgcnt[active[j-1]]&0x3, g.bgcnt[active[j]]&0x3
			if pi > pj || (pi == pj && active[j-1] > active[j]) {
				active[j-1], active[j] = active[j], active[j-1]
			}
		}
	}
	return active
}

// windowFlagsAt resolves which window (if any) covers (x, y) and
// returns that window's enabled-layer/effect bitmask: Win0 takes
// priority over Win1, which takes priority over the OBJ window, which
// takes priority over the WINOUT default — matching the occupancy-scan
// order original_source's finalize_scanline uses.
func (g *GPU) windowFlagsAt(x, y int, usingWindows bool) windowFlags {
	if !usingWindows {
		return windowFlags(winBG0 | winBG1 | winBG2 | winBG3 | winOBJ | winSFX)
	}
	if g.dispcnt&dispcntWin0Enable != 0 && g.insideWindow(g.win0h, g.win0v, x, y) {
		return windowFlags(g.winin & 0x3F)
	}
	if g.dispcnt&dispcntWin1Enable != 0 && g.insideWindow(g.win1h, g.win1v, x, y) {
		return windowFlags((g.winin >> 8) & 0x3F)
	}
	if g.dispcnt&dispcntWinObjEnable != 0 && g.objLine[x].mode == 2 {
		return windowFlags((g.winout >> 8) & 0x3F)
	}
	return windowFlags(g.winout & 0x3F)
}

func (g *GPU) insideWindow(h, v uint16, x, y int) bool {
	x1, x2 := int(h>>8), int(h&0xFF)
	y1, y2 := int(v>>8), int(v&0xFF)
	if x2 > Width || x2 < x1 {
		x2 = Width
	}
	if y2 > Height || y2 < y1 {
		y2 = Height
	}
	return x >= x1 && x < x2 && y >= y1 && y < y2
}

func (g *GPU) finalizePixel(x int, activeBG []int, win windowFlags, backdrop uint16) {
	backdropLayer := compLayer{color: backdrop, priority: 4, isBackdrop: true}

	var visible []compLayer
	bgBit := [4]uint16{winBG0, winBG1, winBG2, winBG3}
	for _, bg := range activeBG {
		if !win.has(bgBit[bg]) {
			continue
		}
		p := g.bgLine[bg][x]
		if !p.opaque {
			continue
		}
		visible = append(visible, compLayer{color: p.color, priority: int(g.bgcnt[bg] & 0x3), bgIndex: bg})
		if len(visible) == 2 {
			break
		}
	}

	top := backdropLayer
	bot := backdropLayer
	if len(visible) > 0 {
		top = visible[0]
	}
	if len(visible) > 1 {
		bot = visible[1]
	}

	obj := g.objLine[x]
	if win.has(winOBJ) && g.dispcnt&dispcntObjEnable != 0 && obj.opaque {
		objLayer := compLayer{color: obj.color, priority: obj.priority, isObject: true}
		if objLayer.priority <= top.priority {
			bot = top
			top = objLayer
		} else if objLayer.priority <= bot.priority {
			bot = objLayer
		}
	}

	blendMode := int((g.bldcnt >> 6) & 0x3)
	target1 := g.bldcnt & 0x3F
	target2 := (g.bldcnt >> 8) & 0x3F

	objAlphaBlend := top.isObject && obj.semiTrans

	sfxConfigured := (blendMode != blendNone || objAlphaBlend) && g.layerInMask(top, target1)

	var final uint16
	if win.has(winSFX) && sfxConfigured {
		switch {
		case top.isObject && objAlphaBlend && g.layerInMask(bot, target2):
			final = g.alphaBlend(top.color, bot.color)
		case blendMode == blendAlpha:
			if g.layerInMask(bot, target2) {
				final = g.alphaBlend(top.color, bot.color)
			} else {
				final = top.color
			}
		case blendMode == blendWhite:
			final = g.brighten(top.color)
		case blendMode == blendBlack:
			final = g.darken(top.color)
		default:
			final = top.color
		}
	} else {
		final = top.color
	}

	g.fb.SetPixel(x, int(g.vcount), BGR555ToRGBA(final))
}

func (g *GPU) layerInMask(l compLayer, mask uint16) bool {
	switch {
	case l.isBackdrop:
		return mask&(1<<5) != 0
	case l.isObject:
		return mask&(1<<4) != 0
	default:
		return mask&(1<<l.bgIndex) != 0
	}
}

func (g *GPU) alphaBlend(upper, lower uint16) uint16 {
	eva := clamp16(uint16(g.bldalpha & 0x1F))
	evb := clamp16(uint16((g.bldalpha >> 8) & 0x1F))
	return blendChannels(upper, lower, eva, evb)
}

func (g *GPU) brighten(c uint16) uint16 {
	evy := clamp16(uint16(g.bldy & 0x1F))
	return blendChannels(c, 0x7FFF, 16-evy, evy)
}

func (g *GPU) darken(c uint16) uint16 {
	evy := clamp16(uint16(g.bldy & 0x1F))
	return blendChannels(c, 0, 16-evy, evy)
}

// clamp16 caps a raw 5-bit blend coefficient field at 16, the hardware
// maximum for EVA/EVB/EVY (spec.md §4.8: "coefficient 0..16"); values
// 17-31 are out of range but the field can still encode them.
func clamp16(v uint16) uint16 {
	if v > 16 {
		return 16
	}
	return v
}

func blendChannels(a, b, weightA, weightB uint16) uint16 {
	r := min5((a&0x1F)*weightA+(b&0x1F)*weightB) >> 4
	gC := min5(((a>>5)&0x1F)*weightA+((b>>5)&0x1F)*weightB) >> 4
	bC := min5(((a>>10)&0x1F)*weightA+((b>>10)&0x1F)*weightB) >> 4
	return r | gC<<5 | bC<<10
}

func min5(v uint16) uint16 {
	// clamp after the shift-by-4 scaling, matching blend_with's
	// cmp::min(31, ...) on the pre-shifted sum is equivalent since the
	// shift is monotonic; clamp the final value directly instead.
	if v > 31<<4 {
		return 31 << 4
	}
	return v
}
