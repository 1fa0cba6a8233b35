package video

import "goadvance/addr"

// wireRegisters installs the GPU as the bus's handler for every LCD
// I/O register, the same "component owns its register file, bus is
// just a view over it" approach timer and dma use for their own
// registers.
func (g *GPU) wireRegisters() {
	g.bus.SetIOHandler(addr.DISPCNT, func() uint16 { return g.dispcnt }, func(v uint16) { g.dispcnt = v })
	g.bus.SetIOHandler(addr.DISPSTAT, func() uint16 { return g.dispstat }, func(v uint16) {
		// bits 0-2 are status flags, read-only from software's side.
		g.dispstat = (g.dispstat & 0x7) | (v &^ 0x7)
	})
	g.bus.SetIOHandler(addr.VCOUNT, func() uint16 { return g.vcount }, func(v uint16) {})

	g.wireBGCNT(addr.BG0CNT, 0)
	g.wireBGCNT(addr.BG1CNT, 1)
	g.wireBGCNT(addr.BG2CNT, 2)
	g.wireBGCNT(addr.BG3CNT, 3)

	g.wireScroll(addr.BG0HOFS, addr.BG0VOFS, 0)
	g.wireScroll(addr.BG1HOFS, addr.BG1VOFS, 1)
	g.wireScroll(addr.BG2HOFS, addr.BG2VOFS, 2)
	g.wireScroll(addr.BG3HOFS, addr.BG3VOFS, 3)

	g.wireAffineParams(addr.BG2PA, 0)
	g.wireAffineParams(addr.BG3PA, 1)
	g.wireAffineRef(addr.BG2X, addr.BG2Y, 0)
	g.wireAffineRef(addr.BG3X, addr.BG3Y, 1)

	g.bus.SetIOHandler(addr.WIN0H, func() uint16 { return g.win0h }, func(v uint16) { g.win0h = v })
	g.bus.SetIOHandler(addr.WIN1H, func() uint16 { return g.win1h }, func(v uint16) { g.win1h = v })
	g.bus.SetIOHandler(addr.WIN0V, func() uint16 { return g.win0v }, func(v uint16) { g.win0v = v })
	g.bus.SetIOHandler(addr.WIN1V, func() uint16 { return g.win1v }, func(v uint16) { g.win1v = v })
	g.bus.SetIOHandler(addr.WININ, func() uint16 { return g.winin }, func(v uint16) { g.winin = v })
	g.bus.SetIOHandler(addr.WINOUT, func() uint16 { return g.winout }, func(v uint16) { g.winout = v })
	g.bus.SetIOHandler(addr.MOSAIC, func() uint16 { return g.mosaic }, func(v uint16) { g.mosaic = v })
	g.bus.SetIOHandler(addr.BLDCNT, func() uint16 { return g.bldcnt }, func(v uint16) { g.bldcnt = v })
	g.bus.SetIOHandler(addr.BLDALPHA, func() uint16 { return g.bldalpha }, func(v uint16) { g.bldalpha = v })
	g.bus.SetIOHandler(addr.BLDY, func() uint16 { return g.bldy }, func(v uint16) { g.bldy = v })
}

func (g *GPU) wireBGCNT(offset uint32, i int) {
	g.bus.SetIOHandler(offset, func() uint16 { return g.bgcnt[i] }, func(v uint16) { g.bgcnt[i] = v })
}

func (g *GPU) wireScroll(hOffset, vOffset uint32, i int) {
	g.bus.SetIOHandler(hOffset, func() uint16 { return 0 }, func(v uint16) { g.bghofs[i] = v & 0x1FF })
	g.bus.SetIOHandler(vOffset, func() uint16 { return 0 }, func(v uint16) { g.bgvofs[i] = v & 0x1FF })
}

// wireAffineParams installs BGxPA-PD, the four 16-bit fixed-point
// (8.8) transform matrix entries, idx selects bgAffine[0] (BG2) or
// bgAffine[1] (BG3); PB/PC/PD sit at +2/+4/+6 from the PA offset.
func (g *GPU) wireAffineParams(paOffset uint32, idx int) {
	a := &g.bgAffine[idx]
	g.bus.SetIOHandler(paOffset, func() uint16 { return 0 }, func(v uint16) { a.pa = int16(v) })
	g.bus.SetIOHandler(paOffset+2, func() uint16 { return 0 }, func(v uint16) { a.pb = int16(v) })
	g.bus.SetIOHandler(paOffset+4, func() uint16 { return 0 }, func(v uint16) { a.pc = int16(v) })
	g.bus.SetIOHandler(paOffset+6, func() uint16 { return 0 }, func(v uint16) { a.pd = int16(v) })
}

// wireAffineRef installs BGxX/BGxY, each a 28-bit signed 20.8
// fixed-point reference point split across two 16-bit halves; a
// write to either half re-latches curX/curY so the next scanline
// starts from the new reference point, per spec.md §4.5.
func (g *GPU) wireAffineRef(xOffset, yOffset uint32, idx int) {
	a := &g.bgAffine[idx]
	var xLo, xHi, yLo, yHi uint16

	setX := func() {
		raw := uint32(xHi)<<16 | uint32(xLo)
		a.refX = signExtend28(raw)
		a.curX = a.refX
	}
	setY := func() {
		raw := uint32(yHi)<<16 | uint32(yLo)
		a.refY = signExtend28(raw)
		a.curY = a.refY
	}

	g.bus.SetIOHandler(xOffset, func() uint16 { return xLo }, func(v uint16) { xLo = v; setX() })
	g.bus.SetIOHandler(xOffset+2, func() uint16 { return xHi }, func(v uint16) { xHi = v; setX() })
	g.bus.SetIOHandler(yOffset, func() uint16 { return yLo }, func(v uint16) { yLo = v; setY() })
	g.bus.SetIOHandler(yOffset+2, func() uint16 { return yHi }, func(v uint16) { yHi = v; setY() })
}

func signExtend28(v uint32) int32 {
	v &= 0x0FFF_FFFF
	if v&0x0800_0000 != 0 {
		v |= 0xF000_0000
	}
	return int32(v)
}
