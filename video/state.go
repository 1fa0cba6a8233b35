package video

// AffineState is one affine background's exported reference/accumulator state.
type AffineState struct {
	PA, PB, PC, PD int16
	RefX, RefY     int32
	CurX, CurY     int32
}

// State is the GPU's exported register file, for save-state
// round-tripping. The frame buffer itself is not included: it is
// fully reconstructed by the next renderScanline call and carrying it
// would only bloat the save file.
type State struct {
	Dispcnt  uint16
	Dispstat uint16
	Vcount   uint16

	BGCnt  [4]uint16
	BGHofs [4]uint16
	BGVofs [4]uint16

	BGAffine [2]AffineState

	Win0H, Win1H, Win0V, Win1V uint16
	Winin, Winout              uint16
	Mosaic                     uint16
	Bldcnt, Bldalpha, Bldy     uint16
}

// ExportState copies every register the GPU holds.
func (g *GPU) ExportState() State {
	s := State{
		Dispcnt:  g.dispcnt,
		Dispstat: g.dispstat,
		Vcount:   g.vcount,
		BGCnt:    g.bgcnt,
		BGHofs:   g.bghofs,
		BGVofs:   g.bgvofs,
		Win0H:    g.win0h,
		Win1H:    g.win1h,
		Win0V:    g.win0v,
		Win1V:    g.win1v,
		Winin:    g.winin,
		Winout:   g.winout,
		Mosaic:   g.mosaic,
		Bldcnt:   g.bldcnt,
		Bldalpha: g.bldalpha,
		Bldy:     g.bldy,
	}
	for i, a := range g.bgAffine {
		s.BGAffine[i] = AffineState{
			PA: a.pa, PB: a.pb, PC: a.pc, PD: a.pd,
			RefX: a.refX, RefY: a.refY, CurX: a.curX, CurY: a.curY,
		}
	}
	return s
}

// ImportState restores every register the GPU holds. It does not
// reschedule the next HDraw/HBlank event: the caller (gba's save-state
// loader) restores the scheduler's own queue separately, and a GPU
// always has exactly one of those pending already from New.
func (g *GPU) ImportState(s State) {
	g.dispcnt = s.Dispcnt
	g.dispstat = s.Dispstat
	g.vcount = s.Vcount
	g.bgcnt = s.BGCnt
	g.bghofs = s.BGHofs
	g.bgvofs = s.BGVofs
	g.win0h, g.win1h, g.win0v, g.win1v = s.Win0H, s.Win1H, s.Win0V, s.Win1V
	g.winin, g.winout = s.Winin, s.Winout
	g.mosaic = s.Mosaic
	g.bldcnt, g.bldalpha, g.bldy = s.Bldcnt, s.Bldalpha, s.Bldy
	for i, a := range s.BGAffine {
		g.bgAffine[i] = affine{
			pa: a.PA, pb: a.PB, pc: a.PC, pd: a.PD,
			refX: a.RefX, refY: a.RefY, curX: a.CurX, curY: a.CurY,
		}
	}
}
