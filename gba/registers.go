package gba

import "goadvance/addr"

// wireTimers installs TM0-3CNT_L/H on the bus. timer.Bank doesn't
// wire its own registers (unlike video.GPU/input.Keypad/apu.APU)
// since its two registers per channel are a thin pass-through to
// WriteCtl/WriteReload/ReadCtl/ReadData; the closure idiom itself is
// grounded on video/registers.go's wireBGCNT.
func (g *GameBoyAdvance) wireTimers() {
	for i := 0; i < 4; i++ {
		id := i
		base := addr.TimerChannelBase(id)
		cntL, cntH := base, base+2
		g.Bus.SetIOHandler(cntL, func() uint16 { return g.Timer.ReadData(id) },
			func(v uint16) { g.Timer.WriteReload(id, v) })
		g.Bus.SetIOHandler(cntH, func() uint16 { return g.Timer.ReadCtl(id) },
			func(v uint16) { g.Timer.WriteCtl(id, v) })
	}
}

// wireDMA installs DMA0-3SAD/DAD/CNT_L/CNT_H. SAD and DAD are each a
// 32-bit address split across two 16-bit halves; both halves are
// latched independently and combined on every write, the same pattern
// video/registers.go's wireAffineRef uses for BGxX/BGxY.
func (g *GameBoyAdvance) wireDMA() {
	for i := 0; i < 4; i++ {
		id := i
		base := addr.DMAChannelBase(id)
		sad, dad, cnt := base, base+4, base+8

		var sadLo, sadHi, dadLo, dadHi uint16

		g.Bus.SetIOHandler(sad, func() uint16 { return sadLo }, func(v uint16) {
			sadLo = v
			g.DMA.WriteSAD(id, uint32(sadHi)<<16|uint32(sadLo))
		})
		g.Bus.SetIOHandler(sad+2, func() uint16 { return sadHi }, func(v uint16) {
			sadHi = v
			g.DMA.WriteSAD(id, uint32(sadHi)<<16|uint32(sadLo))
		})
		g.Bus.SetIOHandler(dad, func() uint16 { return dadLo }, func(v uint16) {
			dadLo = v
			g.DMA.WriteDAD(id, uint32(dadHi)<<16|uint32(dadLo))
		})
		g.Bus.SetIOHandler(dad+2, func() uint16 { return dadHi }, func(v uint16) {
			dadHi = v
			g.DMA.WriteDAD(id, uint32(dadHi)<<16|uint32(dadLo))
		})

		g.Bus.SetIOHandler(cnt, func() uint16 { return g.DMA.ReadCountLow(id) },
			func(v uint16) { g.DMA.WriteCountLow(id, v) })
		g.Bus.SetIOHandler(cnt+2, func() uint16 { return g.DMA.ReadCntHigh(id) },
			func(v uint16) { g.DMA.WriteCntHigh(id, v) })
	}
}
