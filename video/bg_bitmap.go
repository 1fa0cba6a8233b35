package video

import "goadvance/addr"

// renderBitmapLine fills g.bgLine[2] (BG2 only, the sole layer modes
// 3-5 expose) from one of the three direct-frame-buffer video modes,
// using the same affine (curX, curY) texture-coordinate accumulator
// rotate/scale backgrounds use, since modes 1/2/5 share BG2's affine
// transform hardware (spec.md §4.5).
func (g *GPU) renderBitmapLine(mode int) {
	a := &g.bgAffine[0]
	texX := a.curX
	texY := a.curY

	var w, h int
	switch mode {
	case 3, 5:
		w, h = 240, 160
		if mode == 5 {
			w, h = 160, 128
		}
	case 4:
		w, h = 240, 160
	}

	frame := uint32(0)
	if mode == 4 || mode == 5 {
		if g.dispcnt&dispcntFrameSelect != 0 {
			frame = 0xA000
		}
	}

	for x := 0; x < Width; x++ {
		px := int(int32(texX) >> 8)
		py := int(int32(texY) >> 8)
		texX += int32(a.pa)
		texY += int32(a.pc)

		if px < 0 || py < 0 || px >= w || py >= h {
			g.bgLine[2][x] = layerPixel{opaque: false}
			continue
		}

		var color uint16
		switch mode {
		case 3:
			color = g.bus.Read16(addr.VRAMBase + uint32(py*w+px)*2)
		case 4:
			idx := g.bus.Read8(addr.VRAMBase + frame + uint32(py*w+px))
			if idx == 0 {
				g.bgLine[2][x] = layerPixel{opaque: false}
				continue
			}
			color = g.bus.Read16(addr.PaletteBase + uint32(idx)*2)
		case 5:
			color = g.bus.Read16(addr.VRAMBase + frame + uint32(py*w+px)*2)
		}
		g.bgLine[2][x] = layerPixel{color: color, opaque: true}
	}

	a.curX += int32(a.pb)
	a.curY += int32(a.pd)
}
