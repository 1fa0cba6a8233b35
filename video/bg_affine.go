package video

import "goadvance/addr"

// affine background sizes, in pixels, indexed by BGxCNT bits 14-15.
var affineScreenSize = [4]int{128, 256, 512, 1024}

// renderAffineLine fills g.bgLine[layer] for a mode-1/2 rotate/scale
// background (BG2 or BG3 only). Texture coordinates come from the
// per-scanline (curX, curY) accumulator, which advances by (pb, pd)
// at the end of each line rendered here rather than being recomputed from the
// reference point each line, matching real hardware's incremental
// accumulation and the drift that reference-point mid-frame writes
// cause on real GBA.
func (g *GPU) renderAffineLine(layer int) {
	cnt := g.bgcnt[layer]
	charBase := uint32((cnt>>2)&0x3) * 0x4000
	screenBase := uint32((cnt>>8)&0x1F) * 0x800
	wrap := cnt&(1<<13) != 0
	sizeIdx := (cnt >> 14) & 0x3
	size := affineScreenSize[sizeIdx]
	tilesPerSide := size / 8

	idx := layer - 2
	a := &g.bgAffine[idx]

	texX := a.curX
	texY := a.curY

	for x := 0; x < Width; x++ {
		px := int32(texX) >> 8
		py := int32(texY) >> 8
		texX += int32(a.pa)
		texY += int32(a.pc)

		if wrap {
			px &= int32(size - 1)
			py &= int32(size - 1)
		} else if px < 0 || py < 0 || int(px) >= size || int(py) >= size {
			g.bgLine[layer][x] = layerPixel{opaque: false}
			continue
		}

		tileCol := int(px) / 8
		tileRow := int(py) / 8
		pixelCol := int(px) % 8
		pixelRow := int(py) % 8

		mapAddr := addr.VRAMBase + screenBase + uint32(tileRow*tilesPerSide+tileCol)
		tileIndex := g.bus.Read8(mapAddr)

		tileAddr := addr.VRAMBase + charBase + uint32(tileIndex)*64 + uint32(pixelRow*8+pixelCol)
		colorIdx := g.bus.Read8(tileAddr)

		if colorIdx == 0 {
			g.bgLine[layer][x] = layerPixel{opaque: false}
			continue
		}
		color := g.bus.Read16(addr.PaletteBase + uint32(colorIdx)*2)
		g.bgLine[layer][x] = layerPixel{color: color, opaque: true}
	}

	a.curX += int32(a.pb)
	a.curY += int32(a.pd)
}
