package video

import "goadvance/addr"

// text-mode background sizes, in tiles, indexed by BGxCNT bits 14-15.
var textScreenSize = [4][2]int{
	{32, 32}, // 256x256
	{64, 32}, // 512x256
	{32, 64}, // 256x512
	{64, 64}, // 512x512
}

// renderTextLine fills g.bgLine[layer] for the current scanline from
// a mode-0/1/2 tiled background, grounded on jeebie/video/tile.go's
// TileRow.GetPixel bit-plane decode, generalized from DMG's fixed
// 8x8 1bpp-plane tiles to GBA's 4bpp/8bpp tile formats and scrollable
// multi-screen-block maps.
func (g *GPU) renderTextLine(layer int) {
	cnt := g.bgcnt[layer]
	charBase := uint32((cnt>>2)&0x3) * 0x4000
	mosaicOn := cnt&(1<<6) != 0
	is8bpp := cnt&(1<<7) != 0
	screenBase := uint32((cnt>>8)&0x1F) * 0x800
	sizeIdx := (cnt >> 14) & 0x3
	tilesW, tilesH := textScreenSize[sizeIdx][0], textScreenSize[sizeIdx][1]

	y := int(g.vcount) + int(g.bgvofs[layer])
	if mosaicOn {
		y -= y % g.mosaicV()
	}
	y &= (tilesH*8 - 1)
	tileRow := y / 8
	pixelRow := y % 8

	for x := 0; x < Width; x++ {
		screenX := x
		if mosaicOn {
			screenX -= x % g.mosaicH()
		}
		sx := screenX + int(g.bghofs[layer])
		sx &= (tilesW*8 - 1)
		tileCol := sx / 8
		pixelCol := sx % 8

		screenBlock, blockRow, blockCol := textScreenBlock(tilesW, tileCol, tileRow)
		mapAddr := addr.VRAMBase + screenBase + uint32(screenBlock)*0x800 + uint32(blockRow*32+blockCol)*2
		entry := g.bus.Read16(mapAddr)

		tileIndex := entry & 0x3FF
		hFlip := entry&(1<<10) != 0
		vFlip := entry&(1<<11) != 0
		palBank := uint8((entry >> 12) & 0xF)

		col, col2 := pixelCol, pixelRow
		if hFlip {
			col = 7 - col
		}
		if vFlip {
			col2 = 7 - col2
		}

		var colorIdx uint8
		if is8bpp {
			tileAddr := addr.VRAMBase + charBase + uint32(tileIndex)*64 + uint32(col2*8+col)
			colorIdx = g.bus.Read8(tileAddr)
		} else {
			tileAddr := addr.VRAMBase + charBase + uint32(tileIndex)*32 + uint32(col2*4+col/2)
			b := g.bus.Read8(tileAddr)
			if col&1 == 0 {
				colorIdx = b & 0xF
			} else {
				colorIdx = b >> 4
			}
		}

		if colorIdx == 0 {
			g.bgLine[layer][x] = layerPixel{opaque: false}
			continue
		}
		var palIdx uint32
		if is8bpp {
			palIdx = uint32(colorIdx)
		} else {
			palIdx = uint32(palBank)*16 + uint32(colorIdx)
		}
		color := g.bus.Read16(addr.PaletteBase + palIdx*2)
		g.bgLine[layer][x] = layerPixel{color: color, opaque: true}
	}
}

// textScreenBlock maps a tile coordinate to its 32x32 screen block
// index for wide/tall multi-block maps (GBATEK's screen block layout:
// blocks increase left-to-right, then top-to-bottom).
func textScreenBlock(tilesW, tileCol, tileRow int) (block, row, col int) {
	blockCol := tileCol / 32
	blockRow := tileRow / 32
	blocksPerRow := tilesW / 32
	block = blockRow*blocksPerRow + blockCol
	return block, tileRow % 32, tileCol % 32
}

func (g *GPU) mosaicH() int {
	v := int(g.mosaic&0xF) + 1
	if v == 0 {
		return 1
	}
	return v
}

func (g *GPU) mosaicV() int {
	v := int((g.mosaic>>4)&0xF) + 1
	if v == 0 {
		return 1
	}
	return v
}
