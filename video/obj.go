package video

import "goadvance/addr"

// OBJ shapes (attr0 bits 14-15) x sizes (attr1 bits 14-15) -> (width, height) in pixels.
var objSizeTable = [3][4][2]int{
	{{8, 8}, {16, 16}, {32, 32}, {64, 64}},   // square
	{{16, 8}, {32, 8}, {32, 16}, {64, 32}},   // horizontal
	{{8, 16}, {8, 32}, {16, 32}, {32, 64}},   // vertical
}

// renderObjects scans all 128 OAM entries for sprites intersecting
// the current scanline and fills g.objLine, highest OAM-index-priority
// losing ties the way real hardware resolves equal-priority overlap
// (spec.md §4.5), grounded on the shape of jeebie/video/gpu.go's
// drawSprites OAM scan, generalized from DMG's fixed 8x8/8x16 two-size
// sprites to GBA's 12-shape/size matrix and affine sprite transforms.
func (g *GPU) renderObjects() {
	for i := range g.objLine {
		g.objLine[i] = objPixel{}
	}
	if g.dispcnt&dispcntObjEnable == 0 {
		return
	}

	mapping1D := g.dispcnt&dispcntObjMapping1D != 0
	line := int(g.vcount)

	// Iterate OAM index 127 down to 0 so later writes (lower index,
	// drawn last) naturally overwrite earlier ones in objLine,
	// matching hardware's "lowest OAM index wins" priority rule.
	for i := 127; i >= 0; i-- {
		base := addr.OAMBase + uint32(i)*8
		attr0 := g.bus.Read16(base)
		attr1 := g.bus.Read16(base + 2)
		attr2 := g.bus.Read16(base + 4)

		shape := (attr0 >> 14) & 0x3
		if shape == 3 {
			continue // prohibited shape code
		}
		isAffine := attr0&(1<<8) != 0
		doubleSize := attr0&(1<<9) != 0
		if !isAffine && doubleSize {
			continue // disabled (OBJ off) flag when not affine
		}
		mode := (attr0 >> 10) & 0x3 // 0 normal,1 semi-transparent,2 OBJ window
		mosaicOn := attr0&(1<<12) != 0
		is8bpp := attr0&(1<<13) != 0

		sizeIdx := (attr1 >> 14) & 0x3
		w, h := objSizeTable[shape][sizeIdx][0], objSizeTable[shape][sizeIdx][1]
		boundW, boundH := w, h
		if isAffine && doubleSize {
			boundW, boundH = w*2, h*2
		}

		y := int(attr0 & 0xFF)
		if y >= 160 {
			y -= 256
		}
		if line < y || line >= y+boundH {
			continue
		}

		x := int(attr1 & 0x1FF)
		if x >= 240 {
			x -= 512
		}

		tileBase := attr2 & 0x3FF
		palBank := uint8((attr2 >> 12) & 0xF)
		priority := int((attr2 >> 10) & 0x3)

		var pa, pb, pc, pd int32 = 256, 0, 0, 256
		if isAffine {
			pgroup := (attr1 >> 9) & 0x1F
			pa = int32(int16(g.bus.Read16(addr.OAMBase + uint32(pgroup)*32 + 6)))
			pb = int32(int16(g.bus.Read16(addr.OAMBase + uint32(pgroup)*32 + 14)))
			pc = int32(int16(g.bus.Read16(addr.OAMBase + uint32(pgroup)*32 + 22)))
			pd = int32(int16(g.bus.Read16(addr.OAMBase + uint32(pgroup)*32 + 30)))
		}

		hFlip := !isAffine && attr1&(1<<12) != 0
		vFlip := !isAffine && attr1&(1<<13) != 0

		cy := line - y - boundH/2
		halfW, halfH := w/2, h/2

		for sx := 0; sx < boundW; sx++ {
			screenX := x + sx
			if screenX < 0 || screenX >= Width {
				continue
			}
			cx := sx - boundW/2

			var texX, texY int32
			if isAffine {
				texX = pa*int32(cx) + pb*int32(cy) + int32(halfW)<<8
				texY = pc*int32(cx) + pd*int32(cy) + int32(halfH)<<8
				texX >>= 8
				texY >>= 8
				if texX < 0 || texY < 0 || int(texX) >= w || int(texY) >= h {
					continue
				}
			} else {
				texX = int32(cx + halfW)
				texY = int32(cy + halfH)
				if hFlip {
					texX = int32(w-1) - texX
				}
				if vFlip {
					texY = int32(h-1) - texY
				}
			}

			if mosaicOn {
				mh := g.mosaicH()
				texX -= texX % int32(mh)
			}

			tilesPerRow := int32(w / 8)
			if !mapping1D {
				tilesPerRow = 32
				if is8bpp {
					tilesPerRow = 16
				}
			}
			tileCol := texX / 8
			tileRow := texY / 8
			pixCol := texX % 8
			pixRow := texY % 8

			var colorIdx uint8
			if is8bpp {
				tileIdx := uint32(tileBase)/2 + uint32(tileRow)*uint32(tilesPerRow) + uint32(tileCol)
				tileAddr := addr.VRAMBase + 0x10000 + tileIdx*64 + uint32(pixRow*8+pixCol)
				colorIdx = g.bus.Read8(tileAddr)
			} else {
				tileIdx := uint32(tileBase) + uint32(tileRow)*uint32(tilesPerRow) + uint32(tileCol)
				tileAddr := addr.VRAMBase + 0x10000 + tileIdx*32 + uint32(pixRow*4+pixCol/2)
				b := g.bus.Read8(tileAddr)
				if pixCol&1 == 0 {
					colorIdx = b & 0xF
				} else {
					colorIdx = b >> 4
				}
			}

			if colorIdx == 0 {
				continue
			}
			var palIdx uint32
			if is8bpp {
				palIdx = uint32(colorIdx)
			} else {
				palIdx = uint32(palBank)*16 + uint32(colorIdx)
			}
			color := g.bus.Read16(addr.PaletteBase + 0x200 + palIdx*2)

			if existing := g.objLine[screenX]; existing.opaque && existing.priority < priority {
				continue
			}

			g.objLine[screenX] = objPixel{
				color:     color,
				opaque:    true,
				priority:  priority,
				semiTrans: mode == 1,
				mode:      int(mode),
			}
		}
	}
}
