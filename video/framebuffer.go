// Package video implements the GBA's PPU: a scheduler-driven
// scanline renderer over four tile/affine/bitmap background layers
// and 128 OAM sprites, composited with GBA's window and alpha-blend
// special effects (spec.md §4.5, §7).
//
// The mode-machine shape (HDraw/HBlank/VBlank states driving register
// updates and interrupt requests) is grounded on jeebie/video/gpu.go's
// Tick/setMode/setLY structure, generalized from DMG's fixed 4-mode
// per-scanline state machine to the GBA's wider set of background
// modes and its scheduler-event-driven (rather than tick-accumulator)
// timing.
package video

// FrameBuffer is a 240x160 RGBA8888 surface, the resolution GBA
// backgrounds and sprites render into (spec.md §1).
const (
	Width  = 240
	Height = 160
	Size   = Width * Height
)

type FrameBuffer struct {
	buffer []uint32
}

func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{buffer: make([]uint32, Size)}
}

func (fb *FrameBuffer) SetPixel(x, y int, color uint32) {
	fb.buffer[y*Width+x] = color
}

func (fb *FrameBuffer) GetPixel(x, y int) uint32 {
	return fb.buffer[y*Width+x]
}

func (fb *FrameBuffer) ToSlice() []uint32 {
	return fb.buffer
}

func (fb *FrameBuffer) Clear() {
	for i := range fb.buffer {
		fb.buffer[i] = 0xFF000000
	}
}

// BGR555ToRGBA converts a 15-bit GBA color (0bbbbbgggggrrrrr) to an
// 8888 RGBA value, replicating the top bits into the low 3 to spread
// 5-bit channels across the full 0-255 range the way real GBA
// upscalers do, rather than a dim 0-248 range.
func BGR555ToRGBA(c uint16) uint32 {
	r := uint32(c & 0x1F)
	g := uint32((c >> 5) & 0x1F)
	b := uint32((c >> 10) & 0x1F)

	r = r<<3 | r>>2
	g = g<<3 | g>>2
	b = b<<3 | b>>2

	return 0xFF000000 | b<<16 | g<<8 | r
}
