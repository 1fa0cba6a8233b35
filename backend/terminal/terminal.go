// Package terminal implements a backend.Backend that renders the
// framebuffer as block characters in a tcell terminal, grounded on
// root main.go's TerminalRenderer (this core's cmd/goadvance entry
// point uses this package directly rather than duplicating that code
// in main.go).
package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"goadvance/backend"
	"goadvance/input"
	"goadvance/video"
)

// Each terminal cell is taller than it is wide, so each GBA pixel is
// drawn scaleX characters wide and scaleY characters tall to keep
// roughly the right aspect ratio.
const (
	scaleX = 2
	scaleY = 1
)

// shadeChars goes from the most to the least filled glyph (drawn in
// white, so brightest to darkest on screen), matching the teacher's
// 4-shade terminal palette; luminance buckets into one of len(shadeChars).
var shadeChars = []rune{'█', '▓', '▒', '░'}

// keymap binds the teacher's arrow/aswq-style layout to GBA buttons.
var keymap = map[tcell.Key]input.Key{
	tcell.KeyRight: input.KeyRight,
	tcell.KeyLeft:  input.KeyLeft,
	tcell.KeyUp:    input.KeyUp,
	tcell.KeyDown:  input.KeyDown,
}

var runeKeymap = map[rune]input.Key{
	'z': input.KeyA,
	'x': input.KeyB,
	'a': input.KeyL,
	's': input.KeyR,
}

// Backend is a backend.Backend rendering into a tcell.Screen.
type Backend struct {
	screen    tcell.Screen
	callbacks backend.Callbacks
	running   bool
}

func New() *Backend {
	return &Backend{}
}

func (t *Backend) Init(config backend.Config) error {
	t.callbacks = config.Callbacks

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: init screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: init screen: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	t.screen = screen
	t.running = true
	return nil
}

func (t *Backend) Update(frame *video.FrameBuffer) error {
	if !t.running {
		return nil
	}

	t.drainInput()
	t.render(frame)
	t.screen.Show()
	return nil
}

func (t *Backend) Cleanup() error {
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

func (t *Backend) drainInput() {
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.handleKey(ev)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func (t *Backend) handleKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyEscape {
		t.running = false
		if t.callbacks.OnQuit != nil {
			t.callbacks.OnQuit()
		}
		return
	}
	if ev.Key() == tcell.KeyEnter {
		t.press(input.KeyStart)
		return
	}
	if ev.Rune() == ' ' {
		t.press(input.KeySelect)
		return
	}

	if key, ok := keymap[ev.Key()]; ok {
		t.press(key)
		return
	}
	if key, ok := runeKeymap[ev.Rune()]; ok {
		t.press(key)
	}
}

// press reports a key press and an immediate release: tcell's
// EventKey stream has no separate key-up event for printable keys, so
// held-button behavior isn't representable over plain terminal input.
func (t *Backend) press(key input.Key) {
	if t.callbacks.OnKeyPress != nil {
		t.callbacks.OnKeyPress(key)
	}
	if t.callbacks.OnKeyRelease != nil {
		t.callbacks.OnKeyRelease(key)
	}
}

func (t *Backend) render(frame *video.FrameBuffer) {
	pixels := frame.ToSlice()
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	for y := 0; y < video.Height; y++ {
		for x := 0; x < video.Width; x++ {
			shade := shadeIndex(pixels[y*video.Width+x])
			char := shadeChars[shade]

			screenX := x * scaleX
			screenY := y * scaleY
			for sx := 0; sx < scaleX; sx++ {
				t.screen.SetContent(screenX+sx, screenY, char, nil, style)
			}
		}
	}
}

// shadeIndex buckets a packed RGBA pixel's luminance into one of
// len(shadeChars) levels, brightest first.
func shadeIndex(px uint32) int {
	r := px & 0xFF
	g := (px >> 8) & 0xFF
	b := (px >> 16) & 0xFF
	lum := (r + g + b) / 3
	shade := 3 - lum/64
	if shade > 3 {
		shade = 3
	}
	return int(shade)
}

var _ backend.Backend = (*Backend)(nil)
