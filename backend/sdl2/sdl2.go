//go:build sdl2

// Package sdl2 implements a backend.Backend on top of go-sdl2
// bindings. Building it requires SDL2 development libraries installed;
// default builds use the stub in sdl2_stub.go instead (see the sdl2
// build tag), grounded on jeebie/backend/sdl2.go's Init/texture/event
// shape, narrowed to GBA's 240x160 RGBA8888 framebuffer and button set.
package sdl2

import (
	"fmt"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"goadvance/backend"
	"goadvance/input"
	"goadvance/video"
)

const (
	windowWidth  = video.Width * 2
	windowHeight = video.Height * 2
)

// Backend is a backend.Backend rendering into an SDL2 window.
type Backend struct {
	window    *sdl.Window
	renderer  *sdl.Renderer
	texture   *sdl.Texture
	callbacks backend.Callbacks
	running   bool
}

func New() *Backend {
	return &Backend{}
}

func (s *Backend) Init(config backend.Config) error {
	s.callbacks = config.Callbacks

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("sdl2: init: %w", err)
	}

	title := config.Title
	if title == "" {
		title = "goadvance"
	}
	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		windowWidth, windowHeight, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("sdl2: create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("sdl2: create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGBA8888, sdl.TEXTUREACCESS_STREAMING,
		video.Width, video.Height)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("sdl2: create texture: %w", err)
	}
	s.texture = texture
	s.running = true
	return nil
}

func (s *Backend) Update(frame *video.FrameBuffer) error {
	if !s.running {
		return nil
	}

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		s.handleEvent(event)
	}
	if !s.running {
		return nil
	}

	s.renderFrame(frame)
	return nil
}

func (s *Backend) Cleanup() error {
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}

func (s *Backend) handleEvent(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		s.running = false
		if s.callbacks.OnQuit != nil {
			s.callbacks.OnQuit()
		}
	case *sdl.KeyboardEvent:
		key, ok := keymap[e.Keysym.Sym]
		if !ok {
			if e.Keysym.Sym == sdl.K_ESCAPE && e.Type == sdl.KEYDOWN {
				s.running = false
				if s.callbacks.OnQuit != nil {
					s.callbacks.OnQuit()
				}
			}
			return
		}
		if e.Type == sdl.KEYDOWN && s.callbacks.OnKeyPress != nil {
			s.callbacks.OnKeyPress(key)
		} else if e.Type == sdl.KEYUP && s.callbacks.OnKeyRelease != nil {
			s.callbacks.OnKeyRelease(key)
		}
	}
}

var keymap = map[sdl.Keycode]input.Key{
	sdl.K_RETURN: input.KeyStart,
	sdl.K_RSHIFT: input.KeySelect,
	sdl.K_RIGHT:  input.KeyRight,
	sdl.K_LEFT:   input.KeyLeft,
	sdl.K_UP:     input.KeyUp,
	sdl.K_DOWN:   input.KeyDown,
	sdl.K_z:      input.KeyA,
	sdl.K_x:      input.KeyB,
	sdl.K_a:      input.KeyL,
	sdl.K_s:      input.KeyR,
}

func (s *Backend) renderFrame(frame *video.FrameBuffer) {
	pixels := frame.ToSlice()
	bytes := make([]byte, video.Width*video.Height*4)
	for i, px := range pixels {
		idx := i * 4
		bytes[idx] = byte(px >> 24)
		bytes[idx+1] = byte(px >> 16)
		bytes[idx+2] = byte(px >> 8)
		bytes[idx+3] = byte(px)
	}

	s.texture.Update(nil, unsafe.Pointer(&bytes[0]), video.Width*4)
	s.renderer.SetDrawColor(0, 0, 0, 255)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
}

var _ backend.Backend = (*Backend)(nil)
