//go:build !sdl2

package sdl2

import (
	"fmt"

	"goadvance/backend"
	"goadvance/video"
)

// Backend stubs out the SDL2 backend when built without the sdl2 tag
// (and without SDL2 development libraries installed).
type Backend struct{}

func New() *Backend { return &Backend{} }

func (s *Backend) Init(config backend.Config) error {
	return fmt.Errorf("sdl2 backend not available - rebuild with -tags sdl2 and install SDL2 development libraries")
}

func (s *Backend) Update(frame *video.FrameBuffer) error {
	return fmt.Errorf("sdl2 backend not available")
}

func (s *Backend) Cleanup() error { return nil }

var _ backend.Backend = (*Backend)(nil)
