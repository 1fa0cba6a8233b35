// Package backend defines the interface a rendering/input frontend
// implements to drive a running core, grounded on
// jeebie/backend/backend.go's Backend/BackendConfig split: the core
// loop (gba package) owns timing and emulation, a Backend only renders
// whatever frame it's handed and reports the input it observed.
package backend

import (
	"goadvance/debug"
	"goadvance/input"
	"goadvance/video"
)

// Callbacks lets a Backend report platform events back to whatever is
// driving it without depending on the gba package directly, mirroring
// jeebie/backend's callbacks field on HeadlessBackend/SDL2Backend.
type Callbacks struct {
	OnKeyPress     func(input.Key)
	OnKeyRelease   func(input.Key)
	OnQuit         func()
	OnDebugMessage func(string)
}

// DebugDataProvider is a minimal interface for backends that want to
// surface register state, narrower than exposing the whole core.
type DebugDataProvider interface {
	ExtractDebugData() *debug.RegisterSnapshot
}

// Config configures a Backend before its first Update.
type Config struct {
	Title         string
	Scale         int
	ShowDebug     bool
	TestPattern   bool
	Callbacks     Callbacks
	DebugProvider DebugDataProvider
}

// Backend represents a complete frontend: rendering plus input capture.
type Backend interface {
	// Init configures the backend. Called once before any Update.
	Init(config Config) error

	// Update renders frame and reports any platform events observed
	// via the Callbacks passed to Init.
	Update(frame *video.FrameBuffer) error

	// Cleanup releases backend resources on shutdown.
	Cleanup() error
}
