// Package headless implements a backend.Backend for batch/automated
// runs: no window, optional periodic PNG snapshots, and a frame-count
// limit signaled back to the caller through Callbacks.OnQuit.
//
// Grounded on jeebie/backend/headless.go's shape (frame counter, PNG
// snapshot interval, slog progress logging); the PNG encoding itself
// follows jeebie/debug/snapshot.go's RGBA conversion, stdlib
// image/png rather than any pack dependency since the teacher itself
// reaches for the standard library here.
package headless

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"image/png"

	"goadvance/backend"
	"goadvance/video"
)

const rgbaBytesPerPixel = 4

// SnapshotConfig controls periodic PNG snapshots of the framebuffer.
type SnapshotConfig struct {
	Enabled   bool
	Interval  int // save a snapshot every Interval frames
	Directory string
	ROMName   string
}

// NewSnapshotConfig builds a SnapshotConfig from CLI-style parameters,
// creating Directory (a temp dir if empty) eagerly so Update never has
// to handle a missing-directory error mid-run.
func NewSnapshotConfig(interval int, directory, romPath string) (SnapshotConfig, error) {
	cfg := SnapshotConfig{Enabled: interval > 0, Interval: interval}
	if !cfg.Enabled {
		return cfg, nil
	}

	if directory == "" {
		tempDir, err := os.MkdirTemp("", "goadvance-snapshots-*")
		if err != nil {
			return cfg, fmt.Errorf("headless: create snapshot dir: %w", err)
		}
		cfg.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return cfg, fmt.Errorf("headless: create snapshot dir: %w", err)
		}
		cfg.Directory = directory
	}

	cfg.ROMName = strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath))
	return cfg, nil
}

// Backend is a backend.Backend that renders nothing and reports no
// input, useful for fuzzing, CI smoke runs and blargg-style ROM tests.
type Backend struct {
	config     backend.Config
	callbacks  backend.Callbacks
	frameCount int
	maxFrames  int
	snapshot   SnapshotConfig
}

func New(maxFrames int, snapshot SnapshotConfig) *Backend {
	return &Backend{maxFrames: maxFrames, snapshot: snapshot}
}

func (h *Backend) Init(config backend.Config) error {
	h.config = config
	h.callbacks = config.Callbacks

	slog.Info("running headless", "frames", h.maxFrames,
		"snapshot_interval", h.snapshot.Interval, "snapshot_dir", h.snapshot.Directory)
	return nil
}

func (h *Backend) Update(frame *video.FrameBuffer) error {
	h.frameCount++

	if h.snapshot.Enabled && h.frameCount%h.snapshot.Interval == 0 {
		h.saveSnapshot(frame)
	}

	if h.maxFrames > 0 && h.frameCount >= h.maxFrames {
		if h.snapshot.Enabled && h.frameCount%h.snapshot.Interval != 0 {
			h.saveSnapshot(frame)
		}
		slog.Info("headless run completed", "frames", h.frameCount)
		if h.callbacks.OnQuit != nil {
			h.callbacks.OnQuit()
		}
	}

	return nil
}

func (h *Backend) Cleanup() error { return nil }

func (h *Backend) saveSnapshot(frame *video.FrameBuffer) {
	name := fmt.Sprintf("%s_frame_%d.png", h.snapshot.ROMName, h.frameCount)
	path := filepath.Join(h.snapshot.Directory, name)
	if err := SaveFramePNG(frame, path); err != nil {
		slog.Error("failed to save snapshot", "frame", h.frameCount, "error", err)
	}
}

// SaveFramePNG encodes frame as an RGBA PNG at path.
func SaveFramePNG(frame *video.FrameBuffer, path string) error {
	pixels := frame.ToSlice()
	img := image.NewRGBA(image.Rect(0, 0, video.Width, video.Height))
	for i, px := range pixels {
		idx := i * rgbaBytesPerPixel
		img.Pix[idx] = byte(px)
		img.Pix[idx+1] = byte(px >> 8)
		img.Pix[idx+2] = byte(px >> 16)
		img.Pix[idx+3] = byte(px >> 24)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("headless: create %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("headless: encode png: %w", err)
	}
	return nil
}

var _ backend.Backend = (*Backend)(nil)
