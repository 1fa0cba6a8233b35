package headless

import (
	"os"
	"path/filepath"
	"testing"

	"goadvance/backend"
	"goadvance/video"
)

func TestUpdate_SignalsQuitAfterMaxFrames(t *testing.T) {
	h := New(3, SnapshotConfig{})
	quit := false
	err := h.Init(backend.Config{Callbacks: backend.Callbacks{OnQuit: func() { quit = true }}})
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}

	fb := video.NewFrameBuffer()
	for i := 0; i < 2; i++ {
		if err := h.Update(fb); err != nil {
			t.Fatalf("Update() error: %v", err)
		}
		if quit {
			t.Fatalf("quit signaled early at frame %d", i+1)
		}
	}

	if err := h.Update(fb); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if !quit {
		t.Errorf("OnQuit not called after reaching maxFrames")
	}
}

func TestUpdate_SavesSnapshotAtInterval(t *testing.T) {
	dir := t.TempDir()
	snap, err := NewSnapshotConfig(2, dir, "test.gba")
	if err != nil {
		t.Fatalf("NewSnapshotConfig() error: %v", err)
	}

	h := New(0, snap)
	if err := h.Init(backend.Config{}); err != nil {
		t.Fatalf("Init() error: %v", err)
	}

	fb := video.NewFrameBuffer()
	for i := 0; i < 2; i++ {
		if err := h.Update(fb); err != nil {
			t.Fatalf("Update() error: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d snapshot files, want 1", len(entries))
	}
	if filepath.Ext(entries[0].Name()) != ".png" {
		t.Errorf("snapshot file %q is not a PNG", entries[0].Name())
	}
}

func TestNewSnapshotConfig_DisabledWhenIntervalZero(t *testing.T) {
	cfg, err := NewSnapshotConfig(0, "", "rom.gba")
	if err != nil {
		t.Fatalf("NewSnapshotConfig() error: %v", err)
	}
	if cfg.Enabled {
		t.Errorf("Enabled = true, want false for interval 0")
	}
}
