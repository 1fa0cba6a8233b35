package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"goadvance/backend"
	"goadvance/backend/headless"
	"goadvance/backend/sdl2"
	"goadvance/backend/terminal"
	"goadvance/gba"
)

func main() {
	app := cli.NewApp()
	app.Name = "goadvance"
	app.Description = "A Game Boy Advance execution-core emulator"
	app.Usage = "goadvance [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "rom", Usage: "Path to the ROM file"},
		cli.StringFlag{Name: "bios", Usage: "Path to a GBA BIOS image (optional)"},
		cli.BoolFlag{Name: "headless", Usage: "Run without a graphical interface"},
		cli.IntFlag{Name: "frames", Usage: "Number of frames to run in headless mode (required for headless)", Value: 0},
		cli.IntFlag{Name: "snapshot-interval", Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)", Value: 0},
		cli.StringFlag{Name: "snapshot-dir", Usage: "Directory to save frame snapshots (default: temp directory)"},
		cli.BoolFlag{Name: "sdl2", Usage: "Use the SDL2 backend instead of the terminal backend (requires building with -tags sdl2)"},
		cli.StringFlag{Name: "save", Usage: "Path to a save-state file: loaded at startup if present, written at exit"},
	}
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("goadvance exited with error", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	g, err := gba.NewWithFile(c.String("bios"), romPath)
	if err != nil {
		return err
	}

	savePath := c.String("save")
	if savePath != "" {
		if err := loadSaveState(g, savePath); err != nil {
			return err
		}
	}

	var be backend.Backend
	if c.Bool("headless") {
		be, err = newHeadlessBackend(c, romPath)
	} else if c.Bool("sdl2") {
		be = sdl2.New()
	} else {
		be = terminal.New()
	}
	if err != nil {
		return err
	}

	running := true
	cfg := backend.Config{
		Title: "goadvance",
		Callbacks: backend.Callbacks{
			OnKeyPress:   g.HandleKeyPress,
			OnKeyRelease: g.HandleKeyRelease,
			OnQuit:       func() { running = false },
		},
	}
	if err := be.Init(cfg); err != nil {
		return err
	}
	defer be.Cleanup()

	for running {
		g.RunFrame()
		if err := be.Update(g.CurrentFrame()); err != nil {
			return err
		}
	}

	if savePath != "" {
		if err := writeSaveState(g, savePath); err != nil {
			return err
		}
	}
	return nil
}

func newHeadlessBackend(c *cli.Context, romPath string) (backend.Backend, error) {
	frames := c.Int("frames")
	if frames <= 0 {
		return nil, errors.New("headless mode requires --frames option with a positive value")
	}

	snap, err := headless.NewSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath)
	if err != nil {
		return nil, err
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	slog.SetDefault(slog.New(handler))

	return headless.New(frames, snap), nil
}

func loadSaveState(g *gba.GameBoyAdvance, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read save state: %w", err)
	}
	if err := g.LoadState(data); err != nil {
		return fmt.Errorf("load save state: %w", err)
	}
	slog.Info("loaded save state", "path", path)
	return nil
}

func writeSaveState(g *gba.GameBoyAdvance, path string) error {
	data, err := g.SaveState()
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write save state: %w", err)
	}
	slog.Info("wrote save state", "path", path)
	return nil
}
