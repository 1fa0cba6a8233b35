// Package savestate implements versioned save-state serialization
// over every mutable subsystem named in spec.md §3: register file,
// bus memory regions, backup media, video/timer/DMA/APU register
// state and the scheduler's own pending-event queue.
//
// encoding/gob (stdlib) is used rather than a third-party codec: no
// serialization library (protobuf, msgpack, cap'n proto, etc.)
// appears anywhere in the 1200-file example pack, and the original
// Rust implementation leans on serde's derive macros, which have no
// direct Go-pack analogue to port. gob's own self-describing type
// encoding gives the version check below something concrete to fail
// against, matching spec.md §6's "loading an older version must fail
// cleanly" requirement.
package savestate

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"goadvance/apu"
	"goadvance/backup"
	"goadvance/bus"
	"goadvance/cpu"
	"goadvance/dma"
	"goadvance/input"
	"goadvance/irq"
	"goadvance/scheduler"
	"goadvance/timer"
	"goadvance/video"
)

// Version is bumped whenever the Snapshot schema changes incompatibly.
const Version = 1

// BackupState carries whichever concrete backup.Device's content the
// running cartridge uses, tagged by Kind so Load knows how to
// reconstruct it without the bus needing to expose the device's
// concrete type.
type BackupState struct {
	Kind      backup.Kind
	SRAM      []byte
	FlashBank [][0x10000]byte
	EEPROM    [][8]byte
}

// Snapshot is the full versioned image of a running core.
type Snapshot struct {
	Version int

	CPU       cpu.RegistersState
	Halted    bool
	Bus       bus.State
	Backup    BackupState
	IRQEnable uint16
	IRQPend   uint16
	IRQMaster bool
	Video     video.State
	Timer     timer.State
	DMA       dma.State
	APU       apu.State
	Input     input.State
	Scheduler scheduler.State
}

// Core is the minimal set of subsystem handles Save/Load needs;
// gba.GameBoyAdvance satisfies this by construction once it exists.
type Core struct {
	CPU     *cpu.CPU
	Bus     *bus.Bus
	IRQ     *irq.Controller
	Video   *video.GPU
	Timer   *timer.Bank
	DMA     *dma.Engine
	APU     *apu.APU
	Input   *input.Keypad
	Sched   *scheduler.Scheduler
}

// Save builds a Snapshot from a running core's current state and
// gob-encodes it.
func Save(c *Core) ([]byte, error) {
	snap := Snapshot{
		Version:   Version,
		CPU:       c.CPU.Reg.ExportState(),
		Halted:    c.CPU.Halted(),
		Bus:       c.Bus.ExportState(),
		Backup:    exportBackup(c.Bus.Backup),
		IRQEnable: c.IRQ.Enable(),
		IRQPend:   c.IRQ.Pending(),
		IRQMaster: c.IRQ.MasterEnable(),
		Video:     c.Video.ExportState(),
		Timer:     c.Timer.ExportState(),
		DMA:       c.DMA.ExportState(),
		APU:       c.APU.ExportState(),
		Input:     c.Input.ExportState(),
		Scheduler: c.Sched.ExportState(),
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&snap); err != nil {
		return nil, fmt.Errorf("savestate: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Load decodes data and applies it to c in place. A version mismatch
// or decode failure leaves c entirely untouched (spec.md §7's
// InvalidSaveState: "do not partially mutate state").
func Load(data []byte, c *Core) error {
	var snap Snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return fmt.Errorf("savestate: decode: %w", err)
	}
	if snap.Version != Version {
		return fmt.Errorf("savestate: version %d, want %d", snap.Version, Version)
	}

	dev, err := importBackup(snap.Backup)
	if err != nil {
		return err
	}

	c.CPU.Reg.ImportState(snap.CPU)
	c.CPU.SetHalted(snap.Halted)
	c.Bus.ImportState(snap.Bus)
	c.Bus.Backup = dev
	c.IRQ.SetEnable(snap.IRQEnable)
	c.IRQ.SetPending(snap.IRQPend)
	c.IRQ.SetMasterEnable(snap.IRQMaster)
	c.Video.ImportState(snap.Video)
	c.Timer.ImportState(snap.Timer)
	c.DMA.ImportState(snap.DMA)
	c.APU.ImportState(snap.APU)
	c.Input.ImportState(snap.Input)
	c.Sched.ImportState(snap.Scheduler)
	return nil
}

func exportBackup(dev backup.Device) BackupState {
	switch d := dev.(type) {
	case *backup.SRAM:
		return BackupState{Kind: backup.KindSRAM, SRAM: d.Snapshot()}
	case *backup.Flash:
		return BackupState{Kind: d.Kind(), FlashBank: d.Snapshot()}
	case *backup.EEPROM:
		return BackupState{Kind: backup.KindEEPROM, EEPROM: d.Snapshot()}
	default:
		return BackupState{Kind: backup.KindNone}
	}
}

func importBackup(s BackupState) (backup.Device, error) {
	switch s.Kind {
	case backup.KindNone:
		return backup.NewNone(), nil
	case backup.KindSRAM:
		d := backup.NewSRAM()
		d.Restore(s.SRAM)
		return d, nil
	case backup.KindFlash64K, backup.KindFlash128K:
		d := backup.NewFlash(s.Kind == backup.KindFlash128K)
		d.Restore(s.FlashBank)
		return d, nil
	case backup.KindEEPROM:
		d := backup.NewEEPROM(len(s.EEPROM) > 64)
		d.Restore(s.EEPROM)
		return d, nil
	default:
		return nil, fmt.Errorf("savestate: unknown backup kind %d", s.Kind)
	}
}
