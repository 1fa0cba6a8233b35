package savestate

import (
	"bytes"
	"encoding/gob"
	"testing"

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

func newTestCore() *Core {
	irqCtl := irq.New()
	b := bus.New(irqCtl)
	b.Backup = backup.NewSRAM()
	sched := scheduler.New()
	return &Core{
		CPU:   cpu.New(b, irqCtl),
		Bus:   b,
		IRQ:   irqCtl,
		Video: video.New(b, irqCtl, sched),
		Timer: timer.NewBank(sched, irqCtl),
		DMA:   dma.NewEngine(sched, irqCtl, b),
		APU:   apu.New(b, sched),
		Input: input.New(),
		Sched: sched,
	}
}

func TestRoundTrip_PreservesCPURegisters(t *testing.T) {
	c := newTestCore()
	c.CPU.Reg.SetR(3, 0xDEAD_BEEF)
	c.CPU.Reg.SetCPSR(uint32(cpu.ModeIRQ) | (1 << cpu.FlagI))
	c.CPU.Reg.SetR(13, 0x0300_7F00) // IRQ-banked SP

	data, err := Save(c)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	fresh := newTestCore()
	if err := Load(data, fresh); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if got := fresh.CPU.Reg.R(3); got != 0xDEAD_BEEF {
		t.Errorf("R(3) = %#x, want 0xDEADBEEF", got)
	}
	if fresh.CPU.Reg.Mode() != cpu.ModeIRQ {
		t.Errorf("Mode() = %v, want ModeIRQ", fresh.CPU.Reg.Mode())
	}
	if got := fresh.CPU.Reg.R(13); got != 0x0300_7F00 {
		t.Errorf("R(13) = %#x, want 0x03007F00", got)
	}
}

func TestRoundTrip_PreservesBackupContent(t *testing.T) {
	c := newTestCore()
	c.Bus.Backup.Write(0x10, 0x42)

	data, err := Save(c)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	fresh := newTestCore()
	if err := Load(data, fresh); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if fresh.Bus.Backup.Kind() != backup.KindSRAM {
		t.Fatalf("Backup.Kind() = %v, want KindSRAM", fresh.Bus.Backup.Kind())
	}
	if got := fresh.Bus.Backup.Read(0x10); got != 0x42 {
		t.Errorf("Backup.Read(0x10) = %#x, want 0x42", got)
	}
}

func TestRoundTrip_PreservesSchedulerQueue(t *testing.T) {
	c := newTestCore()
	c.Sched.Schedule(scheduler.TimerOverflowKind(2), 500)

	data, err := Save(c)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	fresh := newTestCore()
	pendingBefore := fresh.Sched.Pending()
	if err := Load(data, fresh); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if fresh.Sched.Pending() == pendingBefore {
		t.Fatalf("Pending() unchanged after Load (%d)", fresh.Sched.Pending())
	}
}

func TestRoundTrip_Idempotent(t *testing.T) {
	c := newTestCore()
	c.CPU.Reg.SetR(0, 7)

	first, err := Save(c)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	fresh := newTestCore()
	if err := Load(first, fresh); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	second, err := Save(fresh)
	if err != nil {
		t.Fatalf("second Save() error: %v", err)
	}

	if string(first) != string(second) {
		t.Errorf("save-state round trip not idempotent: S != S'")
	}
}

func TestLoad_RejectsVersionMismatch(t *testing.T) {
	c := newTestCore()
	c.CPU.Reg.SetR(0, 0x1111)

	var buf bytes.Buffer
	snap := Snapshot{Version: Version + 1, CPU: c.CPU.Reg.ExportState()}
	if err := gob.NewEncoder(&buf).Encode(&snap); err != nil {
		t.Fatalf("encode error: %v", err)
	}

	if err := Load(buf.Bytes(), c); err == nil {
		t.Errorf("Load() with a future version should fail, got nil error")
	}
	if got := c.CPU.Reg.R(0); got != 0x1111 {
		t.Errorf("R(0) = %#x, want unchanged 0x1111 (failed load must not mutate state)", got)
	}
}

func TestLoad_RejectsGarbageData(t *testing.T) {
	c := newTestCore()
	if err := Load([]byte("not a valid gob stream"), c); err == nil {
		t.Errorf("Load() with garbage data should fail, got nil error")
	}
}
