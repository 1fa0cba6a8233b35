package dma

import (
	"testing"

	"goadvance/bus"
	"goadvance/irq"
	"goadvance/scheduler"
)

func newTestEngine() (*Engine, *bus.Bus, *scheduler.Scheduler) {
	irqCtl := irq.New()
	b := bus.New(irqCtl)
	sched := scheduler.New()
	return NewEngine(sched, irqCtl, b), b, sched
}

// Spec scenario 4: DMA0 src=0x0200_0000 dst=0x0203_0000 count=8
// word-size=32 inc/inc enable=1, immediate timing. 32 bytes copied
// verbatim, DMA0 enable bit clears afterward.
func TestActivate_ImmediateTransferCopiesVerbatim(t *testing.T) {
	e, b, sched := newTestEngine()

	for i := uint32(0); i < 32; i++ {
		b.Write8(0x0200_0000+i, uint8(i+1))
	}

	e.WriteSAD(0, 0x0200_0000)
	e.WriteDAD(0, 0x0203_0000)
	e.WriteCountLow(0, 8)
	e.WriteCntHigh(0, (1<<15)|(1<<10)) // enable, word32, inc/inc, immediate timing

	if sched.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1 scheduled activation", sched.Pending())
	}
	ev, _, ok := sched.PopReady()
	if !ok || ev.Kind != scheduler.DmaActivateKind(0) {
		t.Fatalf("expected DmaActivate0 ready, got %+v ok=%v", ev, ok)
	}

	e.Activate(0)

	for i := uint32(0); i < 32; i++ {
		got := b.Read8(0x0203_0000 + i)
		want := uint8(i + 1)
		if got != want {
			t.Fatalf("byte %d = %#x, want %#x", i, got, want)
		}
	}

	if e.Pending(0) {
		t.Errorf("channel 0 should be disabled after a non-repeat immediate transfer")
	}
}

func TestTrigger_OnlyFiresMatchingTiming(t *testing.T) {
	e, _, sched := newTestEngine()

	e.WriteSAD(1, 0x0200_0000)
	e.WriteDAD(1, 0x0300_0000)
	e.WriteCountLow(1, 1)
	e.WriteCntHigh(1, (1<<15)|(1<<12)) // VBlank timing

	e.Trigger(StartHBlank)
	if sched.Pending() != 0 {
		t.Errorf("HBlank trigger should not activate a VBlank-timed channel")
	}

	e.Trigger(StartVBlank)
	if sched.Pending() != 1 {
		t.Errorf("VBlank trigger should activate channel 1")
	}
}

func TestRepeat_StaysArmedAndRelatches(t *testing.T) {
	e, b, _ := newTestEngine()

	b.Write16(0x0200_0000, 0xABCD)
	e.WriteSAD(2, 0x0200_0000)
	e.WriteDAD(2, 0x0300_0000)
	e.WriteCountLow(2, 1)
	e.WriteCntHigh(2, (1<<15)|(1<<9)|(1<<12)) // enable, repeat, VBlank timing

	e.Trigger(StartVBlank)
	e.Activate(2)

	if !e.Pending(2) {
		t.Errorf("repeat channel should stay armed after activation")
	}
	if b.Read16(0x0300_0000) != 0xABCD {
		t.Errorf("transferred value = %#x, want 0xabcd", b.Read16(0x0300_0000))
	}
}
