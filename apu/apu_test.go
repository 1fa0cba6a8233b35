package apu

import (
	"testing"

	"goadvance/addr"
	"goadvance/bus"
	"goadvance/irq"
	"goadvance/scheduler"
)

func newTestAPU() (*APU, *bus.Bus) {
	irqCtl := irq.New()
	b := bus.New(irqCtl)
	sched := scheduler.New()
	return New(b, sched), b
}

func TestFIFO_PushPopOrdersFIFO(t *testing.T) {
	var f FIFO
	f.Push(1)
	f.Push(2)
	f.Push(3)

	v, ok := f.Pop()
	if !ok || v != 1 {
		t.Fatalf("Pop() = (%d, %v), want (1, true)", v, ok)
	}
	v, _ = f.Pop()
	if v != 2 {
		t.Errorf("Pop() = %d, want 2", v)
	}
	if f.Len() != 1 {
		t.Errorf("Len() = %d, want 1", f.Len())
	}
}

func TestFIFO_PushBeyondDepthIsDropped(t *testing.T) {
	var f FIFO
	for i := 0; i < fifoDepth+8; i++ {
		f.Push(int8(i))
	}
	if f.Len() != fifoDepth {
		t.Errorf("Len() = %d, want %d", f.Len(), fifoDepth)
	}
	v, _ := f.Pop()
	if v != 0 {
		t.Errorf("Pop() = %d, want 0 (oldest sample preserved)", v)
	}
}

func TestFIFOARegisterWrite_PushesFourBytes(t *testing.T) {
	a, b := newTestAPU()
	b.Write32(addr.IOBase+addr.FIFO_A, 0x04030201)
	if a.fifoA.Len() != 4 {
		t.Fatalf("fifoA.Len() = %d, want 4", a.fifoA.Len())
	}
	v, _ := a.fifoA.Pop()
	if v != 1 {
		t.Errorf("first sample = %d, want 1", v)
	}
}

func TestOnTimerOverflow_DrainsSelectedFifoAndRequestsRefill(t *testing.T) {
	a, b := newTestAPU()
	b.WriteIOHalf(addr.SOUNDCNT_X, 1<<7)
	b.WriteIOHalf(addr.SOUNDCNT_H, 1<<14) // FIFO A clocked by timer 0, FIFO B by timer 1

	for i := 0; i < fifoDepth; i++ {
		a.fifoA.Push(int8(i))
	}

	refilled := false
	a.RequestRefill = func() { refilled = true }

	for i := 0; i < fifoDepth-fifoRefillThreshold-1; i++ {
		a.OnTimerOverflow(0)
	}
	if refilled {
		t.Fatalf("refill requested before threshold reached (len=%d)", a.fifoA.Len())
	}

	a.OnTimerOverflow(0)
	if !refilled {
		t.Errorf("expected RequestRefill to fire once fifoA.Len() <= %d", fifoRefillThreshold)
	}
}

func TestOnTimerOverflow_IgnoresUnselectedTimer(t *testing.T) {
	a, b := newTestAPU()
	b.WriteIOHalf(addr.SOUNDCNT_X, 1<<7)
	a.fifoA.Push(5)

	a.OnTimerOverflow(1) // FIFO A defaults to timer 0, not 1

	if a.fifoA.Len() != 1 {
		t.Errorf("fifoA.Len() = %d, want 1 (unaffected by timer 1 overflow)", a.fifoA.Len())
	}
}

func TestOnFIFORequest_AlwaysConfirms(t *testing.T) {
	a, _ := newTestAPU()
	if !a.OnFIFORequest(1) || !a.OnFIFORequest(2) {
		t.Errorf("OnFIFORequest should confirm for channels 1 and 2")
	}
}
