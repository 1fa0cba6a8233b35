package timer

import (
	"testing"

	"goadvance/addr"
	"goadvance/irq"
	"goadvance/scheduler"
)

func newTestBank() (*Bank, *scheduler.Scheduler, *irq.Controller) {
	sched := scheduler.New()
	irqCtl := irq.New()
	irqCtl.SetMasterEnable(true)
	irqCtl.SetEnable(0x3FFF)
	return NewBank(sched, irqCtl), sched, irqCtl
}

func TestChannel_SchedulesOverflowEvent(t *testing.T) {
	bank, sched, _ := newTestBank()
	bank.WriteReload(0, 0xFFF0) // 16 ticks to overflow
	bank.WriteCtl(0, 1<<7)      // enabled, prescaler /1, no irq, no cascade

	if sched.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", sched.Pending())
	}

	sched.Advance(16)
	ev, lateness, ok := sched.PopReady()
	if !ok {
		t.Fatal("expected a ready event")
	}
	if ev.Kind != scheduler.TimerOverflowKind(0) {
		t.Errorf("Kind = %v, want TimerOverflow0", ev.Kind)
	}
	if lateness != 0 {
		t.Errorf("lateness = %d, want 0", lateness)
	}
}

func TestHandleOverflow_RaisesIRQ(t *testing.T) {
	bank, sched, irqCtl := newTestBank()
	bank.WriteReload(0, 0xFFFF) // 1 tick to overflow
	bank.WriteCtl(0, 1<<7|1<<6) // enabled, irq enabled

	sched.Advance(1)
	_, lateness, ok := sched.PopReady()
	if !ok {
		t.Fatal("expected ready event")
	}
	bank.HandleOverflow(0, lateness)

	if irqCtl.Pending()&uint16(addr.Timer0) == 0 {
		t.Errorf("Timer0 interrupt not requested")
	}
}

func TestCascade_ChannelOneCountsChannelZeroOverflow(t *testing.T) {
	bank, sched, irqCtl := newTestBank()

	bank.WriteReload(1, 0xFFFE) // needs 2 overflows of timer 0 to overflow itself
	bank.WriteCtl(1, 1<<7|1<<2) // enabled, cascade

	bank.WriteReload(0, 0xFFFF) // 1 tick to overflow
	bank.WriteCtl(0, 1<<7|1<<6) // enabled, irq enabled

	sched.Advance(1)
	_, lateness, ok := sched.PopReady()
	if !ok {
		t.Fatal("expected ready event")
	}
	bank.HandleOverflow(0, lateness)

	if bank.ReadData(1) != 0xFFFF {
		t.Errorf("timer1 data = %#x, want 0xFFFF after one cascade tick", bank.ReadData(1))
	}

	if irqCtl.Pending()&uint16(addr.Timer1) != 0 {
		t.Errorf("timer1 should not have overflowed yet")
	}
}

func TestPrescalerShift(t *testing.T) {
	bank, sched, _ := newTestBank()
	bank.WriteReload(2, 0xFFF0) // 16 ticks at prescaler /1
	bank.WriteCtl(2, 1<<7|0x1) // prescaler select 1 -> /64

	sched.Advance(16*64 - 1)
	if _, _, ok := sched.PopReady(); ok {
		t.Fatal("should not be ready yet")
	}
	sched.Advance(1)
	if _, _, ok := sched.PopReady(); !ok {
		t.Fatal("expected ready after full prescaled duration")
	}
}

func TestDisablingCancelsScheduledEvent(t *testing.T) {
	bank, sched, _ := newTestBank()
	bank.WriteReload(3, 0xFFF0)
	bank.WriteCtl(3, 1<<7)
	bank.WriteCtl(3, 0) // disable

	if sched.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0 after disabling", sched.Pending())
	}
}
