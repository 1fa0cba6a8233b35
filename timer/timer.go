// Package timer implements the GBA's four hardware timer channels:
// prescaled free-running counters that can cascade into one another
// and raise an interrupt on overflow (spec.md §4.4 quirk notes,
// §8 scenario "timer cascade overflow").
//
// Directly grounded on original_source/core/src/timer.rs: the lazy
// sync_timer_data recompute ("don't tick every cycle, recompute data
// from elapsed scheduler time on demand"), the SHIFT_LUT prescaler
// table, and handle_timer_overflow's same-cycle cascade recursion are
// all ported line-for-line from that file, restated in Go idiom and
// wired to this project's scheduler package instead of the original's
// SharedScheduler. The wiring of timer overflow into the scheduler
// (one pending TimerOverflow event per running channel) follows the
// shape jeebie/events/timer.go's EventDrivenTimer uses to wire into
// jeebie/events/events.go's EventScheduler.
package timer

import (
	"goadvance/addr"
	"goadvance/irq"
	"goadvance/scheduler"
)

var shiftLUT = [4]uint{0, 6, 8, 10}

// Ctl is timer channel N's TMxCNT_H control register.
type Ctl uint16

func (c Ctl) Prescaler() uint  { return uint(c & 0x3) }
func (c Ctl) Cascade() bool    { return c&(1<<2) != 0 }
func (c Ctl) IRQEnabled() bool { return c&(1<<6) != 0 }
func (c Ctl) Enabled() bool    { return c&(1<<7) != 0 }

type channel struct {
	ctl         Ctl
	data        uint16
	initialData uint16

	startTime      uint64
	isScheduled    bool
	prescalerShift uint
}

func (t *channel) ticksToOverflow() uint32 {
	return 0x1_0000 - uint32(t.data)
}

// syncData recomputes data from elapsed scheduler time, the lazy
// update original_source/core/src/timer.rs calls sync_timer_data.
func (t *channel) syncData(now uint64) {
	if !t.isScheduled {
		return
	}
	ticksPassed := (now - t.startTime) >> t.prescalerShift
	t.data += uint16(ticksPassed)
}

// Bank owns all four timer channels and schedules their overflow
// events; it never polls cycle-by-cycle.
type Bank struct {
	channels [4]channel
	sched    *scheduler.Scheduler
	irq      *irq.Controller

	// OnOverflow, if set, is invoked for channels 0/1 on overflow so
	// the APU's FIFO-clocking logic can resample (spec.md's sound
	// non-goal keeps this a stub hook, never exercised beyond the
	// interface boundary).
	OnOverflow func(id int)
}

func NewBank(sched *scheduler.Scheduler, irqCtl *irq.Controller) *Bank {
	return &Bank{sched: sched, irq: irqCtl}
}

func (b *Bank) addEvent(id int) {
	ch := &b.channels[id]
	ch.isScheduled = true
	ch.startTime = b.sched.Now()
	cycles := uint64(ch.ticksToOverflow()) << ch.prescalerShift
	b.sched.ScheduleAt(scheduler.TimerOverflowKind(id), ch.startTime+cycles)
}

func (b *Bank) cancelEvent(id int) {
	b.sched.Cancel(scheduler.TimerOverflowKind(id))
	b.channels[id].isScheduled = false
}

// overflow reloads channel id and raises its interrupt if enabled.
func (ch *channel) overflow(irqCtl *irq.Controller, source addr.Source) {
	ch.data = ch.initialData
	if ch.ctl.IRQEnabled() {
		irqCtl.Request(source)
	}
}

// HandleOverflow services a TimerOverflowKind(id) event popped from
// the scheduler: reload, raise IRQ, cascade into channel id+1 if it's
// configured for cascade mode, and reschedule id's own next overflow
// corrected for how late the event fired (lateness, in cycles, as
// returned by scheduler.PopReady).
func (b *Bank) HandleOverflow(id int, lateness uint64) {
	b.handleTimerOverflow(id)

	ch := &b.channels[id]
	ch.isScheduled = true
	ch.startTime = b.sched.Now() - lateness
	cycles := uint64(ch.ticksToOverflow()) << ch.prescalerShift
	if cycles < lateness {
		cycles = 0
	} else {
		cycles -= lateness
	}
	b.sched.Schedule(scheduler.TimerOverflowKind(id), cycles)
}

func (b *Bank) handleTimerOverflow(id int) {
	b.channels[id].overflow(b.irq, irqSourceFor(id))

	if id != 3 {
		next := &b.channels[id+1]
		if next.Cascade() {
			if b.updateChannel(id+1, 1) > 0 {
				b.handleTimerOverflow(id + 1)
			}
		}
	}

	if (id == 0 || id == 1) && b.OnOverflow != nil {
		b.OnOverflow(id)
	}
}

// Cascade reports whether channel id is configured to count on its
// predecessor's overflows rather than the system clock.
func (ch *channel) Cascade() bool { return ch.ctl.Cascade() }

// updateChannel advances a cascading channel's counter by ticks
// (always 1, one overflow of the preceding channel), returning the
// number of times it overflowed in turn.
func (b *Bank) updateChannel(id int, ticks uint32) int {
	ch := &b.channels[id]
	overflows := 0
	remaining := ch.ticksToOverflow()
	if ticks >= remaining {
		overflows++
		ticks -= remaining
		ch.data = ch.initialData
		remaining = ch.ticksToOverflow()
		overflows += int(ticks / remaining)
		ticks %= remaining
		if ch.ctl.IRQEnabled() {
			b.irq.Request(irqSourceFor(id))
		}
	}
	ch.data += uint16(ticks)
	return overflows
}

// WriteCtl handles a write to channel id's TMxCNT_H, grounded on
// original_source/core/src/timer.rs's write_timer_ctl: enabling a
// non-cascading channel (re)schedules its overflow event, anything
// else cancels the pending event.
func (b *Bank) WriteCtl(id int, value uint16) {
	ch := &b.channels[id]
	newCtl := Ctl(value)
	newEnabled := newCtl.Enabled()
	cascade := newCtl.Cascade()
	ch.prescalerShift = shiftLUT[newCtl.Prescaler()]
	ch.ctl = newCtl

	if newEnabled && !cascade {
		b.cancelEvent(id)
		b.addEvent(id)
	} else {
		b.cancelEvent(id)
	}
}

// WriteReload handles a write to channel id's TMxCNT_L (the reload
// value, latched into data immediately per real hardware behavior —
// writes to a running timer's low register only take effect on the
// next reload, but the initial/current snapshot updates right away).
func (b *Bank) WriteReload(id int, value uint16) {
	b.channels[id].data = value
	b.channels[id].initialData = value
}

// ReadCtl returns channel id's TMxCNT_H.
func (b *Bank) ReadCtl(id int) uint16 { return uint16(b.channels[id].ctl) }

// ReadData returns channel id's live counter value, synced against
// the scheduler's current time if the channel is free-running.
func (b *Bank) ReadData(id int) uint16 {
	ch := &b.channels[id]
	ch.syncData(b.sched.Now())
	return ch.data
}

// irqSourceFor maps a channel index to its interrupt source; Timer0
// through Timer3 are consecutive bits in addr.Source.
func irqSourceFor(id int) addr.Source {
	return addr.Timer0 << uint(id)
}
