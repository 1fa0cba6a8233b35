// Package dma implements the GBA's four autonomous memory-copy
// channels (spec.md §4.5): each has a start-timing trigger, an
// address mode per side, and an optional repeat/sound-FIFO special
// mode. No DMA controller exists in the DMG teacher, so this package
// is built directly from spec.md's prose and §8 scenario 4, with the
// shadow-register latch-on-enable idiom grounded on
// jeebie/memory/mbc.go's bank-register-write dispatch (a write to a
// control register captures values that then govern subsequent
// behavior until the next write) and the channel-table shape grounded
// on timer.Bank's array-of-channels-plus-scheduler-wiring pattern.
package dma

import (
	"goadvance/addr"
	"goadvance/bus"
	"goadvance/irq"
	"goadvance/scheduler"
)

// StartTiming selects when an armed channel fires.
type StartTiming int

const (
	StartImmediate StartTiming = iota
	StartVBlank
	StartHBlank
	StartSpecial // sound FIFO for ch 1/2, video capture for ch 3
)

// AddrMode controls how a side's address changes after each unit.
type AddrMode int

const (
	AddrIncrement AddrMode = iota
	AddrDecrement
	AddrFixed
	AddrIncrementReload // dest only: increment during the transfer, reset to latched value after
)

// Cnt is one channel's DMAxCNT_H control register, decoded.
type Cnt struct {
	DestMode  AddrMode
	SrcMode   AddrMode
	Repeat    bool
	Word32    bool
	Timing    StartTiming
	IRQ       bool
	Enable    bool
}

func DecodeCnt(raw uint16) Cnt {
	return Cnt{
		DestMode: AddrMode((raw >> 5) & 0x3),
		SrcMode:  AddrMode((raw >> 7) & 0x3),
		Repeat:   raw&(1<<9) != 0,
		Word32:   raw&(1<<10) != 0,
		Timing:   StartTiming((raw >> 12) & 0x3),
		IRQ:      raw&(1<<14) != 0,
		Enable:   raw&(1<<15) != 0,
	}
}

type channel struct {
	srcLatch, dstLatch uint32
	countLatch         uint32

	src, dst uint32
	count    uint32
	cnt      Cnt

	armed bool
}

// Engine owns the four DMA channels.
type Engine struct {
	channels [4]channel
	sched    *scheduler.Scheduler
	irq      *irq.Controller
	bus      *bus.Bus

	// OnFIFORequest, if set, reports whether channel id is the active
	// sound-FIFO DMA source for an APU channel (A/B), letting the
	// special 4-word no-decrement transfer mode trigger correctly. Not
	// exercised beyond the stubbed APU FIFO hookup (spec.md's sound
	// non-goal).
	OnFIFORequest func(id int) bool

	// CyclesSpent accumulates the CPU-cycle cost of the most recent
	// transfer for the caller (gba.GameBoyAdvance.dispatch) to charge
	// against the scheduler clock.
	CyclesSpent uint64
}

func NewEngine(sched *scheduler.Scheduler, irqCtl *irq.Controller, b *bus.Bus) *Engine {
	return &Engine{sched: sched, irq: irqCtl, bus: b}
}

func addrModeStep(mode AddrMode, word32 bool) int32 {
	unit := int32(2)
	if word32 {
		unit = 4
	}
	switch mode {
	case AddrIncrement, AddrIncrementReload:
		return unit
	case AddrDecrement:
		return -unit
	default: // fixed
		return 0
	}
}

// WriteSAD/WriteDAD/WriteCountLow latch the raw shadow registers;
// WriteCntHigh is where enabling a channel takes effect.
func (e *Engine) WriteSAD(id int, value uint32)    { e.channels[id].srcLatch = value }
func (e *Engine) WriteDAD(id int, value uint32)    { e.channels[id].dstLatch = value }
func (e *Engine) WriteCountLow(id int, value uint16) {
	e.channels[id].countLatch = uint32(value)
}

// WriteCntHigh handles a write to DMAxCNT_H: on a 0->1 enable
// transition the channel latches src/dst/count and either schedules
// an immediate activation or arms for its configured trigger.
func (e *Engine) WriteCntHigh(id int, raw uint16) {
	ch := &e.channels[id]
	wasEnabled := ch.cnt.Enable
	ch.cnt = DecodeCnt(raw)

	if ch.cnt.Enable && !wasEnabled {
		ch.src = ch.srcLatch
		ch.dst = ch.dstLatch
		ch.count = ch.countLatch
		if ch.count == 0 {
			ch.count = maxCountFor(id)
		}
		ch.armed = true

		if ch.cnt.Timing == StartImmediate {
			e.sched.Schedule(scheduler.DmaActivateKind(id), 0)
		}
	}
	if !ch.cnt.Enable {
		ch.armed = false
	}
}

func maxCountFor(id int) uint32 {
	if id == 3 {
		return 0x1_0000
	}
	return 0x4000
}

// Trigger is called by the owning core when a hardware trigger fires
// (VBlank start, HBlank start, an APU FIFO request, a video-capture
// HBlank); it schedules DmaActivate for every armed channel whose
// StartTiming matches. Channel priority (lower index runs first on a
// tie) falls naturally out of scheduler FIFO ordering since channels
// are always offered to Trigger in index order.
func (e *Engine) Trigger(timing StartTiming) {
	for id := 0; id < 4; id++ {
		ch := &e.channels[id]
		if ch.armed && ch.cnt.Enable && ch.cnt.Timing == timing {
			e.sched.Schedule(scheduler.DmaActivateKind(id), 0)
		}
	}
}

// Activate runs channel id's transfer to completion. The CPU has
// already yielded control to the caller for the duration (spec.md
// §4.5/§2): this call is synchronous and does not interleave with CPU
// execution.
func (e *Engine) Activate(id int) {
	ch := &e.channels[id]
	if !ch.armed || !ch.cnt.Enable {
		return
	}

	soundFIFO := ch.cnt.Timing == StartSpecial && (id == 1 || id == 2) && e.OnFIFORequest != nil && e.OnFIFORequest(id)

	count := ch.count
	word32 := ch.cnt.Word32
	if soundFIFO {
		count = 4
		word32 = true
	}

	srcStep := addrModeStep(ch.cnt.SrcMode, word32)
	dstStep := addrModeStep(ch.cnt.DestMode, word32)

	width := bus.Width16
	if word32 {
		width = bus.Width32
	}

	var cycles uint64
	for i := uint32(0); i < count; i++ {
		access := bus.NonSequential
		if i > 0 {
			access = bus.Sequential
		}
		if word32 {
			e.bus.Write32(ch.dst, e.bus.Read32(ch.src))
		} else {
			e.bus.Write16(ch.dst, e.bus.Read16(ch.src))
		}
		cycles += uint64(e.bus.Cycles(ch.src, access, width))
		cycles += uint64(e.bus.Cycles(ch.dst, access, width))

		ch.src = uint32(int32(ch.src) + srcStep)
		ch.dst = uint32(int32(ch.dst) + dstStep)
	}
	e.CyclesSpent = cycles

	if !soundFIFO {
		ch.count = 0
	}

	if ch.cnt.IRQ {
		e.irq.Request(irqSourceFor(id))
	}

	if ch.cnt.Repeat && ch.cnt.Timing != StartImmediate {
		ch.count = ch.countLatch
		if ch.cnt.DestMode == AddrIncrementReload {
			ch.dst = ch.dstLatch
		}
		// stays armed for the next trigger
	} else {
		ch.cnt.Enable = false
		ch.armed = false
	}
}

func irqSourceFor(id int) addr.Source {
	return addr.Dma0 << uint(id)
}

// Pending reports whether channel id is currently armed and enabled,
// for tests and debug introspection.
func (e *Engine) Pending(id int) bool { return e.channels[id].armed }

// ReadCntHigh re-encodes channel id's decoded Cnt back into its
// DMAxCNT_H bit layout, for the register's read side.
func (e *Engine) ReadCntHigh(id int) uint16 {
	c := e.channels[id].cnt
	var raw uint16
	raw |= uint16(c.DestMode) << 5
	raw |= uint16(c.SrcMode) << 7
	if c.Repeat {
		raw |= 1 << 9
	}
	if c.Word32 {
		raw |= 1 << 10
	}
	raw |= uint16(c.Timing) << 12
	if c.IRQ {
		raw |= 1 << 14
	}
	if c.Enable {
		raw |= 1 << 15
	}
	return raw
}

// ReadCountLow returns channel id's latched word count, for
// completeness in registers.go's read handler (GBA hardware reads
// this register back as 0, but exposing the latch is harmless and
// useful for debug tooling).
func (e *Engine) ReadCountLow(id int) uint16 { return uint16(e.channels[id].countLatch) }
