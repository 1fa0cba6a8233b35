package debug

import (
	"goadvance/bus"
	"goadvance/cpu"
)

// RegisterSnapshot is a point-in-time copy of the visible register file.
type RegisterSnapshot struct {
	R       [16]uint32
	CPSR    uint32
	Mode    cpu.Mode
	Thumb   bool
	Halted  bool
}

// Snapshot captures the CPU's register state for display in a debug
// view, grounded on the CompleteDebugData idea jeebie/core.go's
// backend.DebugDataProvider interface hands to a backend, narrowed to
// just register state since this core has no tile/sprite debug views.
func Snapshot(c *cpu.CPU) RegisterSnapshot {
	var snap RegisterSnapshot
	for i := 0; i < 16; i++ {
		snap.R[i] = c.Reg.R(i)
	}
	snap.CPSR = c.Reg.CPSR()
	snap.Mode = c.Reg.Mode()
	snap.Thumb = c.Reg.Thumb()
	snap.Halted = c.Halted()
	return snap
}

// MemoryReader exposes read-only bus access for a memory-view panel,
// deliberately narrower than *bus.Bus so a passive display (a hex-dump
// or register-watch panel) cannot itself trigger a side-effecting
// register write while inspecting state.
type MemoryReader struct {
	bus *bus.Bus
}

func NewMemoryReader(b *bus.Bus) *MemoryReader { return &MemoryReader{bus: b} }

func (m *MemoryReader) Read8(address uint32) uint8   { return m.bus.Read8(address) }
func (m *MemoryReader) Read16(address uint32) uint16 { return m.bus.Read16(address) }
func (m *MemoryReader) Read32(address uint32) uint32 { return m.bus.Read32(address) }

// ReadRange copies length bytes starting at address, for a hex-dump view.
func (m *MemoryReader) ReadRange(address uint32, length int) []byte {
	out := make([]byte, length)
	for i := 0; i < length; i++ {
		out[i] = m.bus.Read8(address + uint32(i))
	}
	return out
}

// MemoryWriter is the debugger's deliberate write entry point (spec.md
// §2 component J: "read/write"), kept as a distinct type from
// MemoryReader so a display panel constructed with the latter still
// cannot poke memory by accident.
type MemoryWriter struct {
	bus *bus.Bus
}

func NewMemoryWriter(b *bus.Bus) *MemoryWriter { return &MemoryWriter{bus: b} }

func (m *MemoryWriter) Write8(address uint32, value uint8)   { m.bus.Write8(address, value) }
func (m *MemoryWriter) Write16(address uint32, value uint16) { m.bus.Write16(address, value) }
func (m *MemoryWriter) Write32(address uint32, value uint32) { m.bus.Write32(address, value) }
