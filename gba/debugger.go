package gba

import "goadvance/debug"

// ReadMemory and WriteMemory are the debugger surface's memory-access
// operations (spec.md §2 component J: "read/write"). They go straight
// through the bus rather than via debug.MemoryReader/MemoryWriter,
// since GameBoyAdvance already owns the bus those types wrap.
func (g *GameBoyAdvance) ReadMemory(address uint32) uint8 { return g.Bus.Read8(address) }

func (g *GameBoyAdvance) WriteMemory(address uint32, value uint8) { g.Bus.Write8(address, value) }

// ExtractDebugData implements backend.DebugDataProvider, letting a
// frontend's debug view pull register state without importing cpu
// directly.
func (g *GameBoyAdvance) ExtractDebugData() *debug.RegisterSnapshot {
	snap := debug.Snapshot(g.CPU)
	return &snap
}

// MemoryReader/MemoryWriter hand a debug view bus access narrower than
// *bus.Bus: a display panel built from MemoryReader can't itself poke
// memory, while an explicit edit action goes through MemoryWriter.
func (g *GameBoyAdvance) MemoryReader() *debug.MemoryReader { return debug.NewMemoryReader(g.Bus) }
func (g *GameBoyAdvance) MemoryWriter() *debug.MemoryWriter { return debug.NewMemoryWriter(g.Bus) }
