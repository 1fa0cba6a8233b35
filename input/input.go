// Package input implements the GBA keypad: a single 10-button state
// register plus an optional IRQ-on-keypress/keycombo unit, grounded on
// jeebie/memory/joypad.go's press/release-updates-a-bitmask shape,
// generalized from DMG's two 4-button dpad/buttons lines (selected via
// a write-only select line) to GBA's single always-readable KEYINPUT
// register, since the GBA has no multiplexed key matrix to select.
package input

import (
	"goadvance/addr"
	"goadvance/bus"
)

// Key identifies one of the GBA's 10 physical buttons, matching
// KEYINPUT/KEYCNT bit order (spec.md §4.6).
type Key uint8

const (
	KeyA Key = iota
	KeyB
	KeySelect
	KeyStart
	KeyRight
	KeyLeft
	KeyUp
	KeyDown
	KeyR
	KeyL
)

// Keypad owns KEYINPUT (bit=0 means pressed) and KEYCNT (IRQ-on-combo).
type Keypad struct {
	state  uint16 // 1 = released, bit-indexed by Key; KEYINPUT reset value is all released.
	keycnt uint16

	// RequestIRQ is called when KEYCNT's condition (AND or OR of the
	// selected keys) newly becomes satisfied. Set by gba wiring.
	RequestIRQ func()
}

func New() *Keypad {
	return &Keypad{state: 0x3FF}
}

func (k *Keypad) Press(key Key) {
	k.state &^= 1 << uint(key)
	k.checkIRQ()
}

func (k *Keypad) Release(key Key) {
	k.state |= 1 << uint(key)
	k.checkIRQ()
}

func (k *Keypad) checkIRQ() {
	if k.keycnt&(1<<14) == 0 || k.RequestIRQ == nil {
		return
	}
	mask := k.keycnt & 0x3FF
	pressed := (^k.state) & 0x3FF
	if k.keycnt&(1<<15) != 0 { // AND mode: every selected key must be pressed
		if pressed&mask == mask {
			k.RequestIRQ()
		}
	} else { // OR mode: any selected key pressed
		if pressed&mask != 0 {
			k.RequestIRQ()
		}
	}
}

// State is the keypad's exported register state, for save-state
// round-tripping. State (current button presses) is included for
// completeness, though a resumed session's host input loop overwrites
// it on the next poll regardless.
type State struct {
	KeyState uint16
	Keycnt   uint16
}

func (k *Keypad) ExportState() State      { return State{KeyState: k.state, Keycnt: k.keycnt} }
func (k *Keypad) ImportState(s State)     { k.state, k.keycnt = s.KeyState, s.Keycnt }

// WireRegisters installs KEYINPUT (read-only) and KEYCNT on the bus.
func (k *Keypad) WireRegisters(b *bus.Bus) {
	b.SetIOHandler(addr.KEYINPUT, func() uint16 { return k.state }, func(uint16) {})
	b.SetIOHandler(addr.KEYCNT, func() uint16 { return k.keycnt }, func(v uint16) { k.keycnt = v })
}
