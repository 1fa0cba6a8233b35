// Package cpu implements the ARM7TDMI interpreter: dual-ISA (ARM and
// THUMB) execution, banked register file, barrel shifter, 2-stage
// pipeline PC offset behavior, and exception entry (spec.md §4.4).
//
// The register-bank idiom (small typed register wrapper with
// get/set/incr/decr accessors) is grounded on jeebie/cpu/registers.go's
// Register8/Register16, generalized here from a flat 8/16-bit pair to
// a banked 32-bit file across the five privileged modes plus User/
// System, since ARM7TDMI needs register replacement on mode switch
// rather than a fixed register set.
package cpu

// Mode is one of the ARM7TDMI's seven operating modes, encoded exactly
// as the low 5 bits of CPSR (spec.md §4.4).
type Mode uint32

const (
	ModeUser       Mode = 0x10
	ModeFIQ        Mode = 0x11
	ModeIRQ        Mode = 0x12
	ModeSupervisor Mode = 0x13
	ModeAbort      Mode = 0x17
	ModeUndefined  Mode = 0x1B
	ModeSystem     Mode = 0x1F
)

// PSR flag bit positions within CPSR/SPSR.
const (
	FlagN = 31
	FlagZ = 30
	FlagC = 29
	FlagV = 28
	FlagI = 7 // IRQ disable
	FlagF = 6 // FIQ disable
	FlagT = 5 // Thumb state
)

// Registers holds the full ARM7TDMI register file: the 16 general
// registers as currently visible (r[15] is PC), the banked copies
// that mode switches swap in and out, and CPSR/SPSR.
type Registers struct {
	r    [16]uint32 // currently active general-purpose registers, r[13]=SP r[14]=LR r[15]=PC
	cpsr uint32

	// Banked copies, indexed by mode. fiqBank covers r8-r12 (FIQ has
	// its own private copies of these as well as r13/r14); the other
	// privileged modes only bank r13/r14.
	fiqBank       [5]uint32 // r8-r12, FIQ-private
	userFiqBank   [5]uint32 // r8-r12, shared by every non-FIQ mode
	bankedSP      map[Mode]uint32
	bankedLR      map[Mode]uint32
	bankedSPSR    map[Mode]uint32
	currentMode   Mode
}

// NewRegisters returns a register file reset as on a cold boot:
// Supervisor mode, IRQ/FIQ disabled, ARM state, PC at zero.
func NewRegisters() *Registers {
	reg := &Registers{
		bankedSP:   make(map[Mode]uint32),
		bankedLR:   make(map[Mode]uint32),
		bankedSPSR: make(map[Mode]uint32),
	}
	reg.cpsr = uint32(ModeSupervisor) | (1 << FlagI) | (1 << FlagF)
	reg.currentMode = ModeSupervisor
	return reg
}

// R returns general register i (0-15) as currently banked.
func (r *Registers) R(i int) uint32 { return r.r[i] }

// SetR writes general register i. Writing r[15] is the caller's
// responsibility to follow with a pipeline refill — this method does
// not special-case PC.
func (r *Registers) SetR(i int, value uint32) { r.r[i] = value }

// PC returns the raw program counter register value (the value most
// recently written to r15 by the executing instruction, i.e. does
// NOT apply the architectural +8/+4 read offset — see CPU.readR15 in
// cpu.go for that).
func (r *Registers) PC() uint32 { return r.r[15] }

// SetPC writes r15 directly.
func (r *Registers) SetPC(value uint32) { r.r[15] = value }

// CPSR returns the current program status register.
func (r *Registers) CPSR() uint32 { return r.cpsr }

// Mode returns the processor mode encoded in CPSR's low 5 bits.
func (r *Registers) Mode() Mode { return Mode(r.cpsr & 0x1F) }

// Thumb reports whether the T bit is set (THUMB execution state).
func (r *Registers) Thumb() bool { return r.cpsr&(1<<FlagT) != 0 }

// SetThumb sets or clears the T bit.
func (r *Registers) SetThumb(on bool) {
	if on {
		r.cpsr |= 1 << FlagT
	} else {
		r.cpsr &^= 1 << FlagT
	}
}

// Flag reads one condition-code/control bit out of CPSR.
func (r *Registers) Flag(bit uint) bool { return r.cpsr&(1<<bit) != 0 }

// SetFlag writes one condition-code/control bit in CPSR.
func (r *Registers) SetFlag(bit uint, on bool) {
	if on {
		r.cpsr |= 1 << bit
	} else {
		r.cpsr &^= 1 << bit
	}
}

// SetNZ sets the N and Z flags from a 32-bit result, the common tail
// of every ALU operation's flag update.
func (r *Registers) SetNZ(result uint32) {
	r.SetFlag(FlagN, result&0x8000_0000 != 0)
	r.SetFlag(FlagZ, result == 0)
}

// SetCPSR overwrites the whole CPSR, re-banking registers if the mode
// field changed. Used by MSR (whose caller masks a user-mode write
// down to the flag bits; privileged modes may write every field) and
// exception entry.
func (r *Registers) SetCPSR(value uint32) {
	newMode := Mode(value & 0x1F)
	if newMode != r.currentMode {
		r.switchMode(newMode)
	}
	r.cpsr = value
}

// SPSR returns the saved program status register for the current
// mode. User/System mode have no SPSR; callers must not reach this
// path from those modes (spec.md treats it as undefined behavior,
// same as real hardware).
func (r *Registers) SPSR() uint32 { return r.bankedSPSR[r.currentMode] }

// SetSPSR writes the current mode's saved program status register.
func (r *Registers) SetSPSR(value uint32) { r.bankedSPSR[r.currentMode] = value }

// switchMode swaps the banked r8-r12 (FIQ only)/r13/r14 registers for
// the outgoing mode into storage and pulls in the incoming mode's
// banked copies, per spec.md §4.4's register banking table.
func (r *Registers) switchMode(newMode Mode) {
	old := r.currentMode

	// save outgoing banked regs
	if old == ModeFIQ {
		copy(r.fiqBank[:], r.r[8:13])
	} else {
		copy(r.userFiqBank[:], r.r[8:13])
	}
	if old != ModeUser && old != ModeSystem {
		r.bankedSP[old] = r.r[13]
		r.bankedLR[old] = r.r[14]
	} else {
		r.bankedSP[ModeUser] = r.r[13]
		r.bankedLR[ModeUser] = r.r[14]
	}

	// load incoming banked regs
	if newMode == ModeFIQ {
		copy(r.r[8:13], r.fiqBank[:])
	} else {
		copy(r.r[8:13], r.userFiqBank[:])
	}
	if newMode != ModeUser && newMode != ModeSystem {
		r.r[13] = r.bankedSP[newMode]
		r.r[14] = r.bankedLR[newMode]
	} else {
		r.r[13] = r.bankedSP[ModeUser]
		r.r[14] = r.bankedLR[ModeUser]
	}

	r.currentMode = newMode
}

// RegistersState is the full exported register-file image, including
// banked copies, for save-state round-tripping (spec.md §8's
// save-state-round-trip invariant needs more than the currently
// visible registers debug.RegisterSnapshot captures).
type RegistersState struct {
	R           [16]uint32
	CPSR        uint32
	FiqBank     [5]uint32
	UserFiqBank [5]uint32
	BankedSP    map[Mode]uint32
	BankedLR    map[Mode]uint32
	BankedSPSR  map[Mode]uint32
	CurrentMode Mode
}

// ExportState copies the register file into a RegistersState.
func (r *Registers) ExportState() RegistersState {
	s := RegistersState{
		R:           r.r,
		CPSR:        r.cpsr,
		FiqBank:     r.fiqBank,
		UserFiqBank: r.userFiqBank,
		CurrentMode: r.currentMode,
		BankedSP:    make(map[Mode]uint32, len(r.bankedSP)),
		BankedLR:    make(map[Mode]uint32, len(r.bankedLR)),
		BankedSPSR:  make(map[Mode]uint32, len(r.bankedSPSR)),
	}
	for k, v := range r.bankedSP {
		s.BankedSP[k] = v
	}
	for k, v := range r.bankedLR {
		s.BankedLR[k] = v
	}
	for k, v := range r.bankedSPSR {
		s.BankedSPSR[k] = v
	}
	return s
}

// ImportState overwrites the register file from a RegistersState.
func (r *Registers) ImportState(s RegistersState) {
	r.r = s.R
	r.cpsr = s.CPSR
	r.fiqBank = s.FiqBank
	r.userFiqBank = s.UserFiqBank
	r.currentMode = s.CurrentMode
	r.bankedSP = make(map[Mode]uint32, len(s.BankedSP))
	r.bankedLR = make(map[Mode]uint32, len(s.BankedLR))
	r.bankedSPSR = make(map[Mode]uint32, len(s.BankedSPSR))
	for k, v := range s.BankedSP {
		r.bankedSP[k] = v
	}
	for k, v := range s.BankedLR {
		r.bankedLR[k] = v
	}
	for k, v := range s.BankedSPSR {
		r.bankedSPSR[k] = v
	}
}

// UserR reads general register i as seen from User mode, regardless
// of the mode currently active. Used by LDM/STM's S-bit user-bank
// transfer when r15 is not in the register list (spec.md §4.4.5:
// "S-bit without r15 transfers user-mode registers regardless of
// current mode"). r0-r7 and r15 aren't banked, so they read straight
// through.
func (r *Registers) UserR(i int) uint32 {
	switch {
	case i < 8 || i == 15:
		return r.r[i]
	case i <= 12:
		if r.currentMode == ModeFIQ {
			return r.userFiqBank[i-8]
		}
		return r.r[i]
	case i == 13:
		if r.currentMode == ModeUser || r.currentMode == ModeSystem {
			return r.r[13]
		}
		return r.bankedSP[ModeUser]
	default: // i == 14
		if r.currentMode == ModeUser || r.currentMode == ModeSystem {
			return r.r[14]
		}
		return r.bankedLR[ModeUser]
	}
}

// SetUserR writes general register i as seen from User mode; see UserR.
func (r *Registers) SetUserR(i int, value uint32) {
	switch {
	case i < 8 || i == 15:
		r.r[i] = value
	case i <= 12:
		if r.currentMode == ModeFIQ {
			r.userFiqBank[i-8] = value
		} else {
			r.r[i] = value
		}
	case i == 13:
		if r.currentMode == ModeUser || r.currentMode == ModeSystem {
			r.r[13] = value
		} else {
			r.bankedSP[ModeUser] = value
		}
	default: // i == 14
		if r.currentMode == ModeUser || r.currentMode == ModeSystem {
			r.r[14] = value
		} else {
			r.bankedLR[ModeUser] = value
		}
	}
}

// EnterMode switches to newMode, saving the current CPSR into the new
// mode's SPSR (the first step of exception entry, spec.md §4.4).
func (r *Registers) EnterMode(newMode Mode) {
	savedCPSR := r.cpsr
	r.switchMode(newMode)
	r.cpsr = (r.cpsr &^ 0x1F) | uint32(newMode)
	r.bankedSPSR[newMode] = savedCPSR
}
