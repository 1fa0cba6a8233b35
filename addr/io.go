// Package addr holds the fixed memory-mapped addresses of the GBA's
// I/O register file and bus regions, per spec.md §6.
package addr

// Bus region base addresses (spec.md §6).
const (
	BIOSBase    uint32 = 0x0000_0000
	BIOSEnd     uint32 = 0x0000_3FFF
	EWRAMBase   uint32 = 0x0200_0000
	EWRAMEnd    uint32 = 0x0203_FFFF
	IWRAMBase   uint32 = 0x0300_0000
	IWRAMEnd    uint32 = 0x0300_7FFF
	IOBase      uint32 = 0x0400_0000
	IOEnd       uint32 = 0x0400_03FE
	PaletteBase uint32 = 0x0500_0000
	PaletteEnd  uint32 = 0x0500_03FF
	VRAMBase    uint32 = 0x0600_0000
	VRAMEnd     uint32 = 0x0601_7FFF
	OAMBase     uint32 = 0x0700_0000
	OAMEnd      uint32 = 0x0700_03FF
	ROMBase     uint32 = 0x0800_0000
	ROMWS1Base  uint32 = 0x0A00_0000
	ROMWS2Base  uint32 = 0x0C00_0000
	ROMEnd      uint32 = 0x0DFF_FFFF
	BackupBase  uint32 = 0x0E00_0000
	BackupEnd   uint32 = 0x0E00_FFFF
)

// LCD I/O registers, byte offsets from IOBase.
const (
	DISPCNT  uint32 = 0x000
	DISPSTAT uint32 = 0x004
	VCOUNT   uint32 = 0x006
	BG0CNT   uint32 = 0x008
	BG1CNT   uint32 = 0x00A
	BG2CNT   uint32 = 0x00C
	BG3CNT   uint32 = 0x00E
	BG0HOFS  uint32 = 0x010
	BG0VOFS  uint32 = 0x012
	BG1HOFS  uint32 = 0x014
	BG1VOFS  uint32 = 0x016
	BG2HOFS  uint32 = 0x018
	BG2VOFS  uint32 = 0x01A
	BG3HOFS  uint32 = 0x01C
	BG3VOFS  uint32 = 0x01E
	BG2PA    uint32 = 0x020
	BG2PB    uint32 = 0x022
	BG2PC    uint32 = 0x024
	BG2PD    uint32 = 0x026
	BG2X     uint32 = 0x028
	BG2Y     uint32 = 0x02C
	BG3PA    uint32 = 0x030
	BG3PB    uint32 = 0x032
	BG3PC    uint32 = 0x034
	BG3PD    uint32 = 0x036
	BG3X     uint32 = 0x038
	BG3Y     uint32 = 0x03C
	WIN0H    uint32 = 0x040
	WIN1H    uint32 = 0x042
	WIN0V    uint32 = 0x044
	WIN1V    uint32 = 0x046
	WININ    uint32 = 0x048
	WINOUT   uint32 = 0x04A
	MOSAIC   uint32 = 0x04C
	BLDCNT   uint32 = 0x050
	BLDALPHA uint32 = 0x052
	BLDY     uint32 = 0x054
)

// Sound registers (coarse stub only, spec.md non-goals §1).
const (
	SOUNDCNT_L uint32 = 0x080
	SOUNDCNT_H uint32 = 0x082
	SOUNDCNT_X uint32 = 0x084
	FIFO_A     uint32 = 0x0A0
	FIFO_B     uint32 = 0x0A4
)

// DMA, timer, keypad, interrupt, system registers.
const (
	DMA0SAD  uint32 = 0x0B0
	DMA0DAD  uint32 = 0x0B4
	DMA0CNT  uint32 = 0x0B8
	DMA1SAD  uint32 = 0x0BC
	DMA1DAD  uint32 = 0x0C0
	DMA1CNT  uint32 = 0x0C4
	DMA2SAD  uint32 = 0x0C8
	DMA2DAD  uint32 = 0x0CC
	DMA2CNT  uint32 = 0x0D0
	DMA3SAD  uint32 = 0x0D4
	DMA3DAD  uint32 = 0x0D8
	DMA3CNT  uint32 = 0x0DC
	TM0CNT_L uint32 = 0x100
	TM0CNT_H uint32 = 0x102
	TM1CNT_L uint32 = 0x104
	TM1CNT_H uint32 = 0x106
	TM2CNT_L uint32 = 0x108
	TM2CNT_H uint32 = 0x10A
	TM3CNT_L uint32 = 0x10C
	TM3CNT_H uint32 = 0x10E
	KEYINPUT uint32 = 0x130
	KEYCNT   uint32 = 0x132
	IE       uint32 = 0x200
	IF       uint32 = 0x202
	WAITCNT  uint32 = 0x204
	IME      uint32 = 0x208
	HALTCNT  uint32 = 0x301
)

// DMAChannelBase returns the byte offset of DMA channel n's SAD register.
func DMAChannelBase(n int) uint32 { return DMA0SAD + uint32(12*n) }

// TimerChannelBase returns the byte offset of timer n's CNT_L register.
func TimerChannelBase(n int) uint32 { return TM0CNT_L + uint32(4*n) }

// Source is one of the 14 interrupt lines, bit-indexed into IE/IF (spec.md §4.2).
type Source uint16

const (
	VBlank Source = 1 << iota
	HBlank
	VCounterMatch
	Timer0
	Timer1
	Timer2
	Timer3
	Serial
	Dma0
	Dma1
	Dma2
	Dma3
	Keypad
	GamePak
)
