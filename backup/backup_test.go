package backup

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		rom  []byte
		want Kind
	}{
		{"no signature", []byte("just a rom"), KindNone},
		{"sram", []byte("prefix SRAM_V110 suffix"), KindSRAM},
		{"flash64k", []byte("prefix FLASH_V130 suffix"), KindFlash64K},
		{"flash128k", []byte("prefix FLASH1M_V102 suffix"), KindFlash128K},
		{"eeprom", []byte("prefix EEPROM_V120 suffix"), KindEEPROM},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.rom).Kind()
			if got != tt.want {
				t.Errorf("Detect().Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSRAM_ReadWriteRoundTrip(t *testing.T) {
	s := NewSRAM()
	s.Write(0x10, 0x42)
	if got := s.Read(0x10); got != 0x42 {
		t.Errorf("Read() = %#x, want 0x42", got)
	}
}

func TestFlash_ProgramByte(t *testing.T) {
	f := NewFlash(false)
	f.Write(0x5555, 0xAA)
	f.Write(0x2AAA, 0x55)
	f.Write(0x5555, 0xA0)
	f.Write(0x100, 0x55)

	if got := f.Read(0x100); got != 0x55 {
		t.Errorf("Read() = %#x, want 0x55", got)
	}
}

func TestFlash_SectorErase(t *testing.T) {
	f := NewFlash(false)
	f.Write(0x5555, 0xAA)
	f.Write(0x2AAA, 0x55)
	f.Write(0x5555, 0xA0)
	f.Write(0x100, 0x00)

	f.Write(0x5555, 0xAA)
	f.Write(0x2AAA, 0x55)
	f.Write(0x5555, 0x80)
	f.Write(0x5555, 0xAA)
	f.Write(0x2AAA, 0x55)
	f.Write(0x0000, 0x30)

	if got := f.Read(0x100); got != 0xFF {
		t.Errorf("Read() after sector erase = %#x, want 0xFF", got)
	}
}

func TestFlash_ChipID(t *testing.T) {
	f := NewFlash(true)
	f.Write(0x5555, 0xAA)
	f.Write(0x2AAA, 0x55)
	f.Write(0x5555, 0x90)

	if got := f.Read(0); got != manufacturerID {
		t.Errorf("Read(0) = %#x, want manufacturer id", got)
	}
	if got := f.Read(1); got != deviceID128K {
		t.Errorf("Read(1) = %#x, want 128K device id", got)
	}
}

func TestEEPROM_WriteThenReadRoundTrip(t *testing.T) {
	e := NewEEPROM(false)

	// write request: "10", then 6 address bits (addr=3), then 64 data
	// bits (alternating 0/1 for a simple distinguishable pattern), then stop bit.
	bits := append([]uint8{1, 0}, addrBits(3, 6)...)
	var dataPattern [64]uint8
	for i := range dataPattern {
		dataPattern[i] = uint8(i % 2)
	}
	bits = append(bits, dataPattern[:]...)
	bits = append(bits, 0) // stop

	for _, b := range bits {
		e.Write(0, b)
	}

	// read request: "11" then address bits then stop bit.
	readBits := append([]uint8{1, 1}, addrBits(3, 6)...)
	readBits = append(readBits, 0)
	for _, b := range readBits {
		e.Write(0, b)
	}

	// first 4 bits out are dummy zeros, then 64 data bits echo the pattern.
	for i := 0; i < 4; i++ {
		if got := e.Read(0); got != 0 {
			t.Fatalf("dummy bit %d = %d, want 0", i, got)
		}
	}
	for i, want := range dataPattern {
		if got := e.Read(0); got != want {
			t.Fatalf("data bit %d = %d, want %d", i, got, want)
		}
	}
}

func addrBits(addr, width int) []uint8 {
	out := make([]uint8, width)
	for i := 0; i < width; i++ {
		out[width-1-i] = uint8((addr >> uint(i)) & 1)
	}
	return out
}
