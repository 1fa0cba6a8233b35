package terminal

import "testing"

func TestShadeIndex_WhiteIsLightest(t *testing.T) {
	if got := shadeIndex(0xFFFFFFFF); got != 3 {
		t.Errorf("shadeIndex(white) = %d, want 3", got)
	}
}

func TestShadeIndex_BlackIsDarkest(t *testing.T) {
	if got := shadeIndex(0xFF000000); got != 0 {
		t.Errorf("shadeIndex(black) = %d, want 0", got)
	}
}

func TestShadeIndex_ClampsToRange(t *testing.T) {
	for px := uint32(0); px <= 0xFFFFFF; px += 0x111111 {
		if s := shadeIndex(px); s < 0 || s > 3 {
			t.Fatalf("shadeIndex(%#x) = %d, out of [0,3]", px, s)
		}
	}
}
