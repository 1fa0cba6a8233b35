package input

import "testing"

func TestPressClearsBit_ReleaseSetsBit(t *testing.T) {
	k := New()

	if k.state&(1<<KeyA) == 0 {
		t.Fatalf("KeyA bit should start released (set)")
	}

	k.Press(KeyA)
	if k.state&(1<<KeyA) != 0 {
		t.Errorf("KeyA bit should clear to 0 when pressed")
	}

	k.Release(KeyA)
	if k.state&(1<<KeyA) == 0 {
		t.Errorf("KeyA bit should set back to 1 when released")
	}
}

func TestKeyCnt_ORModeFiresOnAnySelectedKey(t *testing.T) {
	k := New()
	fired := false
	k.RequestIRQ = func() { fired = true }

	k.keycnt = (1 << 14) | (1 << uint(KeyA)) // IRQ enable, OR mode, select A
	k.Press(KeyA)

	if !fired {
		t.Errorf("expected IRQ request when selected key pressed in OR mode")
	}
}

func TestKeyCnt_ANDModeRequiresAllSelectedKeys(t *testing.T) {
	k := New()
	fired := false
	k.RequestIRQ = func() { fired = true }

	k.keycnt = (1 << 15) | (1 << 14) | (1 << uint(KeyA)) | (1 << uint(KeyB))
	k.Press(KeyA)
	if fired {
		t.Fatalf("should not fire until both selected keys are pressed")
	}
	k.Press(KeyB)
	if !fired {
		t.Errorf("expected IRQ once both selected keys are pressed in AND mode")
	}
}
