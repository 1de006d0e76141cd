package stego

import "testing"

func TestUint8BitManipulation(t *testing.T) {
	if got := setBitUint8(0, 2); got != 4 {
		t.Errorf("setBitUint8(0, 2) = %d; want 4", got)
	}

	if got := clearBitUint8(4, 2); got != 0 {
		t.Errorf("clearBitUint8(4, 2) = %d; want 0", got)
	}

	if got := getBitUint8(4, 2); got != 1 {
		t.Errorf("getBitUint8(4, 2) = %d; want 1", got)
	}
}

func TestPutGetByte(t *testing.T) {
	for _, mode := range []Mode{ModeOne, ModeTwo} {
		buf := NewPixelBuffer(4, 4, 3)
		for i := range buf.Pix {
			buf.Pix[i] = 0xAC
		}

		putByte(buf.Pix, NewCursor(buf), 0x5B, mode)

		if got := getByte(buf.Pix, NewCursor(buf), mode); got != 0x5B {
			t.Errorf("%v: read back %#x, want 0x5b", mode, got)
		}
		// Only the low mode bits of each touched byte may change.
		for i := 1; i <= mode.unitsPerByte(); i++ {
			if buf.Pix[i]&^mode.mask() != 0xAC&^mode.mask() {
				t.Errorf("%v: high bits of byte %d changed: %#x", mode, i, buf.Pix[i])
			}
		}
		if buf.Pix[0] != 0xAC || buf.Pix[mode.unitsPerByte()+1] != 0xAC {
			t.Errorf("%v: bytes outside the written range changed", mode)
		}
	}
}
