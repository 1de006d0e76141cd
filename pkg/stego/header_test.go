package stego

import (
	"bytes"
	"testing"
)

func TestHeaderLayout(t *testing.T) {
	h := Header{Length: 0x0102030405060708}
	copy(h.Marker[:], DefaultMarker)

	data, err := h.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	want := append([]byte(DefaultMarker), 0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01)
	if !bytes.Equal(data, want) {
		t.Errorf("MarshalBinary() = %x, want %x", data, want)
	}

	var got Header
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}
	if got != h {
		t.Errorf("UnmarshalBinary() = %+v, want %+v", got, h)
	}

	if err := got.UnmarshalBinary(data[:10]); err == nil {
		t.Error("Expected error for a short header, got nil")
	}
}

func TestModeFlagPreservesHighBits(t *testing.T) {
	pix := []byte{0xFE}
	writeModeFlag(pix, ModeTwo)
	if pix[0] != 0xFF {
		t.Errorf("ModeTwo flag: got %#x, want 0xff", pix[0])
	}
	if readModeFlag(pix) != ModeTwo {
		t.Errorf("readModeFlag() = %v, want ModeTwo", readModeFlag(pix))
	}

	writeModeFlag(pix, ModeOne)
	if pix[0] != 0xFE {
		t.Errorf("ModeOne flag: got %#x, want 0xfe", pix[0])
	}
	if readModeFlag(pix) != ModeOne {
		t.Errorf("readModeFlag() = %v, want ModeOne", readModeFlag(pix))
	}
}

func TestHeaderBlockRoundTrip(t *testing.T) {
	for _, mode := range []Mode{ModeOne, ModeTwo} {
		buf := NewPixelBuffer(20, 20, 4)
		block := []byte("0123456789abcdef")

		end := writeHeader(buf, block, mode)

		got, gotMode, cur, ok := readHeader(buf)
		if !ok {
			t.Fatalf("%v: readHeader reported no room for a header", mode)
		}
		if gotMode != mode {
			t.Errorf("mode = %v, want %v", gotMode, mode)
		}
		if !bytes.Equal(got, block) {
			t.Errorf("%v: block = %q, want %q", mode, got, block)
		}
		if cur.Pos() != end.Pos() {
			t.Errorf("%v: read cursor at %d, write cursor at %d", mode, cur.Pos(), end.Pos())
		}
		// The header ends where the closed-form cursor says the payload starts.
		if next, want := cur.Next(), CursorAt(buf, headerSize*mode.unitsPerByte()).Next(); next != want {
			t.Errorf("%v: payload starts at %d, CursorAt says %d", mode, next, want)
		}
	}
}

func TestSealedHeader(t *testing.T) {
	key := &CipherContext{Key: bytes.Repeat([]byte{7}, 32), IV: bytes.Repeat([]byte{9}, 16)}
	pc, err := newPayloadCipher(key)
	if err != nil {
		t.Fatalf("newPayloadCipher failed: %v", err)
	}

	plain, _ := Header{Marker: [8]byte{'M', 'S', 'G', 'S', 'T', 'A', 'R', 'T'}, Length: 42}.MarshalBinary()
	sealed := pc.sealHeader(plain)
	if bytes.Equal(sealed, plain) {
		t.Fatal("sealHeader returned the plaintext")
	}
	if bytes.Contains(sealed, []byte("MSG")) {
		t.Error("sealed header leaks the marker")
	}
	if opened := pc.openHeader(sealed); !bytes.Equal(opened, plain) {
		t.Errorf("openHeader() = %x, want %x", opened, plain)
	}
}
