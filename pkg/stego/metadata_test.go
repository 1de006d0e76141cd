package stego

import (
	"errors"
	"testing"
)

func TestInspect(t *testing.T) {
	buf := randomBuffer(t, 50, 50, 3)
	key := testKey(t, 16)
	enc, dec := mustCodec(t, DefaultConfig())

	one, _ := Capacity(buf)
	size := one + 10
	if _, err := enc.Encode(buf, Payload{Data: randomBytes(t, size)}, key); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	info, err := dec.Inspect(buf, key)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if !info.Found {
		t.Fatal("Expected header to be found")
	}
	if info.Mode != ModeTwo {
		t.Errorf("Mode = %v, want ModeTwo", info.Mode)
	}
	if info.Length != size {
		t.Errorf("Length = %d, want %d", info.Length, size)
	}
	if !info.Encrypted {
		t.Error("Expected Encrypted to be set")
	}
	if info.UsableBytes != buf.UsableBytes() {
		t.Errorf("UsableBytes = %d, want %d", info.UsableBytes, buf.UsableBytes())
	}
	if want := MaxPayload(buf.UsableBytes(), ModeTwo, headerSize); info.MaxPayload != want {
		t.Errorf("MaxPayload = %d, want %d", info.MaxPayload, want)
	}

	info, err = dec.Inspect(buf, nil)
	if err != nil {
		t.Fatalf("Inspect without key failed: %v", err)
	}
	if info.Found {
		t.Error("Header should not be readable without the key")
	}
}

func TestInspectCorruptedHeader(t *testing.T) {
	buf := randomBuffer(t, 20, 20, 1)
	h := Header{Length: 1 << 32}
	copy(h.Marker[:], DefaultMarker)
	block, _ := h.MarshalBinary()
	writeHeader(buf, block, ModeTwo)

	_, dec := mustCodec(t, DefaultConfig())
	if _, err := dec.Inspect(buf, nil); !errors.Is(err, ErrCorruptedHeader) {
		t.Errorf("Inspect error = %v, want ErrCorruptedHeader", err)
	}
}
