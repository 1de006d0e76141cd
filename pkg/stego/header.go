package stego

import (
	"encoding/binary"
	"fmt"
)

// Header precedes the payload in the stream: an 8-byte marker followed by the
// little-endian payload length. It is exactly one AES block.
type Header struct {
	Marker [markerSize]byte
	Length uint64
}

func (h Header) MarshalBinary() ([]byte, error) {
	data := make([]byte, headerSize)
	copy(data, h.Marker[:])
	binary.LittleEndian.PutUint64(data[markerSize:], h.Length)
	return data, nil
}

func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) != headerSize {
		return fmt.Errorf("header must be %d bytes, got %d", headerSize, len(data))
	}
	copy(h.Marker[:], data[:markerSize])
	h.Length = binary.LittleEndian.Uint64(data[markerSize:])
	return nil
}

func writeModeFlag(pix []byte, mode Mode) {
	if mode.Flag() == 0 {
		pix[0] = clearBitUint8(pix[0], 0)
	} else {
		pix[0] = setBitUint8(pix[0], 0)
	}
}

func readModeFlag(pix []byte) Mode {
	return modeFromFlag(uint8(getBitUint8(pix[0], 0)))
}

// writeHeader stores the mode flag and the (possibly sealed) header block and
// returns the cursor positioned after it.
func writeHeader(buf *PixelBuffer, block []byte, mode Mode) *Cursor {
	writeModeFlag(buf.Pix, mode)
	cur := NewCursor(buf)
	for _, b := range block {
		putByte(buf.Pix, cur, b, mode)
	}
	return cur
}

// readHeader returns the raw header block, the mode it was written with and
// the cursor after it. ok is false when the buffer cannot even hold a header.
func readHeader(buf *PixelBuffer) (block []byte, mode Mode, cur *Cursor, ok bool) {
	mode = readModeFlag(buf.Pix)
	if buf.UsableBytes()*int(mode) < headerSize*8 {
		return nil, mode, nil, false
	}
	cur = NewCursor(buf)
	block = make([]byte, headerSize)
	for i := range block {
		block[i] = getByte(buf.Pix, cur, mode)
	}
	return block, mode, cur, true
}
