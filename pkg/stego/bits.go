package stego

func getBitUint8(num uint8, index int) int {
	mask := uint8(1 << index)
	if num&mask == 0 {
		return 0
	}
	return 1
}

func setBitUint8(num uint8, index int) uint8 {
	mask := uint8(1 << index)
	return num | mask
}

func clearBitUint8(num uint8, index int) uint8 {
	mask := uint8(^(1 << index))
	return num & mask
}

// putByte spreads b over the next 8/mode physical bytes, lowest bits first.
func putByte(pix []byte, cur *Cursor, b byte, mode Mode) {
	mask := mode.mask()
	for shift := 0; shift < 8; shift += int(mode) {
		i := cur.Next()
		pix[i] = pix[i]&^mask | (b>>shift)&mask
	}
}

func getByte(pix []byte, cur *Cursor, mode Mode) byte {
	mask := mode.mask()
	var b byte
	for shift := 0; shift < 8; shift += int(mode) {
		b |= (pix[cur.Next()] & mask) << shift
	}
	return b
}
