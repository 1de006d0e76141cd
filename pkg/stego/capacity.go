package stego

import "fmt"

// Mode is the number of least significant bits used per channel byte.
type Mode uint8

const (
	ModeOne Mode = 1
	ModeTwo Mode = 2
)

// Flag is the value stored in bit 0 of the first pixel byte.
func (m Mode) Flag() uint8 {
	return uint8(m) - 1
}

func (m Mode) mask() byte {
	return byte(1)<<m - 1
}

// unitsPerByte is how many channel bytes one payload byte occupies.
func (m Mode) unitsPerByte() int {
	return 8 / int(m)
}

func (m Mode) String() string {
	switch m {
	case ModeOne:
		return "1-bit"
	case ModeTwo:
		return "2-bit"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

func modeFromFlag(flag uint8) Mode {
	return Mode(flag&1) + 1
}

// MaxPayload is the largest payload, in bytes, that fits in usableBytes channel
// bytes under mode when overhead bytes precede it in the stream.
func MaxPayload(usableBytes int, mode Mode, overhead int) int {
	n := usableBytes*int(mode)/8 - overhead
	if n < 0 {
		return 0
	}
	return n
}

// SelectMode picks the smallest mode able to hold payloadSize bytes plus
// overhead. It fails before anything is written when neither mode fits.
func SelectMode(payloadSize, usableBytes, overhead int) (Mode, error) {
	needed := 8 * (overhead + payloadSize)
	for _, m := range []Mode{ModeOne, ModeTwo} {
		if needed <= usableBytes*int(m) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: need %d bytes, at most %d fit", ErrCapacityExceeded,
		payloadSize, MaxPayload(usableBytes, ModeTwo, overhead))
}

// Capacity reports the maximum canonical payload size for both modes.
func Capacity(buf *PixelBuffer) (modeOne, modeTwo int) {
	usable := buf.UsableBytes()
	return MaxPayload(usable, ModeOne, headerSize), MaxPayload(usable, ModeTwo, headerSize)
}
