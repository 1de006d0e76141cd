package stego

import (
	"fmt"
	"strings"
)

// maxExtension bounds the in-band extension of the legacy layout.
const maxExtension = 255

func normalizeExtension(ext string) (string, error) {
	ext = strings.TrimPrefix(ext, ".")
	if len(ext) > maxExtension {
		return "", fmt.Errorf("%w: extension longer than %d bytes", ErrInvalidConfig, maxExtension)
	}
	if strings.IndexByte(ext, 0) >= 0 {
		return "", fmt.Errorf("%w: extension contains a NUL byte", ErrInvalidConfig)
	}
	return ext, nil
}

// writeExtension stores ext followed by a NUL terminator.
func writeExtension(buf *PixelBuffer, cur *Cursor, ext string, mode Mode) {
	for i := 0; i < len(ext); i++ {
		putByte(buf.Pix, cur, ext[i], mode)
	}
	putByte(buf.Pix, cur, 0, mode)
}

func readExtension(buf *PixelBuffer, cur *Cursor, mode Mode, usable int) (string, error) {
	budget := usable*int(mode)/8 - headerSize
	var sb strings.Builder
	for i := 0; i < budget && i <= maxExtension; i++ {
		c := getByte(buf.Pix, cur, mode)
		if c == 0 {
			return sb.String(), nil
		}
		sb.WriteByte(c)
	}
	return "", fmt.Errorf("%w: unterminated extension", ErrCorruptedHeader)
}
