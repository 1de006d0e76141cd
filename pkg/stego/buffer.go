package stego

import "fmt"

// PixelBuffer is a channel-interleaved 8-bit pixel buffer borrowed from the
// image layer. Pix holds Width*Height*Channels bytes, row-major.
type PixelBuffer struct {
	Pix      []byte
	Width    int
	Height   int
	Channels int
}

// NewPixelBuffer allocates a zeroed buffer.
func NewPixelBuffer(width, height, channels int) *PixelBuffer {
	return &PixelBuffer{
		Pix:      make([]byte, width*height*channels),
		Width:    width,
		Height:   height,
		Channels: channels,
	}
}

// HasAlpha reports whether the last channel of every pixel is an alpha lane.
func (b *PixelBuffer) HasAlpha() bool {
	return b.Channels == 2 || b.Channels == 4
}

// lanes is the number of channels per pixel that may carry data.
func (b *PixelBuffer) lanes() int {
	if b.HasAlpha() {
		return b.Channels - 1
	}
	return b.Channels
}

// UsableBytes is the number of channel bytes available for embedding. The
// first byte is reserved for the mode flag.
func (b *PixelBuffer) UsableBytes() int {
	n := b.Width*b.Height*b.lanes() - 1
	if n < 0 {
		return 0
	}
	return n
}

func (b *PixelBuffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidBuffer)
	}
	if b.Channels < 1 || b.Channels > 4 {
		return fmt.Errorf("%w: %d channels (must be 1-4)", ErrInvalidBuffer, b.Channels)
	}
	if b.Width < 1 || b.Height < 1 {
		return fmt.Errorf("%w: empty image %dx%d", ErrInvalidBuffer, b.Width, b.Height)
	}
	if want := b.Width * b.Height * b.Channels; len(b.Pix) != want {
		return fmt.Errorf("%w: have %d bytes, want %d", ErrInvalidBuffer, len(b.Pix), want)
	}
	return nil
}

func (b *PixelBuffer) Clone() *PixelBuffer {
	c := *b
	c.Pix = append([]byte(nil), b.Pix...)
	return &c
}
