package stego

// Cursor walks the physical byte offsets of a pixel buffer that may carry
// data. Offsets are strictly increasing and the alpha lane is never emitted.
type Cursor struct {
	pos      int
	channels int
	hasAlpha bool
}

// NewCursor returns a cursor positioned on the first data byte, right after
// the mode flag in byte 0.
func NewCursor(buf *PixelBuffer) *Cursor {
	return &Cursor{pos: 1, channels: buf.Channels, hasAlpha: buf.HasAlpha()}
}

// CursorAt returns a cursor whose next offset is the physical byte holding
// logical unit `units`, counted from the first data byte. It is computed from
// the channel layout alone so that workers can start independently.
func CursorAt(buf *PixelBuffer, units int) *Cursor {
	c := NewCursor(buf)
	c.pos = slotOffset(units+1, buf.Channels, buf.HasAlpha())
	return c
}

// slotOffset maps the j-th non-alpha byte of the buffer to its offset.
func slotOffset(j, channels int, hasAlpha bool) int {
	if !hasAlpha {
		return j
	}
	lanes := channels - 1
	return j/lanes*channels + j%lanes
}

// Next returns the offset to use and advances by one byte.
func (c *Cursor) Next() int {
	if c.hasAlpha && c.pos%c.channels == c.channels-1 {
		c.pos++
	}
	p := c.pos
	c.pos++
	return p
}

// Pos is the next physical offset to be considered, before any alpha skip.
func (c *Cursor) Pos() int {
	return c.pos
}
