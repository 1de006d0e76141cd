package stego

import "github.com/rs/zerolog/log"

// Info describes the header of a stego image without extracting the payload.
type Info struct {
	Found       bool
	Mode        Mode
	Encrypted   bool
	Length      int
	Extension   string
	UsableBytes int
	// MaxPayload is the capacity under the mode stored in the image.
	MaxPayload int
}

// Inspect reads the mode flag and header of buf. A marker mismatch yields an
// Info with Found unset; an out of range length yields ErrCorruptedHeader.
func (d *Decoder) Inspect(buf *PixelBuffer, key *CipherContext) (*Info, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	pc, err := d.cipherFor(key)
	if err != nil {
		return nil, err
	}

	info := &Info{
		Mode:        readModeFlag(buf.Pix),
		Encrypted:   pc != nil,
		UsableBytes: buf.UsableBytes(),
	}
	info.MaxPayload = MaxPayload(info.UsableBytes, info.Mode, headerSize)

	f, found, err := d.locate(buf, pc)
	if err != nil {
		return nil, err
	}
	if !found {
		return info, nil
	}

	info.Found = true
	info.Length = f.length
	info.Extension = f.extension
	info.MaxPayload = MaxPayload(info.UsableBytes, f.mode, f.overhead)

	log.Debug().Int("length", info.Length).Stringer("mode", info.Mode).Msg("Inspected header")
	return info, nil
}
