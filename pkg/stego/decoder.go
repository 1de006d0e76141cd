package stego

import (
	"bytes"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Result is the outcome of a decode. Found is false when the image carries no
// payload under the configured marker and key; that is not an error.
type Result struct {
	Found     bool
	Payload   []byte
	Extension string
	Mode      Mode
	Encrypted bool
}

type Decoder struct {
	cfg Config
}

func NewDecoder(cfg Config) (*Decoder, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	return &Decoder{cfg: cfg}, nil
}

// frame describes a located payload.
type frame struct {
	mode      Mode
	length    int
	extension string
	overhead  int
}

func (d *Decoder) cipherFor(key *CipherContext) (*payloadCipher, error) {
	if key == nil {
		return nil, nil
	}
	if d.cfg.Legacy {
		return nil, fmt.Errorf("%w: the legacy layout cannot be encrypted", ErrInvalidConfig)
	}
	return newPayloadCipher(key)
}

// locate reads and validates the header. found is false on a marker mismatch.
func (d *Decoder) locate(buf *PixelBuffer, pc *payloadCipher) (f frame, found bool, err error) {
	block, mode, cur, ok := readHeader(buf)
	if !ok {
		return f, false, nil
	}
	if pc != nil {
		block = pc.openHeader(block)
	}

	var h Header
	if err := h.UnmarshalBinary(block); err != nil {
		return f, false, err
	}
	marker := d.cfg.marker()
	if !bytes.Equal(h.Marker[:], marker[:]) {
		return f, false, nil
	}

	f = frame{mode: mode, overhead: headerSize}
	usable := buf.UsableBytes()
	if d.cfg.Legacy {
		if f.extension, err = readExtension(buf, cur, mode, usable); err != nil {
			return f, true, err
		}
		f.overhead += len(f.extension) + 1
	}

	limit := MaxPayload(usable, mode, f.overhead)
	if h.Length < 1 || h.Length > uint64(limit) {
		return f, true, fmt.Errorf("%w: length %d, capacity %d", ErrCorruptedHeader, h.Length, limit)
	}
	f.length = int(h.Length)
	return f, true, nil
}

// Decode recovers the payload hidden in buf, decrypting it when key is
// non-nil. The buffer is only read.
func (d *Decoder) Decode(buf *PixelBuffer, key *CipherContext) (Result, error) {
	if err := buf.Validate(); err != nil {
		return Result{}, err
	}
	pc, err := d.cipherFor(key)
	if err != nil {
		return Result{}, err
	}

	f, found, err := d.locate(buf, pc)
	if err != nil {
		return Result{}, err
	}
	if !found {
		log.Debug().Msg("Marker not found")
		return Result{}, nil
	}

	log.Debug().
		Stringer("mode", f.mode).
		Int("length", f.length).
		Str("extension", f.extension).
		Msg("Decoded header")

	out := make([]byte, f.length)
	chunks := schedule(f.length, d.cfg.Workers, pc != nil, f.overhead, f.mode)
	dispatch(chunks, func(c Chunk) {
		dst := out[c.Start:c.End]
		cur := CursorAt(buf, c.Unit)
		for i := range dst {
			dst[i] = getByte(buf.Pix, cur, f.mode)
		}
		if pc != nil {
			pc.streamAt(c.Blocks).XORKeyStream(dst, dst)
		}
		d.cfg.report(c.Len())
	})

	return Result{
		Found:     true,
		Payload:   out,
		Extension: f.extension,
		Mode:      f.mode,
		Encrypted: pc != nil,
	}, nil
}
